package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
)

var ErrLocalCredentialNotFound = errors.New("local credential not found")

type LocalCredentialRepository interface {
	Create(cred *domain.LocalCredential) error
	FindByUserID(userID uint) (*domain.LocalCredential, error)
	WithTx(tx *gorm.DB) LocalCredentialRepository
}

type gormLocalCredentialRepository struct {
	db *gorm.DB
}

func NewLocalCredentialRepository(db *gorm.DB) LocalCredentialRepository {
	return &gormLocalCredentialRepository{db: db}
}

func (r *gormLocalCredentialRepository) WithTx(tx *gorm.DB) LocalCredentialRepository {
	return &gormLocalCredentialRepository{db: tx}
}

func (r *gormLocalCredentialRepository) Create(cred *domain.LocalCredential) error {
	return r.db.Create(cred).Error
}

func (r *gormLocalCredentialRepository) FindByUserID(userID uint) (*domain.LocalCredential, error) {
	var cred domain.LocalCredential
	if err := r.db.Where("user_id = ?", userID).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocalCredentialNotFound
		}
		return nil, err
	}
	return &cred, nil
}
