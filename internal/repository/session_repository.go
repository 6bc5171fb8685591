package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(session *domain.Session) error
	FindActiveByHash(hash string, now time.Time) (*domain.Session, error)
	RevokeByHash(hash string, now time.Time) error
	RevokeByUserID(userID uint, now time.Time) (int64, error)
	CleanupExpired(now time.Time) (int64, error)
}

type gormSessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{db: db}
}

func (r *gormSessionRepository) Create(session *domain.Session) error {
	return r.db.Create(session).Error
}

func (r *gormSessionRepository) FindActiveByHash(hash string, now time.Time) (*domain.Session, error) {
	var session domain.Session
	err := r.db.
		Where("refresh_token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *gormSessionRepository) RevokeByHash(hash string, now time.Time) error {
	res := r.db.Model(&domain.Session{}).
		Where("refresh_token_hash = ? AND revoked_at IS NULL", hash).
		Updates(map[string]interface{}{"revoked_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *gormSessionRepository) RevokeByUserID(userID uint, now time.Time) (int64, error) {
	res := r.db.Model(&domain.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]interface{}{"revoked_at": now, "updated_at": now})
	return res.RowsAffected, res.Error
}

func (r *gormSessionRepository) CleanupExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}
