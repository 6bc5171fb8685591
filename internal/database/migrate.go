package database

import (
	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.LocalCredential{},
		&domain.VerificationToken{},
		&domain.Session{},
		&domain.Expense{},
		&domain.Budget{},
	)
}
