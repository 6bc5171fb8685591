package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense amounts are stored as integer minor units (cents) to keep
// aggregation exact.
type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint      `gorm:"index:idx_expense_user_date;index:idx_expense_user_category;not null" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Currency    string    `gorm:"size:3;not null;default:USD" json:"currency"`
	Category    string    `gorm:"size:100;index:idx_expense_user_category" json:"category,omitempty"`
	ExpenseDate time.Time `gorm:"type:date;index:idx_expense_user_date;not null" json:"expense_date"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *Expense) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
