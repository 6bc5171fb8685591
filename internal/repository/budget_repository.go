package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
)

var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetCategoryTaken = errors.New("budget category already exists for user")
)

type BudgetRepository interface {
	Create(budget *domain.Budget) error
	FindByIDForUser(userID uint, id uuid.UUID) (*domain.Budget, error)
	ListByUser(userID uint) ([]domain.Budget, error)
	Update(budget *domain.Budget) error
	DeleteByIDForUser(userID uint, id uuid.UUID) error
}

type gormBudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &gormBudgetRepository{db: db}
}

func (r *gormBudgetRepository) Create(budget *domain.Budget) error {
	if err := r.db.Create(budget).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrBudgetCategoryTaken
		}
		return err
	}
	return nil
}

func (r *gormBudgetRepository) FindByIDForUser(userID uint, id uuid.UUID) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (r *gormBudgetRepository) ListByUser(userID uint) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := r.db.Where("user_id = ?", userID).Order("category ASC").Find(&budgets).Error
	return budgets, err
}

func (r *gormBudgetRepository) Update(budget *domain.Budget) error {
	res := r.db.Model(&domain.Budget{}).
		Where("id = ? AND user_id = ?", budget.ID, budget.UserID).
		Updates(map[string]interface{}{
			"category":     budget.Category,
			"amount_cents": budget.AmountCents,
			"currency":     budget.Currency,
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrBudgetCategoryTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (r *gormBudgetRepository) DeleteByIDForUser(userID uint, id uuid.UUID) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Budget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
