package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
)

var ErrInvalidBudget = errors.New("invalid budget")

type BudgetInput struct {
	Category    string
	AmountCents int64
	Currency    string
}

type BudgetServiceInterface interface {
	Create(userID uint, input BudgetInput) (*domain.Budget, error)
	Get(userID uint, id uuid.UUID) (*domain.Budget, error)
	List(userID uint) ([]domain.Budget, error)
	Update(userID uint, id uuid.UUID, input BudgetInput) (*domain.Budget, error)
	Delete(userID uint, id uuid.UUID) error
}

type BudgetService struct {
	budgets repository.BudgetRepository
}

func NewBudgetService(budgets repository.BudgetRepository) *BudgetService {
	return &BudgetService{budgets: budgets}
}

func (s *BudgetService) Create(userID uint, input BudgetInput) (*domain.Budget, error) {
	if err := validateBudgetInput(input); err != nil {
		return nil, err
	}
	budget := &domain.Budget{
		UserID:      userID,
		Category:    strings.TrimSpace(input.Category),
		AmountCents: input.AmountCents,
		Currency:    normalizeCurrency(input.Currency),
	}
	if err := s.budgets.Create(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) Get(userID uint, id uuid.UUID) (*domain.Budget, error) {
	return s.budgets.FindByIDForUser(userID, id)
}

func (s *BudgetService) List(userID uint) ([]domain.Budget, error) {
	return s.budgets.ListByUser(userID)
}

func (s *BudgetService) Update(userID uint, id uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	if err := validateBudgetInput(input); err != nil {
		return nil, err
	}
	budget := &domain.Budget{
		ID:          id,
		UserID:      userID,
		Category:    strings.TrimSpace(input.Category),
		AmountCents: input.AmountCents,
		Currency:    normalizeCurrency(input.Currency),
	}
	if err := s.budgets.Update(budget); err != nil {
		return nil, err
	}
	return s.budgets.FindByIDForUser(userID, id)
}

func (s *BudgetService) Delete(userID uint, id uuid.UUID) error {
	return s.budgets.DeleteByIDForUser(userID, id)
}

func validateBudgetInput(input BudgetInput) error {
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidBudget)
	}
	if input.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBudget)
	}
	if len(normalizeCurrency(input.Currency)) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidBudget)
	}
	return nil
}
