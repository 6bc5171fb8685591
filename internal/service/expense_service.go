package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
)

var ErrInvalidExpense = errors.New("invalid expense")

type ExpenseInput struct {
	Title       string
	AmountCents int64
	Currency    string
	Category    string
	ExpenseDate time.Time
	Notes       string
}

type ExpenseServiceInterface interface {
	Create(userID uint, input ExpenseInput) (*domain.Expense, error)
	Get(userID uint, id uuid.UUID) (*domain.Expense, error)
	List(userID uint, q repository.ExpenseListQuery) (repository.PageResult[domain.Expense], error)
	Update(userID uint, id uuid.UUID, input ExpenseInput) (*domain.Expense, error)
	Delete(userID uint, id uuid.UUID) error
	Summary(userID uint, month string) (*repository.MonthlySummary, error)
	ExportCSV(w io.Writer, userID uint, q repository.ExpenseListQuery) error
}

type ExpenseService struct {
	expenses repository.ExpenseRepository
}

func NewExpenseService(expenses repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

func (s *ExpenseService) Create(userID uint, input ExpenseInput) (*domain.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}
	expense := &domain.Expense{
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		AmountCents: input.AmountCents,
		Currency:    normalizeCurrency(input.Currency),
		Category:    strings.TrimSpace(input.Category),
		ExpenseDate: input.ExpenseDate,
		Notes:       input.Notes,
	}
	if err := s.expenses.Create(expense); err != nil {
		return nil, fmt.Errorf("persist expense: %w", err)
	}
	return expense, nil
}

func (s *ExpenseService) Get(userID uint, id uuid.UUID) (*domain.Expense, error) {
	return s.expenses.FindByIDForUser(userID, id)
}

func (s *ExpenseService) List(userID uint, q repository.ExpenseListQuery) (repository.PageResult[domain.Expense], error) {
	return s.expenses.ListPaged(userID, q)
}

func (s *ExpenseService) Update(userID uint, id uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}
	expense := &domain.Expense{
		ID:          id,
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		AmountCents: input.AmountCents,
		Currency:    normalizeCurrency(input.Currency),
		Category:    strings.TrimSpace(input.Category),
		ExpenseDate: input.ExpenseDate,
		Notes:       input.Notes,
	}
	if err := s.expenses.Update(expense); err != nil {
		return nil, err
	}
	return s.expenses.FindByIDForUser(userID, id)
}

func (s *ExpenseService) Delete(userID uint, id uuid.UUID) error {
	return s.expenses.DeleteByIDForUser(userID, id)
}

// Summary aggregates one calendar month (YYYY-MM), or the whole history
// when month is empty.
func (s *ExpenseService) Summary(userID uint, month string) (*repository.MonthlySummary, error) {
	var monthStart, monthEnd time.Time
	if month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, ErrInvalidMonth
		}
		monthStart = parsed
		monthEnd = parsed.AddDate(0, 1, 0)
	}
	return s.expenses.SummaryByMonth(userID, monthStart, monthEnd)
}

func (s *ExpenseService) ExportCSV(w io.Writer, userID uint, q repository.ExpenseListQuery) error {
	expenses, err := s.expenses.ListFiltered(userID, q)
	if err != nil {
		return fmt.Errorf("load expenses for export: %w", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "Date", "Title", "Amount", "Currency", "Category", "Notes"}); err != nil {
		return err
	}
	for _, e := range expenses {
		record := []string{
			e.ID.String(),
			e.ExpenseDate.Format("2006-01-02"),
			e.Title,
			formatCents(e.AmountCents),
			e.Currency,
			e.Category,
			e.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func validateExpenseInput(input ExpenseInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidExpense)
	}
	if input.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if len(normalizeCurrency(input.Currency)) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidExpense)
	}
	if input.ExpenseDate.IsZero() {
		return fmt.Errorf("%w: expense_date is required", ErrInvalidExpense)
	}
	return nil
}

func normalizeCurrency(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		c = "USD"
	}
	return c
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
}
