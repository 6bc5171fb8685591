package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
)

var ErrExpenseNotFound = errors.New("expense not found")

type ExpenseListQuery struct {
	PageRequest
	SortBy    string
	SortOrder string

	Category       string
	Currency       string
	FromDate       *time.Time
	ToDate         *time.Time
	MinAmountCents *int64
	MaxAmountCents *int64
}

type CategoryTotal struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"total_cents"`
	Count      int64  `json:"count"`
}

type DailyTotal struct {
	ExpenseDate time.Time `json:"expense_date"`
	TotalCents  int64     `json:"total_cents"`
}

type MonthlySummary struct {
	TotalCents int64           `json:"total_cents"`
	Count      int64           `json:"count"`
	ByCategory []CategoryTotal `json:"by_category"`
	Timeline   []DailyTotal    `json:"timeline"`
}

type ExpenseRepository interface {
	Create(expense *domain.Expense) error
	FindByIDForUser(userID uint, id uuid.UUID) (*domain.Expense, error)
	ListPaged(userID uint, q ExpenseListQuery) (PageResult[domain.Expense], error)
	// ListFiltered returns the full filtered set in a stable order, for
	// CSV export.
	ListFiltered(userID uint, q ExpenseListQuery) ([]domain.Expense, error)
	Update(expense *domain.Expense) error
	DeleteByIDForUser(userID uint, id uuid.UUID) error
	SummaryByMonth(userID uint, monthStart, monthEnd time.Time) (*MonthlySummary, error)
}

type gormExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &gormExpenseRepository{db: db}
}

func (r *gormExpenseRepository) Create(expense *domain.Expense) error {
	return r.db.Create(expense).Error
}

func (r *gormExpenseRepository) FindByIDForUser(userID uint, id uuid.UUID) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *gormExpenseRepository) ListPaged(userID uint, q ExpenseListQuery) (PageResult[domain.Expense], error) {
	page := normalizePageRequest(q.PageRequest)
	base := r.filtered(userID, q)

	var total int64
	if err := base.Model(&domain.Expense{}).Count(&total).Error; err != nil {
		return PageResult[domain.Expense]{}, err
	}

	var items []domain.Expense
	err := base.
		Order(expenseSortClause(q.SortBy, q.SortOrder)).
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&items).Error
	if err != nil {
		return PageResult[domain.Expense]{}, err
	}

	return PageResult[domain.Expense]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}

func (r *gormExpenseRepository) ListFiltered(userID uint, q ExpenseListQuery) ([]domain.Expense, error) {
	var items []domain.Expense
	err := r.filtered(userID, q).
		Order("expense_date DESC, created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *gormExpenseRepository) Update(expense *domain.Expense) error {
	res := r.db.Model(&domain.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]interface{}{
			"title":        expense.Title,
			"amount_cents": expense.AmountCents,
			"currency":     expense.Currency,
			"category":     expense.Category,
			"expense_date": expense.ExpenseDate,
			"notes":        expense.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *gormExpenseRepository) DeleteByIDForUser(userID uint, id uuid.UUID) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *gormExpenseRepository) SummaryByMonth(userID uint, monthStart, monthEnd time.Time) (*MonthlySummary, error) {
	scope := func() *gorm.DB {
		q := r.db.Model(&domain.Expense{}).Where("user_id = ?", userID)
		if !monthStart.IsZero() {
			q = q.Where("expense_date >= ? AND expense_date < ?", monthStart, monthEnd)
		}
		return q
	}

	summary := &MonthlySummary{}
	type totalRow struct {
		Total int64
		Count int64
	}
	var totals totalRow
	err := scope().
		Select("COALESCE(SUM(amount_cents), 0) AS total, COUNT(*) AS count").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	summary.TotalCents = totals.Total
	summary.Count = totals.Count

	err = scope().
		Select("category, COALESCE(SUM(amount_cents), 0) AS total_cents, COUNT(*) AS count").
		Group("category").
		Order("total_cents DESC").
		Scan(&summary.ByCategory).Error
	if err != nil {
		return nil, err
	}

	err = scope().
		Select("expense_date, COALESCE(SUM(amount_cents), 0) AS total_cents").
		Group("expense_date").
		Order("expense_date ASC").
		Scan(&summary.Timeline).Error
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *gormExpenseRepository) filtered(userID uint, q ExpenseListQuery) *gorm.DB {
	db := r.db.Where("user_id = ?", userID)
	if q.Category != "" {
		db = db.Where("LOWER(category) = LOWER(?)", q.Category)
	}
	if q.Currency != "" {
		db = db.Where("UPPER(currency) = UPPER(?)", q.Currency)
	}
	if q.FromDate != nil {
		db = db.Where("expense_date >= ?", *q.FromDate)
	}
	if q.ToDate != nil {
		db = db.Where("expense_date <= ?", *q.ToDate)
	}
	if q.MinAmountCents != nil {
		db = db.Where("amount_cents >= ?", *q.MinAmountCents)
	}
	if q.MaxAmountCents != nil {
		db = db.Where("amount_cents <= ?", *q.MaxAmountCents)
	}
	return db
}

func expenseSortClause(sortBy, sortOrder string) string {
	column := "expense_date"
	switch sortBy {
	case "amount":
		column = "amount_cents"
	case "created_at":
		column = "created_at"
	case "expense_date", "":
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
