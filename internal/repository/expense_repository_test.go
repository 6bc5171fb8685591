package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
)

func seedExpensesForTest(t *testing.T, repo ExpenseRepository, userID uint) {
	t.Helper()
	day := func(d int) time.Time {
		return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
	}
	expenses := []*domain.Expense{
		{UserID: userID, Title: "Groceries", AmountCents: 4500, Currency: "USD", Category: "food", ExpenseDate: day(2)},
		{UserID: userID, Title: "Restaurant", AmountCents: 8200, Currency: "USD", Category: "food", ExpenseDate: day(10)},
		{UserID: userID, Title: "Bus pass", AmountCents: 3000, Currency: "USD", Category: "transport", ExpenseDate: day(10)},
		{UserID: userID, Title: "Museum", AmountCents: 1500, Currency: "EUR", Category: "leisure", ExpenseDate: day(20)},
		{UserID: userID, Title: "April rent", AmountCents: 90000, Currency: "USD", Category: "housing", ExpenseDate: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, e := range expenses {
		if err := repo.Create(e); err != nil {
			t.Fatalf("create expense %s: %v", e.Title, err)
		}
	}
}

func TestExpenseRepositoryListPagedFiltersAndSort(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewExpenseRepository(db)
	u := createUserForTest(t, db, "spender@example.com")
	other := createUserForTest(t, db, "other@example.com")
	seedExpensesForTest(t, repo, u.ID)
	if err := repo.Create(&domain.Expense{UserID: other.ID, Title: "Not mine", AmountCents: 99, Currency: "USD", Category: "food", ExpenseDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("create other user expense: %v", err)
	}

	page, err := repo.ListPaged(u.ID, ExpenseListQuery{
		PageRequest: PageRequest{Page: 1, PageSize: 10},
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 food expenses for owner only, got total=%d items=%d", page.Total, len(page.Items))
	}

	min := int64(3000)
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	filtered, err := repo.ListPaged(u.ID, ExpenseListQuery{
		PageRequest:    PageRequest{Page: 1, PageSize: 10},
		SortBy:         "amount",
		SortOrder:      "asc",
		Currency:       "usd",
		FromDate:       &from,
		ToDate:         &to,
		MinAmountCents: &min,
	})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if filtered.Total != 3 {
		t.Fatalf("expected 3 march USD expenses >= 30.00, got %d", filtered.Total)
	}
	if filtered.Items[0].AmountCents != 3000 || filtered.Items[2].AmountCents != 8200 {
		t.Fatalf("expected ascending amount sort, got %+v", filtered.Items)
	}

	paged, err := repo.ListPaged(u.ID, ExpenseListQuery{PageRequest: PageRequest{Page: 2, PageSize: 2}})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if paged.Total != 5 || paged.TotalPages != 3 || len(paged.Items) != 2 {
		t.Fatalf("unexpected pagination: total=%d pages=%d items=%d", paged.Total, paged.TotalPages, len(paged.Items))
	}
}

func TestExpenseRepositorySummaryByMonth(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewExpenseRepository(db)
	u := createUserForTest(t, db, "summary@example.com")
	seedExpensesForTest(t, repo, u.ID)

	monthStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	summary, err := repo.SummaryByMonth(u.ID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalCents != 4500+8200+3000+1500 {
		t.Fatalf("unexpected total: %d", summary.TotalCents)
	}
	if summary.Count != 4 {
		t.Fatalf("expected 4 march expenses, got %d", summary.Count)
	}
	if len(summary.ByCategory) != 3 {
		t.Fatalf("expected 3 categories, got %+v", summary.ByCategory)
	}
	if summary.ByCategory[0].Category != "food" || summary.ByCategory[0].TotalCents != 12700 {
		t.Fatalf("expected food as top category with 12700, got %+v", summary.ByCategory[0])
	}
	if len(summary.Timeline) != 3 {
		t.Fatalf("expected 3 distinct days, got %+v", summary.Timeline)
	}
}

func TestExpenseRepositoryUpdateAndDeleteScopedToOwner(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewExpenseRepository(db)
	u := createUserForTest(t, db, "owner@example.com")
	intruder := createUserForTest(t, db, "intruder@example.com")

	e := &domain.Expense{UserID: u.ID, Title: "Coffee", AmountCents: 450, Currency: "USD", Category: "food", ExpenseDate: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)}
	if err := repo.Create(e); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	stolen := *e
	stolen.UserID = intruder.ID
	stolen.Title = "Hijacked"
	if err := repo.Update(&stolen); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected update by non-owner to fail, got %v", err)
	}

	e.Title = "Espresso"
	e.AmountCents = 500
	if err := repo.Update(e); err != nil {
		t.Fatalf("update expense: %v", err)
	}
	refreshed, err := repo.FindByIDForUser(u.ID, e.ID)
	if err != nil {
		t.Fatalf("find expense: %v", err)
	}
	if refreshed.Title != "Espresso" || refreshed.AmountCents != 500 {
		t.Fatalf("update not applied: %+v", refreshed)
	}

	if err := repo.DeleteByIDForUser(intruder.ID, e.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected delete by non-owner to fail, got %v", err)
	}
	if err := repo.DeleteByIDForUser(u.ID, e.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	if _, err := repo.FindByIDForUser(u.ID, e.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected deleted expense not found, got %v", err)
	}
	if _, err := repo.FindByIDForUser(u.ID, uuid.New()); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected random id not found, got %v", err)
	}
}
