package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/middleware"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/response"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/observability"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/service"
)

type ExpenseHandler struct {
	expenseSvc service.ExpenseServiceInterface
}

func NewExpenseHandler(expenseSvc service.ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc}
}

type expensePayload struct {
	Title       string `json:"title"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	ExpenseDate string `json:"expense_date"`
	Notes       string `json:"notes"`
}

func (p expensePayload) toInput() (service.ExpenseInput, error) {
	input := service.ExpenseInput{
		Title:       p.Title,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Category:    p.Category,
		Notes:       p.Notes,
	}
	if p.ExpenseDate != "" {
		date, err := time.Parse("2006-01-02", p.ExpenseDate)
		if err != nil {
			return input, fmt.Errorf("expense_date must be YYYY-MM-DD")
		}
		input.ExpenseDate = date
	}
	return input, nil
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	var body expensePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	input, err := body.toInput()
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	expense, err := h.expenseSvc.Create(userID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidExpense) {
			observability.RecordExpenseEvent(r.Context(), "create", "invalid")
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
		observability.RecordExpenseEvent(r.Context(), "create", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create expense", nil)
		return
	}
	observability.RecordExpenseEvent(r.Context(), "create", "success")
	response.JSON(w, r, http.StatusCreated, expense)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid expense id", nil)
		return
	}

	expense, err := h.expenseSvc.Get(userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "expense not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load expense", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, expense)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	q, err := parseExpenseListQuery(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	page, err := h.expenseSvc.List(userID, q)
	if err != nil {
		observability.RecordExpenseEvent(r.Context(), "list", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list expenses", nil)
		return
	}
	observability.RecordExpenseEvent(r.Context(), "list", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{
		"items":       page.Items,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total":       page.Total,
		"total_pages": page.TotalPages,
	})
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid expense id", nil)
		return
	}
	var body expensePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	input, err := body.toInput()
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	expense, err := h.expenseSvc.Update(userID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidExpense):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, repository.ErrExpenseNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "expense not found", nil)
		default:
			observability.RecordExpenseEvent(r.Context(), "update", "error")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update expense", nil)
		}
		return
	}
	observability.RecordExpenseEvent(r.Context(), "update", "success")
	response.JSON(w, r, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid expense id", nil)
		return
	}

	if err := h.expenseSvc.Delete(userID, id); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "expense not found", nil)
			return
		}
		observability.RecordExpenseEvent(r.Context(), "delete", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete expense", nil)
		return
	}
	observability.RecordExpenseEvent(r.Context(), "delete", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	month := strings.TrimSpace(r.URL.Query().Get("month"))

	summary, err := h.expenseSvc.Summary(userID, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "month must be YYYY-MM", nil)
			return
		}
		observability.RecordExpenseEvent(r.Context(), "summary", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to build summary", nil)
		return
	}
	observability.RecordExpenseEvent(r.Context(), "summary", "success")
	response.JSON(w, r, http.StatusOK, summary)
}

func (h *ExpenseHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	q, err := parseExpenseListQuery(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := h.expenseSvc.ExportCSV(w, userID, q); err != nil {
		// Headers are already out; log and drop the connection.
		observability.RecordExpenseEvent(r.Context(), "export", "error")
		return
	}
	observability.RecordExpenseEvent(r.Context(), "export", "success")
}

func parseExpenseListQuery(r *http.Request) (repository.ExpenseListQuery, error) {
	q := repository.ExpenseListQuery{
		SortBy:    strings.TrimSpace(r.URL.Query().Get("sort_by")),
		SortOrder: strings.TrimSpace(r.URL.Query().Get("sort_order")),
		Category:  strings.TrimSpace(r.URL.Query().Get("category")),
		Currency:  strings.TrimSpace(r.URL.Query().Get("currency")),
	}

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("page must be an integer")
		}
		q.Page = n
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("page_size must be an integer")
		}
		q.PageSize = n
	}
	if v := r.URL.Query().Get("from_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return q, fmt.Errorf("from_date must be YYYY-MM-DD")
		}
		q.FromDate = &d
	}
	if v := r.URL.Query().Get("to_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return q, fmt.Errorf("to_date must be YYYY-MM-DD")
		}
		q.ToDate = &d
	}
	if v := r.URL.Query().Get("min_amount_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, fmt.Errorf("min_amount_cents must be an integer")
		}
		q.MinAmountCents = &n
	}
	if v := r.URL.Query().Get("max_amount_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, fmt.Errorf("max_amount_cents must be an integer")
		}
		q.MaxAmountCents = &n
	}
	return q, nil
}
