package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/middleware"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/response"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/observability"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/service"
)

type BudgetHandler struct {
	budgetSvc service.BudgetServiceInterface
}

func NewBudgetHandler(budgetSvc service.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{budgetSvc: budgetSvc}
}

type budgetPayload struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

func (p budgetPayload) toInput() service.BudgetInput {
	return service.BudgetInput{
		Category:    p.Category,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
	}
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	var body budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	budget, err := h.budgetSvc.Create(userID, body.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBudget):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, repository.ErrBudgetCategoryTaken):
			observability.RecordBudgetEvent(r.Context(), "create", "conflict")
			response.Error(w, r, http.StatusConflict, "CONFLICT", "a budget for this category already exists", nil)
		default:
			observability.RecordBudgetEvent(r.Context(), "create", "error")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create budget", nil)
		}
		return
	}
	observability.RecordBudgetEvent(r.Context(), "create", "success")
	response.JSON(w, r, http.StatusCreated, budget)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid budget id", nil)
		return
	}

	budget, err := h.budgetSvc.Get(userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "budget not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load budget", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, budget)
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}

	budgets, err := h.budgetSvc.List(userID)
	if err != nil {
		observability.RecordBudgetEvent(r.Context(), "list", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list budgets", nil)
		return
	}
	observability.RecordBudgetEvent(r.Context(), "list", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"items": budgets})
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid budget id", nil)
		return
	}
	var body budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	budget, err := h.budgetSvc.Update(userID, id, body.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBudget):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, repository.ErrBudgetNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "budget not found", nil)
		case errors.Is(err, repository.ErrBudgetCategoryTaken):
			response.Error(w, r, http.StatusConflict, "CONFLICT", "a budget for this category already exists", nil)
		default:
			observability.RecordBudgetEvent(r.Context(), "update", "error")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update budget", nil)
		}
		return
	}
	observability.RecordBudgetEvent(r.Context(), "update", "success")
	response.JSON(w, r, http.StatusOK, budget)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid budget id", nil)
		return
	}

	if err := h.budgetSvc.Delete(userID, id); err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "budget not found", nil)
			return
		}
		observability.RecordBudgetEvent(r.Context(), "delete", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete budget", nil)
		return
	}
	observability.RecordBudgetEvent(r.Context(), "delete", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
