package handler

// Handlers bundles the HTTP handlers so the router takes one dependency
// instead of a growing parameter list.
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Expense *ExpenseHandler
	Budget  *BudgetHandler
	Health  *HealthHandler
}

func NewHandlers(auth *AuthHandler, user *UserHandler, expense *ExpenseHandler, budget *BudgetHandler, health *HealthHandler) *Handlers {
	return &Handlers{Auth: auth, User: user, Expense: expense, Budget: budget, Health: health}
}
