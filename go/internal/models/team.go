package models

// TeamBudget is the per-team value of a budgets snapshot
type TeamBudget struct {
	Budget int64 `json:"budget"`
}

// Budgets maps team name to its remaining budget.
type Budgets map[string]TeamBudget
