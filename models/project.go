package models

import "time"

// Project is an admin-managed record describing a tracked development
// project tied to a state. Timestamps are server-assigned.
type Project struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StateID         string    `json:"state_id"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date,omitempty"`
	Budget          float64   `json:"budget"`
	Disbursed       float64   `json:"disbursed,omitempty"`
	Contractor      string    `json:"contractor"`
	Location        string    `json:"location,omitempty"`
	Branch          string    `json:"branch,omitempty"`
	Officer         string    `json:"officer,omitempty"`
	Description     string    `json:"description"`
	Progress        float64   `json:"progress"`
	PlannedProgress float64   `json:"planned_progress"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProjectFilters narrows a project listing. Absent fields impose no
// constraint; date ranges are inclusive on both bounds.
type ProjectFilters struct {
	StateID       string
	Type          string
	Status        string
	StartDateFrom string
	StartDateTo   string
	EndDateFrom   string
	EndDateTo     string
}

// Empty reports whether no filter is set.
func (f ProjectFilters) Empty() bool {
	return f == ProjectFilters{}
}

// AggregateStats summarizes the project collection, derived purely from the
// full listing.
type AggregateStats struct {
	Total          int                `json:"total"`
	ByStatus       map[string]int     `json:"by_status"`
	ByType         map[string]int     `json:"by_type"`
	ByState        map[string]int     `json:"by_state"`
	TotalBudget    float64            `json:"total_budget"`
	TotalDisbursed float64            `json:"total_disbursed"`
	AvgProgress    float64            `json:"avg_progress"`
	BudgetByState  map[string]float64 `json:"budget_by_state"`
}
