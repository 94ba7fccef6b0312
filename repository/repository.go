// Package repository provides data access implementations for the projects
// registry.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"statedash/models"
)

// ErrNotFound reports a missing project row.
var ErrNotFound = errors.New("project not found")

// ErrForbidden reports an actor whose role does not allow the operation.
// Distinguished from validation failures so the transport can answer 403
// before any field-level diagnostics leak.
var ErrForbidden = errors.New("actor is not authorized for this operation")

// ValidationError enumerates the required fields missing or malformed in a
// create/update payload.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid required fields: %s", strings.Join(e.Fields, ", "))
}

// RequiredFields lists the fields a create payload must carry.
var RequiredFields = []string{
	"name", "state_id", "type", "status", "start_date",
	"budget", "contractor", "description", "progress",
}

// ProjectInput is a create or partial-update payload. Pointer fields
// distinguish "absent" from zero values so partial updates leave unset
// fields untouched. Numeric fields accept strings or numbers on the wire
// and are coerced, rejecting non-numeric input.
type ProjectInput struct {
	Name            *string `json:"name"`
	StateID         *string `json:"state_id"`
	Type            *string `json:"type"`
	Status          *string `json:"status"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	Budget          *Number `json:"budget"`
	Disbursed       *Number `json:"disbursed"`
	Contractor      *string `json:"contractor"`
	Location        *string `json:"location"`
	Branch          *string `json:"branch"`
	Officer         *string `json:"officer"`
	Description     *string `json:"description"`
	Progress        *Number `json:"progress"`
	PlannedProgress *Number `json:"planned_progress"`
}

// ValidateCreate returns a ValidationError listing every required field the
// payload is missing, or nil when all are present and well-typed.
func ValidateCreate(in ProjectInput) error {
	var missing []string
	has := map[string]bool{
		"name":        in.Name != nil && *in.Name != "",
		"state_id":    in.StateID != nil && *in.StateID != "",
		"type":        in.Type != nil && *in.Type != "",
		"status":      in.Status != nil && *in.Status != "",
		"start_date":  in.StartDate != nil && *in.StartDate != "",
		"budget":      in.Budget != nil && *in.Budget >= 0,
		"contractor":  in.Contractor != nil && *in.Contractor != "",
		"description": in.Description != nil && *in.Description != "",
		"progress":    in.Progress != nil,
	}
	for _, f := range RequiredFields {
		if !has[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ProjectRepository is the only component allowed to touch the project
// store. Every mutating operation re-verifies the actor's role internally;
// callers must not rely on transport-level checks alone.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListFiltered(ctx context.Context, filters models.ProjectFilters) ([]models.Project, error)
	Create(ctx context.Context, input ProjectInput, actingUserID string) (*models.Project, error)
	Update(ctx context.Context, id string, input ProjectInput, actingUserID string) (*models.Project, error)
	Delete(ctx context.Context, id string, actingUserID string) error
	GetStatistics(ctx context.Context) (*models.AggregateStats, error)
}

// foldStatistics derives the aggregate statistics purely from a full
// listing, so both store implementations share one definition.
func foldStatistics(projects []models.Project) *models.AggregateStats {
	stats := &models.AggregateStats{
		Total:         len(projects),
		ByStatus:      make(map[string]int),
		ByType:        make(map[string]int),
		ByState:       make(map[string]int),
		BudgetByState: make(map[string]float64),
	}
	var progressSum float64
	for _, p := range projects {
		stats.ByStatus[p.Status]++
		stats.ByType[p.Type]++
		stats.ByState[p.StateID]++
		stats.TotalBudget += p.Budget
		stats.TotalDisbursed += p.Disbursed
		stats.BudgetByState[p.StateID] += p.Budget
		progressSum += p.Progress
	}
	if stats.Total > 0 {
		stats.AvgProgress = progressSum / float64(stats.Total)
	}
	return stats
}
