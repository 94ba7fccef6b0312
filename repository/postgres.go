package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"statedash/auth"
	"statedash/models"
)

// PostgresProjectRepository implements ProjectRepository over the projects
// table.
type PostgresProjectRepository struct {
	db    *sql.DB
	roles auth.RoleChecker
}

// NewPostgresProjectRepository wires the repository to an open database and
// a role checker. The role checker is consulted on every mutating call.
func NewPostgresProjectRepository(db *sql.DB, roles auth.RoleChecker) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db, roles: roles}
}

// EnsureSchema creates the projects table when it is missing.
func (r *PostgresProjectRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			state_id TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL DEFAULT '',
			budget DOUBLE PRECISION NOT NULL,
			disbursed DOUBLE PRECISION NOT NULL DEFAULT 0,
			contractor TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			branch TEXT NOT NULL DEFAULT '',
			officer TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			progress DOUBLE PRECISION NOT NULL,
			planned_progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_projects_state ON projects (state_id);
		CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status)`)
	if err != nil {
		return fmt.Errorf("failed to create projects table: %v", err)
	}
	return nil
}

const projectColumns = `id, name, state_id, type, status, start_date, end_date,
	budget, disbursed, contractor, location, branch, officer, description,
	progress, planned_progress, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Name, &p.StateID, &p.Type, &p.Status, &p.StartDate,
		&p.EndDate, &p.Budget, &p.Disbursed, &p.Contractor, &p.Location,
		&p.Branch, &p.Officer, &p.Description, &p.Progress,
		&p.PlannedProgress, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID fetches one project.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project %s: %v", id, err)
	}
	return p, nil
}

// List returns every project ordered by creation time.
func (r *PostgresProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	return r.ListFiltered(ctx, models.ProjectFilters{})
}

// ListFiltered returns projects matching every provided filter. Absent
// filters impose no constraint; date ranges are inclusive on both bounds.
func (r *PostgresProjectRepository) ListFiltered(ctx context.Context, filters models.ProjectFilters) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var conditions []string
	var args []interface{}

	add := func(clause, value string) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}
	if filters.StateID != "" {
		add("state_id = $%d", filters.StateID)
	}
	if filters.Type != "" {
		add("type = $%d", filters.Type)
	}
	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	if filters.StartDateFrom != "" {
		add("start_date >= $%d", filters.StartDateFrom)
	}
	if filters.StartDateTo != "" {
		add("start_date <= $%d", filters.StartDateTo)
	}
	if filters.EndDateFrom != "" {
		add("end_date <> '' AND end_date >= $%d", filters.EndDateFrom)
	}
	if filters.EndDateTo != "" {
		add("end_date <> '' AND end_date <= $%d", filters.EndDateTo)
	}
	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %v", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %v", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %v", err)
	}
	return projects, nil
}

// Create validates the payload and inserts a new project. The actor's role
// is verified here regardless of any transport-level check.
func (r *PostgresProjectRepository) Create(ctx context.Context, input ProjectInput, actingUserID string) (*models.Project, error) {
	if !r.roles.HasRole(actingUserID, auth.RoleAdmin) {
		return nil, ErrForbidden
	}
	if err := ValidateCreate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := projectFromInput(input)
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		p.ID, p.Name, p.StateID, p.Type, p.Status, p.StartDate, p.EndDate,
		p.Budget, p.Disbursed, p.Contractor, p.Location, p.Branch, p.Officer,
		p.Description, p.Progress, p.PlannedProgress, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %v", err)
	}
	log.Printf("Created project %s (%s) by user %s", p.ID, p.Name, actingUserID)
	return p, nil
}

// Update applies only the fields present in the payload and refreshes
// updated_at. Same authorization gate as Create. The read and write run in
// one transaction with the row locked, so concurrent updates serialize
// instead of clobbering each other's fields.
func (r *PostgresProjectRepository) Update(ctx context.Context, id string, input ProjectInput, actingUserID string) (*models.Project, error) {
	if !r.roles.HasRole(actingUserID, auth.RoleAdmin) {
		return nil, ErrForbidden
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update transaction: %v", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id)
	current, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project %s: %v", id, err)
	}
	applyInput(current, input)
	current.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET
			name = $2, state_id = $3, type = $4, status = $5, start_date = $6,
			end_date = $7, budget = $8, disbursed = $9, contractor = $10,
			location = $11, branch = $12, officer = $13, description = $14,
			progress = $15, planned_progress = $16, updated_at = $17
		WHERE id = $1`,
		current.ID, current.Name, current.StateID, current.Type,
		current.Status, current.StartDate, current.EndDate, current.Budget,
		current.Disbursed, current.Contractor, current.Location,
		current.Branch, current.Officer, current.Description,
		current.Progress, current.PlannedProgress, current.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update project %s: %v", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update for project %s: %v", id, err)
	}
	return current, nil
}

// Delete removes a project irreversibly. Same authorization gate.
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string, actingUserID string) error {
	if !r.roles.HasRole(actingUserID, auth.RoleAdmin) {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %v", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %v", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Printf("Deleted project %s by user %s", id, actingUserID)
	return nil
}

// GetStatistics folds the full listing into aggregate counts and sums.
func (r *PostgresProjectRepository) GetStatistics(ctx context.Context) (*models.AggregateStats, error) {
	projects, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return foldStatistics(projects), nil
}

// projectFromInput builds a project from a validated create payload.
func projectFromInput(in ProjectInput) *models.Project {
	p := &models.Project{}
	applyInput(p, in)
	return p
}

// applyInput copies only the fields present in the payload.
func applyInput(p *models.Project, in ProjectInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.StateID != nil {
		p.StateID = *in.StateID
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = *in.EndDate
	}
	if in.Budget != nil {
		p.Budget = float64(*in.Budget)
	}
	if in.Disbursed != nil {
		p.Disbursed = float64(*in.Disbursed)
	}
	if in.Contractor != nil {
		p.Contractor = *in.Contractor
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Branch != nil {
		p.Branch = *in.Branch
	}
	if in.Officer != nil {
		p.Officer = *in.Officer
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Progress != nil {
		p.Progress = float64(*in.Progress)
	}
	if in.PlannedProgress != nil {
		p.PlannedProgress = float64(*in.PlannedProgress)
	}
}
