package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// ProjectRepository persists certification projects.
type ProjectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project.
func (r *ProjectRepository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (name, request_type, building_address,
		                      client_id, project_lead_id, head_consultant_id,
		                      drafter_id, admin_lead_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.RequestType,
		p.BuildingAddress,
		p.ClientID,
		p.ProjectLeadID,
		p.HeadConsultantID,
		p.DrafterID,
		p.AdminLeadID,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create project")
	}
	return nil
}

// GetByID retrieves a project.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, name, request_type, building_address,
		       client_id, project_lead_id, head_consultant_id,
		       drafter_id, admin_lead_id, status, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	p, err := r.scanProject(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("project", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get project")
	}
	return p, nil
}

// List retrieves projects with optional status and request-type filters.
func (r *ProjectRepository) List(ctx context.Context, status, requestType string, limit, offset int) ([]*Project, error) {
	query := `
		SELECT id, name, request_type, building_address,
		       client_id, project_lead_id, head_consultant_id,
		       drafter_id, admin_lead_id, status, created_at, updated_at
		FROM projects
		WHERE 1=1
	`

	args := []any{}
	argCount := 1

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	if requestType != "" {
		query += fmt.Sprintf(" AND request_type = $%d", argCount)
		args = append(args, requestType)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list projects")
	}
	defer rows.Close()

	projects := make([]*Project, 0)
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan project")
		}
		projects = append(projects, p)
	}

	return projects, nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

type projectScanner interface {
	Scan(dest ...any) error
}

func (r *ProjectRepository) scanProject(row projectScanner) (*Project, error) {
	p := &Project{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.RequestType,
		&p.BuildingAddress,
		&p.ClientID,
		&p.ProjectLeadID,
		&p.HeadConsultantID,
		&p.DrafterID,
		&p.AdminLeadID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
