package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// InspectionRepository persists inspections.
type InspectionRepository struct {
	db *database.DB
}

// NewInspectionRepository creates a new InspectionRepository.
func NewInspectionRepository(db *database.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// Create inserts an inspection in the scheduled state.
func (r *InspectionRepository) Create(ctx context.Context, insp *Inspection) error {
	query := `
		INSERT INTO inspections (project_id, assigned_to, scheduled_at, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		insp.ProjectID,
		insp.AssignedTo,
		insp.ScheduledAt,
		insp.Status,
		insp.Notes,
	).Scan(&insp.ID, &insp.CreatedAt, &insp.UpdatedAt)

	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create inspection")
	}
	return nil
}

// GetByID retrieves an inspection.
func (r *InspectionRepository) GetByID(ctx context.Context, id string) (*Inspection, error) {
	query := `
		SELECT id, project_id, assigned_to, scheduled_at, status,
		       started_at, completed_at, notes, created_at, updated_at
		FROM inspections
		WHERE id = $1
	`

	insp, err := r.scanInspection(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("inspection", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get inspection")
	}
	return insp, nil
}

// ListByProject returns all inspections for a project, newest first.
func (r *InspectionRepository) ListByProject(ctx context.Context, projectID string) ([]*Inspection, error) {
	query := `
		SELECT id, project_id, assigned_to, scheduled_at, status,
		       started_at, completed_at, notes, created_at, updated_at
		FROM inspections
		WHERE project_id = $1
		ORDER BY scheduled_at DESC
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list inspections")
	}
	defer rows.Close()

	inspections := make([]*Inspection, 0)
	for rows.Next() {
		insp, err := r.scanInspection(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan inspection")
		}
		inspections = append(inspections, insp)
	}

	return inspections, nil
}

// UpdateStatus sets the inspection status and stamps started_at or
// completed_at when supplied.
func (r *InspectionRepository) UpdateStatus(ctx context.Context, id, status string, startedAt, completedAt *time.Time) error {
	query := `
		UPDATE inspections
		SET status       = $2,
		    started_at   = COALESCE($3, started_at),
		    completed_at = COALESCE($4, completed_at),
		    updated_at   = NOW()
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, id, status, startedAt, completedAt).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.NotFound("inspection", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to update inspection status")
	}
	return nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

type inspectionScanner interface {
	Scan(dest ...any) error
}

func (r *InspectionRepository) scanInspection(row inspectionScanner) (*Inspection, error) {
	insp := &Inspection{}
	err := row.Scan(
		&insp.ID,
		&insp.ProjectID,
		&insp.AssignedTo,
		&insp.ScheduledAt,
		&insp.Status,
		&insp.StartedAt,
		&insp.CompletedAt,
		&insp.Notes,
		&insp.CreatedAt,
		&insp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return insp, nil
}
