package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// ReportRepository persists SLF reports and their approval-stage status.
type ReportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `
	id, project_id, inspection_id, title, status,
	project_lead_comment, head_consultant_comment, client_comment,
	project_lead_approved_at, head_consultant_approved_at, client_approved_at,
	rejected_at, sent_to_government_at,
	created_by, created_at, updated_at
`

// Create inserts a report in the draft state.
func (r *ReportRepository) Create(ctx context.Context, rep *Report) error {
	query := `
		INSERT INTO reports (project_id, inspection_id, title, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rep.ProjectID,
		rep.InspectionID,
		rep.Title,
		rep.Status,
		rep.CreatedBy,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)

	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create report")
	}
	return nil
}

// GetByID retrieves a report.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	rep, err := r.scanReport(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("report", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get report")
	}
	return rep, nil
}

// ListByProject returns all reports for a project, newest first.
func (r *ReportRepository) ListByProject(ctx context.Context, projectID string) ([]*Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list reports")
	}
	defer rows.Close()

	reports := make([]*Report, 0)
	for rows.Next() {
		rep, err := r.scanReport(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan report")
		}
		reports = append(reports, rep)
	}

	return reports, nil
}

// RecordApproval advances the report status and stamps the role's comment
// and approval timestamp, plus sent_to_government_at when sent is true.
// The expectedStatus guard keeps a lost status race from advancing twice.
func (r *ReportRepository) RecordApproval(ctx context.Context, id, expectedStatus, newStatus, role, comment string, sent bool) error {
	commentCol, tsCol, err := roleColumns(role)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE reports
		SET status = $3,
		    %s = $4,
		    %s = NOW(),
		    sent_to_government_at = CASE WHEN $5 THEN NOW() ELSE sent_to_government_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id
	`, commentCol, tsCol)

	var returnedID string
	err = r.db.QueryRow(ctx, query, id, expectedStatus, newStatus, comment, sent).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("report %s is no longer at stage %s", id, expectedStatus))
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to record report approval")
	}
	return nil
}

// RecordRejection sets the report to the role's rejected status and stamps
// the role's comment plus rejected_at.
func (r *ReportRepository) RecordRejection(ctx context.Context, id, expectedStatus, newStatus, role, comment string) error {
	commentCol, _, err := roleColumns(role)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE reports
		SET status = $3,
		    %s = $4,
		    rejected_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id
	`, commentCol)

	var returnedID string
	err = r.db.QueryRow(ctx, query, id, expectedStatus, newStatus, comment).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("report %s is no longer at stage %s", id, expectedStatus))
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to record report rejection")
	}
	return nil
}

// roleColumns maps an approval role to its comment and approved-at columns.
// The role values are fixed constants, never user input, so the Sprintf
// interpolation above stays safe.
func roleColumns(role string) (commentCol, tsCol string, err error) {
	switch role {
	case RoleProjectLead:
		return "project_lead_comment", "project_lead_approved_at", nil
	case RoleHeadConsultant:
		return "head_consultant_comment", "head_consultant_approved_at", nil
	case RoleClient:
		return "client_comment", "client_approved_at", nil
	default:
		return "", "", errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("role %s is not part of the approval sequence", role))
	}
}

// ── scan helper ───────────────────────────────────────────────────────────────

type reportScanner interface {
	Scan(dest ...any) error
}

func (r *ReportRepository) scanReport(row reportScanner) (*Report, error) {
	rep := &Report{}
	err := row.Scan(
		&rep.ID,
		&rep.ProjectID,
		&rep.InspectionID,
		&rep.Title,
		&rep.Status,
		&rep.ProjectLeadComment,
		&rep.HeadConsultantComment,
		&rep.ClientComment,
		&rep.ProjectLeadApprovedAt,
		&rep.HeadConsultantApprovedAt,
		&rep.ClientApprovedAt,
		&rep.RejectedAt,
		&rep.SentToGovernmentAt,
		&rep.CreatedBy,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rep, nil
}
