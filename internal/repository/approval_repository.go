package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// ApprovalRepository appends and reads the per-role approval evidence rows.
// UNIQUE(report_id, role) at the database resolves concurrent duplicate
// submissions: the loser gets a conflict, never an overwrite.
type ApprovalRepository struct {
	db *database.DB
}

// NewApprovalRepository creates a new ApprovalRepository.
func NewApprovalRepository(db *database.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// Create inserts one approval or rejection record. Fails with a conflict
// when the role has already acted on the report.
func (r *ApprovalRepository) Create(ctx context.Context, a *Approval) error {
	query := `
		INSERT INTO approvals (report_id, user_id, role, status, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		a.ReportID,
		a.UserID,
		a.Role,
		a.Status,
		a.Comment,
	).Scan(&a.ID, &a.CreatedAt)

	if database.IsUniqueViolation(err, "approvals_report_id_role_key") {
		return errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("role %s has already acted on report %s", a.Role, a.ReportID))
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create approval")
	}

	return nil
}

// GetByReportAndRole returns the role's approval for a report, or nil when
// the role has not acted yet.
func (r *ApprovalRepository) GetByReportAndRole(ctx context.Context, reportID, role string) (*Approval, error) {
	query := `
		SELECT id, report_id, user_id, role, status, comment, created_at
		FROM approvals
		WHERE report_id = $1 AND role = $2
	`

	a, err := r.scanApproval(r.db.QueryRow(ctx, query, reportID, role))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get approval")
	}
	return a, nil
}

// ListByReport returns all approvals for a report in the order they were
// recorded.
func (r *ApprovalRepository) ListByReport(ctx context.Context, reportID string) ([]*Approval, error) {
	query := `
		SELECT id, report_id, user_id, role, status, comment, created_at
		FROM approvals
		WHERE report_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list approvals")
	}
	defer rows.Close()

	approvals := make([]*Approval, 0)
	for rows.Next() {
		a, err := r.scanApproval(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan approval")
		}
		approvals = append(approvals, a)
	}

	return approvals, nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

type approvalScanner interface {
	Scan(dest ...any) error
}

func (r *ApprovalRepository) scanApproval(row approvalScanner) (*Approval, error) {
	a := &Approval{}
	err := row.Scan(
		&a.ID,
		&a.ReportID,
		&a.UserID,
		&a.Role,
		&a.Status,
		&a.Comment,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
