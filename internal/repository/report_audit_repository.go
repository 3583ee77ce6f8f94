package repository

import (
	"context"
	"encoding/json"

	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// ReportAuditRepository appends and reads immutable report audit log entries.
// Append is the only mutation operation exposed.
type ReportAuditRepository struct {
	db *database.DB
}

// NewReportAuditRepository creates a new ReportAuditRepository.
func NewReportAuditRepository(db *database.DB) *ReportAuditRepository {
	return &ReportAuditRepository{db: db}
}

// Append inserts one audit entry.
func (r *ReportAuditRepository) Append(ctx context.Context, entry *AuditEntry) error {
	var metadataJSON []byte
	if entry.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal audit metadata")
		}
	}

	query := `
		INSERT INTO report_audit_log
		    (report_id, action, performed_by, status_before, status_after, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, performed_at
	`

	return r.db.QueryRow(ctx, query,
		entry.ReportID,
		entry.Action,
		entry.PerformedBy,
		entry.StatusBefore,
		entry.StatusAfter,
		metadataJSON,
	).Scan(&entry.ID, &entry.PerformedAt)
}

// GetByReportID returns the full audit trail for a report, oldest first.
func (r *ReportAuditRepository) GetByReportID(ctx context.Context, reportID string) ([]*AuditEntry, error) {
	query := `
		SELECT id, report_id, action, performed_by,
		       status_before, status_after, metadata, performed_at
		FROM report_audit_log
		WHERE report_id = $1
		ORDER BY performed_at ASC
	`

	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get audit log")
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan audit entry")
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

type auditScanner interface {
	Scan(dest ...any) error
}

func (r *ReportAuditRepository) scanEntry(sc auditScanner) (*AuditEntry, error) {
	entry := &AuditEntry{}
	var metadataJSON []byte

	err := sc.Scan(
		&entry.ID,
		&entry.ReportID,
		&entry.Action,
		&entry.PerformedBy,
		&entry.StatusBefore,
		&entry.StatusAfter,
		&metadataJSON,
		&entry.PerformedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, err
		}
	}

	return entry, nil
}
