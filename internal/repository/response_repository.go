package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// ResponseRepository persists inspector response records. Uniqueness of
// (inspection_id, checklist_item_id, sample_number) is enforced by a unique
// index so concurrent duplicate submissions lose at the database, not in
// application code.
type ResponseRepository struct {
	db *database.DB
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(db *database.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create inserts a response record. Fails with a conflict when a record for
// the same (inspection, item, sample number) already exists; callers wanting
// to change an existing record must use Update.
func (r *ResponseRepository) Create(ctx context.Context, rec *ResponseRecord) error {
	valuesJSON, err := json.Marshal(rec.Values)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal response values")
	}

	query := `
		INSERT INTO checklist_responses (inspection_id, checklist_item_id, sample_number,
		                                 response_data, created_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		rec.InspectionID,
		rec.ItemID,
		rec.SampleNumber,
		valuesJSON,
		rec.CreatedBy,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if database.IsUniqueViolation(err, "checklist_responses_identity_key") {
		return errors.New(errors.ErrCodeConflict, fmt.Sprintf(
			"response already exists for inspection %s, item %s, sample %q",
			rec.InspectionID, rec.ItemCode, rec.SampleNumber))
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create response")
	}

	return nil
}

// Update replaces the values of an existing response. Fails with NotFound
// when the response id is absent.
func (r *ResponseRepository) Update(ctx context.Context, responseID string, values map[string]any) (*ResponseRecord, error) {
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal response values")
	}

	query := `
		UPDATE checklist_responses r
		SET response_data = $2, updated_at = NOW()
		FROM checklist_items i
		WHERE r.id = $1 AND i.id = r.checklist_item_id
		RETURNING r.id, r.inspection_id, r.checklist_item_id, i.code,
		          COALESCE(r.sample_number, ''), r.response_data,
		          r.created_by, r.created_at, r.updated_at
	`

	rec, err := r.scanResponse(r.db.QueryRow(ctx, query, responseID, valuesJSON))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("response", responseID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to update response")
	}
	return rec, nil
}

// GetByID retrieves one response record.
func (r *ResponseRepository) GetByID(ctx context.Context, responseID string) (*ResponseRecord, error) {
	query := `
		SELECT r.id, r.inspection_id, r.checklist_item_id, i.code,
		       COALESCE(r.sample_number, ''), r.response_data,
		       r.created_by, r.created_at, r.updated_at
		FROM checklist_responses r
		JOIN checklist_items i ON i.id = r.checklist_item_id
		WHERE r.id = $1
	`

	rec, err := r.scanResponse(r.db.QueryRow(ctx, query, responseID))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("response", responseID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get response")
	}
	return rec, nil
}

// ListByInspection returns all responses for an inspection in insertion
// order, stable for display.
func (r *ResponseRepository) ListByInspection(ctx context.Context, inspectionID string) ([]*ResponseRecord, error) {
	query := `
		SELECT r.id, r.inspection_id, r.checklist_item_id, i.code,
		       COALESCE(r.sample_number, ''), r.response_data,
		       r.created_by, r.created_at, r.updated_at
		FROM checklist_responses r
		JOIN checklist_items i ON i.id = r.checklist_item_id
		WHERE r.inspection_id = $1
		ORDER BY r.seq ASC
	`

	rows, err := r.db.Query(ctx, query, inspectionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list responses")
	}
	defer rows.Close()

	records := make([]*ResponseRecord, 0)
	for rows.Next() {
		rec, err := r.scanResponse(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan response")
		}
		records = append(records, rec)
	}

	return records, nil
}

// Delete removes a response record unconditionally. Fails with NotFound when
// absent.
func (r *ResponseRepository) Delete(ctx context.Context, responseID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM checklist_responses WHERE id = $1`, responseID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete response")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("response", responseID)
	}
	return nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

type responseScanner interface {
	Scan(dest ...any) error
}

func (r *ResponseRepository) scanResponse(row responseScanner) (*ResponseRecord, error) {
	rec := &ResponseRecord{}
	var valuesJSON []byte

	err := row.Scan(
		&rec.ID,
		&rec.InspectionID,
		&rec.ItemID,
		&rec.ItemCode,
		&rec.SampleNumber,
		&valuesJSON,
		&rec.CreatedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(valuesJSON) > 0 {
		if err := json.Unmarshal(valuesJSON, &rec.Values); err != nil {
			return nil, fmt.Errorf("unmarshal response values %s: %w", rec.ID, err)
		}
	}

	return rec, nil
}
