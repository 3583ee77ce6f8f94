package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// ChecklistItemRepository is the schema store: it persists checklist item
// definitions with their column_config JSONB schemas.
type ChecklistItemRepository struct {
	db *database.DB
}

// NewChecklistItemRepository creates a new ChecklistItemRepository.
func NewChecklistItemRepository(db *database.DB) *ChecklistItemRepository {
	return &ChecklistItemRepository{db: db}
}

// Create inserts a new item definition. Fails with a conflict when the code
// is already taken.
func (r *ChecklistItemRepository) Create(ctx context.Context, item *ItemDefinition) error {
	columnsJSON, err := json.Marshal(item.Columns)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal column config")
	}

	query := `
		INSERT INTO checklist_items (code, category, description, column_config,
		                             applicable_for, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		item.Code,
		item.Category,
		item.Description,
		columnsJSON,
		item.ApplicableFor,
		item.SortOrder,
	).Scan(&item.ID, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)

	if database.IsUniqueViolation(err, "checklist_items_code_key") {
		return errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("checklist item code already exists: %s", item.Code))
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create checklist item")
	}

	return nil
}

// GetByCode retrieves an active or inactive item definition by its code.
func (r *ChecklistItemRepository) GetByCode(ctx context.Context, code string) (*ItemDefinition, error) {
	query := `
		SELECT id, code, category, description, column_config,
		       applicable_for, sort_order, is_active, created_at, updated_at
		FROM checklist_items
		WHERE code = $1
	`

	item, err := r.scanItem(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("checklist_item", code)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get checklist item")
	}
	return item, nil
}

// ListApplicable returns active item definitions, optionally filtered by
// category and request type, in sort order. Items with an empty
// applicable_for list match every request type.
func (r *ChecklistItemRepository) ListApplicable(ctx context.Context, category, requestType string) ([]*ItemDefinition, error) {
	query := `
		SELECT id, code, category, description, column_config,
		       applicable_for, sort_order, is_active, created_at, updated_at
		FROM checklist_items
		WHERE is_active = TRUE
	`

	args := []any{}
	argCount := 1

	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, category)
		argCount++
	}

	if requestType != "" {
		query += fmt.Sprintf(" AND (cardinality(applicable_for) = 0 OR $%d = ANY(applicable_for))", argCount)
		args = append(args, requestType)
		argCount++
	}

	query += " ORDER BY sort_order ASC, code ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list checklist items")
	}
	defer rows.Close()

	items := make([]*ItemDefinition, 0)
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan checklist item")
		}
		items = append(items, item)
	}

	return items, nil
}

// Deactivate soft-deletes an item definition. The delete is rejected while
// any response still references the item.
func (r *ChecklistItemRepository) Deactivate(ctx context.Context, code string) error {
	item, err := r.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	var responseCount int64
	countQuery := `SELECT COUNT(*) FROM checklist_responses WHERE checklist_item_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, item.ID).Scan(&responseCount); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to count dependent responses")
	}
	if responseCount > 0 {
		return errors.New(errors.ErrCodeDependentRecords,
			fmt.Sprintf("checklist item %s has %d dependent response(s)", code, responseCount))
	}

	query := `
		UPDATE checklist_items
		SET is_active = FALSE, updated_at = NOW()
		WHERE code = $1
		RETURNING id
	`

	var returnedID string
	err = r.db.QueryRow(ctx, query, code).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.NotFound("checklist_item", code)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to deactivate checklist item")
	}

	return nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

type itemScanner interface {
	Scan(dest ...any) error
}

func (r *ChecklistItemRepository) scanItem(row itemScanner) (*ItemDefinition, error) {
	item := &ItemDefinition{}
	var columnsJSON []byte

	err := row.Scan(
		&item.ID,
		&item.Code,
		&item.Category,
		&item.Description,
		&columnsJSON,
		&item.ApplicableFor,
		&item.SortOrder,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(columnsJSON) > 0 {
		if err := json.Unmarshal(columnsJSON, &item.Columns); err != nil {
			return nil, fmt.Errorf("unmarshal column config for %s: %w", item.Code, err)
		}
	}

	return item, nil
}
