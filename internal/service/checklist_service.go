package service

import (
	"context"
	"fmt"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

// ChecklistService covers the schema store operations and the inspector
// response lifecycle.
type ChecklistService struct {
	itemRepo       ChecklistItemStore
	responseRepo   ResponseStore
	inspectionRepo InspectionStore
	projectRepo    ProjectStore
	log            *logger.Logger
}

// NewChecklistService creates a new ChecklistService.
func NewChecklistService(
	itemRepo ChecklistItemStore,
	responseRepo ResponseStore,
	inspectionRepo InspectionStore,
	projectRepo ProjectStore,
	log *logger.Logger,
) *ChecklistService {
	return &ChecklistService{
		itemRepo:       itemRepo,
		responseRepo:   responseRepo,
		inspectionRepo: inspectionRepo,
		projectRepo:    projectRepo,
		log:            log,
	}
}

// ── Schema store operations ───────────────────────────────────────────────────

// CreateItemRequest carries a new item definition.
type CreateItemRequest struct {
	Code          string                  `json:"code"`
	Category      string                  `json:"category"`
	Description   string                  `json:"description"`
	Columns       []repository.ColumnSpec `json:"columns"`
	ApplicableFor []string                `json:"applicable_for"`
	SortOrder     int                     `json:"sort_order"`
}

// CreateItem adds an item definition to the schema store. Administrators
// only.
func (s *ChecklistService) CreateItem(ctx context.Context, actor authctx.Actor, req *CreateItemRequest) (*repository.ItemDefinition, error) {
	if err := requireRole(actor, repository.RoleSuperadmin, repository.RoleAdminLead); err != nil {
		return nil, err
	}
	if req.Code == "" {
		return nil, errors.InvalidInput("code", "item code is required")
	}
	if req.Category == "" {
		return nil, errors.InvalidInput("category", "category is required")
	}
	if len(req.Columns) == 0 {
		return nil, errors.InvalidInput("columns", "at least one column is required")
	}
	for _, col := range req.Columns {
		if !knownFieldType(col.FieldType) {
			return nil, errors.InvalidInput("columns",
				fmt.Sprintf("column %s has unknown field type %q", col.Name, col.FieldType))
		}
	}

	item := &repository.ItemDefinition{
		Code:          req.Code,
		Category:      req.Category,
		Description:   req.Description,
		Columns:       req.Columns,
		ApplicableFor: req.ApplicableFor,
		SortOrder:     req.SortOrder,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info().Str("code", item.Code).Str("category", item.Category).Msg("checklist item created")
	return item, nil
}

// GetItem returns one item definition by code.
func (s *ChecklistService) GetItem(ctx context.Context, code string) (*repository.ItemDefinition, error) {
	return s.itemRepo.GetByCode(ctx, code)
}

// ListItems returns active item definitions filtered by category and request
// type, in schema-store order.
func (s *ChecklistService) ListItems(ctx context.Context, category, requestType string) ([]*repository.ItemDefinition, error) {
	return s.itemRepo.ListApplicable(ctx, category, requestType)
}

// DeactivateItem soft-deletes an item definition. Rejected while responses
// still reference the item. Administrators only.
func (s *ChecklistService) DeactivateItem(ctx context.Context, actor authctx.Actor, code string) error {
	if err := requireRole(actor, repository.RoleSuperadmin, repository.RoleAdminLead); err != nil {
		return err
	}
	if err := s.itemRepo.Deactivate(ctx, code); err != nil {
		return err
	}
	s.log.Info().Str("code", code).Msg("checklist item deactivated")
	return nil
}

// SeedItems loads item definitions from a static template, skipping codes
// that already exist. Returns the number of items created. Administrators
// only.
func (s *ChecklistService) SeedItems(ctx context.Context, actor authctx.Actor, templates []*repository.ItemDefinition) (int, error) {
	if err := requireRole(actor, repository.RoleSuperadmin, repository.RoleAdminLead); err != nil {
		return 0, err
	}

	created := 0
	for _, tpl := range templates {
		item := *tpl
		err := s.itemRepo.Create(ctx, &item)
		if err != nil {
			if errors.CodeOf(err) == errors.ErrCodeConflict {
				continue
			}
			return created, err
		}
		created++
	}

	s.log.Info().Int("created", created).Int("templates", len(templates)).Msg("checklist items seeded")
	return created, nil
}

// ── Response operations ───────────────────────────────────────────────────────

// SubmitResponseRequest carries one inspector answer set.
type SubmitResponseRequest struct {
	InspectionID string         `json:"inspection_id"`
	ItemCode     string         `json:"item_code"`
	SampleNumber string         `json:"sample_number"`
	Values       map[string]any `json:"values"`
}

// SubmitResponse validates and persists one response record. Only the
// assigned inspector may submit, only while the inspection is in progress,
// and only for items applicable to the project's request type. A duplicate
// (inspection, item, sample) submission is a conflict, never an overwrite.
func (s *ChecklistService) SubmitResponse(ctx context.Context, actor authctx.Actor, req *SubmitResponseRequest) (*repository.ResponseRecord, error) {
	inspection, err := s.openInspectionFor(ctx, actor, req.InspectionID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByCode(ctx, req.ItemCode)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("checklist item %s is no longer active", req.ItemCode))
	}

	project, err := s.projectRepo.GetByID(ctx, inspection.ProjectID)
	if err != nil {
		return nil, err
	}
	if !item.AppliesTo(project.RequestType) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("checklist item %s does not apply to request type %s", req.ItemCode, project.RequestType))
	}

	if fieldErrors := ValidateResponse(item, req.SampleNumber, req.Values); fieldErrors != nil {
		return nil, errors.Validation(fieldErrors)
	}

	rec := &repository.ResponseRecord{
		InspectionID: req.InspectionID,
		ItemID:       item.ID,
		ItemCode:     item.Code,
		SampleNumber: req.SampleNumber,
		Values:       req.Values,
		CreatedBy:    actor.UserID,
	}
	if err := s.responseRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// UpdateResponse replaces an existing response's values, re-running
// validation against the item's schema. Same gating as SubmitResponse.
func (s *ChecklistService) UpdateResponse(ctx context.Context, actor authctx.Actor, responseID string, values map[string]any) (*repository.ResponseRecord, error) {
	rec, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.openInspectionFor(ctx, actor, rec.InspectionID); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByCode(ctx, rec.ItemCode)
	if err != nil {
		return nil, err
	}
	if fieldErrors := ValidateResponse(item, rec.SampleNumber, values); fieldErrors != nil {
		return nil, errors.Validation(fieldErrors)
	}

	return s.responseRepo.Update(ctx, responseID, values)
}

// DeleteResponse removes a response while the inspection is still open.
func (s *ChecklistService) DeleteResponse(ctx context.Context, actor authctx.Actor, responseID string) error {
	rec, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return err
	}
	if _, err := s.openInspectionFor(ctx, actor, rec.InspectionID); err != nil {
		return err
	}
	return s.responseRepo.Delete(ctx, responseID)
}

// ListResponses returns an inspection's responses in insertion order.
func (s *ChecklistService) ListResponses(ctx context.Context, inspectionID string) ([]*repository.ResponseRecord, error) {
	if _, err := s.inspectionRepo.GetByID(ctx, inspectionID); err != nil {
		return nil, err
	}
	return s.responseRepo.ListByInspection(ctx, inspectionID)
}

// Summary returns the inspection's responses grouped by category, in the
// same order the report body uses.
func (s *ChecklistService) Summary(ctx context.Context, inspectionID string) ([]CategoryGroup, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, inspection.ProjectID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListApplicable(ctx, "", project.RequestType)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	return GroupByCategory(responses, items), nil
}

// ── internal helpers ──────────────────────────────────────────────────────────

// openInspectionFor loads an inspection and checks that the actor is its
// assigned inspector and that the inspection is in progress. Responses are
// immutable once the inspection is completed; that is enforced here, at the
// workflow layer, not in the store.
func (s *ChecklistService) openInspectionFor(ctx context.Context, actor authctx.Actor, inspectionID string) (*repository.Inspection, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if actor.Role != repository.RoleInspector || inspection.AssignedTo != actor.UserID {
		return nil, errors.New(errors.ErrCodePermissionDenied,
			"only the assigned inspector may modify responses")
	}
	if inspection.Status != repository.InspectionInProgress {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("inspection %s is not in progress (status: %s)", inspectionID, inspection.Status))
	}
	return inspection, nil
}

func knownFieldType(fieldType string) bool {
	switch fieldType {
	case repository.FieldRadio, repository.FieldRadioWithText,
		repository.FieldInputNumber, repository.FieldTextarea, repository.FieldOther:
		return true
	default:
		return false
	}
}

// requireRole rejects actors whose role is not in the allowed set.
func requireRole(actor authctx.Actor, allowed ...string) error {
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return errors.New(errors.ErrCodePermissionDenied,
		fmt.Sprintf("role %s may not perform this operation", actor.Role))
}
