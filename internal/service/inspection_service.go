package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

// InspectionService manages the inspection lifecycle:
// scheduled → in_progress → completed, plus cancellation. Only the assigned
// inspector starts and completes an inspection.
type InspectionService struct {
	inspectionRepo InspectionStore
	projectRepo    ProjectStore
	directory      UserDirectory
	log            *logger.Logger
}

// NewInspectionService creates a new InspectionService.
func NewInspectionService(
	inspectionRepo InspectionStore,
	projectRepo ProjectStore,
	directory UserDirectory,
	log *logger.Logger,
) *InspectionService {
	return &InspectionService{
		inspectionRepo: inspectionRepo,
		projectRepo:    projectRepo,
		directory:      directory,
		log:            log,
	}
}

// ScheduleRequest carries a new inspection.
type ScheduleRequest struct {
	ProjectID   string    `json:"project_id"`
	AssignedTo  string    `json:"assigned_to"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       *string   `json:"notes,omitempty"`
}

// Schedule creates an inspection assigned to one inspector. Leads and
// superadmins only; the assignee must hold the inspector role in the
// directory.
func (s *InspectionService) Schedule(ctx context.Context, actor authctx.Actor, req *ScheduleRequest) (*repository.Inspection, error) {
	if err := requireRole(actor, repository.RoleSuperadmin, repository.RoleProjectLead, repository.RoleAdminLead); err != nil {
		return nil, err
	}
	if req.AssignedTo == "" {
		return nil, errors.InvalidInput("assigned_to", "an inspector must be assigned")
	}
	if req.ScheduledAt.IsZero() {
		return nil, errors.InvalidInput("scheduled_at", "a schedule date is required")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != repository.ProjectActive {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("project %s is not active (status: %s)", project.ID, project.Status))
	}

	assignee, err := s.directory.GetUser(ctx, req.AssignedTo)
	if err != nil {
		return nil, err
	}
	if assignee.Role != repository.RoleInspector {
		return nil, errors.InvalidInput("assigned_to",
			fmt.Sprintf("user %s is not an inspector", req.AssignedTo))
	}

	inspection := &repository.Inspection{
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		ScheduledAt: req.ScheduledAt,
		Status:      repository.InspectionScheduled,
		Notes:       req.Notes,
	}
	if err := s.inspectionRepo.Create(ctx, inspection); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("inspection_id", inspection.ID).
		Str("project_id", inspection.ProjectID).
		Str("assigned_to", inspection.AssignedTo).
		Msg("inspection scheduled")
	return inspection, nil
}

// Get returns one inspection.
func (s *InspectionService) Get(ctx context.Context, id string) (*repository.Inspection, error) {
	return s.inspectionRepo.GetByID(ctx, id)
}

// ListByProject returns a project's inspections.
func (s *InspectionService) ListByProject(ctx context.Context, projectID string) ([]*repository.Inspection, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.inspectionRepo.ListByProject(ctx, projectID)
}

// Start moves a scheduled inspection to in_progress. Assigned inspector
// only.
func (s *InspectionService) Start(ctx context.Context, actor authctx.Actor, id string) (*repository.Inspection, error) {
	return s.advance(ctx, actor, id, repository.InspectionScheduled, repository.InspectionInProgress)
}

// Complete moves an in-progress inspection to completed, freezing its
// responses. Assigned inspector only.
func (s *InspectionService) Complete(ctx context.Context, actor authctx.Actor, id string) (*repository.Inspection, error) {
	return s.advance(ctx, actor, id, repository.InspectionInProgress, repository.InspectionCompleted)
}

// Cancel cancels an inspection that has not completed. Leads and superadmins
// only.
func (s *InspectionService) Cancel(ctx context.Context, actor authctx.Actor, id string) (*repository.Inspection, error) {
	if err := requireRole(actor, repository.RoleSuperadmin, repository.RoleProjectLead, repository.RoleAdminLead); err != nil {
		return nil, err
	}

	inspection, err := s.inspectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inspection.Status != repository.InspectionScheduled && inspection.Status != repository.InspectionInProgress {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("inspection %s cannot be cancelled from status %s", id, inspection.Status))
	}

	if err := s.inspectionRepo.UpdateStatus(ctx, id, repository.InspectionCancelled, nil, nil); err != nil {
		return nil, err
	}

	s.log.Info().Str("inspection_id", id).Msg("inspection cancelled")
	return s.inspectionRepo.GetByID(ctx, id)
}

func (s *InspectionService) advance(ctx context.Context, actor authctx.Actor, id, from, to string) (*repository.Inspection, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != repository.RoleInspector || inspection.AssignedTo != actor.UserID {
		return nil, errors.New(errors.ErrCodePermissionDenied,
			"only the assigned inspector may start or complete an inspection")
	}
	if inspection.Status != from {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("inspection %s is %s, expected %s", id, inspection.Status, from))
	}

	now := time.Now()
	var startedAt, completedAt *time.Time
	if to == repository.InspectionInProgress {
		startedAt = &now
	}
	if to == repository.InspectionCompleted {
		completedAt = &now
	}

	if err := s.inspectionRepo.UpdateStatus(ctx, id, to, startedAt, completedAt); err != nil {
		return nil, err
	}

	s.log.Info().Str("inspection_id", id).Str("status", to).Msg("inspection status updated")
	return s.inspectionRepo.GetByID(ctx, id)
}
