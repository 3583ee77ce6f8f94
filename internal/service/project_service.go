package service

import (
	"context"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

// ProjectService manages the certification project registry.
type ProjectService struct {
	projectRepo ProjectStore
	log         *logger.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo ProjectStore, log *logger.Logger) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, log: log}
}

// CreateProjectRequest carries a new project.
type CreateProjectRequest struct {
	Name             string  `json:"name"`
	RequestType      string  `json:"request_type"`
	BuildingAddress  *string `json:"building_address,omitempty"`
	ClientID         string  `json:"client_id"`
	ProjectLeadID    string  `json:"project_lead_id"`
	HeadConsultantID string  `json:"head_consultant_id"`
	DrafterID        string  `json:"drafter_id"`
	AdminLeadID      *string `json:"admin_lead_id,omitempty"`
}

// CreateProject registers a project with its role assignments. Admin roles
// only.
func (s *ProjectService) CreateProject(ctx context.Context, actor authctx.Actor, req *CreateProjectRequest) (*repository.Project, error) {
	if err := requireRole(actor, repository.RoleSuperadmin, repository.RoleAdminLead); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, errors.InvalidInput("name", "project name is required")
	}
	if req.RequestType == "" {
		return nil, errors.InvalidInput("request_type", "request type is required")
	}
	for field, id := range map[string]string{
		"client_id":          req.ClientID,
		"project_lead_id":    req.ProjectLeadID,
		"head_consultant_id": req.HeadConsultantID,
		"drafter_id":         req.DrafterID,
	} {
		if id == "" {
			return nil, errors.InvalidInput(field, "a user must be assigned")
		}
	}

	project := &repository.Project{
		Name:             req.Name,
		RequestType:      req.RequestType,
		BuildingAddress:  req.BuildingAddress,
		ClientID:         req.ClientID,
		ProjectLeadID:    req.ProjectLeadID,
		HeadConsultantID: req.HeadConsultantID,
		DrafterID:        req.DrafterID,
		AdminLeadID:      req.AdminLeadID,
		Status:           repository.ProjectActive,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", project.ID).Str("name", project.Name).Msg("project created")
	return project, nil
}

// GetProject returns one project.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*repository.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects returns projects with optional filters.
func (s *ProjectService) ListProjects(ctx context.Context, status, requestType string, limit, offset int) ([]*repository.Project, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.projectRepo.List(ctx, status, requestType, limit, offset)
}
