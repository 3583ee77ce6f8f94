package service

import (
	"context"
	"testing"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

func TestCreateProject(t *testing.T) {
	t.Parallel()

	projects := newFakeProjectStore()
	svc := NewProjectService(projects, testLogger())

	project, err := svc.CreateProject(context.Background(),
		authctx.Actor{UserID: "user-admin", Role: repository.RoleAdminLead},
		&CreateProjectRequest{
			Name:             "Gedung Menara Satu",
			RequestType:      "slf_baru",
			ClientID:         "user-client",
			ProjectLeadID:    "user-lead",
			HeadConsultantID: "user-head",
			DrafterID:        "user-drafter",
		})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.Status != repository.ProjectActive {
		t.Fatalf("expected active status, got %s", project.Status)
	}
	if project.ID == "" {
		t.Fatal("expected a persisted id")
	}
}

func TestCreateProjectMissingMember(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(newFakeProjectStore(), testLogger())

	_, err := svc.CreateProject(context.Background(),
		authctx.Actor{UserID: "user-admin", Role: repository.RoleSuperadmin},
		&CreateProjectRequest{
			Name:          "Gedung Menara Satu",
			RequestType:   "slf_baru",
			ClientID:      "user-client",
			ProjectLeadID: "user-lead",
			// head consultant and drafter omitted
		})
	if errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCreateProjectRoleGate(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(newFakeProjectStore(), testLogger())

	_, err := svc.CreateProject(context.Background(),
		authctx.Actor{UserID: "user-drafter", Role: repository.RoleDrafter},
		&CreateProjectRequest{Name: "x", RequestType: "slf_baru"})
	if errors.CodeOf(err) != errors.ErrCodePermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}
}
