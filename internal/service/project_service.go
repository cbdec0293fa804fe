package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateProjectInput carries the professor-supplied fields of a new listing.
// New projects always start in DRAFT.
type CreateProjectInput struct {
	Title        string
	Description  string
	Campus       domain.Campus
	Categories   []string
	Requirements []string
	Positions    int
	Deadline     *time.Time
	Visible      bool
}

// ProjectService owns the stored project status and its legal transitions.
type ProjectService interface {
	Create(ctx context.Context, professorID primitive.ObjectID, input CreateProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	GetByProfessor(ctx context.Context, professorID primitive.ObjectID) ([]domain.Project, error)
	// ListOpen returns the publicly browsable listings: visible, stored
	// status published, and effectively open at the time of the call.
	ListOpen(ctx context.Context) ([]domain.Project, error)
	// Transition moves a project's stored status along a legal edge
	// (DRAFT -> PUBLISHED, PUBLISHED -> CLOSED) and persists the change.
	Transition(ctx context.Context, professorID, projectID primitive.ObjectID, target domain.ProjectStatus) (*domain.Project, error)
	// Delete removes a project. Published projects must be delisted first;
	// closed projects require force.
	Delete(ctx context.Context, professorID, projectID primitive.ObjectID, force bool) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new instance of projectService.
func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

func (s *projectService) Create(ctx context.Context, professorID primitive.ObjectID, input CreateProjectInput) (*domain.Project, error) {
	fields := map[string]string{}
	if input.Title == "" {
		fields["title"] = "title is required"
	}
	if !domain.ValidCampus(input.Campus) {
		fields["campus"] = fmt.Sprintf("must be one of: %s, %s, %s",
			domain.CampusMain, domain.CampusDowntown, domain.CampusHealthSciences)
	}
	if input.Positions <= 0 {
		fields["positions"] = "must be a positive integer"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("invalid project data", fields)
	}

	project := &domain.Project{
		ProfessorID:  professorID,
		Title:        input.Title,
		Description:  input.Description,
		Campus:       input.Campus,
		Categories:   input.Categories,
		Requirements: input.Requirements,
		Status:       domain.ProjectStatusDraft,
		Positions:    input.Positions,
		Deadline:     input.Deadline,
		Visible:      input.Visible,
	}

	projectID, err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, apperror.Infrastructure("failed to create project", err)
	}
	project.ID = projectID

	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("project not found")
		}
		return nil, apperror.Infrastructure("failed to load project", err)
	}
	return project, nil
}

func (s *projectService) GetByProfessor(ctx context.Context, professorID primitive.ObjectID) ([]domain.Project, error) {
	projects, err := s.projectRepo.GetByProfessorID(ctx, professorID)
	if err != nil {
		return nil, apperror.Infrastructure("failed to list projects", err)
	}
	return projects, nil
}

func (s *projectService) ListOpen(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListVisiblePublished(ctx)
	if err != nil {
		return nil, apperror.Infrastructure("failed to list projects", err)
	}

	// Deadline expiry is a read-time projection; expired listings are
	// filtered here without touching storage.
	now := time.Now().UTC()
	open := projects[:0]
	for _, p := range projects {
		if p.CanAcceptApplications(now) {
			open = append(open, p)
		}
	}
	return open, nil
}

func (s *projectService) Transition(ctx context.Context, professorID, projectID primitive.ObjectID, target domain.ProjectStatus) (*domain.Project, error) {
	project, err := s.getOwned(ctx, professorID, projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanTransitionTo(target) {
		return nil, apperror.Conflict(fmt.Sprintf("invalid status transition from %s to %s", project.Status, target))
	}

	if err := s.projectRepo.UpdateStatus(ctx, projectID, target); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("project not found")
		}
		return nil, apperror.Infrastructure("failed to update project status", err)
	}

	project.Status = target
	project.UpdatedAt = time.Now().UTC()
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, professorID, projectID primitive.ObjectID, force bool) error {
	project, err := s.getOwned(ctx, professorID, projectID)
	if err != nil {
		return err
	}

	switch project.Status {
	case domain.ProjectStatusPublished:
		return apperror.Conflict("cannot delete a published project; delist it first")
	case domain.ProjectStatusClosed:
		if !force {
			return apperror.Conflict("deleting a closed project requires force")
		}
	}

	if err := s.projectRepo.Delete(ctx, projectID, professorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("project not found")
		}
		return apperror.Infrastructure("failed to delete project", err)
	}
	return nil
}

// getOwned loads a project and verifies the requesting professor owns it.
func (s *projectService) getOwned(ctx context.Context, professorID, projectID primitive.ObjectID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("project not found")
		}
		return nil, apperror.Infrastructure("failed to load project", err)
	}
	if project.ProfessorID != professorID {
		return nil, apperror.New(apperror.KindAuth, "project belongs to another professor")
	}
	return project, nil
}
