package service

import (
	"context"
	"errors"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationService covers professor review actions and listing of
// persisted applications. Submission itself lives in IntakeService.
type ApplicationService interface {
	ListByProject(ctx context.Context, professorID, projectID primitive.ObjectID) ([]domain.Application, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.Application, error)
	// Close moves an application to its terminal CLOSED status. Applications
	// are never deleted in normal flow; they are retained for analytics.
	Close(ctx context.Context, professorID, applicationID primitive.ObjectID) (*domain.Application, error)
}

type applicationService struct {
	projectRepo     repository.ProjectRepository
	applicationRepo repository.ApplicationRepository
}

// NewApplicationService creates a new instance of applicationService.
func NewApplicationService(projectRepo repository.ProjectRepository, applicationRepo repository.ApplicationRepository) ApplicationService {
	return &applicationService{
		projectRepo:     projectRepo,
		applicationRepo: applicationRepo,
	}
}

func (s *applicationService) ListByProject(ctx context.Context, professorID, projectID primitive.ObjectID) ([]domain.Application, error) {
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

	apps, err := s.applicationRepo.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, apperror.Infrastructure("failed to list applications", err)
	}
	return apps, nil
}

func (s *applicationService) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.Application, error) {
	apps, err := s.applicationRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, apperror.Infrastructure("failed to list applications", err)
	}
	return apps, nil
}

func (s *applicationService) Close(ctx context.Context, professorID, applicationID primitive.ObjectID) (*domain.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("application not found")
		}
		return nil, apperror.Infrastructure("failed to load application", err)
	}

	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("project not found")
		}
		return nil, apperror.Infrastructure("failed to load project", err)
	}
	if project.ProfessorID != professorID {
		return nil, apperror.New(apperror.KindAuth, "application belongs to another professor's project")
	}

	// CLOSED is terminal; closing twice is a conflict, not an idempotent no-op.
	if app.Status == domain.ApplicationStatusClosed {
		return nil, apperror.Conflict("application is already closed")
	}

	if err := s.applicationRepo.UpdateStatus(ctx, applicationID, domain.ApplicationStatusClosed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("application not found")
		}
		return nil, apperror.Infrastructure("failed to update application status", err)
	}

	app.Status = domain.ApplicationStatusClosed
	return app, nil
}
