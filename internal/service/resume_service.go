package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/repository"
	"unimatch/research-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResumeService resolves a time-limited signed download URL for the resume
// attached to an application.
type ResumeService interface {
	GetResumeDownloadURL(ctx context.Context, professorID, projectID, applicationID primitive.ObjectID) (string, error)
}

type resumeService struct {
	projectRepo     repository.ProjectRepository
	applicationRepo repository.ApplicationRepository
	fileStorage     storage.FileStorage
	downloadExpiry  time.Duration
}

// NewResumeService creates a new instance of resumeService. downloadExpiry is
// the single configured expiry applied to every signed URL.
func NewResumeService(
	projectRepo repository.ProjectRepository,
	applicationRepo repository.ApplicationRepository,
	fileStorage storage.FileStorage,
	downloadExpiry time.Duration,
) ResumeService {
	if downloadExpiry <= 0 {
		downloadExpiry = storage.DefaultDownloadURLExpiry
	}
	return &resumeService{
		projectRepo:     projectRepo,
		applicationRepo: applicationRepo,
		fileStorage:     fileStorage,
		downloadExpiry:  downloadExpiry,
	}
}

// GetResumeDownloadURL signs a URL for the resume of the given application.
// The exact object key stored on the record at intake is used when present.
// Records created before keys were stored fall back to a prefix scan picking
// the most recently uploaded object under the project's cv/ prefix; that scan
// can misattribute a resume if another submission lands between the list call
// and the selection, which is why the stored key is always preferred.
func (s *resumeService) GetResumeDownloadURL(ctx context.Context, professorID, projectID, applicationID primitive.ObjectID) (string, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.NotFound("project not found")
		}
		return "", apperror.Infrastructure("failed to load project", err)
	}
	if project.ProfessorID != professorID {
		return "", apperror.New(apperror.KindAuth, "project belongs to another professor")
	}

	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.NotFound("application not found")
		}
		return "", apperror.Infrastructure("failed to load application", err)
	}
	if app.ProjectID != projectID {
		return "", apperror.NotFound("application not found")
	}

	objectKey := app.ResumeObjectKey
	if objectKey == "" {
		objectKey, err = s.findLatestResumeKey(ctx, projectID, applicationID)
		if err != nil {
			return "", err
		}
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.downloadExpiry)
	if err != nil {
		return "", apperror.Infrastructure("failed to generate download URL", err)
	}
	return url, nil
}

// findLatestResumeKey scans the project's cv/ prefix and returns the key of
// the most recently uploaded object. Equal timestamps resolve to the
// lexicographically larger key so the selection is deterministic.
func (s *resumeService) findLatestResumeKey(ctx context.Context, projectID, applicationID primitive.ObjectID) (string, error) {
	prefix := path.Join("applications", projectID.Hex(), "cv") + "/"

	objects, err := s.fileStorage.List(ctx, prefix)
	if err != nil {
		// Listing failure is transient infrastructure trouble, distinct from
		// the data-integrity case below.
		return "", apperror.Infrastructure("failed to list resume files", err)
	}
	if len(objects) == 0 {
		// Intake guarantees file-before-record, so an empty prefix for an
		// existing application needs investigation, not a retry.
		return "", apperror.NotFound(fmt.Sprintf("no resume file found for application %s", applicationID.Hex()))
	}

	latest := objects[0]
	for _, obj := range objects[1:] {
		if obj.LastModified.After(latest.LastModified) {
			latest = obj
			continue
		}
		if obj.LastModified.Equal(latest.LastModified) && obj.Key > latest.Key {
			latest = obj
		}
	}
	return latest.Key, nil
}
