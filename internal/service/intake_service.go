package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"path"
	"strings"
	"time"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/repository"
	"unimatch/research-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxResumeBytes caps the resume payload at 5 MB.
const DefaultMaxResumeBytes = 5 * 1024 * 1024

// ResumeFile is the binary half of a submission.
type ResumeFile struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// submissionPayload mirrors the three blocks of the JSON half of a
// submission. Parsing checks syntax only; semantics are checked by
// domain batch validation afterwards.
type submissionPayload struct {
	Student    domain.StudentInfo    `json:"student"`
	Schedule   domain.Availability   `json:"schedule"`
	Additional domain.AdditionalInfo `json:"additional"`
}

// IntakeService runs the application submission pipeline:
// parse -> validate -> project guard -> file store -> record persist.
// The file write strictly precedes the record write, so a persisted record
// never references a missing object.
type IntakeService interface {
	Submit(ctx context.Context, studentID, projectID primitive.ObjectID, rawApplication []byte, resume *ResumeFile) (*domain.Application, error)
}

type intakeService struct {
	projectRepo     repository.ProjectRepository
	applicationRepo repository.ApplicationRepository
	fileStorage     storage.FileStorage
	maxResumeBytes  int64
}

// NewIntakeService creates a new instance of intakeService.
func NewIntakeService(
	projectRepo repository.ProjectRepository,
	applicationRepo repository.ApplicationRepository,
	fileStorage storage.FileStorage,
	maxResumeBytes int64,
) IntakeService {
	if maxResumeBytes <= 0 {
		maxResumeBytes = DefaultMaxResumeBytes
	}
	return &intakeService{
		projectRepo:     projectRepo,
		applicationRepo: applicationRepo,
		fileStorage:     fileStorage,
		maxResumeBytes:  maxResumeBytes,
	}
}

func (s *intakeService) Submit(ctx context.Context, studentID, projectID primitive.ObjectID, rawApplication []byte, resume *ResumeFile) (*domain.Application, error) {
	// 1. Parse. Syntax only; the payload must be a JSON object.
	payload, err := parseSubmission(rawApplication)
	if err != nil {
		return nil, err
	}

	app := &domain.Application{
		ProjectID:  projectID,
		StudentID:  studentID,
		Student:    payload.Student,
		Schedule:   payload.Schedule,
		Additional: payload.Additional,
		Status:     domain.ApplicationStatusPending,
	}

	// 2. Batch validation: every violation at once.
	if fieldErrs := app.Validate(); fieldErrs != nil {
		return nil, apperror.Validation("invalid application data", fieldErrs)
	}

	// 3. Project guard before any file write, so a rejected submission never
	// leaves an orphan object behind.
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("project not found or not accepting applications")
		}
		return nil, apperror.Infrastructure("failed to load project", err)
	}
	if !project.CanAcceptApplications(time.Now().UTC()) {
		return nil, apperror.NotFound("project not found or not accepting applications")
	}

	// 4. Resume checks, then the object-store write.
	if err := s.checkResume(resume); err != nil {
		return nil, err
	}

	objectKey := path.Join("applications", projectID.Hex(), "cv", uuid.NewString()+".pdf")
	storedKey, err := s.fileStorage.Upload(ctx, objectKey, resume.Content, resume.ContentType)
	if err != nil {
		return nil, apperror.Infrastructure("failed to store resume file", err)
	}
	app.ResumeObjectKey = storedKey

	// 5. Persist the record referencing the stored key. If this fails the
	// just-written object is orphaned, so compensate with a delete.
	appID, err := s.applicationRepo.Create(ctx, app)
	if err != nil {
		s.cleanupOrphan(storedKey)
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.Conflict("application already exists for this project")
		}
		return nil, apperror.Infrastructure("failed to save application", err)
	}
	app.ID = appID

	return app, nil
}

func parseSubmission(raw []byte) (*submissionPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, apperror.New(apperror.KindValidation, "application data is required")
	}
	if trimmed[0] != '{' {
		return nil, apperror.New(apperror.KindValidation, "invalid application data format")
	}

	var payload submissionPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, apperror.New(apperror.KindValidation, "invalid application data format")
	}
	return &payload, nil
}

// checkResume enforces presence, PDF type, and the size cap.
func (s *intakeService) checkResume(resume *ResumeFile) error {
	if resume == nil || resume.Content == nil {
		return apperror.New(apperror.KindValidation, "resume file is required")
	}
	if !isPDF(resume) {
		return apperror.New(apperror.KindValidation, "invalid file format or size")
	}
	if resume.Size <= 0 || resume.Size > s.maxResumeBytes {
		return apperror.New(apperror.KindValidation, "invalid file format or size")
	}
	return nil
}

func isPDF(resume *ResumeFile) bool {
	ct := strings.ToLower(strings.TrimSpace(resume.ContentType))
	if ct == "application/pdf" {
		return true
	}
	// Some browsers send a generic content type; accept by extension then.
	if ct == "" || ct == "application/octet-stream" {
		return strings.HasSuffix(strings.ToLower(resume.FileName), ".pdf")
	}
	return false
}

// cleanupOrphan deletes an object whose record write failed. Runs on a fresh
// short-lived context since the request context may already be done. A failed
// delete leaves the key in the log for an operator sweep.
func (s *intakeService) cleanupOrphan(objectKey string) {
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.fileStorage.DeleteObject(cleanupCtx, objectKey); err != nil {
		log.Printf("ERROR: Failed to delete orphan resume object '%s' after record write failure: %v", objectKey, err)
	}
}
