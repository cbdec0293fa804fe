package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/repository"
	"unimatch/research-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeProjectRepo is an in-memory repository.ProjectRepository.
type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[primitive.ObjectID]*domain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[primitive.ObjectID]*domain.Project)}
}

func (r *fakeProjectRepo) put(p *domain.Project) *domain.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == primitive.NilObjectID {
		p.ID = primitive.NewObjectID()
	}
	r.projects[p.ID] = p
	return p
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error) {
	project.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.put(project)
	return project.ID, nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) GetByProfessorID(ctx context.Context, professorID primitive.ObjectID) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, p := range r.projects {
		if p.ProfessorID == professorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListVisiblePublished(ctx context.Context) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, p := range r.projects {
		if p.Status == domain.ProjectStatusPublished && p.Visible {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ProjectStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id primitive.ObjectID, professorID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.ProfessorID != professorID {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

// fakeApplicationRepo is an in-memory repository.ApplicationRepository with
// injectable create failures.
type fakeApplicationRepo struct {
	mu          sync.Mutex
	apps        map[primitive.ObjectID]*domain.Application
	createErr   error
	createCalls int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[primitive.ObjectID]*domain.Application)}
}

func (r *fakeApplicationRepo) put(a *domain.Application) *domain.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == primitive.NilObjectID {
		a.ID = primitive.NewObjectID()
	}
	r.apps[a.ID] = a
	return a
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *domain.Application) (primitive.ObjectID, error) {
	r.mu.Lock()
	r.createCalls++
	err := r.createErr
	r.mu.Unlock()
	if err != nil {
		return primitive.NilObjectID, err
	}
	app.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	r.put(app)
	return app.ID, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Application
	for _, a := range r.apps {
		if a.ProjectID == projectID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Application
	for _, a := range r.apps {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context, projectID *primitive.ObjectID) (map[domain.ApplicationStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.ApplicationStatus]int64)
	for _, a := range r.apps {
		if projectID != nil && a.ProjectID != *projectID {
			continue
		}
		counts[a.Status]++
	}
	return counts, nil
}

// fakeStorage is an in-memory storage.FileStorage counting every call.
type fakeStorage struct {
	mu          sync.Mutex
	uploadCalls int
	uploadErr   error
	uploaded    map[string][]byte
	listResult  []storage.ObjectInfo
	listErr     error
	deleteCalls int
	deletedKeys []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, objectKey string, body io.Reader, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.uploaded[objectKey] = data
	return objectKey, nil
}

func (s *fakeStorage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResult, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://store.example/%s?expires=%d", objectKey, int64(expires.Seconds())), nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	s.deletedKeys = append(s.deletedKeys, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}
