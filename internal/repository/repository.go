package repository

import (
	"context"
	"unimatch/research-app/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProjectRepository defines the interface for interacting with project listings.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	GetByProfessorID(ctx context.Context, professorID primitive.ObjectID) ([]domain.Project, error)
	// ListVisiblePublished returns projects whose stored status is published
	// and visibility flag is set. Deadline expiry is a read-time projection
	// applied by the service layer, not a query filter.
	ListVisiblePublished(ctx context.Context) ([]domain.Project, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ProjectStatus) error
	Delete(ctx context.Context, id primitive.ObjectID, professorID primitive.ObjectID) error
}

// ApplicationRepository defines the interface for interacting with student
// applications, plus the status aggregation backing analytics.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Application, error)
	GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]domain.Application, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ApplicationStatus) error
	// CountByStatus groups applications by status, optionally scoped to one
	// project when projectID is non-nil.
	CountByStatus(ctx context.Context, projectID *primitive.ObjectID) (map[domain.ApplicationStatus]int64, error)
}
