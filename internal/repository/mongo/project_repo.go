package mongo

import (
	"context"
	"errors"
	"time"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const projectCollectionName = "projects"

// mongoProjectRepository implements repository.ProjectRepository
type mongoProjectRepository struct {
	collection *mongo.Collection
}

// NewMongoProjectRepository creates a new Project repository backed by MongoDB.
func NewMongoProjectRepository(db *mongo.Database) repository.ProjectRepository {
	return &mongoProjectRepository{
		collection: db.Collection(projectCollectionName),
	}
}

// Create inserts a new project listing into the database.
func (r *mongoProjectRepository) Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error) {
	if project.Title == "" || project.ProfessorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("project title and professor ID are required")
	}

	project.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a project by its ID.
func (r *mongoProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var project domain.Project
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetByProfessorID retrieves all projects posted by a specific professor.
func (r *mongoProjectRepository) GetByProfessorID(ctx context.Context, professorID primitive.ObjectID) ([]domain.Project, error) {
	var projects []domain.Project
	filter := bson.M{"professorId": professorID}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}) // Sort by newest first

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// ListVisiblePublished retrieves projects with stored status published and the
// visibility flag set. Deadline-based closure is applied at read time by the
// service layer.
func (r *mongoProjectRepository) ListVisiblePublished(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	filter := bson.M{
		"status":  domain.ProjectStatusPublished,
		"visible": true,
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// UpdateStatus persists a new stored status and bumps the update timestamp.
// Transition legality is the service layer's responsibility.
func (r *mongoProjectRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ProjectStatus) error {
	if id == primitive.NilObjectID {
		return errors.New("project ID is required for update")
	}

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a project, ensuring it belongs to the specified professor.
// The filter prevents one professor from deleting another's listing.
func (r *mongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID, professorID primitive.ObjectID) error {
	filter := bson.M{
		"_id":         id,
		"professorId": professorID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the project didn't exist or it belongs to another professor;
		// the filter doesn't match in both cases.
		return repository.ErrNotFound
	}

	return nil
}

// EnsureProjectIndexes creates necessary indexes for the projects collection.
func EnsureProjectIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Index for finding projects by the professor who posted them
			Keys:    bson.D{{Key: "professorId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Compound index backing the public published listing
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "visible", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("project_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
