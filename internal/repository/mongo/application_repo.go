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

const applicationCollectionName = "applications"

// mongoApplicationRepository implements repository.ApplicationRepository
type mongoApplicationRepository struct {
	collection *mongo.Collection
}

// NewMongoApplicationRepository creates a new Application repository backed by MongoDB.
func NewMongoApplicationRepository(db *mongo.Database) repository.ApplicationRepository {
	return &mongoApplicationRepository{
		collection: db.Collection(applicationCollectionName),
	}
}

// Create inserts a new application record. The resume object key must already
// exist in the store; the record is written second so it never references a
// missing file.
func (r *mongoApplicationRepository) Create(ctx context.Context, app *domain.Application) (primitive.ObjectID, error) {
	if app.ProjectID == primitive.NilObjectID ||
		app.StudentID == primitive.NilObjectID ||
		app.ResumeObjectKey == "" {
		return primitive.NilObjectID, errors.New("application requires projectId, studentId, and resumeObjectKey")
	}

	app.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}

	result, err := r.collection.InsertOne(ctx, app)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an application by its ID.
func (r *mongoApplicationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Application, error) {
	var app domain.Application
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// GetByProjectID retrieves all applications submitted against a project.
func (r *mongoApplicationRepository) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]domain.Application, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

// GetByStudentID retrieves all applications a student has submitted.
func (r *mongoApplicationRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Application, error) {
	return r.find(ctx, bson.M{"studentId": studentID})
}

func (r *mongoApplicationRepository) find(ctx context.Context, filter bson.M) ([]domain.Application, error) {
	var apps []domain.Application

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// UpdateStatus persists a new application status and bumps the update
// timestamp. Only the status field is touched; the resume object key is
// immutable after creation.
func (r *mongoApplicationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ApplicationStatus) error {
	if id == primitive.NilObjectID {
		return errors.New("application ID is required for update")
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

// CountByStatus groups applications by status using an aggregation pipeline,
// optionally scoped to a single project.
func (r *mongoApplicationRepository) CountByStatus(ctx context.Context, projectID *primitive.ObjectID) (map[domain.ApplicationStatus]int64, error) {
	pipeline := mongo.Pipeline{}
	if projectID != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"projectId": *projectID}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":   "$status",
		"count": bson.M{"$sum": 1},
	}}})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status domain.ApplicationStatus `bson:"_id"`
		Count  int64                    `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// EnsureApplicationIndexes creates necessary indexes for the applications collection.
func EnsureApplicationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Index for listing applications per project (professor view)
			Keys:    bson.D{{Key: "projectId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Index for listing a student's own applications
			Keys:    bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index(),
		},
		{
			// One application per student per project
			Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "studentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Backs the status aggregation pipeline when scoped per project
			Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
