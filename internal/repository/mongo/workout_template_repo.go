package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutTemplateCollectionName = "workout_templates"

// mongoWorkoutTemplateRepository implements repository.WorkoutTemplateRepository
type mongoWorkoutTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutTemplateRepository creates a new WorkoutTemplate repository backed by MongoDB.
func NewMongoWorkoutTemplateRepository(db *mongo.Database) repository.WorkoutTemplateRepository {
	return &mongoWorkoutTemplateRepository{
		collection: db.Collection(workoutTemplateCollectionName),
	}
}

// Create inserts a new template into the database.
func (r *mongoWorkoutTemplateRepository) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	if template.Name == "" || template.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("template name and coach ID are required")
	}

	template.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a template by its ID.
func (r *mongoWorkoutTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	var template domain.WorkoutTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// GetByIDs retrieves every template whose ID is listed. Unknown IDs are ignored.
func (r *mongoWorkoutTemplateRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if len(ids) == 0 {
		return []domain.WorkoutTemplate{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// GetByCoachID retrieves all templates owned by a specific coach.
func (r *mongoWorkoutTemplateRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}) // newest first
	return r.find(ctx, bson.M{"coachId": coachID}, findOptions)
}

func (r *mongoWorkoutTemplateRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.WorkoutTemplate, error) {
	templates := []domain.WorkoutTemplate{}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update modifies an existing template. The owning coach never changes.
func (r *mongoWorkoutTemplateRepository) Update(ctx context.Context, template *domain.WorkoutTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("template ID is required for update")
	}
	if template.Name == "" {
		return errors.New("template name cannot be empty")
	}

	filter := bson.M{"_id": template.ID, "coachId": template.CoachID}
	set := bson.M{
		"name":                  template.Name,
		"description":           template.Description,
		"sport":                 template.Sport,
		"category":              template.Category,
		"supplementClass":       template.SupplementClass,
		"targetTss":             template.TargetTSS,
		"targetDurationMinutes": template.TargetDurationMinutes,
		"updatedAt":             time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if template.Code == "" {
		update["$unset"] = bson.M{"code": ""}
	} else {
		set["code"] = template.Code
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

// Delete removes a template, ensuring it belongs to the specified coach.
func (r *mongoWorkoutTemplateRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	// Matching on coachId too keeps one coach from deleting another's template.
	filter := bson.M{
		"_id":     id,
		"coachId": coachID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutTemplateIndexes creates necessary indexes for the templates collection.
func EnsureWorkoutTemplateIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Codes are unique per coach; partial so templates without a code don't collide
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"code": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("workout_template_text_search"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
