// internal/repository/mongo/planned_workout_repo.go
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

const plannedWorkoutCollectionName = "planned_workouts"

// mongoPlannedWorkoutRepository implements repository.PlannedWorkoutRepository
type mongoPlannedWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoPlannedWorkoutRepository creates a new PlannedWorkout repository.
func NewMongoPlannedWorkoutRepository(db *mongo.Database) repository.PlannedWorkoutRepository {
	return &mongoPlannedWorkoutRepository{
		collection: db.Collection(plannedWorkoutCollectionName),
	}
}

// Create inserts a new planned workout. Dates are stored as UTC midnight.
func (r *mongoPlannedWorkoutRepository) Create(ctx context.Context, workout *domain.PlannedWorkout) (primitive.ObjectID, error) {
	if workout.PlanID == primitive.NilObjectID || workout.AthleteID == primitive.NilObjectID || workout.Date.IsZero() {
		return primitive.NilObjectID, errors.New("planned workout requires planId, athleteId, and date")
	}
	workout.ID = primitive.NewObjectID()
	workout.Date = domain.DateOnly(workout.Date)
	workout.DayOfWeek = int(workout.Date.Weekday())
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single planned workout by its ID.
func (r *mongoPlannedWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlannedWorkout, error) {
	var workout domain.PlannedWorkout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByPlanID retrieves every slot of a plan in date order.
func (r *mongoPlannedWorkoutRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlannedWorkout, error) {
	return r.find(ctx, bson.M{"planId": planID})
}

// GetByPlanIDInRange retrieves the slots of a plan dated from..to inclusive.
func (r *mongoPlannedWorkoutRepository) GetByPlanIDInRange(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.PlannedWorkout, error) {
	return r.find(ctx, bson.M{"planId": planID, "date": dateRange(from, to)})
}

// GetByAthleteInRange retrieves an athlete's slots across plans dated from..to inclusive.
func (r *mongoPlannedWorkoutRepository) GetByAthleteInRange(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.PlannedWorkout, error) {
	return r.find(ctx, bson.M{"athleteId": athleteID, "date": dateRange(from, to)})
}

func (r *mongoPlannedWorkoutRepository) find(ctx context.Context, filter bson.M) ([]domain.PlannedWorkout, error) {
	workouts := []domain.PlannedWorkout{}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// ApplyDateChanges moves the listed slots of planID in one ordered bulk write.
func (r *mongoPlannedWorkoutRepository) ApplyDateChanges(ctx context.Context, planID primitive.ObjectID, changes []repository.DateChange) error {
	if len(changes) == 0 {
		return nil
	}
	now := time.Now().UTC()

	models := make([]mongo.WriteModel, 0, len(changes))
	for _, c := range changes {
		date := domain.DateOnly(c.Date)
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": c.PlannedWorkoutID, "planId": planID}).
			SetUpdate(bson.M{"$set": bson.M{
				"date":      date,
				"dayOfWeek": int(date.Weekday()),
				"updatedAt": now,
			}}))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return errors.Join(repository.ErrUpdateFailed, err)
	}
	if result.MatchedCount < int64(len(models)) {
		return repository.ErrNotFound
	}
	return nil
}

// dateRange builds an inclusive filter on calendar dates.
func dateRange(from, to time.Time) bson.M {
	return bson.M{"$gte": domain.DateOnly(from), "$lte": domain.DateOnly(to)}
}

// EnsurePlannedWorkoutIndexes creates necessary indexes. Call during startup.
func EnsurePlannedWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Not unique: redistribution may double a workout up with another.
			// One slot per date is enforced when slots are authored.
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
