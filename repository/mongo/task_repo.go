package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	DueDate     time.Time          `bson:"dueDate"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		DueDate:     d.DueDate.UTC(),
		Owner:       d.Owner.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type taskRepository struct {
	coll *mongo.Collection
}

// NewTaskRepository returns a Mongo-backed implementation of TaskRepository.
func NewTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &taskRepository{coll: db.Collection(tasksCollection)}
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	owner, err := primitive.ObjectIDFromHex(filter.Owner)
	if err != nil {
		return []domain.Task{}, nil
	}

	query := bson.M{"owner": owner}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sortSpec(filter.SortBy, filter.Order)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := make([]domain.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, cursor.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	owner, err := primitive.ObjectIDFromHex(task.Owner)
	if err != nil {
		return nil, domain.ErrInvalidPayload
	}

	ts := now()
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		DueDate:     task.DueDate.UTC().Truncate(time.Millisecond),
		Owner:       owner,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translateError(err)
	}

	created := doc.toDomain()
	return &created, nil
}

// Update is a single FindOneAndUpdate on {_id, owner}; the store evaluates
// ownership and mutation atomically.
func (r *taskRepository) Update(ctx context.Context, id, owner string, patch domain.TaskPatch) (*domain.Task, error) {
	filter, err := ownedFilter(id, owner)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.DueDate != nil {
		set["dueDate"] = patch.DueDate.UTC().Truncate(time.Millisecond)
	}

	var doc taskDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, returnAfter()).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, translateError(err)
	}

	updated := doc.toDomain()
	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id, owner string) error {
	filter, err := ownedFilter(id, owner)
	if err != nil {
		return err
	}

	if err := r.coll.FindOneAndDelete(ctx, filter).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func ownedFilter(id, owner string) (bson.M, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ownerID, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return bson.M{"_id": oid, "owner": ownerID}, nil
}

func sortSpec(field domain.SortField, order domain.SortOrder) bson.D {
	direction := -1
	if order == domain.OrderAsc {
		direction = 1
	}
	key := string(field)
	switch field {
	case domain.SortByDueDate, domain.SortByTitle, domain.SortByCreatedAt:
	default:
		key = string(domain.SortByCreatedAt)
	}
	return bson.D{{Key: key, Value: direction}, {Key: "_id", Value: direction}}
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
