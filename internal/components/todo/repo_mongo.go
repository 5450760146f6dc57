package todo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "todos"

type (
	todoDocument struct {
		ID          primitive.ObjectID `bson:"_id,omitempty"`
		Title       string             `bson:"title"`
		Description string             `bson:"description,omitempty"`
		DueDate     *time.Time         `bson:"due_date,omitempty"`
		Priority    string             `bson:"priority,omitempty"`
		Completed   bool               `bson:"completed"`
		CreatedBy   primitive.ObjectID `bson:"createdBy"`
		CreatedAt   time.Time          `bson:"createdAt"`
		UpdatedAt   time.Time          `bson:"updatedAt"`
	}

	mongoRepo struct {
		coll *mongo.Collection
	}
)

// NewMongoRepo returns a repo over the todos collection and makes sure the
// owner index exists.
func NewMongoRepo(db *mongo.Database) (repoer, error) {
	coll := db.Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdBy", Value: 1}},
	})
	if err != nil {
		return nil, err
	}

	return &mongoRepo{coll: coll}, nil
}

func (d todoDocument) toTodo() Todo {
	return Todo{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    Priority(d.Priority),
		Completed:   d.Completed,
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ownedFilter matches id and owner. Malformed ids cannot match anything and
// are reported as not found.
func ownedFilter(ownerID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTodoNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrTodoNotFound
	}
	return bson.M{"_id": oid, "createdBy": owner}, nil
}

func (r *mongoRepo) Create(ctx context.Context, ownerID string, req CreateTodoIn) (*Todo, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrOwnerNotFound
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := todoDocument{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.ptr(),
		Priority:    string(req.Priority),
		CreatedBy:   owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	t := doc.toTodo()
	return &t, nil
}

func (r *mongoRepo) List(ctx context.Context, ownerID string) ([]Todo, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []Todo{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"createdBy": owner}, opts)
	if err != nil {
		return nil, err
	}

	var docs []todoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	todos := make([]Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toTodo())
	}
	return todos, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, ownerID, id string) (*Todo, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	var doc todoDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	t := doc.toTodo()
	return &t, nil
}

// updateDocument turns the present fields into a $set, plus an $unset of
// due_date when it was sent as null.
func updateDocument(req UpdateTodoIn, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.DueDate.Set && req.DueDate.Value != nil {
		set["due_date"] = req.DueDate.Value.Time
	}
	if req.Priority != nil {
		set["priority"] = string(*req.Priority)
	}
	if req.Completed != nil {
		set["completed"] = *req.Completed
	}

	update := bson.M{"$set": set}
	if req.DueDate.Set && req.DueDate.Value == nil {
		update["$unset"] = bson.M{"due_date": ""}
	}
	return update
}

// Update applies a $set of the non-nil fields and returns the document after
// the update. With no fields it returns the current todo.
func (r *mongoRepo) Update(ctx context.Context, ownerID, id string, req UpdateTodoIn) (*Todo, error) {
	if req.empty() {
		return r.GetByID(ctx, ownerID, id)
	}

	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc todoDocument
	err = r.coll.FindOneAndUpdate(ctx, filter, updateDocument(req, time.Now().UTC()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	t := doc.toTodo()
	return &t, nil
}

func (r *mongoRepo) Delete(ctx context.Context, ownerID, id string) error {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrTodoNotFound
	}

	return nil
}
