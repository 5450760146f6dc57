package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "users"

type (
	userDocument struct {
		ID       primitive.ObjectID `bson:"_id,omitempty"`
		Username string             `bson:"username"`
		Password string             `bson:"password"`
	}

	mongoRepo struct {
		coll *mongo.Collection
	}
)

// NewMongoRepo returns a repo over the users collection and makes sure the
// unique username index exists.
func NewMongoRepo(db *mongo.Database) (repoer, error) {
	coll := db.Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &mongoRepo{coll: coll}, nil
}

func (d userDocument) toUser() *User {
	return &User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
	}
}

func (r *mongoRepo) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	doc := userDocument{
		ID:       primitive.NewObjectID(),
		Username: username,
		Password: passwordHash,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *mongoRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoRepo) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *mongoRepo) List(ctx context.Context) ([]User, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(docs))
	for _, d := range docs {
		users = append(users, *d.toUser())
	}
	return users, nil
}
