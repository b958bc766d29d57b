// Package repo provides the persistence layer for users and file
// metadata. Services depend on the interfaces here; the Mongo
// implementations are wired in main and the in-memory ones back the
// tests.
package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"filesmanager/internal/models"
)

// FileStore persists file metadata. Lookups return (nil, nil) when no
// record matches; absence is not an error at this layer.
type FileStore interface {
	Insert(ctx context.Context, f *models.File) error
	FindByID(ctx context.Context, id string) (*models.File, error)
	FindByParent(ctx context.Context, userID, parentID string, skip, limit int) ([]models.File, error)
	SetVisibility(ctx context.Context, id string, isPublic bool) error
	Count(ctx context.Context) (int64, error)
}

type MongoFileStore struct {
	col *mongo.Collection
}

func NewMongoFileStore(database *mongo.Database) *MongoFileStore {
	return &MongoFileStore{col: database.Collection("files")}
}

func (s *MongoFileStore) Insert(ctx context.Context, f *models.File) error {
	f.ID = primitive.NewObjectID()
	if _, err := s.col.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	return nil
}

func (s *MongoFileStore) FindByID(ctx context.Context, id string) (*models.File, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any record.
		return nil, nil
	}
	var f models.File
	err = s.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	return &f, nil
}

func (s *MongoFileStore) FindByParent(ctx context.Context, userID, parentID string, skip, limit int) ([]models.File, error) {
	filter := bson.M{"user_id": userID, "parent_id": parentID}
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}}) // ObjectIDs sort in insertion order

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer cursor.Close(ctx)

	files := []models.File{}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("decoding files: %w", err)
	}
	return files, nil
}

func (s *MongoFileStore) SetVisibility(ctx context.Context, id string, isPublic bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = s.col.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"is_public": isPublic}})
	if err != nil {
		return fmt.Errorf("updating visibility: %w", err)
	}
	return nil
}

func (s *MongoFileStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
