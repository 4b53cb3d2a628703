// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qolzam/telar/apps/photo-comments/comments/models"
)

// mongoCommentRepository implements CommentRepository on one MongoDB collection
type mongoCommentRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Text      string             `bson:"text"`
	Author    authorDocument     `bson:"author"`
	PhotoID   int64              `bson:"photoId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type authorDocument struct {
	ID   int64  `bson:"id"`
	Name string `bson:"name"`
}

type photoCount struct {
	PhotoID int64 `bson:"_id"`
	Count   int64 `bson:"count"`
}

// NewMongoCommentRepository creates a MongoDB repository for comments
func NewMongoCommentRepository(collection *mongo.Collection) CommentRepository {
	return &mongoCommentRepository{collection: collection, now: time.Now}
}

// Create inserts a new comment
func (r *mongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	// BSON dates carry millisecond precision.
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := commentDocument{
		ID:        primitive.NewObjectID(),
		Text:      comment.Text,
		Author:    authorDocument{ID: comment.Author.ID, Name: comment.Author.Name},
		PhotoID:   comment.PhotoID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	comment.ID = doc.ID.Hex()
	comment.CreatedAt = now
	return nil
}

// FindByPhotoID retrieves one page of comments for a photo
func (r *mongoCommentRepository) FindByPhotoID(ctx context.Context, photoID int64, limit, offset int) ([]*models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"photoId": photoID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments by photo ID: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	comments := make([]*models.Comment, len(docs))
	for i, doc := range docs {
		comments[i] = &models.Comment{
			ID:        doc.ID.Hex(),
			Text:      doc.Text,
			Author:    models.Author{ID: doc.Author.ID, Name: doc.Author.Name},
			PhotoID:   doc.PhotoID,
			CreatedAt: doc.CreatedAt.UTC(),
		}
	}
	return comments, nil
}

// CountByPhotoIDs groups matching comments by photo id in a single aggregation
func (r *mongoCommentRepository) CountByPhotoIDs(ctx context.Context, photoIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	if len(photoIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "photoId", Value: bson.D{{Key: "$in", Value: photoIDs}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$photoId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []photoCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode comment counts: %w", err)
	}
	for _, row := range rows {
		counts[row.PhotoID] = row.Count
	}
	return counts, nil
}

// EnsureIndexes creates the compound index backing list and count queries
func (r *mongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "photoId", Value: 1},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		},
		Options: options.Index().SetName("photoId_createdAt_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create comment indexes: %w", err)
	}
	return nil
}
