package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"realty-marketing-platform/models"
	"realty-marketing-platform/utils"
)

type MongoBlogStore struct {
	collection *mongo.Collection
}

func NewMongoBlogStore(collection *mongo.Collection) *MongoBlogStore {
	return &MongoBlogStore{collection: collection}
}

func (s *MongoBlogStore) Insert(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.PublishedAt.IsZero() {
		post.PublishedAt = now
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	result, err := s.collection.InsertOne(ctx, post)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: slug %q already exists for this tenant", utils.ErrValidation, post.Slug)
		}
		return nil, err
	}

	post.ID = result.InsertedID.(primitive.ObjectID)
	return post, nil
}

func (s *MongoBlogStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: blog post %s", utils.ErrNotFound, id.Hex())
		}
		return nil, err
	}
	return &post, nil
}

func (s *MongoBlogStore) FindBySlug(ctx context.Context, clientID primitive.ObjectID, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.collection.FindOne(ctx, bson.M{"client_id": clientID, "slug": slug}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: blog post %q", utils.ErrNotFound, slug)
		}
		return nil, err
	}
	return &post, nil
}

func (s *MongoBlogStore) List(ctx context.Context, clientID primitive.ObjectID, category string, limit int64) ([]models.BlogPost, error) {
	filter := bson.M{"client_id": clientID}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.BlogPost{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoBlogStore) Update(ctx context.Context, post *models.BlogPost) error {
	post.UpdatedAt = time.Now()

	result, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": post.ID, "client_id": post.ClientID}, post)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: slug %q already exists for this tenant", utils.ErrValidation, post.Slug)
		}
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: blog post %s", utils.ErrNotFound, post.ID.Hex())
	}
	return nil
}

func (s *MongoBlogStore) Delete(ctx context.Context, clientID, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "client_id": clientID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: blog post %s", utils.ErrNotFound, id.Hex())
	}
	return nil
}
