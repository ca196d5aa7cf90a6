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

type MongoTokenStore struct {
	collection *mongo.Collection
}

func NewMongoTokenStore(collection *mongo.Collection) *MongoTokenStore {
	return &MongoTokenStore{collection: collection}
}

func (s *MongoTokenStore) FindByClientID(ctx context.Context, clientID primitive.ObjectID) (*models.InstagramToken, error) {
	var token models.InstagramToken
	err := s.collection.FindOne(ctx, bson.M{"client_id": clientID}).Decode(&token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: no Instagram token for tenant", utils.ErrNotFound)
		}
		return nil, err
	}
	return &token, nil
}

func (s *MongoTokenStore) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]models.InstagramToken, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"token_expires_at": bson.M{"$lte": cutoff}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tokens := []models.InstagramToken{}
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *MongoTokenStore) Upsert(ctx context.Context, token *models.InstagramToken) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"access_token":       token.AccessToken,
			"instagram_user_id":  token.InstagramUserID,
			"instagram_username": token.InstagramUsername,
			"token_expires_at":   token.TokenExpiresAt,
			"updated_at":         now,
		},
		"$setOnInsert": bson.M{
			"client_id":  token.ClientID,
			"created_at": now,
		},
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"client_id": token.ClientID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoTokenStore) UpdateCredentials(ctx context.Context, clientID primitive.ObjectID, accessToken string, expiresAt time.Time) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"client_id": clientID},
		bson.M{"$set": bson.M{
			"access_token":     accessToken,
			"token_expires_at": expiresAt,
			"updated_at":       time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: no Instagram token for tenant", utils.ErrNotFound)
	}
	return nil
}
