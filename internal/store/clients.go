package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"realty-marketing-platform/models"
	"realty-marketing-platform/utils"
)

type MongoClientStore struct {
	collection *mongo.Collection
}

func NewMongoClientStore(collection *mongo.Collection) *MongoClientStore {
	return &MongoClientStore{collection: collection}
}

func (s *MongoClientStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WebClient, error) {
	var client models.WebClient
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: tenant %s", utils.ErrNotFound, id.Hex())
		}
		return nil, err
	}
	return &client, nil
}

func (s *MongoClientStore) FindBySlug(ctx context.Context, slug string) (*models.WebClient, error) {
	var client models.WebClient
	err := s.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: tenant %q", utils.ErrNotFound, slug)
		}
		return nil, err
	}
	return &client, nil
}

func (s *MongoClientStore) FindByDomain(ctx context.Context, hostname string) (*models.WebClient, error) {
	var client models.WebClient
	err := s.collection.FindOne(ctx, bson.M{"domains": hostname}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: no tenant for domain %q", utils.ErrNotFound, hostname)
		}
		return nil, err
	}
	return &client, nil
}
