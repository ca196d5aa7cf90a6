package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(client, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	ctx := context.Background()

	// Blog posts: slug unique per tenant, listing sorted by publish date
	blogCollection := db.Collection("blog_posts")
	blogIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "client_id", Value: 1}, {Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "published_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "category", Value: 1}},
		},
	}
	_, err := blogCollection.Indexes().CreateMany(ctx, blogIndexes)
	if err != nil {
		return err
	}

	// Tenants: unique slug, multikey domain lookup
	clientsCollection := db.Collection("web_clients")
	clientIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "domains", Value: 1}},
		},
	}
	_, err = clientsCollection.Indexes().CreateMany(ctx, clientIndexes)
	if err != nil {
		return err
	}

	// Instagram tokens: one per tenant, expiry scan for the refresh sweep
	tokensCollection := db.Collection("instagram_tokens")
	tokenIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "client_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "token_expires_at", Value: 1}},
		},
	}
	_, err = tokensCollection.Indexes().CreateMany(ctx, tokenIndexes)
	return err
}
