// Package store wraps the MongoDB collections behind narrow interfaces so
// the services stay testable against fakes. Every blog and token query
// filters by client_id; cross-tenant reads are not expressible through
// these interfaces.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"realty-marketing-platform/models"
)

type BlogStore interface {
	Insert(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, clientID primitive.ObjectID, slug string) (*models.BlogPost, error)
	List(ctx context.Context, clientID primitive.ObjectID, category string, limit int64) ([]models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, clientID, id primitive.ObjectID) error
}

type ClientStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.WebClient, error)
	FindBySlug(ctx context.Context, slug string) (*models.WebClient, error)
	FindByDomain(ctx context.Context, hostname string) (*models.WebClient, error)
}

type TokenStore interface {
	FindByClientID(ctx context.Context, clientID primitive.ObjectID) (*models.InstagramToken, error)
	FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]models.InstagramToken, error)
	Upsert(ctx context.Context, token *models.InstagramToken) error
	// UpdateCredentials rotates the token and expiry in a single write so a
	// failed refresh can never leave a half-updated row.
	UpdateCredentials(ctx context.Context, clientID primitive.ObjectID, accessToken string, expiresAt time.Time) error
}

// Stores bundles the mongo-backed repositories built from one database.
type Stores struct {
	Blog    BlogStore
	Clients ClientStore
	Tokens  TokenStore
}

func NewStores(db *mongo.Database) *Stores {
	return &Stores{
		Blog:    NewMongoBlogStore(db.Collection("blog_posts")),
		Clients: NewMongoClientStore(db.Collection("web_clients")),
		Tokens:  NewMongoTokenStore(db.Collection("instagram_tokens")),
	}
}
