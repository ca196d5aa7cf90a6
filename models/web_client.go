package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WebClient is one branded tenant. Domains map inbound hostnames to the
// tenant; the ID is the partition key for blog posts and Instagram tokens.
// Tenants are provisioned out-of-band, so there is no create path here.
type WebClient struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug      string             `bson:"slug" json:"slug"`
	Name      string             `bson:"name" json:"name"`
	Domains   []string           `bson:"domains" json:"domains"`
	Branding  ClientBranding     `bson:"branding" json:"branding"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type ClientBranding struct {
	LogoURL        string `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	PrimaryColor   string `bson:"primary_color,omitempty" json:"primary_color,omitempty"`
	SecondaryColor string `bson:"secondary_color,omitempty" json:"secondary_color,omitempty"`
	AccentColor    string `bson:"accent_color,omitempty" json:"accent_color,omitempty"`
	Tagline        string `bson:"tagline,omitempty" json:"tagline,omitempty"`
}
