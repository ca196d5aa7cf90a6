package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogPost is a bilingual blog entry owned by one tenant. The *_es fields
// mirror the English-slot fields and are kept in sync on every write.
type BlogPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"client_id" json:"client_id"`
	Slug          string             `bson:"slug" json:"slug"`
	Title         string             `bson:"title" json:"title"`
	TitleEs       string             `bson:"title_es" json:"title_es"`
	Excerpt       string             `bson:"excerpt" json:"excerpt"`
	ExcerptEs     string             `bson:"excerpt_es" json:"excerpt_es"`
	Content       string             `bson:"content" json:"content"`
	ContentEs     string             `bson:"content_es" json:"content_es"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags          []string           `bson:"tags" json:"tags"`
	FeaturedImage string             `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
	Author        string             `bson:"author,omitempty" json:"author,omitempty"`
	PublishedAt   time.Time          `bson:"published_at" json:"published_at"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateBlogPostRequest struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	Author        string   `json:"author,omitempty"`
	ClientID      string   `json:"client_id"`
	TitleEs       string   `json:"title_es,omitempty"`
	ExcerptEs     string   `json:"excerpt_es,omitempty"`
	ContentEs     string   `json:"content_es,omitempty"`
}

type UpdateBlogPostRequest struct {
	Title         *string   `json:"title,omitempty"`
	Slug          *string   `json:"slug,omitempty"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	Content       *string   `json:"content,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	FeaturedImage *string   `json:"featured_image,omitempty"`
	Author        *string   `json:"author,omitempty"`
	TitleEs       *string   `json:"title_es,omitempty"`
	ExcerptEs     *string   `json:"excerpt_es,omitempty"`
	ContentEs     *string   `json:"content_es,omitempty"`
}

// HasLanguageChange reports whether the patch touches any of the six
// translated fields, which forces a re-sync before persisting.
func (r *UpdateBlogPostRequest) HasLanguageChange() bool {
	return r.Title != nil || r.Excerpt != nil || r.Content != nil ||
		r.TitleEs != nil || r.ExcerptEs != nil || r.ContentEs != nil
}
