package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstagramToken holds one tenant's long-lived Instagram access token.
// Exactly one row per tenant; re-authorizing replaces the prior token via
// an upsert keyed by client_id.
type InstagramToken struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID          primitive.ObjectID `bson:"client_id" json:"client_id"`
	AccessToken       string             `bson:"access_token" json:"-"`
	InstagramUserID   string             `bson:"instagram_user_id" json:"instagram_user_id"`
	InstagramUsername string             `bson:"instagram_username" json:"instagram_username"`
	TokenExpiresAt    time.Time          `bson:"token_expires_at" json:"token_expires_at"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// Expired reports whether the token is past its expiry. Callers must treat
// an expired token as requiring an explicit reconnect, never a silent
// refresh attempt.
func (t *InstagramToken) Expired(now time.Time) bool {
	return now.After(t.TokenExpiresAt)
}

// FeedItem is one media entry returned to the frontend. MediaURL already
// carries the display URL after the video/thumbnail selection rule.
type FeedItem struct {
	ID        string `json:"id"`
	Caption   string `json:"caption,omitempty"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
	Permalink string `json:"permalink"`
	Timestamp string `json:"timestamp"`
}

type FeedResponse struct {
	Username string     `json:"username"`
	Posts    []FeedItem `json:"posts"`
}

// RefreshResult is one tenant's outcome within a refresh sweep.
type RefreshResult struct {
	Tenant string `json:"tenant"`
	Status string `json:"status"` // "refreshed" or "error"
	Detail string `json:"detail,omitempty"`
}

type RefreshReport struct {
	Total   int             `json:"total"`
	Success int             `json:"success"`
	Errors  int             `json:"errors"`
	Results []RefreshResult `json:"results"`
}
