package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"realty-marketing-platform/internal/instagram"
	"realty-marketing-platform/internal/logger"
	"realty-marketing-platform/internal/store"
	"realty-marketing-platform/internal/telemetry"
	"realty-marketing-platform/models"
	"realty-marketing-platform/utils"
)

const feedPageSize = 6

// InstagramService owns the token lifecycle (OAuth connect, scheduled
// refresh) and the feed read path for every tenant.
type InstagramService struct {
	api     instagram.API
	tokens  store.TokenStore
	clients store.ClientStore
	cache   *redis.Client
	metrics *telemetry.Metrics

	refreshWindow time.Duration
	feedCacheTTL  time.Duration
	now           func() time.Time
}

func NewInstagramService(
	api instagram.API,
	tokens store.TokenStore,
	clients store.ClientStore,
	cache *redis.Client,
	metrics *telemetry.Metrics,
	refreshWindowDays int,
	feedCacheTTLSeconds int,
) *InstagramService {
	return &InstagramService{
		api:           api,
		tokens:        tokens,
		clients:       clients,
		cache:         cache,
		metrics:       metrics,
		refreshWindow: time.Duration(refreshWindowDays) * 24 * time.Hour,
		feedCacheTTL:  time.Duration(feedCacheTTLSeconds) * time.Second,
		now:           time.Now,
	}
}

// AuthorizeURL returns the provider redirect for a tenant, with the tenant
// slug carried as opaque state.
func (s *InstagramService) AuthorizeURL(ctx context.Context, tenantSlug string) (string, error) {
	if tenantSlug == "" {
		return "", fmt.Errorf("%w: client_id is required", utils.ErrValidation)
	}
	// The slug must exist before we send the user off to the provider
	if _, err := s.clients.FindBySlug(ctx, tenantSlug); err != nil {
		return "", err
	}
	return s.api.AuthorizeURL(tenantSlug), nil
}

// HandleCallback finishes the OAuth dance: code -> short-lived token ->
// long-lived token -> profile -> upsert. The upsert is the last step so a
// failure anywhere leaves no partial row.
func (s *InstagramService) HandleCallback(ctx context.Context, tenantSlug, code string) (*models.InstagramToken, error) {
	if code == "" || tenantSlug == "" {
		return nil, fmt.Errorf("%w: code and state are required", utils.ErrValidation)
	}

	client, err := s.clients.FindBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}

	shortToken, err := s.api.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}

	longToken, expiresIn, err := s.api.ExchangeLongLived(ctx, shortToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}

	profile, err := s.api.GetProfile(ctx, longToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}

	token := &models.InstagramToken{
		ClientID:          client.ID,
		AccessToken:       longToken,
		InstagramUserID:   profile.ID,
		InstagramUsername: profile.Username,
		TokenExpiresAt:    s.now().Add(time.Duration(expiresIn) * time.Second),
	}

	if err := s.tokens.Upsert(ctx, token); err != nil {
		return nil, err
	}

	s.invalidateFeedCache(ctx, tenantSlug)

	logger.Info("Instagram account connected",
		"tenant", tenantSlug, "username", profile.Username,
		"expires_at", token.TokenExpiresAt)
	return token, nil
}

// RefreshExpiringTokens renews every token expiring within the lookahead
// window. Per-token failures go into the report; one tenant's dead token
// never blocks the others.
func (s *InstagramService) RefreshExpiringTokens(ctx context.Context) (*models.RefreshReport, error) {
	cutoff := s.now().Add(s.refreshWindow)
	expiring, err := s.tokens.FindExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	report := &models.RefreshReport{
		Total:   len(expiring),
		Results: []models.RefreshResult{},
	}

	for i := range expiring {
		token := &expiring[i]
		tenant := s.tenantLabel(ctx, token)

		newToken, expiresIn, err := s.api.RefreshToken(ctx, token.AccessToken)
		if err == nil {
			expiresAt := s.now().Add(time.Duration(expiresIn) * time.Second)
			err = s.tokens.UpdateCredentials(ctx, token.ClientID, newToken, expiresAt)
		}

		if err != nil {
			report.Errors++
			report.Results = append(report.Results, models.RefreshResult{
				Tenant: tenant,
				Status: "error",
				Detail: err.Error(),
			})
			s.metrics.RecordSweepOutcome(ctx, tenant, "error")
			logger.Error("Token refresh failed", "tenant", tenant, "error", err)
			continue
		}

		report.Success++
		report.Results = append(report.Results, models.RefreshResult{
			Tenant: tenant,
			Status: "refreshed",
		})
		s.metrics.RecordSweepOutcome(ctx, tenant, "refreshed")
		logger.Info("Token refreshed", "tenant", tenant)
	}

	logger.Info("Refresh sweep finished",
		"total", report.Total, "success", report.Success, "errors", report.Errors)
	return report, nil
}

// GetFeed returns the tenant's 6 most recent media items. An expired token
// fails fast with a reconnect-required error before any provider call.
func (s *InstagramService) GetFeed(ctx context.Context, tenantSlug string) (*models.FeedResponse, error) {
	client, err := s.clients.FindBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.FindByClientID(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	if token.Expired(s.now()) {
		return nil, fmt.Errorf("%w: Instagram token expired, reconnect required", utils.ErrExpiredCredential)
	}

	if cached := s.readFeedCache(ctx, tenantSlug); cached != nil {
		return cached, nil
	}

	profile, err := s.api.GetProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}

	media, err := s.api.GetRecentMedia(ctx, profile.ID, token.AccessToken, feedPageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}

	feed := &models.FeedResponse{
		Username: profile.Username,
		Posts:    make([]models.FeedItem, 0, len(media)),
	}
	for _, m := range media {
		feed.Posts = append(feed.Posts, models.FeedItem{
			ID:        m.ID,
			Caption:   m.Caption,
			MediaType: m.MediaType,
			MediaURL:  DisplayURL(m),
			Permalink: m.Permalink,
			Timestamp: m.Timestamp,
		})
	}
	if len(feed.Posts) > feedPageSize {
		feed.Posts = feed.Posts[:feedPageSize]
	}

	s.writeFeedCache(ctx, tenantSlug, feed)
	return feed, nil
}

// DisplayURL selects the single URL the frontend renders: videos show their
// thumbnail, every other media type shows the primary media URL.
func DisplayURL(m instagram.Media) string {
	if m.MediaType == "VIDEO" && m.ThumbnailURL != "" {
		return m.ThumbnailURL
	}
	return m.MediaURL
}

func (s *InstagramService) tenantLabel(ctx context.Context, token *models.InstagramToken) string {
	client, err := s.clients.FindByID(ctx, token.ClientID)
	if err != nil {
		return token.ClientID.Hex()
	}
	return client.Slug
}

func feedCacheKey(tenantSlug string) string {
	return "igfeed:" + tenantSlug
}

// readFeedCache returns nil on any miss or decode problem; the caller just
// goes to the provider.
func (s *InstagramService) readFeedCache(ctx context.Context, tenantSlug string) *models.FeedResponse {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, feedCacheKey(tenantSlug)).Bytes()
	if err != nil {
		if s.metrics != nil && err == redis.Nil {
			s.metrics.FeedCacheMisses.Add(ctx, 1)
		}
		return nil
	}

	idx := bytes.IndexByte(raw, '|')
	if idx < 0 {
		return nil
	}
	payload, err := utils.DecompressData(raw[idx+1:], utils.CompressionAlgorithm(raw[:idx]))
	if err != nil {
		return nil
	}

	var feed models.FeedResponse
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil
	}

	if s.metrics != nil {
		s.metrics.FeedCacheHits.Add(ctx, 1)
	}
	return &feed
}

func (s *InstagramService) writeFeedCache(ctx context.Context, tenantSlug string, feed *models.FeedResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(feed)
	if err != nil {
		return
	}
	compressed, algorithm, err := utils.CompressText(string(payload))
	if err != nil {
		return
	}

	entry := append([]byte(string(algorithm)+"|"), compressed...)
	if err := s.cache.Set(ctx, feedCacheKey(tenantSlug), entry, s.feedCacheTTL).Err(); err != nil {
		logger.Warn("Feed cache write failed", "tenant", tenantSlug, "error", err)
	}
}

func (s *InstagramService) invalidateFeedCache(ctx context.Context, tenantSlug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, feedCacheKey(tenantSlug)).Err(); err != nil {
		logger.Warn("Feed cache invalidation failed", "tenant", tenantSlug, "error", err)
	}
}
