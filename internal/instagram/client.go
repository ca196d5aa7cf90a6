// Package instagram is a hand-built client for the Instagram Basic Display
// flavor of the Graph API: OAuth code exchange, long-lived token refresh,
// profile and media reads.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API is the surface the token lifecycle and feed services consume.
type API interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	ExchangeLongLived(ctx context.Context, shortToken string) (string, int64, error)
	RefreshToken(ctx context.Context, accessToken string) (string, int64, error)
	GetProfile(ctx context.Context, accessToken string) (*Profile, error)
	GetRecentMedia(ctx context.Context, userID, accessToken string, limit int) ([]Media, error)
}

type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Media struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

type Client struct {
	AppID       string
	AppSecret   string
	RedirectURI string
	OAuthURL    string
	GraphURL    string
	HTTPClient  *http.Client
}

func NewClient(appID, appSecret, redirectURI, oauthURL, graphURL string) *Client {
	return &Client{
		AppID:       appID,
		AppSecret:   appSecret,
		RedirectURI: redirectURI,
		OAuthURL:    strings.TrimRight(oauthURL, "/"),
		GraphURL:    strings.TrimRight(graphURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthorizeURL builds the provider redirect carrying the tenant slug as
// opaque state.
func (c *Client) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.AppID)
	params.Set("redirect_uri", c.RedirectURI)
	params.Set("scope", "user_profile,user_media")
	params.Set("response_type", "code")
	params.Set("state", state)
	return c.OAuthURL + "/oauth/authorize?" + params.Encode()
}

// ExchangeCode trades an authorization code for a short-lived access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.AppID)
	form.Set("client_secret", c.AppSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.RedirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.OAuthURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result struct {
		AccessToken string `json:"access_token"`
		UserID      any    `json:"user_id"`
	}
	if err := c.do(req, &result); err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("code exchange returned no access token")
	}
	return result.AccessToken, nil
}

// ExchangeLongLived trades a short-lived token for a ~60 day one. The
// returned lifetime is the provider's expires_in in seconds.
func (c *Client) ExchangeLongLived(ctx context.Context, shortToken string) (string, int64, error) {
	params := url.Values{}
	params.Set("grant_type", "ig_exchange_token")
	params.Set("client_secret", c.AppSecret)
	params.Set("access_token", shortToken)

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := c.get(ctx, c.GraphURL+"/access_token?"+params.Encode(), &result); err != nil {
		return "", 0, fmt.Errorf("long-lived exchange failed: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("long-lived exchange returned no access token")
	}
	return result.AccessToken, result.ExpiresIn, nil
}

// RefreshToken renews a long-lived token that is at least 24h old.
func (c *Client) RefreshToken(ctx context.Context, accessToken string) (string, int64, error) {
	params := url.Values{}
	params.Set("grant_type", "ig_refresh_token")
	params.Set("access_token", accessToken)

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := c.get(ctx, c.GraphURL+"/refresh_access_token?"+params.Encode(), &result); err != nil {
		return "", 0, fmt.Errorf("token refresh failed: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("token refresh returned no access token")
	}
	return result.AccessToken, result.ExpiresIn, nil
}

func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	params := url.Values{}
	params.Set("fields", "id,username")
	params.Set("access_token", accessToken)

	var profile Profile
	if err := c.get(ctx, c.GraphURL+"/me?"+params.Encode(), &profile); err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("profile lookup returned no user id")
	}
	return &profile, nil
}

func (c *Client) GetRecentMedia(ctx context.Context, userID, accessToken string, limit int) ([]Media, error) {
	params := url.Values{}
	params.Set("fields", "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp")
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("access_token", accessToken)

	var result struct {
		Data []Media `json:"data"`
	}
	if err := c.get(ctx, c.GraphURL+"/"+userID+"/media?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("media fetch failed: %w", err)
	}
	return result.Data, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode >= 400 {
		// The Graph API wraps errors two different ways depending on the
		// endpoint family
		var wrapped struct {
			Error        *apiError `json:"error"`
			ErrorMessage string    `json:"error_message"`
		}
		if json.Unmarshal(body, &wrapped) == nil {
			if wrapped.Error != nil && wrapped.Error.Message != "" {
				return fmt.Errorf("API error %d: %s", wrapped.Error.Code, wrapped.Error.Message)
			}
			if wrapped.ErrorMessage != "" {
				return fmt.Errorf("API error: %s", wrapped.ErrorMessage)
			}
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}
