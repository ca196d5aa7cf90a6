package middleware

import (
	"context"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realty-marketing-platform/models"
	"realty-marketing-platform/utils"
)

type stubClientStore struct {
	bySlug   map[string]*models.WebClient
	byDomain map[string]*models.WebClient
}

func (s *stubClientStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WebClient, error) {
	return nil, fmt.Errorf("%w: tenant %s", utils.ErrNotFound, id.Hex())
}

func (s *stubClientStore) FindBySlug(ctx context.Context, slug string) (*models.WebClient, error) {
	if client, ok := s.bySlug[slug]; ok {
		return client, nil
	}
	return nil, fmt.Errorf("%w: tenant %q", utils.ErrNotFound, slug)
}

func (s *stubClientStore) FindByDomain(ctx context.Context, hostname string) (*models.WebClient, error) {
	if client, ok := s.byDomain[hostname]; ok {
		return client, nil
	}
	return nil, fmt.Errorf("%w: no tenant for domain %q", utils.ErrNotFound, hostname)
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"www.beachhomes.com", "beachhomes.com"},
		{"beachhomes.com:8080", "beachhomes.com"},
		{"www.beachhomes.com:443", "beachhomes.com"},
		{"BeachHomes.COM", "beachhomes.com"},
		{"localhost:3000", "localhost"},
		{"beachhomes.com", "beachhomes.com"},
	}
	for _, tt := range tests {
		if got := NormalizeHost(tt.in); got != tt.want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveByDomain(t *testing.T) {
	beach := &models.WebClient{Slug: "beach-homes", Name: "Beach Homes"}
	store := &stubClientStore{
		byDomain: map[string]*models.WebClient{"beachhomes.com": beach},
		bySlug:   map[string]*models.WebClient{},
	}
	m := NewTenantMiddleware(store, "grand-strand-realty")

	got, err := m.Resolve(context.Background(), "www.beachhomes.com:443")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Slug != "beach-homes" {
		t.Errorf("resolved %q, want beach-homes", got.Slug)
	}
}

func TestResolveFallsBackToDefaultTenant(t *testing.T) {
	fallback := &models.WebClient{Slug: "grand-strand-realty", Name: "Grand Strand Realty"}
	store := &stubClientStore{
		byDomain: map[string]*models.WebClient{},
		bySlug:   map[string]*models.WebClient{"grand-strand-realty": fallback},
	}
	m := NewTenantMiddleware(store, "grand-strand-realty")

	got, err := m.Resolve(context.Background(), "unknown-domain.test")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Slug != "grand-strand-realty" {
		t.Errorf("resolved %q, want fallback tenant", got.Slug)
	}
}

func TestResolveErrorsWhenFallbackMissing(t *testing.T) {
	store := &stubClientStore{
		byDomain: map[string]*models.WebClient{},
		bySlug:   map[string]*models.WebClient{},
	}
	m := NewTenantMiddleware(store, "grand-strand-realty")

	if _, err := m.Resolve(context.Background(), "unknown-domain.test"); err == nil {
		t.Fatal("expected error when neither domain nor fallback resolves")
	}
}
