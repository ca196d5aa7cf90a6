package middleware

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"realty-marketing-platform/internal/logger"
	"realty-marketing-platform/internal/store"
	"realty-marketing-platform/models"
	"realty-marketing-platform/utils"
)

const tenantContextKey = "tenant"

// TenantMiddleware resolves the tenant for every request from the Host
// header. An unmatched hostname falls back to the designated default tenant
// so the shared deployment always serves something.
type TenantMiddleware struct {
	clients      store.ClientStore
	fallbackSlug string
}

func NewTenantMiddleware(clients store.ClientStore, fallbackSlug string) *TenantMiddleware {
	return &TenantMiddleware{clients: clients, fallbackSlug: fallbackSlug}
}

// NormalizeHost strips the port and a leading www. so stored domains stay
// minimal.
func NormalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

// Resolve looks the hostname up in web_clients.domains, falling back to the
// configured default tenant on a miss. The fallback is deliberate and
// explicit here rather than hidden in error handling.
func (m *TenantMiddleware) Resolve(ctx context.Context, host string) (*models.WebClient, error) {
	hostname := NormalizeHost(host)

	client, err := m.clients.FindByDomain(ctx, hostname)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	return m.clients.FindBySlug(ctx, m.fallbackSlug)
}

// ResolveTenant is the gin middleware wrapper around Resolve.
func (m *TenantMiddleware) ResolveTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		client, err := m.Resolve(ctx, c.Request.Host)
		if err != nil {
			logger.Error("Tenant resolution failed", "host", c.Request.Host, "error", err)
			utils.RespondWithInternalError(c, "Failed to resolve tenant", nil)
			c.Abort()
			return
		}

		c.Set(tenantContextKey, client)
		c.Next()
	}
}

// GetTenant retrieves the resolved tenant from the gin context.
func GetTenant(c *gin.Context) *models.WebClient {
	if v, exists := c.Get(tenantContextKey); exists {
		if client, ok := v.(*models.WebClient); ok {
			return client
		}
	}
	return nil
}
