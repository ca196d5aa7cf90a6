package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realty-marketing-platform/middleware"
	"realty-marketing-platform/utils"
)

// SetupTenantRoutes exposes the hostname-resolved tenant so the frontend
// can fetch its branding without knowing its own slug.
func SetupTenantRoutes(router *gin.Engine, tenantMiddleware *middleware.TenantMiddleware) {
	tenant := router.Group("/api/tenant")
	tenant.Use(tenantMiddleware.ResolveTenant())

	tenant.GET("", func(c *gin.Context) {
		client := middleware.GetTenant(c)
		if client == nil {
			utils.RespondWithInternalError(c, "Tenant not resolved", nil)
			return
		}

		c.JSON(http.StatusOK, client)
	})
}
