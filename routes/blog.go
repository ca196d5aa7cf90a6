package routes

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realty-marketing-platform/middleware"
	"realty-marketing-platform/models"
	"realty-marketing-platform/services"
	"realty-marketing-platform/utils"
)

func SetupBlogRoutes(
	router *gin.Engine,
	blogService *services.BlogService,
	authMiddleware *middleware.AuthMiddleware,
	tenantMiddleware *middleware.TenantMiddleware,
) {
	blog := router.Group("/api/blog")
	blog.Use(tenantMiddleware.ResolveTenant())

	// Public read path, scoped to the tenant resolved from the hostname
	blog.GET("", func(c *gin.Context) {
		tenant := middleware.GetTenant(c)
		if tenant == nil {
			utils.RespondWithInternalError(c, "Tenant not resolved", nil)
			return
		}

		limit := int64(0)
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 0 {
				utils.RespondWithBadRequest(c, "Invalid limit", nil)
				return
			}
			limit = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		posts, err := blogService.List(ctx, tenant.ID, c.Query("category"), limit)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
	})

	blog.GET("/:slug", func(c *gin.Context) {
		tenant := middleware.GetTenant(c)
		if tenant == nil {
			utils.RespondWithInternalError(c, "Tenant not resolved", nil)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		post, err := blogService.GetBySlug(ctx, tenant.ID, c.Param("slug"))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, post)
	})

	// Admin write path. Translation can take a while, so write handlers get
	// a generous deadline.
	admin := blog.Group("")
	admin.Use(authMiddleware.RequireAdmin())

	admin.POST("", func(c *gin.Context) {
		var req models.CreateBlogPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 120*time.Second)
		defer cancel()

		post, err := blogService.Create(ctx, &req)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, post)
	})

	admin.PUT("/:id", func(c *gin.Context) {
		clientID, ok := writeClientID(c)
		if !ok {
			return
		}

		var req models.UpdateBlogPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 120*time.Second)
		defer cancel()

		post, err := blogService.Update(ctx, clientID, c.Param("id"), &req)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, post)
	})

	admin.DELETE("/:id", func(c *gin.Context) {
		clientID, ok := writeClientID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if err := blogService.Delete(ctx, clientID, c.Param("id")); err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})

	// On-demand retranslation of a stored post; also the target of the
	// queued post-create pass
	admin.POST("/:id/translate", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 120*time.Second)
		defer cancel()

		post, err := blogService.TranslatePost(ctx, c.Param("id"))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, post)
	})
}

// writeClientID picks the tenant partition for an admin write: an explicit
// client_id query parameter wins, otherwise the hostname-resolved tenant.
func writeClientID(c *gin.Context) (primitive.ObjectID, bool) {
	if raw := c.Query("client_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid client_id", nil)
			return primitive.NilObjectID, false
		}
		return id, true
	}

	tenant := middleware.GetTenant(c)
	if tenant == nil {
		utils.RespondWithInternalError(c, "Tenant not resolved", nil)
		return primitive.NilObjectID, false
	}
	return tenant.ID, true
}
