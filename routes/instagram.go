package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"realty-marketing-platform/middleware"
	"realty-marketing-platform/services"
	"realty-marketing-platform/utils"
)

func SetupInstagramRoutes(
	router *gin.Engine,
	instagramService *services.InstagramService,
	authMiddleware *middleware.AuthMiddleware,
) {
	ig := router.Group("/api/instagram")

	// Start of the OAuth dance: redirect to the provider with the tenant
	// slug as state
	ig.GET("/authorize", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		authorizeURL, err := instagramService.AuthorizeURL(ctx, c.Query("client_id"))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.Redirect(http.StatusFound, authorizeURL)
	})

	ig.GET("/callback", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()

		token, err := instagramService.HandleCallback(ctx, c.Query("state"), c.Query("code"))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"connected":  true,
			"username":   token.InstagramUsername,
			"expires_at": token.TokenExpiresAt,
		})
	})

	ig.GET("/feed/:clientSlug", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		feed, err := instagramService.GetFeed(ctx, c.Param("clientSlug"))
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, feed)
	})

	// Externally triggered sweep; also runs on the worker's schedule
	ig.GET("/refresh-tokens", authMiddleware.RequireAdmin(), func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
		defer cancel()

		report, err := instagramService.RefreshExpiringTokens(ctx)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, report)
	})
}
