package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"realty-marketing-platform/internal/auth"
	"realty-marketing-platform/internal/config"
	"realty-marketing-platform/utils"
)

// SetupAuthRoutes wires the shared-password admin login. There is exactly
// one credential for the whole platform; a successful login sets a signed
// session cookie.
func SetupAuthRoutes(router *gin.Engine, cfg *config.Config) {
	group := router.Group("/api/auth")

	group.POST("/login", func(c *gin.Context) {
		var req struct {
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
			utils.RespondWithBadRequest(c, "Password is required", nil)
			return
		}

		if err := auth.CheckPassword(cfg.AdminPasswordHash, req.Password); err != nil {
			utils.RespondWithUnauthorized(c, "Invalid password")
			return
		}

		ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
		token, err := auth.IssueSessionToken(cfg.SessionSecret, ttl)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create session", nil)
			return
		}

		secure := cfg.GinMode == "release"
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)

		c.JSON(http.StatusOK, gin.H{"authenticated": true})
	})

	group.POST("/logout", func(c *gin.Context) {
		c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
	})
}
