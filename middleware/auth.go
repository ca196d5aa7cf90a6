package middleware

import (
	"github.com/gin-gonic/gin"

	"realty-marketing-platform/internal/auth"
	"realty-marketing-platform/internal/config"
	"realty-marketing-platform/utils"
)

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{config: cfg}
}

// RequireAdmin gates the CMS write endpoints behind the shared-password
// session cookie. A bearer header is accepted too for scripted use.
func (a *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
			tokenString = cookie
		}
		if tokenString == "" {
			if header := c.GetHeader("Authorization"); len(header) > 7 && header[:7] == "Bearer " {
				tokenString = header[7:]
			}
		}

		if tokenString == "" {
			utils.RespondWithUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if _, err := auth.ValidateSessionToken(a.config.SessionSecret, tokenString); err != nil {
			utils.RespondWithUnauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Next()
	}
}
