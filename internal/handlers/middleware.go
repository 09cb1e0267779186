package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/mockmate/interview-service/internal/config"
	"github.com/mockmate/interview-service/internal/utils"
)

// InitAuth configures the Casdoor SDK from service config. Call once at
// startup before mounting AuthMiddleware.
func InitAuth(cfg *config.Config) {
	casdoorsdk.InitConfig(
		cfg.Casdoor.Endpoint,
		cfg.Casdoor.ClientID,
		cfg.Casdoor.ClientSecret,
		cfg.Casdoor.Certificate,
		cfg.Casdoor.Organization,
		cfg.Casdoor.Application,
	)
}

// AuthMiddleware validates the bearer token and resolves the user id into the
// request context under "user_id".
func AuthMiddleware(logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing authorization header",
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid authorization header",
			})
			return
		}

		claims, err := casdoorsdk.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Token validation failed", "error", err, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		userID := claims.User.Id
		if userID == "" {
			userID = claims.User.Name
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Token carries no user identity",
			})
			return
		}

		c.Set("user_id", userID)
		c.Set("user_name", claims.User.Name)
		c.Next()
	}
}
