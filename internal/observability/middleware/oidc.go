package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

// TokenValidator checks a bearer token against an audience.
type TokenValidator func(ctx context.Context, token, audience string) error

func googleIDTokenValidator(ctx context.Context, token, audience string) error {
	_, err := idtoken.Validate(ctx, token, audience)
	return err
}

// OIDCAuth guards task-queue callbacks with the Google-signed ID token that
// Cloud Tasks attaches. An empty audience disables the check.
func OIDCAuth(audience string) gin.HandlerFunc {
	return oidcAuth(audience, googleIDTokenValidator)
}

func oidcAuth(audience string, validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if audience == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "missing bearer token",
			})
			return
		}

		if err := validate(c.Request.Context(), token, audience); err != nil {
			slog.WarnContext(c.Request.Context(), "id token rejected",
				slog.String("error", err.Error()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid id token",
			})
			return
		}

		c.Next()
	}
}
