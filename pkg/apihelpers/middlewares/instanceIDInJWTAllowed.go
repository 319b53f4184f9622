package middlewares

import (
	"log/slog"
	"net/http"

	jwthandling "github.com/wttaideveloper/MentalHealth-sub002/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
)

func IsInstanceIDInJWTAllowed(allowedInstanceIDs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the validated token from the context
		parsedToken, ok := c.Get("validatedToken")
		if !ok {
			slog.Warn("validatedToken not found in context")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validatedToken not found in context"})
			return
		}

		var instanceID string
		switch claims := parsedToken.(type) {
		case *jwthandling.AdminUserClaims:
			instanceID = claims.InstanceID
		case *jwthandling.ParticipantUserClaims:
			instanceID = claims.InstanceID
		default:
			slog.Warn("unexpected claims type in context")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unexpected claims type"})
			return
		}

		// Check if the instanceID is allowed
		allowed := false
		for _, allowedInstanceID := range allowedInstanceIDs {
			if instanceID == allowedInstanceID {
				allowed = true
				break
			}
		}

		if !allowed {
			slog.Warn("instanceID not allowed", slog.String("instanceID", instanceID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "instanceID not allowed"})
			return
		}
	}
}
