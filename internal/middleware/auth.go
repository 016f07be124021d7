package middleware

import (
	"net/http"
	"strings"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// RequireAuth verifies the bearer token issued by the identity provider and
// exposes the verified (userID, role) pair on the request context. The rest
// of the application trusts this pair completely and performs no further
// authentication.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or malformed Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Warn().Err(err).Msg("Rejected request with invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		userID, ok := claims["user_id"].(float64)
		role, okRole := claims["role"].(string)
		if !ok || !okRole {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Token is missing required claims"})
			return
		}

		c.Set(ContextUserIDKey, uint(userID))
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Insufficient permissions"})
	}
}

// CurrentUserID returns the verified user ID set by RequireAuth.
func CurrentUserID(c *gin.Context) uint {
	id, _ := c.Get(ContextUserIDKey)
	userID, _ := id.(uint)
	return userID
}

// CurrentRole returns the verified role set by RequireAuth.
func CurrentRole(c *gin.Context) string {
	r, _ := c.Get(ContextRoleKey)
	role, _ := r.(string)
	return role
}
