package middleware

import (
	"net/http"
	"strings"

	"member_directory/internal/model"
	"member_directory/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthIdentityKey is the gin context key holding the caller's Identity
const AuthIdentityKey = "authIdentity"

const invalidTokenMessage = "Invalid or expired token"

// Identity is the authenticated caller as established by JWTAuthMiddleware
type Identity struct {
	AccountID string
	Email     string
	Role      model.Role
}

// IdentityFrom returns the identity stored by JWTAuthMiddleware
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(AuthIdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": invalidTokenMessage})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": invalidTokenMessage})
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": invalidTokenMessage})
			return
		}

		if _, err := uuid.Parse(claims.Subject); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": invalidTokenMessage})
			return
		}
		role, err := model.ParseRole(claims.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": invalidTokenMessage})
			return
		}

		// Set caller information in context
		c.Set(AuthIdentityKey, Identity{AccountID: claims.Subject, Email: claims.Email, Role: role})

		c.Next()
	}
}
