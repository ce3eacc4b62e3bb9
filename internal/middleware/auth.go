package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"community-board-api/internal/domain"
	"community-board-api/internal/response"
)

const (
	// ContextMemberID is the gin context key holding the authenticated member's ID
	ContextMemberID = "member_id"
	// ContextMemberRole is the gin context key holding the authenticated member's role
	ContextMemberRole = "member_role"
)

func abortUnauthorized(c *gin.Context, message string) {
	response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, message)
	c.Abort()
}

// Auth returns a middleware that validates the Bearer token and stores the
// member's ID and role in the request context
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		// JSON numbers decode as float64
		rawID, ok := claims["member_id"].(float64)
		if !ok || rawID <= 0 {
			abortUnauthorized(c, "Member ID not found in token")
			return
		}

		role, _ := claims["role"].(string)

		c.Set(ContextMemberID, uint(rawID))
		c.Set(ContextMemberRole, role)

		c.Next()
	}
}

// AdminOnly returns a middleware that rejects non-admin members. It must run
// after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextMemberRole)
		if role != string(domain.RoleAdmin) {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// MemberID extracts the authenticated member's ID from the context
func MemberID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextMemberID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// MemberRole extracts the authenticated member's role from the context
func MemberRole(c *gin.Context) string {
	return c.GetString(ContextMemberRole)
}
