package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt"
)

const (
	// RoleAdmin is the role claim required on admin routes.
	RoleAdmin = "ADMIN"

	// AdminIDKey is the gin context key holding the authenticated admin id.
	AdminIDKey = "admin_id"
)

type errorBody struct {
	Error string `json:"error"`
}

// AdminAuth returns middleware that requires an HS256 bearer token with
// role=ADMIN and a user_id claim. Expired tokens are rejected.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "admin auth not configured"})
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid claims"})
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "user_id not found in token"})
			return
		}

		if role, _ := claims["role"].(string); role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "admin role required"})
			return
		}

		c.Set(AdminIDKey, userID)
		c.Next()
	}
}

// AdminID returns the authenticated admin id set by AdminAuth.
func AdminID(c *gin.Context) string {
	return c.GetString(AdminIDKey)
}
