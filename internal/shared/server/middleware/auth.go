package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-shortlister/internal/shared/auth"
	"resume-shortlister/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	userRoleKey  = "userRole"

	// SessionCookie is the HTTP-only cookie carrying the session JWT.
	SessionCookie = "token"
)

// Auth validates the session JWT and stores the caller identity in context.
// The token is read from the session cookie, with an Authorization Bearer
// fallback for non-browser clients.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := ""
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			token = strings.TrimSpace(cookie)
		}
		if token == "" {
			authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			}
		}
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authorized, please login", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authorized, token failed", nil)
			return
		}

		c.Set(userIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		if claims.Role != "" {
			c.Set(userRoleKey, claims.Role)
		}
		c.Next()
	}
}

// isPublicPath reports whether a path is reachable without a session.
// /api/v1/auth/me is deliberately not listed; it resolves the caller identity.
func isPublicPath(path string) bool {
	switch path {
	case "/api/v1/health", "/metrics",
		"/api/v1/auth/signup", "/api/v1/auth/login", "/api/v1/auth/logout":
		return true
	}
	return strings.HasPrefix(path, "/api/v1/auth/google/")
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserRoleFromContext fetches the user role set by the auth middleware.
func UserRoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userRoleKey)
	if role, ok := val.(string); ok {
		return role
	}
	return ""
}
