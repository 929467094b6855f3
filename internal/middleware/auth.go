// Package middleware provides the HTTP middleware chain: JWT
// authentication, CORS, request logging and panic recovery.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"aura-server/internal/cache"
	"aura-server/internal/service"
	"aura-server/pkg/jwt"
	"aura-server/pkg/response"
)

// Context keys set by the auth middleware.
const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxToken     = "token"
)

// AuthMiddleware validates the Bearer token on every protected route,
// rejects blacklisted tokens and stores the user identity in the request
// context.
func AuthMiddleware(jwtService *jwt.JWTService, redisCache *cache.RedisCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "debes iniciar sesión")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "formato de autenticación incorrecto")
			c.Abort()
			return
		}
		tokenString := parts[1]

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "token inválido o expirado")
			c.Abort()
			return
		}
		if claims.Subject != "access" {
			response.Unauthorized(c, "token inválido o expirado")
			c.Abort()
			return
		}

		// Tokens revoked on logout live in the blacklist until their
		// natural expiry.
		if redisCache.IsTokenBlacklisted(c.Request.Context(), service.HashToken(tokenString)) {
			response.Unauthorized(c, "la sesión ha finalizado, inicia sesión de nuevo")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxToken, tokenString)

		c.Next()
	}
}

// GetUserID returns the authenticated user's id from the request context,
// or 0 when the request is unauthenticated.
func GetUserID(c *gin.Context) int64 {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0
	}
	return userID.(int64)
}

// GetUserEmail returns the authenticated user's email from the request
// context.
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get(ctxUserEmail)
	if !exists {
		return ""
	}
	return email.(string)
}

// GetToken returns the raw access token of the current request. Used by
// logout to blacklist it.
func GetToken(c *gin.Context) string {
	token, exists := c.Get(ctxToken)
	if !exists {
		return ""
	}
	return token.(string)
}
