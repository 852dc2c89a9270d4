package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discuss/config"
	"github.com/cppla/discuss/utils"
)

const (
	// ContextUsernameKey stores the caller's username inside Gin context.
	ContextUsernameKey = "username"
	// ContextModeratorKey stores whether the caller may resolve reports.
	ContextModeratorKey = "moderator"
)

// AuthRequired ensures the request carries a valid bearer token and puts the
// caller identity into the context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextModeratorKey, claims.Moderator || config.Get().IsModerator(claims.Username))
		ctx.Next()
	}
}

// ModeratorRequired must run after AuthRequired.
func ModeratorRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !ctx.GetBool(ContextModeratorKey) {
			utils.Error(ctx, http.StatusForbidden, 40301, "moderator role required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// Username returns the authenticated caller, if any.
func Username(ctx *gin.Context) (string, bool) {
	u := ctx.GetString(ContextUsernameKey)
	return u, u != ""
}
