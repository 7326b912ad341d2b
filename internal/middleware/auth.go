package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	PermissionKey  contextKey = "permissao"
	BearerTokenKey contextKey = "bearer_token"
)

// AuthMiddleware validates the bearer token issued by the sales
// backend and extracts the operator's identity. The raw token is kept
// in the request context so upstream calls can be made on the
// caller's behalf.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := parts[1]

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					respondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					respondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if !token.Valid {
				logger.Debug("Invalid token")
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Error("Failed to extract claims from token")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			// Numeric claims arrive as float64 from encoding/json.
			userIDFloat, ok := claims["user_id"].(float64)
			if !ok {
				logger.Error("Missing user_id in token claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}
			userID := int64(userIDFloat)

			permission, ok := claims["permissao"].(string)
			if !ok {
				logger.Error("Missing permissao in token claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, PermissionKey, permission)
			ctx = context.WithValue(ctx, BearerTokenKey, tokenString)

			logger.Debug("Operator authenticated",
				zap.Int64("user_id", userID),
				zap.String("permissao", permission),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated operator's id from the context.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetPermission extracts the operator's permission level from the context.
func GetPermission(ctx context.Context) (string, bool) {
	permission, ok := ctx.Value(PermissionKey).(string)
	return permission, ok
}

// GetBearerToken extracts the raw bearer token for upstream calls.
func GetBearerToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(BearerTokenKey).(string)
	return token, ok
}

// WithBearerToken returns a context carrying the given token. Used by
// callers outside the HTTP stack, such as tests.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, BearerTokenKey, token)
}
