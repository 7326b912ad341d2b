package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin ensures the operator has the admin permission. Report
// endpoints are admin-only.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequirePermission([]string{"admin"}, logger)
}

// RequirePermission ensures the operator holds one of the allowed
// permission levels.
func RequirePermission(allowed []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			permission, ok := GetPermission(r.Context())
			if !ok {
				logger.Warn("Permission not found in context")
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			for _, p := range allowed {
				if p == permission {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("Operator attempted to access restricted endpoint",
				zap.String("permissao", permission),
				zap.String("path", r.URL.Path),
			)
			respondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}
