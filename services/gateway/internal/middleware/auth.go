package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// publicRoutes lists method and path-prefix pairs that bypass auth. Course
// reads and the auth bootstrap endpoints are open; ingestion and
// recommendations require a valid token.
var publicRoutes = []struct {
	method string
	prefix string
}{
	{method: http.MethodGet, prefix: "/api/v1/courses"},
	{method: http.MethodPost, prefix: "/api/v1/auth/signup"},
	{method: http.MethodPost, prefix: "/api/v1/auth/signin"},
	{method: http.MethodPost, prefix: "/api/v1/auth/refresh"},
	{method: http.MethodGet, prefix: "/health"},
}

func isPublicRoute(method, path string) bool {
	// CORS preflight is always allowed through.
	if method == http.MethodOptions {
		return true
	}
	for _, route := range publicRoutes {
		if method == route.method && strings.HasPrefix(path, route.prefix) {
			return true
		}
	}
	return false
}

// bearerToken pulls the token out of the Authorization header. The second
// return is false when the header is missing or malformed.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// userIDFromClaims reads the user_id claim, falling back to sub.
func userIDFromClaims(claims jwt.MapClaims) string {
	if userID, _ := claims["user_id"].(string); userID != "" {
		return userID
	}
	userID, _ := claims["sub"].(string)
	return userID
}

// JWTAuth validates Bearer tokens on protected routes and injects the
// X-User-ID header into the proxied request. Public routes pass straight
// through.
func JWTAuth(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed authorization header")
				return
			}

			token, err := jwt.Parse(tokenString, keyFunc)
			if err != nil || !token.Valid {
				logger.Warn("invalid JWT token",
					slog.String("path", r.URL.Path),
					slog.String("error", errString(err)),
				)
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims")
				return
			}

			if userID := userIDFromClaims(claims); userID != "" {
				r.Header.Set("X-User-ID", userID)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

func errString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
