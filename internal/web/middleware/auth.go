package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/JonMunkholm/directory/internal/config"
	"github.com/JonMunkholm/directory/internal/logging"
)

// APIKeyHeader carries the key for the admin endpoints.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth guards the refresh and cache endpoints with the X-API-Key
// header. When cfg.RequireAPIKey is false every request passes.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(APIKeyHeader)
			status, code := 0, ""
			switch {
			case key == "":
				status, code = http.StatusUnauthorized, "AUTH001"
			case !keyMatches(key, cfg.APIKeys):
				status, code = http.StatusForbidden, "AUTH002"
			}
			if status != 0 {
				logging.FromContext(r.Context()).Warn("rejected admin request",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"code", code,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":"` + http.StatusText(status) + `","code":"` + code + `"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// keyMatches compares key against every configured key in constant time,
// so response timing does not reveal which key (if any) matched.
func keyMatches(key string, keys []string) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return match == 1
}
