package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins permitted to make cross-origin requests.
	// A "*" entry allows every origin, which is only safe in development.
	AllowedOrigins []string

	// AllowedMethods lists permitted HTTP methods. Empty means the standard
	// GET, POST, PUT, PATCH, DELETE, OPTIONS set.
	AllowedMethods []string

	// AllowedHeaders lists permitted request headers. Empty means Accept,
	// Authorization, Content-Type, X-Correlation-ID, X-User-ID.
	AllowedHeaders []string

	// ExposedHeaders lists response headers the browser may read.
	ExposedHeaders []string

	// MaxAge is how long, in seconds, a preflight result may be cached.
	// Zero means 3600.
	MaxAge int

	// AllowCredentials enables cookies and auth headers on cross-origin calls.
	AllowCredentials bool

	// Environment gates wildcard behavior. Wildcard origins are honored only
	// when Environment is "development" or AllowedOrigins contains "*".
	Environment string
}

// DefaultCORSConfig returns a permissive configuration meant for development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID", "X-User-ID"},
		ExposedHeaders: []string{"X-Correlation-ID", "X-User-ID"},
		MaxAge:         3600,
		Environment:    "development",
	}
}

// corsHeaders is the precomputed header state shared by every request.
type corsHeaders struct {
	wildcard  bool
	originSet map[string]struct{}
	methods   string
	headers   string
	exposed   string
	maxAge    string
}

func buildCORSHeaders(cfg CORSConfig) corsHeaders {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID", "X-User-ID"}
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	h := corsHeaders{
		wildcard:  cfg.Environment == "development",
		originSet: make(map[string]struct{}, len(cfg.AllowedOrigins)),
		methods:   strings.Join(cfg.AllowedMethods, ", "),
		headers:   strings.Join(cfg.AllowedHeaders, ", "),
		exposed:   strings.Join(cfg.ExposedHeaders, ", "),
		maxAge:    strconv.Itoa(cfg.MaxAge),
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			h.wildcard = true
		}
		h.originSet[o] = struct{}{}
	}
	return h
}

// CORS returns middleware that answers preflight requests and stamps
// cross-origin headers on every response.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	hdrs := buildCORSHeaders(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case hdrs.wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "":
				if _, ok := hdrs.originSet[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", hdrs.methods)
			w.Header().Set("Access-Control-Allow-Headers", hdrs.headers)
			if hdrs.exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", hdrs.exposed)
			}
			w.Header().Set("Access-Control-Max-Age", hdrs.maxAge)

			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
