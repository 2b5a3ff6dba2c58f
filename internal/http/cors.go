package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware returns the CORS middleware for a separately hosted front end,
// or nil when CORS is disabled or no origin is configured.
//
// Credentials are allowed so the browser sends the session cookie. The middleware must
// run before authentication so preflight requests are answered without a session.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins, wildcard := parseOrigins(allowOriginsStr)
	if wildcard {
		logger.Warn("CORS wildcard origin ignored, session cookies need explicit origins")
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{
			"X-Request-Id",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// parseOrigins splits a comma-separated origin list. Blank and repeated entries are
// dropped, as is "*", which is reported through wildcard. A trailing slash is removed
// since browsers never send one in the Origin header.
func parseOrigins(originsStr string) (origins []string, wildcard bool) {
	seen := make(map[string]struct{})
	for _, part := range strings.Split(originsStr, ",") {
		origin := strings.TrimSuffix(strings.TrimSpace(part), "/")
		switch {
		case origin == "":
			continue
		case origin == "*":
			wildcard = true
			continue
		}
		if _, dup := seen[origin]; dup {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins, wildcard
}
