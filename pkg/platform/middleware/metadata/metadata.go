package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"pkgconfirm/pkg/requestcontext"
)

// ClientMetadata extracts client IP, User-Agent and a device summary and
// stores them for audit enrichment. Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), ua, DeviceSummary(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceSummary reduces a User-Agent to "<os> <version>", appending
// " (mobile)" for handsets. Returns "" when the OS is not recognised.
func DeviceSummary(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	info := ua.OSInfo()
	if info.Name == "" {
		return ""
	}
	summary := strings.TrimSpace(info.Name + " " + info.Version)
	if ua.Mobile() {
		summary += " (mobile)"
	}
	return summary
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can hold a chain; the first entry is the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" or "[::1]:port"
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}

	return "unknown"
}
