// Package admin guards operator-only routes such as the confirmation audit
// trail.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "pkgconfirm/pkg/domain-errors"
	"pkgconfirm/pkg/platform/httputil"
	"pkgconfirm/pkg/requestcontext"
)

const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken admits requests whose X-Admin-Token equals token. An empty
// token admits nobody.
func RequireAdminToken(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(HeaderAdminToken))
			if len(want) > 0 && subtle.ConstantTimeCompare(got, want) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			logger.WarnContext(ctx, "rejected admin request",
				"path", r.URL.Path,
				"token_present", len(got) > 0,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
		})
	}
}
