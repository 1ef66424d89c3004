package testutil

import (
	"net/http"

	"pkgconfirm/pkg/requestcontext"
)

// WithActor marks the request as coming from an authenticated installer
// client, as the auth middleware would.
func WithActor(req *http.Request, clientID string) *http.Request {
	return req.WithContext(requestcontext.WithActorID(req.Context(), clientID))
}
