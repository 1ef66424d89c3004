package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgconfirm/pkg/domain"
	audit "pkgconfirm/pkg/platform/audit"
	"pkgconfirm/pkg/platform/audit/publisher"
	"pkgconfirm/pkg/platform/audit/store/memory"
	"pkgconfirm/pkg/testutil"
)

type failingReader struct{ err error }

func (f failingReader) List(context.Context, string) ([]audit.Event, error) { return nil, f.err }

func newRouter(reader AuditReader) http.Handler {
	r := chi.NewRouter()
	New(reader, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestListEvents(t *testing.T) {
	id := domain.NewSessionID()
	pub := publisher.NewPublisher(memory.NewInMemoryStore())
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		SessionID: id.String(),
		Action:    string(audit.EventConfirmationStarted),
		Subject:   "org.example.notes",
	}))

	rr := testutil.DoRequest(newRouter(pub), testutil.NewRequest(t, http.MethodGet, "/admin/confirmations/"+id.String()+"/events"))
	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[EventsListResponse](t, rr)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "confirmation_started", resp.Events[0].Action)
	assert.Equal(t, "org.example.notes", resp.Events[0].Subject)
	assert.False(t, resp.Events[0].Timestamp.IsZero())
}

func TestListEvents_Errors(t *testing.T) {
	id := domain.NewSessionID().String()

	rr := testutil.DoRequest(newRouter(failingReader{}), testutil.NewRequest(t, http.MethodGet, "/admin/confirmations/not-a-uuid/events"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(newRouter(failingReader{err: publisher.ErrListNotFound}), testutil.NewRequest(t, http.MethodGet, "/admin/confirmations/"+id+"/events"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")

	unknown := publisher.NewPublisher(memory.NewInMemoryStore())
	rr = testutil.DoRequest(newRouter(unknown), testutil.NewRequest(t, http.MethodGet, "/admin/confirmations/"+id+"/events"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")

	rr = testutil.DoRequest(newRouter(failingReader{err: errors.New("boom")}), testutil.NewRequest(t, http.MethodGet, "/admin/confirmations/"+id+"/events"))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
}
