package fanout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "pkgconfirm/pkg/platform/audit"
	"pkgconfirm/pkg/platform/audit/store/memory"
)

type failing struct{}

func (failing) Append(context.Context, audit.Event) error { return errors.New("sink down") }

func TestStore_AppendMirrorsAndReportsPrimary(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mirror := memory.NewInMemoryStore()

	err := New(logger, failing{}, mirror).Append(ctx, audit.Event{SessionID: "s1"})
	require.Error(t, err)

	events, err := mirror.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, events, 1, "mirror receives the event even when the primary fails")
}

func TestStore_MirrorFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewInMemoryStore()
	s := New(nil, primary, failing{})

	require.NoError(t, s.Append(ctx, audit.Event{SessionID: "s1"}))
	events, err := s.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
