package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom_EmptyContext(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
}

func TestWithTx_NilIsIgnored(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestRunInTx_JoinsExistingTransaction(t *testing.T) {
	outer := &sql.Tx{}
	ctx := WithTx(context.Background(), outer)

	called := false
	err := RunInTx(ctx, nil, func(inner context.Context) error {
		called = true
		got, ok := From(inner)
		require.True(t, ok)
		assert.Same(t, outer, got)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRunInTx_PropagatesErrorWhenJoined(t *testing.T) {
	ctx := WithTx(context.Background(), &sql.Tx{})
	want := errors.New("boom")
	assert.ErrorIs(t, RunInTx(ctx, nil, func(context.Context) error { return want }), want)
}
