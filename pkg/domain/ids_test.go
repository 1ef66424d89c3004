package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pkgconfirm/pkg/domain-errors"
)

// TestParseSessionID_Invariants validates the parsing invariant:
// "session IDs must be valid, non-empty, non-nil UUIDs"
func TestParseSessionID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSessionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSessionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSessionID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseSessionID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, SessionID(valid), id)
		assert.False(t, id.IsNil())
	})
}

func TestSessionID_JSON(t *testing.T) {
	id := NewSessionID()
	raw, err := json.Marshal(struct {
		ID SessionID `json:"id"`
	}{ID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(raw))

	var decoded struct {
		ID SessionID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded.ID)
}

func TestParsePackageName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"two segments", "org.fdroid", true},
		{"digits and underscores", "com.example.app_2", true},
		{"surrounding whitespace trimmed", "  org.example.notes ", true},
		{"empty", "", false},
		{"single segment", "notes", false},
		{"empty segment", "org..notes", false},
		{"segment starts with digit", "org.1notes", false},
		{"illegal character", "org.example-notes", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := ParsePackageName(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, name.String())
		})
	}
}
