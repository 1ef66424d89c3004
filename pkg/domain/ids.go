// Package domain holds identifier value types shared across modules.
//
// Construct identifiers with the Parse functions at trust boundaries; direct
// conversion bypasses validation.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "pkgconfirm/pkg/domain-errors"
)

// SessionID identifies one confirmation session.
type SessionID uuid.UUID

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// ParseSessionID parses external input into a SessionID.
// Errors: CodeInvalidInput for empty, malformed, or nil UUIDs.
func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid session id format")
	}
	if parsed == uuid.Nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session id cannot be nil")
	}
	return SessionID(parsed), nil
}

func (id SessionID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the identifier is the zero UUID.
func (id SessionID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id SessionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SessionID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = SessionID(parsed)
	return nil
}

// PackageName is an application identity such as "org.example.notes".
// Invariant: at least two dot-separated segments, each starting with a
// letter and containing only letters, digits and underscores.
type PackageName string

// ParsePackageName validates a declared or installed package name.
func ParsePackageName(s string) (PackageName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "package name cannot be empty")
	}
	segments := strings.Split(s, ".")
	if len(segments) < 2 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "package name needs at least two segments")
	}
	for _, seg := range segments {
		if !validSegment(seg) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid package name segment: "+seg)
		}
	}
	return PackageName(s), nil
}

func validSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i, r := range seg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_'):
		default:
			return false
		}
	}
	return true
}

func (n PackageName) String() string {
	return string(n)
}
