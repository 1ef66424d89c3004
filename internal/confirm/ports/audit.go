package ports

import (
	"context"

	"pkgconfirm/pkg/platform/audit"
)

// AuditPort is the outbound audit emitter, declared here to keep the
// confirmation module independent of the audit transport.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
