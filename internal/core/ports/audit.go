package ports

import (
	"context"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// AuditSink accepts auth events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists auth events.
type AuditRepository interface {
	InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error
}
