package ports

import (
	"context"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// SessionStore persists server-side sessions. Get returns (nil, nil) for an
// unknown or expired id; Delete of an unknown id is not an error.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
