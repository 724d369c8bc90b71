package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

// AuditRepository implements ports.AuditRepository on the auth_events collection.
type AuditRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database, timeout time.Duration) *AuditRepository {
	return &AuditRepository{col: db.Collection(collAuthEvents), timeout: timeout}
}

// InsertAuthEvent persists one event. Events carry their own ULID as _id, so
// a replayed insert fails instead of duplicating the entry.
func (r *AuditRepository) InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, event); err != nil {
		return unavailable("insert auth event", err)
	}
	return nil
}
