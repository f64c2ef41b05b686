package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ecoride/auth-service/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository persists auth events to the auth_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, event *ports.AuthEvent) error {
	doc := bson.M{
		"flow":       event.Flow,
		"outcome":    event.Outcome,
		"role":       event.Role,
		"at":         event.At.UTC(),
		"written_at": time.Now().UTC(),
	}
	if event.IdentityID != "" {
		doc["identity_id"] = event.IdentityID
	}
	if event.Email != "" {
		doc["email"] = event.Email
	}
	if event.Phone != "" {
		doc["phone"] = event.Phone
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
