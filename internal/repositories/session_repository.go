// internal/repositories/session_repository.go
// Session document persistence (MongoDB): a versioned document store
// holding the exact bytes the engine's snapshot export produces, so a
// restart or process handoff replays the engine's state without loss.

package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionDocument is the Mongo-side envelope around an engine snapshot.
// The snapshot itself (models.Session serialized via
// engine.ExportSnapshot) is stored verbatim as raw bytes so an
// exported session re-imports byte-identically regardless of how
// Mongo reorders document fields internally.
type sessionDocument struct {
	SessionID string    `bson:"session_id"`
	Snapshot  []byte    `bson:"snapshot"`
	Version   int       `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionRepository persists exported session snapshots.
type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{
		collection: db.Collection("sessions"),
	}
}

// Save upserts the current snapshot for sessionID.
func (r *SessionRepository) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"session_id": sessionID,
			"snapshot":   snapshot,
			"updated_at": time.Now(),
		}, "$inc": bson.M{"version": 1}},
		opts,
	)
	return err
}

// Load retrieves the most recent snapshot bytes for sessionID.
func (r *SessionRepository) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var doc sessionDocument
	err := r.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Snapshot, nil
}

// Delete removes a session's persisted document entirely (end_session).
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"session_id": sessionID})
	return err
}

// ListIDs returns every persisted session id. No route or startup step
// calls it.
func (r *SessionRepository) ListIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"session_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			SessionID string `bson:"session_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.SessionID)
	}
	return ids, cursor.Err()
}
