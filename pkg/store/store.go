// Package store persists laid-out diagrams under generated ids.
//
// The HTTP API uses a store to let clients compute a diagram once and fetch
// it again later by id. Backends:
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [FileStore]: one JSON file per record
//   - [MongoStore]: one MongoDB document per record
//
// Records carry an optional expiry. An expired record reads as
// [ErrNotFound] and is removed lazily or by Cleanup.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/graph"
)

// DefaultTTL is how long stored diagrams are kept.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNotFound is returned when a record does not exist or has expired.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "diagram not found")

// Record is a stored diagram.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	InputHash string        `json:"input_hash" bson:"input_hash"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time     `json:"expires_at,omitzero" bson:"expires_at,omitempty"`
	Diagram   graph.Diagram `json:"diagram" bson:"diagram"`
}

// NewRecord wraps d in a record with a fresh uuid. A non-positive ttl means
// the record never expires.
func NewRecord(d graph.Diagram, inputHash string, ttl time.Duration) *Record {
	now := time.Now().UTC()
	r := &Record{
		ID:        uuid.NewString(),
		InputHash: inputHash,
		CreatedAt: now,
		Diagram:   d,
	}
	if ttl > 0 {
		r.ExpiresAt = now.Add(ttl)
	}
	return r
}

// IsExpired reports whether the record has passed its expiry.
func (r *Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// Store persists records.
type Store interface {
	// Put inserts or replaces a record.
	Put(ctx context.Context, r *Record) error

	// Get returns the record with the given id, or an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
