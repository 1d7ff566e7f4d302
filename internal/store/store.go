// Package store persists chat records with local-first, cloud-best-effort
// semantics: every interaction lands in the Redis-backed local log, and
// authenticated users additionally get a cloud row. Reads prefer the cloud
// when it is available for the session.
package store

import (
	"context"

	"github.com/vitashifa/backend/internal/types"
)

// LocalCap is the hard bound on locally retained records; the oldest are
// evicted first on overflow.
const LocalCap = 50

// Filter narrows a history listing.
type Filter struct {
	Category   types.ChatCategory
	SearchText string
}

// Store is one chat-log backend. Save returns the ID assigned by that
// backend, which may differ between backends for the same interaction.
type Store interface {
	Save(ctx context.Context, ownerID string, rec types.ChatRecord) (string, error)
	List(ctx context.Context, ownerID string, limit int, f Filter) ([]types.ChatRecord, error)
}

// SaveStatus tells the caller how far a save got.
type SaveStatus string

const (
	// StatusSavedCloud means the cloud write succeeded (the local copy
	// normally did too).
	StatusSavedCloud SaveStatus = "saved_cloud"
	// StatusSavedLocal means the record is only in local storage, either
	// because the cloud path is unavailable or because it failed.
	StatusSavedLocal SaveStatus = "saved_local"
	// StatusError means even the local write failed.
	StatusError SaveStatus = "error"
)
