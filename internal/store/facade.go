package store

import (
	"context"
	"log"

	"github.com/vitashifa/backend/internal/types"
)

// Facade is the chat log the rest of the application talks to. The local
// store is the write of record; the cloud store is best-effort and only used
// for authenticated sessions.
type Facade struct {
	local *LocalStore
	cloud *CloudStore
}

// NewFacade builds the facade. cloud may be nil when no database is
// configured, leaving the local path as the only one.
func NewFacade(local *LocalStore, cloud *CloudStore) *Facade {
	return &Facade{local: local, cloud: cloud}
}

// ownerFor scopes the local log. All guest sessions share the fixed guest
// owner regardless of their fabricated session IDs, so guest history
// survives new sessions and is what SyncLocalToCloud picks up.
func ownerFor(session *types.UserSession) string {
	if session.Authenticated() {
		return session.ID
	}
	return GuestOwner
}

func (f *Facade) cloudEligible(session *types.UserSession) bool {
	return f.cloud != nil && session.Authenticated()
}

// Save writes rec locally and, for authenticated sessions with a cloud
// store, also inserts a cloud row. Either failure is logged rather than
// surfaced; the status tells the caller how far the save got.
func (f *Facade) Save(ctx context.Context, session *types.UserSession, rec types.ChatRecord) (string, SaveStatus) {
	owner := ownerFor(session)

	id, err := f.local.Save(ctx, owner, rec)
	if err != nil {
		log.Printf("local chat save for %s failed: %v", owner, err)
	}

	if f.cloudEligible(session) {
		cloudID, cloudErr := f.cloud.Save(ctx, session.ID, rec)
		if cloudErr != nil {
			log.Printf("cloud chat save for %s failed: %v", session.ID, cloudErr)
		} else if err == nil {
			return id, StatusSavedCloud
		} else {
			// Cloud took it even though the local write failed.
			return cloudID, StatusSavedCloud
		}
	}

	if err != nil {
		return "", StatusError
	}
	return id, StatusSavedLocal
}

// List reads history newest first: exclusively from the cloud for
// authenticated sessions with a cloud store, from local storage otherwise.
func (f *Facade) List(ctx context.Context, session *types.UserSession, limit int, filter Filter) ([]types.ChatRecord, error) {
	if f.cloudEligible(session) {
		return f.cloud.List(ctx, session.ID, limit, filter)
	}
	return f.local.List(ctx, ownerFor(session), limit, filter)
}

// SyncLocalToCloud re-submits every guest-local record through the cloud
// path so history recorded while signed out becomes available after
// authentication. Records are not deduplicated against existing cloud rows.
func (f *Facade) SyncLocalToCloud(ctx context.Context, session *types.UserSession) error {
	if !f.cloudEligible(session) {
		return nil
	}

	records, err := f.local.All(ctx, GuestOwner)
	if err != nil {
		return err
	}

	synced := 0
	for _, rec := range records {
		if _, err := f.cloud.Save(ctx, session.ID, rec); err != nil {
			log.Printf("sync of local record %s failed: %v", rec.ID, err)
			continue
		}
		synced++
	}
	if synced > 0 {
		log.Printf("synced %d local chat records to cloud for %s", synced, session.ID)
	}
	return nil
}
