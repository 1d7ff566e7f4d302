package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/types"
)

func setupFacade(t *testing.T, withCloud bool) *Facade {
	local, _ := setupLocalStore(t)
	var cloud *CloudStore
	if withCloud {
		cloud = setupCloudStore(t)
	}
	return NewFacade(local, cloud)
}

func authedSession() *types.UserSession {
	return &types.UserSession{ID: uuid.New().String(), Email: "user@example.com"}
}

func guestSession() *types.UserSession {
	return &types.UserSession{ID: "guest_123", IsGuest: true}
}

func TestFacadeGuestSavesLocalOnly(t *testing.T) {
	f := setupFacade(t, true)
	ctx := context.Background()

	id, status := f.Save(ctx, guestSession(), record("guest q", types.CategoryConsultation))
	assert.NotEmpty(t, id)
	assert.Equal(t, StatusSavedLocal, status)

	records, err := f.List(ctx, guestSession(), 0, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "guest q", records[0].Query)
}

func TestFacadeAuthedSavesBoth(t *testing.T) {
	f := setupFacade(t, true)
	ctx := context.Background()
	session := authedSession()

	_, status := f.Save(ctx, session, record("authed q", types.CategoryWellness))
	assert.Equal(t, StatusSavedCloud, status)

	// Authenticated listing reads exclusively from the cloud.
	records, err := f.List(ctx, session, 0, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "authed q", records[0].Query)
}

func TestFacadeNoCloudConfigured(t *testing.T) {
	f := setupFacade(t, false)
	ctx := context.Background()
	session := authedSession()

	_, status := f.Save(ctx, session, record("q", types.CategoryConsultation))
	assert.Equal(t, StatusSavedLocal, status)

	records, err := f.List(ctx, session, 0, Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFacadeNilSessionIsGuest(t *testing.T) {
	f := setupFacade(t, true)
	ctx := context.Background()

	_, status := f.Save(ctx, nil, record("anon q", types.CategoryEmergency))
	assert.Equal(t, StatusSavedLocal, status)

	records, err := f.List(ctx, nil, 0, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestSyncLocalToCloud(t *testing.T) {
	f := setupFacade(t, true)
	ctx := context.Background()

	// History accumulated while signed out lives under the guest owner.
	for _, q := range []string{"one", "two", "three"} {
		_, status := f.Save(ctx, nil, record(q, types.CategoryConsultation))
		require.Equal(t, StatusSavedLocal, status)
	}

	session := authedSession()
	require.NoError(t, f.SyncLocalToCloud(ctx, session))

	records, err := f.List(ctx, session, 0, Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSyncLocalToCloudDoesNotDeduplicate(t *testing.T) {
	f := setupFacade(t, true)
	ctx := context.Background()

	_, status := f.Save(ctx, nil, record("repeated", types.CategoryConsultation))
	require.Equal(t, StatusSavedLocal, status)

	session := authedSession()
	require.NoError(t, f.SyncLocalToCloud(ctx, session))
	require.NoError(t, f.SyncLocalToCloud(ctx, session))

	records, err := f.List(ctx, session, 0, Filter{})
	require.NoError(t, err)
	// Re-running the sync re-submits the same local records.
	assert.Len(t, records, 2)
}

func TestFacadeGuestSessionsShareHistory(t *testing.T) {
	f := setupFacade(t, true)
	ctx := context.Background()

	// Fabricated guest sessions carry unique IDs, but their history lands
	// under the shared guest owner so later sessions can see and sync it.
	_, status := f.Save(ctx, service.GuestSession(), record("guest q", types.CategoryConsultation))
	require.Equal(t, StatusSavedLocal, status)

	records, err := f.List(ctx, service.GuestSession(), 0, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "guest q", records[0].Query)

	session := authedSession()
	require.NoError(t, f.SyncLocalToCloud(ctx, session))
	synced, err := f.List(ctx, session, 0, Filter{})
	require.NoError(t, err)
	assert.Len(t, synced, 1)
}

func TestFacadeSaveReturnsCloudIDWhenLocalFails(t *testing.T) {
	local, mr := setupLocalStore(t)
	f := NewFacade(local, setupCloudStore(t))
	mr.Close()
	ctx := context.Background()
	session := authedSession()

	id, status := f.Save(ctx, session, record("q", types.CategoryConsultation))
	assert.Equal(t, StatusSavedCloud, status)
	require.NotEmpty(t, id)

	records, err := f.List(ctx, session, 0, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
}

func TestSyncWithoutCloudIsNoop(t *testing.T) {
	f := setupFacade(t, false)

	assert.NoError(t, f.SyncLocalToCloud(context.Background(), authedSession()))
}
