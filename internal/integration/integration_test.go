package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/store"
	"github.com/vitashifa/backend/internal/testhelpers"
	"github.com/vitashifa/backend/internal/types"
)

// TestCloudStoreAgainstPostgres exercises the cloud chat store against a
// real PostgreSQL instance, including the jsonb response round trip.
func TestCloudStoreAgainstPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cloud := store.NewCloudStore(db)
	ctx := context.Background()
	userID := uuid.New().String()

	rec := types.ChatRecord{
		Category: types.CategoryConsultation,
		Query:    "does vitamin D help immunity",
		Response: types.FormattedResponse{
			Title:   "Vitamin D and Immunity",
			Summary: "Evidence supports a supporting role.",
			Sections: []types.Section{
				{Heading: "Overview", Content: "Vitamin D modulates immune response.", Type: types.SectionInfo},
				{Heading: "Guidance", Type: types.SectionList, Items: []string{"Test levels first", "Avoid megadoses"}},
			},
			Disclaimer: types.Disclaimer,
			Sources:    []string{"https://ods.od.nih.gov/vitamind"},
		},
		Metadata: types.ChatMetadata{ClientInfo: "integration-test"},
	}

	id, err := cloud.Save(ctx, userID, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := cloud.List(ctx, userID, 0, store.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, rec.Query, got.Query)
	assert.Equal(t, rec.Response.Title, got.Response.Title)
	require.Len(t, got.Response.Sections, 2)
	assert.Equal(t, types.SectionList, got.Response.Sections[1].Type)
	assert.Equal(t, rec.Response.Sources, got.Response.Sources)
	assert.Equal(t, "integration-test", got.Metadata.ClientInfo)
}

// TestAuthFlowAgainstPostgres runs sign-up and sign-in against PostgreSQL,
// where the unique-constraint error path differs from SQLite.
func TestAuthFlowAgainstPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "integration-secret")
	ctx := context.Background()

	session, token, err := auth.SignUp(ctx, "it@example.com", "password123", "IT")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := auth.CurrentSession(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, resolved.ID)

	_, _, err = auth.SignUp(ctx, "it@example.com", "password456", "")
	require.Error(t, err)
	var authErr *service.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, service.CodeEmailExists, authErr.Code)
}
