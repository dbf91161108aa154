package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/storage"
)

func TestDevStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewJSONStore(dir, "devstate.json")
	require.NoError(t, err)

	ctx := context.Background()
	stores := NewMemoryStores()
	stores.SeedIfEmpty()

	user, err := stores.Users.Signup(ctx, &models.SignupRequest{
		Email: "snap@example.com", Password: "secret123", Name: "Snap",
	})
	require.NoError(t, err)
	require.NoError(t, stores.Matches.SaveMatch(ctx, user.ID, "2"))
	_, err = stores.Conversations.AppendMessage(ctx, "conv-1", &models.MessagePayload{SenderID: user.ID, Text: "hi"})
	require.NoError(t, err)
	_, err = stores.Conversations.SubmitReport(ctx, "conv-1", &models.ReportPayload{UserID: user.ID, Reason: "spam"})
	require.NoError(t, err)

	require.NoError(t, stores.Save(store))

	restored := NewMemoryStores()
	require.NoError(t, restored.Load(store))

	// Credentials survive the snapshot.
	_, err = restored.Users.Authenticate(ctx, "snap@example.com", "secret123")
	require.NoError(t, err)

	matches, err := restored.Matches.Matches(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "2", matches[0]["id"])

	messages, err := restored.Conversations.Messages(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Text)

	reports, err := restored.Conversations.AllReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "conv-1", reports[0].ConversationID)

	// Seeded story badges come back as a list on the feed.
	listed, err := restored.Stories.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, listed)
	for _, st := range listed {
		if st.ID == "1" {
			assert.Equal(t, []string{"Storyteller", "Verified"}, st.Badges)
		}
	}
}
