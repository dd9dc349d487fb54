package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/microblog/internal/models"
)

func TestMessagesAndUnreadCount(t *testing.T) {
	db := newTestDB(t)
	users := NewPostgresUserRepository(db)
	messages := NewPostgresMessageRepository(db)
	u := createUsers(t, users, "mirko", "jovan")
	sender, recipient := u[0], u[1]

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, messages.SendMessage(&models.Message{SenderID: sender.ID, RecipientID: recipient.ID, Body: "hi", Timestamp: base}))
	require.NoError(t, messages.SendMessage(&models.Message{SenderID: sender.ID, RecipientID: recipient.ID, Body: "again", Timestamp: base.Add(time.Minute)}))

	count, err := messages.NewMessageCount(recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, total, err := messages.ReceivedMessages(recipient.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, "again", got[0].Body)
	assert.Equal(t, "mirko", got[0].Author.Username)

	readAt := base.Add(30 * time.Second)
	require.NoError(t, messages.MarkMessagesRead(recipient.ID, readAt))
	reloaded, err := users.GetUserByID(recipient.ID)
	require.NoError(t, err)

	count, err = messages.NewMessageCount(reloaded)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
