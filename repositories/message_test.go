package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chimchat/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Record_Multiple_Messages(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	messages := []domain.Message{
		{ID: uuid.New(), Author: "Alice", Content: "first", At: at},
		{ID: uuid.New(), Author: "Bob", Content: "second", At: at.Add(1 * time.Minute)},
		{ID: uuid.New(), Author: "Clara", Content: "third", At: at.Add(2 * time.Minute)},
	}
	for _, msg := range messages {
		req.NoError(repository.Store(msg))
	}

	fetched, err := repository.FetchRecent(10)
	req.NoError(err)
	req.Equal(messages, fetched)
}

func Test_FetchRecent_Keeps_The_Latest_And_Chronological_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	for i, content := range []string{"oldest", "older", "newer", "newest"} {
		msg := domain.NewInbound("Alice", content)
		msg.At = at.Add(time.Duration(i) * time.Minute)
		req.NoError(repository.Store(msg))
	}

	fetched, err := repository.FetchRecent(2)
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal("newer", fetched[0].Content)
	req.Equal("newest", fetched[1].Content)
}

func Test_Same_Nanosecond_Messages_Are_Both_Kept(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	first := domain.NewInbound("Alice", "tie one")
	first.At = at
	second := domain.NewInbound("Bob", "tie two")
	second.At = at

	req.NoError(repository.Store(first))
	req.NoError(repository.Store(second))

	fetched, err := repository.FetchRecent(10)
	req.NoError(err)
	req.Len(fetched, 2)
}

func Test_FetchRecent_On_Empty_Store(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	fetched, err := repository.FetchRecent(10)
	req.NoError(err)
	req.Empty(fetched)
}
