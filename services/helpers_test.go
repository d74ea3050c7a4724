package services

import (
	"context"
	"sync"
	"testing"

	"community-helper-bot/config"
	"community-helper-bot/database"
	"community-helper-bot/models"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(&config.Config{DBType: "sqlite", DatabaseURL: "file::memory:", DBMaxConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { database.Close(db) })
	return NewStore(db)
}

func seedMember(t *testing.T, store *Store, id int64, username string) *models.Member {
	t.Helper()
	var handle *string
	if username != "" {
		handle = &username
	}
	m, err := store.CreateMember(context.Background(), id, handle, nil)
	require.NoError(t, err)
	return m
}

type recordingAnnouncer struct {
	mu        sync.Mutex
	announced []int64
	err       error
}

func (a *recordingAnnouncer) AnnounceReward(_ context.Context, referrer *models.Member) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.announced = append(a.announced, referrer.TelegramID)
	return nil
}
