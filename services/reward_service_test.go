package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"community-helper-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaybeAnnounceReward_Threshold(t *testing.T) {
	store := newTestStore(t)
	announcer := &recordingAnnouncer{}
	rewards := NewRewardService(store, announcer, 100)
	ctx := context.Background()

	seedMember(t, store, 1, "star")

	fired, err := rewards.MaybeAnnounceReward(ctx, 1, 99)
	require.NoError(t, err)
	assert.False(t, fired)

	fired, err = rewards.MaybeAnnounceReward(ctx, 1, 100)
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = rewards.MaybeAnnounceReward(ctx, 1, 100)
	require.NoError(t, err)
	assert.False(t, fired, "stale retry must not fire again")

	fired, err = rewards.MaybeAnnounceReward(ctx, 1, 150)
	require.NoError(t, err)
	assert.False(t, fired)

	assert.Equal(t, []int64{1}, announcer.announced)
}

func TestMaybeAnnounceReward_FailedAnnouncementWritesNothing(t *testing.T) {
	store := newTestStore(t)
	announcer := &recordingAnnouncer{err: errors.New("telegram down")}
	rewards := NewRewardService(store, announcer, 100)
	ctx := context.Background()

	seedMember(t, store, 1, "star")

	fired, err := rewards.MaybeAnnounceReward(ctx, 1, 100)
	assert.Error(t, err)
	assert.False(t, fired)

	has, err := store.HasRewardRecord(ctx, 1)
	require.NoError(t, err)
	assert.False(t, has)

	announcer.err = nil
	fired, err = rewards.MaybeAnnounceReward(ctx, 1, 101)
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestRewardService_Eligible(t *testing.T) {
	rewards := NewRewardService(nil, nil, 3)
	assert.False(t, rewards.Eligible(2))
	assert.True(t, rewards.Eligible(3))
	assert.Equal(t, 3, rewards.Threshold())
}

// gatedAnnouncer holds each announcement until a second one arrives or the
// wait times out, widening the window between check and mark.
type gatedAnnouncer struct {
	mu        sync.Mutex
	calls     int
	both      chan struct{}
	announced int
}

func (a *gatedAnnouncer) AnnounceReward(_ context.Context, _ *models.Member) error {
	a.mu.Lock()
	a.calls++
	if a.calls == 2 {
		close(a.both)
	}
	a.mu.Unlock()

	select {
	case <-a.both:
	case <-time.After(200 * time.Millisecond):
	}

	a.mu.Lock()
	a.announced++
	a.mu.Unlock()
	return nil
}

func TestMaybeAnnounceReward_ConcurrentCrossingsFireOnce(t *testing.T) {
	store := newTestStore(t)
	announcer := &gatedAnnouncer{both: make(chan struct{})}
	rewards := NewRewardService(store, announcer, 100)
	ctx := context.Background()

	seedMember(t, store, 1, "star")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, count := range []int{100, 101} {
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			_, err := rewards.MaybeAnnounceReward(ctx, 1, count)
			errs <- err
		}(count)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, announcer.announced)

	has, err := store.HasRewardRecord(ctx, 1)
	require.NoError(t, err)
	assert.True(t, has)
}
