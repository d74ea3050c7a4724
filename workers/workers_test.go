package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu      sync.Mutex
	byChat  map[int64][]int
	active  map[int64]int
	overlap bool
	fail    bool
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{byChat: map[int64][]int{}, active: map[int64]int{}}
}

func (h *recordingHandler) HandleUpdate(_ context.Context, u tgbotapi.Update) error {
	id := u.Message.Chat.ID

	h.mu.Lock()
	h.active[id]++
	if h.active[id] > 1 {
		h.overlap = true
	}
	h.mu.Unlock()

	time.Sleep(time.Millisecond)

	h.mu.Lock()
	h.active[id]--
	h.byChat[id] = append(h.byChat[id], u.UpdateID)
	h.mu.Unlock()

	if h.fail {
		return errors.New("boom")
	}
	return nil
}

func update(id int, chat int64) tgbotapi.Update {
	return tgbotapi.Update{UpdateID: id, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chat}}}
}

func TestUpdatePool_PerChatOrder(t *testing.T) {
	h := newRecordingHandler()
	pool := NewUpdatePool(h, 4, 16)
	pool.Start(context.Background())

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		require.NoError(t, pool.Submit(ctx, update(i, int64(-100-(i%3)))))
	}
	pool.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.False(t, h.overlap, "one chat is never handled concurrently")
	total := 0
	for _, ids := range h.byChat {
		total += len(ids)
		for i := 1; i < len(ids); i++ {
			assert.Less(t, ids[i-1], ids[i])
		}
	}
	assert.Equal(t, 20, total)
}

func TestUpdatePool_SubmitAfterStop(t *testing.T) {
	pool := NewUpdatePool(newRecordingHandler(), 2, 1)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	assert.ErrorIs(t, pool.Submit(context.Background(), update(1, 1)), ErrPoolClosed)
}

func TestUpdatePool_HandlerErrorsDoNotStopShard(t *testing.T) {
	h := newRecordingHandler()
	h.fail = true
	pool := NewUpdatePool(h, 1, 4)
	pool.Start(context.Background())

	require.NoError(t, pool.Submit(context.Background(), update(1, 5)))
	require.NoError(t, pool.Submit(context.Background(), update(2, 5)))
	pool.Stop()

	assert.Equal(t, []int{1, 2}, h.byChat[5])
}

func TestPollUpdates(t *testing.T) {
	h := newRecordingHandler()
	pool := NewUpdatePool(h, 2, 4)
	pool.Start(context.Background())

	updates := make(chan tgbotapi.Update, 3)
	updates <- update(1, 7)
	updates <- update(2, 8)
	close(updates)

	PollUpdates(context.Background(), updates, pool)
	pool.Stop()

	assert.Len(t, h.byChat[7], 1)
	assert.Len(t, h.byChat[8], 1)
}
