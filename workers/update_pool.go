package workers

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/getsentry/sentry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrPoolClosed is returned by Submit after Stop.
var ErrPoolClosed = errors.New("update pool closed")

// UpdateHandler processes one update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// UpdatePool hashes updates by chat onto a fixed set of shards. Each shard runs
// its updates in order, so one chat is never handled concurrently while
// different chats are.
type UpdatePool struct {
	handler UpdateHandler
	shards  []chan tgbotapi.Update

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewUpdatePool(handler UpdateHandler, shards, queueSize int) *UpdatePool {
	if shards < 1 {
		shards = 1
	}
	p := &UpdatePool{handler: handler, shards: make([]chan tgbotapi.Update, shards)}
	for i := range p.shards {
		p.shards[i] = make(chan tgbotapi.Update, queueSize)
	}
	return p
}

// Start launches one goroutine per shard. Handlers receive ctx.
func (p *UpdatePool) Start(ctx context.Context) {
	for i, ch := range p.shards {
		p.wg.Add(1)
		go p.run(ctx, i, ch)
	}
	log.Printf("✅ [WORKERS] Update pool running with %d shards", len(p.shards))
}

func (p *UpdatePool) run(ctx context.Context, shard int, updates <-chan tgbotapi.Update) {
	defer p.wg.Done()
	for update := range updates {
		p.handle(ctx, shard, update)
	}
}

func (p *UpdatePool) handle(ctx context.Context, shard int, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [WORKERS] shard %d panicked on update %d: %v", shard, update.UpdateID, r)
			sentry.CurrentHub().Recover(r)
		}
	}()

	if err := p.handler.HandleUpdate(ctx, update); err != nil {
		log.Printf("❌ [WORKERS] shard %d: %v", shard, err)
		sentry.CaptureException(err)
	}
}

// Submit queues update on its chat's shard, blocking while that shard is full.
func (p *UpdatePool) Submit(ctx context.Context, update tgbotapi.Update) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.shards[p.shardFor(update)] <- update:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queues and waits for queued updates to finish.
func (p *UpdatePool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, ch := range p.shards {
		close(ch)
	}
	p.mu.Unlock()
	p.wg.Wait()
	log.Println("Update pool stopped.")
}

func (p *UpdatePool) shardFor(update tgbotapi.Update) int {
	id := chatID(update)
	if id < 0 {
		id = -id
	}
	return int(id % int64(len(p.shards)))
}

func chatID(update tgbotapi.Update) int64 {
	if chat := update.FromChat(); chat != nil {
		return chat.ID
	}
	return 0
}
