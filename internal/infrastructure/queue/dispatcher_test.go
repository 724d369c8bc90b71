package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/internquest/internquest-api/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	block  chan struct{}
	err    error
}

func (r *recordingRepo) InsertAuthEvent(_ context.Context, ev *domain.AuthEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return r.err
}

func (r *recordingRepo) snapshot() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...)
}

type dropCounter struct {
	mu    sync.Mutex
	count map[string]int
}

func (c *dropCounter) AuditEventDropped(t string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == nil {
		c.count = map[string]int{}
	}
	c.count[t]++
}

func (c *dropCounter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.count {
		n += v
	}
	return n
}

func TestDispatcher_ShardIndexDeterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, nil, zerolog.Nop())
	for _, name := range []string{"alice", "bob", "", "ünïcode"} {
		first := d.shardIndex(name)
		assert.Equal(t, first, d.shardIndex(name))
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 8)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, nil, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_PerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	const perUser = 50
	for i := 0; i < perUser; i++ {
		for _, user := range []string{"alice", "bob", "carol"} {
			d.Record(domain.AuthEvent{ID: fmt.Sprintf("%s-%03d", user, i), Username: user, Type: domain.EventLoginFailed})
		}
	}

	require.Eventually(t, func() bool { return len(repo.snapshot()) == 3*perUser }, 2*time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()

	next := map[string]int{}
	for _, ev := range repo.snapshot() {
		want := fmt.Sprintf("%s-%03d", ev.Username, next[ev.Username])
		assert.Equal(t, want, ev.ID, "events for %s out of order", ev.Username)
		next[ev.Username]++
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{block: make(chan struct{})}
	drops := &dropCounter{}
	d := NewDispatcher(1, repo, drops, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	// One event is held by the blocked worker, channelBuffer more fill the queue.
	total := channelBuffer + 11
	done := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			d.Record(domain.AuthEvent{ID: fmt.Sprint(i), Username: "alice", Type: domain.EventLoginFailed})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	assert.GreaterOrEqual(t, drops.total(), 10)
	close(repo.block)
	cancel()
	d.Wait()
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(3, repo, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.AuthEvent{ID: "1", Username: "alice"})
	require.Eventually(t, func() bool { return len(repo.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	d.Wait()
}
