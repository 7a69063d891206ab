package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []string
	failures map[string]int
	err      error
}

func (f *fakeSender) Send(_ context.Context, collection string, payload json.RawMessage) error {
	var body struct {
		Action string `json:"action"`
		ID     string `json:"id"`
	}
	_ = json.Unmarshal(payload, &body)

	f.mu.Lock()
	defer f.mu.Unlock()
	key := collection + ":" + body.ID
	if f.failures[key] > 0 {
		f.failures[key]--
		if f.err != nil {
			return f.err
		}
		return errors.New("connection refused")
	}
	f.sent = append(f.sent, key)
	return nil
}

func (f *fakeSender) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type permanentErr struct{}

func (permanentErr) Error() string   { return "bad request" }
func (permanentErr) Permanent() bool { return true }

type unauthorizedErr struct{}

func (unauthorizedErr) Error() string      { return "gateway responded 401" }
func (unauthorizedErr) Permanent() bool    { return false }
func (unauthorizedErr) Unauthorized() bool { return true }

func newTestQueue(sender Sender, maxAttempts int) *Queue {
	q := New(sender, Options{MaxAttempts: maxAttempts}, zerolog.Nop())
	q.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return q
}

func run(t *testing.T, q *Queue) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go q.Run(ctx)
}

func flush(t *testing.T, q *Queue) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Flush(ctx))
}

func TestQueueDeliversInOrderAcrossRetries(t *testing.T) {
	sender := &fakeSender{failures: map[string]int{"products:1": 2}}
	q := newTestQueue(sender, 5)

	require.NoError(t, q.Enqueue("products", "1", map[string]string{"action": "add", "id": "1"}))
	require.NoError(t, q.Enqueue("orders", "2", map[string]string{"action": "add", "id": "2"}))
	assert.Equal(t, StatusPending, q.Status("1"))

	run(t, q)
	flush(t, q)

	assert.Equal(t, []string{"products:1", "orders:2"}, sender.Sent())
	assert.Equal(t, StatusSynced, q.Status("1"))
	assert.Equal(t, StatusSynced, q.Status("2"))
	assert.Zero(t, q.Pending())
}

func TestQueueDropsAfterMaxAttempts(t *testing.T) {
	sender := &fakeSender{failures: map[string]int{"products:1": 10}}
	q := newTestQueue(sender, 3)

	require.NoError(t, q.Enqueue("products", "1", map[string]string{"id": "1"}))
	require.NoError(t, q.Enqueue("products", "2", map[string]string{"id": "2"}))

	run(t, q)
	flush(t, q)

	assert.Equal(t, StatusFailed, q.Status("1"))
	assert.Equal(t, StatusSynced, q.Status("2"))
	assert.Equal(t, []string{"products:2"}, sender.Sent())
}

func TestQueuePermanentErrorSkipsRetries(t *testing.T) {
	sender := &fakeSender{failures: map[string]int{"users:1": 1}, err: permanentErr{}}
	q := newTestQueue(sender, 5)

	require.NoError(t, q.Enqueue("users", "1", map[string]string{"id": "1"}))
	run(t, q)
	flush(t, q)

	assert.Equal(t, StatusFailed, q.Status("1"))
	assert.Equal(t, 0, sender.failures["users:1"])
}

func TestQueueHoldsUnauthorizedOps(t *testing.T) {
	sender := &fakeSender{failures: map[string]int{"orders:ORD-1": 5}, err: unauthorizedErr{}}
	q := newTestQueue(sender, 2)

	require.NoError(t, q.Enqueue("orders", "ORD-1", map[string]string{"id": "ORD-1"}))
	require.NoError(t, q.Enqueue("orders", "ORD-2", map[string]string{"id": "ORD-2"}))
	run(t, q)
	flush(t, q)

	assert.Equal(t, StatusSynced, q.Status("ORD-1"))
	assert.Equal(t, []string{"orders:ORD-1", "orders:ORD-2"}, sender.Sent())
}

func TestQueueStatusesSurviveRestore(t *testing.T) {
	sender := &fakeSender{failures: map[string]int{"products:2": 1}, err: permanentErr{}}
	q := newTestQueue(sender, 3)
	require.NoError(t, q.Enqueue("products", "1", map[string]string{"id": "1"}))
	require.NoError(t, q.Enqueue("products", "2", map[string]string{"id": "2"}))
	require.NoError(t, q.Enqueue("products", "3", map[string]string{"id": "3"}))
	run(t, q)
	flush(t, q)

	restored := newTestQueue(&fakeSender{}, 3)
	require.NoError(t, restored.Enqueue("products", "3", map[string]string{"id": "3"}))
	restored.RestoreStatuses(q.Statuses())

	assert.Equal(t, StatusSynced, restored.Status("1"))
	assert.Equal(t, StatusFailed, restored.Status("2"))
	assert.Equal(t, StatusPending, restored.Status("3"))
}

func TestQueueExportImport(t *testing.T) {
	q := newTestQueue(&fakeSender{}, 3)
	require.NoError(t, q.Enqueue("products", "1", map[string]string{"id": "1"}))

	ops := q.Export()
	require.Len(t, ops, 1)

	sender := &fakeSender{}
	restored := newTestQueue(sender, 3)
	restored.Import(ops)
	assert.Equal(t, StatusPending, restored.Status("1"))

	run(t, restored)
	flush(t, restored)
	assert.Equal(t, []string{"products:1"}, sender.Sent())
}

func TestQueueOnChange(t *testing.T) {
	q := newTestQueue(&fakeSender{}, 3)
	var mu sync.Mutex
	calls := 0
	q.OnChange(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	require.NoError(t, q.Enqueue("products", "1", map[string]string{"id": "1"}))
	run(t, q)
	flush(t, q)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestBackoff(t *testing.T) {
	q := New(&fakeSender{}, Options{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}, zerolog.Nop())

	assert.Equal(t, 100*time.Millisecond, q.backoff(1))
	assert.Equal(t, 200*time.Millisecond, q.backoff(2))
	assert.Equal(t, 400*time.Millisecond, q.backoff(3))
	assert.Equal(t, time.Second, q.backoff(10))
}

func TestEnqueueRejectsUnencodablePayload(t *testing.T) {
	q := newTestQueue(&fakeSender{}, 3)
	assert.Error(t, q.Enqueue("products", "1", make(chan int)))
	assert.Zero(t, q.Pending())
}
