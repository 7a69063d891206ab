// Package outbox implementa la cola write-ahead de cambios pendientes hacia el gateway.
//
// Las operaciones se envían en orden FIFO por un único worker. Una operación que falla se
// reintenta con backoff exponencial y bloquea a las siguientes, de modo que el backend recibe
// los cambios en el mismo orden en que se confirmaron localmente. Tras MaxAttempts la operación
// se descarta y su entidad queda en estado failed. Los rechazos de autorización no cuentan como
// intentos: la operación espera en la cola (y en el snapshot) hasta que haya una sesión válida.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Status string

const (
	StatusUnknown Status = ""
	StatusPending Status = "pending"
	StatusSynced  Status = "synced"
	StatusFailed  Status = "failed"
)

// Op es un cambio pendiente; el payload se serializa al encolar
type Op struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	EntityID   string          `json:"entityId"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
}

// Sender entrega una operación al gateway
type Sender interface {
	Send(ctx context.Context, collection string, payload json.RawMessage) error
}

// Permanent marca errores que no tiene sentido reintentar (p.ej. 400)
type Permanent interface {
	Permanent() bool
}

// Unauthorized marca rechazos por credenciales (401/403); se reintentan sin consumir intentos
type Unauthorized interface {
	Unauthorized() bool
}

type Options struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
	SendTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		MaxAttempts: 8,
		SendTimeout: 10 * time.Second,
	}
}

type Queue struct {
	mu       sync.Mutex
	ops      []Op
	status   map[string]Status
	inFlight bool
	wake     chan struct{}

	sender Sender
	opts   Options
	log    zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	// onChange se llama tras cada cambio de la cola (para persistirla)
	onChange func()
}

func New(sender Sender, opts Options, log zerolog.Logger) *Queue {
	def := DefaultOptions()
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = def.BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = def.MaxDelay
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = def.SendTimeout
	}
	return &Queue{
		status: make(map[string]Status),
		wake:   make(chan struct{}, 1),
		sender: sender,
		opts:   opts,
		log:    log.With().Str("component", "outbox").Logger(),
		sleep:  sleepCtx,
	}
}

// OnChange registra un callback invocado después de cada cambio en la cola
func (q *Queue) OnChange(fn func()) {
	q.mu.Lock()
	q.onChange = fn
	q.mu.Unlock()
}

// Enqueue agrega una operación al final de la cola
func (q *Queue) Enqueue(collection, entityID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", collection, err)
	}

	q.mu.Lock()
	q.ops = append(q.ops, Op{
		ID:         uuid.NewString(),
		Collection: collection,
		EntityID:   entityID,
		Payload:    raw,
		EnqueuedAt: time.Now(),
	})
	if entityID != "" {
		q.status[entityID] = StatusPending
	}
	fn := q.onChange
	q.mu.Unlock()

	q.signal()
	if fn != nil {
		fn()
	}
	return nil
}

// Status devuelve el estado de sincronización de una entidad
func (q *Queue) Status(entityID string) Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status[entityID]
}

// Pending es la cantidad de operaciones sin entregar
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Export copia las operaciones pendientes para el snapshot
func (q *Queue) Export() []Op {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Op(nil), q.ops...)
}

// Statuses copia el estado de sincronización por entidad para el snapshot
func (q *Queue) Statuses() map[string]Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make(map[string]Status, len(q.status))
	for id, st := range q.status {
		out[id] = st
	}
	return out
}

// RestoreStatuses carga estados de un snapshot sin pisar los que ya conoce la cola
func (q *Queue) RestoreStatuses(statuses map[string]Status) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, st := range statuses {
		if _, ok := q.status[id]; ok || id == "" {
			continue
		}
		q.status[id] = st
	}
}

// Import restaura operaciones de un snapshot delante de las ya encoladas
func (q *Queue) Import(ops []Op) {
	if len(ops) == 0 {
		return
	}
	q.mu.Lock()
	q.ops = append(append([]Op(nil), ops...), q.ops...)
	for _, op := range ops {
		if op.EntityID != "" {
			q.status[op.EntityID] = StatusPending
		}
	}
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run procesa la cola hasta que ctx termine
func (q *Queue) Run(ctx context.Context) {
	for {
		op, ok := q.head()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
				continue
			}
		}

		err := q.deliver(ctx, op)
		if ctx.Err() != nil {
			q.release()
			return
		}
		if err == nil {
			q.finish(op, StatusSynced)
			continue
		}

		var unauth Unauthorized
		if errors.As(err, &unauth) && unauth.Unauthorized() {
			q.log.Warn().Err(err).
				Str("collection", op.Collection).
				Str("entity_id", op.EntityID).
				Dur("retry_in", q.opts.MaxDelay).
				Msg("sync waiting for authorization")
			if err := q.sleep(ctx, q.opts.MaxDelay); err != nil {
				q.release()
				return
			}
			continue
		}

		attempts := q.fail(op)
		var perm Permanent
		if (errors.As(err, &perm) && perm.Permanent()) || attempts >= q.opts.MaxAttempts {
			q.log.Error().Err(err).
				Str("collection", op.Collection).
				Str("entity_id", op.EntityID).
				Int("attempts", attempts).
				Msg("sync dropped")
			q.finish(op, StatusFailed)
			continue
		}

		delay := q.backoff(attempts)
		q.log.Warn().Err(err).
			Str("collection", op.Collection).
			Str("entity_id", op.EntityID).
			Int("attempts", attempts).
			Dur("retry_in", delay).
			Msg("sync failed, retrying")
		if err := q.sleep(ctx, delay); err != nil {
			q.release()
			return
		}
	}
}

func (q *Queue) head() (Op, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ops) == 0 {
		q.inFlight = false
		return Op{}, false
	}
	q.inFlight = true
	return q.ops[0], true
}

func (q *Queue) release() {
	q.mu.Lock()
	q.inFlight = false
	q.mu.Unlock()
}

func (q *Queue) deliver(ctx context.Context, op Op) error {
	ctx, cancel := context.WithTimeout(ctx, q.opts.SendTimeout)
	defer cancel()
	return q.sender.Send(ctx, op.Collection, op.Payload)
}

func (q *Queue) fail(op Op) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ops) > 0 && q.ops[0].ID == op.ID {
		q.ops[0].Attempts++
		return q.ops[0].Attempts
	}
	return op.Attempts + 1
}

func (q *Queue) finish(op Op, status Status) {
	q.mu.Lock()
	if len(q.ops) > 0 && q.ops[0].ID == op.ID {
		q.ops = q.ops[1:]
	}
	if op.EntityID != "" {
		switch {
		case status == StatusFailed:
			q.status[op.EntityID] = StatusFailed
		case !q.hasPending(op.EntityID):
			q.status[op.EntityID] = status
		}
	}
	fn := q.onChange
	q.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// hasPending requiere q.mu
func (q *Queue) hasPending(entityID string) bool {
	for _, op := range q.ops {
		if op.EntityID == entityID {
			return true
		}
	}
	return false
}

func (q *Queue) backoff(attempts int) time.Duration {
	d := q.opts.BaseDelay
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= q.opts.MaxDelay {
			return q.opts.MaxDelay
		}
	}
	return d
}

// Flush espera a que la cola quede vacía o a que ctx termine
func (q *Queue) Flush(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		q.mu.Lock()
		done := len(q.ops) == 0 && !q.inFlight
		q.mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
