// Package resource provides the in-memory mirror of one remote collection.
// A Collection loads the whole remote list once, applies each successful
// write to its local copy according to a fixed sync policy, and reports a
// user-visible notification for every outcome.
package resource

import (
	"context"
	"sync"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("resource")

// State is the coarse-grained status of a collection.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Entity is anything with a stable identity.
type Entity interface {
	Key() string
}

// Policy decides how a successful write reaches the local copy.
type Policy int

const (
	// PolicyPatch stores exactly the entity returned by the backend.
	PolicyPatch Policy = iota
	// PolicyPrepend is PolicyPatch with new entities placed first.
	PolicyPrepend
	// PolicyReload re-fetches the whole collection after every write.
	PolicyReload
)

func (p Policy) String() string {
	switch p {
	case PolicyPatch:
		return "patch"
	case PolicyPrepend:
		return "prepend"
	case PolicyReload:
		return "reload"
	}
	return "unknown"
}

// Messages are the notification texts of one collection.
type Messages struct {
	LoadFailed   string
	Created      string
	CreateFailed string
	Updated      string
	UpdateFailed string
	Deactivated  string
	Reactivated  string
	Deleted      string
	DeleteFailed string
}

type settings struct {
	policy   Policy
	messages Messages
	notifier port.Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// Option configures a Collection.
type Option func(*settings)

// WithPolicy sets the sync policy. The default is PolicyPatch.
func WithPolicy(p Policy) Option { return func(s *settings) { s.policy = p } }

// WithMessages sets the notification texts.
func WithMessages(m Messages) Option { return func(s *settings) { s.messages = m } }

// WithNotifier routes notifications to n.
func WithNotifier(n port.Notifier) Option { return func(s *settings) { s.notifier = n } }

// WithMetrics records loads and sizes.
func WithMetrics(m *observability.Metrics) Option { return func(s *settings) { s.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *settings) { s.logger = l } }

// Fetcher reads the whole remote collection.
type Fetcher[T Entity] func(ctx context.Context) ([]T, error)

// Collection mirrors one remote collection in memory.
type Collection[T Entity] struct {
	name  string
	fetch Fetcher[T]
	cfg   settings

	mu       sync.RWMutex
	items    []T
	state    State
	lastErr  error
	loadedAt time.Time
}

// New creates an idle collection named name.
func New[T Entity](name string, fetch Fetcher[T], opts ...Option) *Collection[T] {
	cfg := settings{policy: PolicyPatch}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return &Collection[T]{
		name:  name,
		fetch: fetch,
		cfg:   cfg,
		state: StateIdle,
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Policy returns the sync policy fixed at construction.
func (c *Collection[T]) Policy() Policy { return c.cfg.policy }

// ============================================================
// Reads
// ============================================================

// Load replaces the local copy with the remote collection. On failure the
// previous items are kept and the error is recorded.
func (c *Collection[T]) Load(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Collection.Load")
	defer span.End()
	span.SetAttributes(attribute.String("collection", c.name))

	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	if err != nil {
		c.state = StateError
		c.lastErr = err
		n := len(c.items)
		c.mu.Unlock()

		span.RecordError(err)
		c.cfg.logger.Warn("collection load failed",
			zap.String("collection", c.name),
			zap.Int("kept", n),
			zap.Error(err),
		)
		c.recordLoad("error", n)
		c.notify(domain.NotificationError, c.cfg.messages.LoadFailed, err)
		return err
	}
	c.items = append(make([]T, 0, len(items)), items...)
	c.state = StateReady
	c.lastErr = nil
	c.loadedAt = time.Now()
	n := len(c.items)
	c.mu.Unlock()

	c.cfg.logger.Debug("collection loaded", zap.String("collection", c.name), zap.Int("count", n))
	c.recordLoad("success", n)
	return nil
}

// Resync reloads the collection after a write whose effect the backend
// computes, such as an association change.
func (c *Collection[T]) Resync(ctx context.Context) error {
	return c.Load(ctx)
}

// List returns a copy of all items in backend order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]T, 0, len(c.items)), c.items...)
}

// Get returns the item with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the items matching pred, in order.
func (c *Collection[T]) Filter(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0)
	for _, it := range c.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of cached items.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// State returns the current state.
func (c *Collection[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastError returns the error of the last failed load, if any.
func (c *Collection[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Status summarizes the collection for the status endpoint.
func (c *Collection[T]) Status() domain.ResourceStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := domain.ResourceStatus{
		Name:  c.name,
		State: string(c.state),
		Count: len(c.items),
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	if !c.loadedAt.IsZero() {
		t := c.loadedAt
		st.LoadedAt = &t
	}
	return st
}

// ============================================================
// Writes
// ============================================================

// Create runs the remote create and stores the result.
func (c *Collection[T]) Create(ctx context.Context, create func(ctx context.Context) (*T, error)) (*T, error) {
	return c.CreateMatching(ctx, nil, create)
}

// CreateMatching is Create for backends that may answer a create with an
// empty body. After the fallback reload, the last item matching match is
// returned as the created entity; nil, nil when nothing matches.
func (c *Collection[T]) CreateMatching(ctx context.Context, match func(T) bool, create func(ctx context.Context) (*T, error)) (*T, error) {
	ctx, span := tracer.Start(ctx, "Collection.Create")
	defer span.End()
	span.SetAttributes(attribute.String("collection", c.name))

	created, err := create(ctx)
	if err != nil {
		span.RecordError(err)
		c.cfg.logger.Warn("collection create failed", zap.String("collection", c.name), zap.Error(err))
		c.notify(domain.NotificationError, c.cfg.messages.CreateFailed, err)
		return nil, err
	}

	if c.cfg.policy == PolicyReload || created == nil {
		_ = c.Load(ctx)
		if created == nil && match != nil {
			if found := c.Filter(match); len(found) > 0 {
				fresh := found[len(found)-1]
				created = &fresh
			}
		}
	} else {
		c.mu.Lock()
		if c.cfg.policy == PolicyPrepend {
			c.items = append([]T{*created}, c.items...)
		} else {
			c.items = append(c.items, *created)
		}
		n := len(c.items)
		c.mu.Unlock()
		c.setSize(n)
	}

	c.notify(domain.NotificationSuccess, c.cfg.messages.Created, nil)
	return created, nil
}

// Update runs the remote update of id and stores the result.
func (c *Collection[T]) Update(ctx context.Context, id string, update func(ctx context.Context) (*T, error)) (*T, error) {
	return c.update(ctx, id, update, c.cfg.messages.Updated)
}

// Deactivate flips the soft-delete marker of a cached entity and writes it
// back. Unknown ids are a silent no-op returning nil, nil.
func (c *Collection[T]) Deactivate(ctx context.Context, id string, flip func(T) T, write func(ctx context.Context, next T) (*T, error)) (*T, error) {
	current, ok := c.Get(id)
	if !ok {
		c.cfg.logger.Debug("deactivate: unknown id ignored", zap.String("collection", c.name), zap.String("id", id))
		return nil, nil
	}
	next := flip(current)
	return c.update(ctx, id, func(ctx context.Context) (*T, error) {
		return write(ctx, next)
	}, c.cfg.messages.Deactivated)
}

// Restore is Deactivate in reverse: it flips the marker back and reports
// the reactivation message. Unknown ids are a silent no-op.
func (c *Collection[T]) Restore(ctx context.Context, id string, flip func(T) T, write func(ctx context.Context, next T) (*T, error)) (*T, error) {
	current, ok := c.Get(id)
	if !ok {
		return nil, nil
	}
	next := flip(current)
	return c.update(ctx, id, func(ctx context.Context) (*T, error) {
		return write(ctx, next)
	}, c.cfg.messages.Reactivated)
}

func (c *Collection[T]) update(ctx context.Context, id string, update func(ctx context.Context) (*T, error), okMsg string) (*T, error) {
	ctx, span := tracer.Start(ctx, "Collection.Update")
	defer span.End()
	span.SetAttributes(
		attribute.String("collection", c.name),
		attribute.String("id", id),
	)

	updated, err := update(ctx)
	if err != nil {
		span.RecordError(err)
		c.cfg.logger.Warn("collection update failed",
			zap.String("collection", c.name),
			zap.String("id", id),
			zap.Error(err),
		)
		c.notify(domain.NotificationError, c.cfg.messages.UpdateFailed, err)
		return nil, err
	}

	if c.cfg.policy == PolicyReload || updated == nil {
		_ = c.Load(ctx)
		if updated == nil {
			if fresh, ok := c.Get(id); ok {
				updated = &fresh
			}
		}
	} else {
		c.replace(id, *updated)
	}

	c.notify(domain.NotificationSuccess, okMsg, nil)
	return updated, nil
}

// Remove runs a remote hard delete and drops id from the local copy.
func (c *Collection[T]) Remove(ctx context.Context, id string, remove func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "Collection.Remove")
	defer span.End()
	span.SetAttributes(
		attribute.String("collection", c.name),
		attribute.String("id", id),
	)

	if err := remove(ctx); err != nil {
		span.RecordError(err)
		c.cfg.logger.Warn("collection delete failed",
			zap.String("collection", c.name),
			zap.String("id", id),
			zap.Error(err),
		)
		c.notify(domain.NotificationError, c.cfg.messages.DeleteFailed, err)
		return err
	}

	c.Forget(id)
	c.notify(domain.NotificationSuccess, c.cfg.messages.Deleted, nil)
	return nil
}

// Forget drops id from the local copy without contacting the backend.
func (c *Collection[T]) Forget(id string) {
	c.mu.Lock()
	out := c.items[:0:0]
	for _, it := range c.items {
		if it.Key() != id {
			out = append(out, it)
		}
	}
	c.items = out
	n := len(out)
	c.mu.Unlock()
	c.setSize(n)
}

func (c *Collection[T]) replace(id string, v T) {
	c.mu.Lock()
	found := false
	for i, it := range c.items {
		if it.Key() == id {
			c.items[i] = v
			found = true
			break
		}
	}
	if !found {
		c.items = append(c.items, v)
	}
	n := len(c.items)
	c.mu.Unlock()
	c.setSize(n)
}

// ============================================================
// Reporting
// ============================================================

func (c *Collection[T]) notify(level domain.NotificationLevel, msg string, err error) {
	if c.cfg.notifier == nil || msg == "" {
		return
	}
	n := domain.Notification{
		Level:     level,
		Resource:  c.name,
		Message:   msg,
		CreatedAt: time.Now(),
	}
	if err != nil {
		n.Detail = err.Error()
	}
	c.cfg.notifier.Notify(n)
}

func (c *Collection[T]) recordLoad(status string, n int) {
	if c.cfg.metrics == nil {
		return
	}
	c.cfg.metrics.IncrCollectionLoad(c.name, status)
	c.cfg.metrics.SetCollectionSize(c.name, n)
}

func (c *Collection[T]) setSize(n int) {
	if c.cfg.metrics != nil {
		c.cfg.metrics.SetCollectionSize(c.name, n)
	}
}
