package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opdq/opdq/internal/domain/patient"
)

// Snapshotter loads the full record set the projection derives from.
type Snapshotter interface {
	ListSince(ctx context.Context, since time.Time) ([]*patient.Patient, error)
}

// ChangeListener invokes a callback for every committed write to the patient
// collection. Setup failures must be reported synchronously from Listen, not
// swallowed into a never-firing stream.
type ChangeListener interface {
	Listen(ctx context.Context, onChange func()) (cancel func(), err error)
}

// Projection combines the change stream with the ordering engine to keep
// every observer consistent with a single total order. On each notification
// it re-derives the order from a fresh snapshot of today's records; any
// single changed record can reorder the whole set, so nothing is patched
// incrementally.
type Projection struct {
	store    Snapshotter
	listener ChangeListener
	logger   zerolog.Logger

	now    func() time.Time
	cancel func()

	mu       sync.Mutex
	ordered  []*patient.Patient
	watchers map[int]func([]*patient.Patient)
	nextID   int
}

func NewProjection(store Snapshotter, listener ChangeListener, logger zerolog.Logger) *Projection {
	return &Projection{
		store:    store,
		listener: listener,
		logger:   logger,
		now:      time.Now,
		watchers: make(map[int]func([]*patient.Patient)),
	}
}

// Start loads the initial snapshot and begins following the change stream.
// Every snapshot is scoped to the current local day, so the view rolls over
// to the new day on the first change notification after midnight. Errors
// from the store or the listener setup are returned synchronously.
func (p *Projection) Start(ctx context.Context) error {
	if err := p.reload(ctx); err != nil {
		return fmt.Errorf("load initial queue snapshot: %w", err)
	}

	cancel, err := p.listener.Listen(ctx, func() {
		if err := p.reload(ctx); err != nil {
			p.logger.Error().Err(err).Msg("reload queue snapshot")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to patient changes: %w", err)
	}
	p.cancel = cancel
	return nil
}

// Stop releases the underlying store listener.
func (p *Projection) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

// dayStart is local midnight of the current day. Recomputed on every reload
// so a long-running process drops yesterday's records instead of serving an
// ever-growing multi-day queue.
func (p *Projection) dayStart() time.Time {
	now := p.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (p *Projection) reload(ctx context.Context) error {
	records, err := p.store.ListSince(ctx, p.dayStart())
	if err != nil {
		return err
	}
	ordered := Order(records)

	p.mu.Lock()
	p.ordered = ordered
	fns := make([]func([]*patient.Patient), 0, len(p.watchers))
	for _, fn := range p.watchers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ordered)
	}
	return nil
}

// WatchQueue registers fn for every freshly ordered snapshot. fn is invoked
// immediately with the current order and again after each change
// notification; it must not call back into the projection. The returned
// cancel must be called exactly once when the observing context ends; a
// forgotten cancel leaks the watcher for the process lifetime.
func (p *Projection) WatchQueue(fn func([]*patient.Patient)) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = fn
	// The first delivery happens under the lock so a reload cannot land
	// between registration and delivery and leave the watcher holding a
	// staler snapshot than the one it was registered against.
	fn(p.ordered)
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.watchers, id)
			p.mu.Unlock()
		})
	}
}

// WatchPosition reports the 1-based rank of id among active patients on
// every snapshot, with ok=false when the patient is completed or absent. It
// is an independent watcher; consumers needing both the full list and one
// patient's rank combine it with WatchQueue.
func (p *Projection) WatchPosition(id uuid.UUID, fn func(pos int, ok bool)) (cancel func()) {
	return p.WatchQueue(func(ordered []*patient.Patient) {
		fn(Rank(ordered, id))
	})
}

// Snapshot returns the latest ordered queue. Callers must treat the slice as
// read-only.
func (p *Projection) Snapshot() []*patient.Patient {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ordered
}

// Position returns the latest rank for a single request-scoped read.
func (p *Projection) Position(id uuid.UUID) (int, bool) {
	return Rank(p.Snapshot(), id)
}
