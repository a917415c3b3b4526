package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"coffee-order/internal/models"
	"coffee-order/internal/order"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot message shown on the next page render.
type Notice struct {
	Kind    NoticeKind
	Message string
}

type entry struct {
	form     *order.Form
	notice   *Notice
	lastSeen time.Time

	// saveMu orders snapshot and store write so the last write carries
	// the newest state.
	saveMu  sync.Mutex
	savedAt time.Time
}

// Registry owns the live form of every session. Forms that are not in
// memory are restored from the store on first use.
type Registry struct {
	mu      sync.Mutex
	catalog *models.Catalog
	store   Store
	ttl     time.Duration
	entries map[string]*entry
	now     func() time.Time
}

func NewRegistry(catalog *models.Catalog, store Store, ttl time.Duration) *Registry {
	return &Registry{
		catalog: catalog,
		store:   store,
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Form returns the form for session id, creating an empty one if neither
// memory nor the store knows it.
func (r *Registry) Form(ctx context.Context, id string) (*order.Form, error) {
	if e := r.touch(id); e != nil {
		return e.form, nil
	}

	snap, found, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	form := order.NewForm(r.catalog)
	if found {
		form = order.RestoreForm(r.catalog, snap)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request for the same session may have won the race
	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		return e.form, nil
	}
	r.entries[id] = &entry{form: form, lastSeen: r.now()}
	return form, nil
}

func (r *Registry) touch(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil
	}
	e.lastSeen = r.now()
	return e
}

// Save writes the current state of the session's form to the store. An
// empty form removes the stored snapshot instead.
func (r *Registry) Save(ctx context.Context, id string) error {
	e := r.lookup(id)
	if e == nil {
		return nil
	}

	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	return r.write(ctx, id, e)
}

// Refresh rewrites the stored snapshot of a session that is only being
// read, so store expiry follows activity rather than the last mutation.
// Writes are skipped while the stored copy is younger than a quarter of
// the session TTL.
func (r *Registry) Refresh(ctx context.Context, id string) error {
	e := r.lookup(id)
	if e == nil {
		return nil
	}

	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if !e.savedAt.IsZero() && r.now().Sub(e.savedAt) < r.ttl/4 {
		return nil
	}
	return r.write(ctx, id, e)
}

func (r *Registry) lookup(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

// write must be called with e.saveMu held.
func (r *Registry) write(ctx context.Context, id string, e *entry) error {
	var err error
	if snap := e.form.Snapshot(); snap.IsEmpty() {
		err = r.store.Delete(ctx, id)
	} else {
		err = r.store.Save(ctx, id, snap)
	}
	if err != nil {
		return err
	}
	e.savedAt = r.now()
	return nil
}

func (r *Registry) SetNotice(id string, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.notice = &n
	}
}

// TakeNotice returns and clears the pending notice.
func (r *Registry) TakeNotice(id string) (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.notice == nil {
		return Notice{}, false
	}
	n := *e.notice
	e.notice = nil
	return n, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run evicts idle sessions until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.evict(); n > 0 {
				slog.Debug("evicted idle sessions", "count", n)
			}
		}
	}
}

func (r *Registry) evict() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	evicted := 0
	for id, e := range r.entries {
		// a form with a request in flight is still in use
		if e.lastSeen.Before(cutoff) && !e.form.View().Submitting {
			delete(r.entries, id)
			evicted++
		}
	}
	r.mu.Unlock()

	if p, ok := r.store.(pruner); ok {
		p.Prune(cutoff)
	}
	return evicted
}
