package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-order/internal/models"
	"coffee-order/internal/order"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestRegistry(ttl time.Duration) (*Registry, *MemoryStore, *clock) {
	c := &clock{t: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = c.now
	reg := NewRegistry(models.CoffeeMenu, store, ttl)
	reg.now = c.now
	return reg, store, c
}

func TestRegistryReturnsSameFormPerSession(t *testing.T) {
	reg, _, _ := newTestRegistry(time.Hour)
	ctx := context.Background()

	a, err := reg.Form(ctx, "a")
	require.NoError(t, err)
	again, err := reg.Form(ctx, "a")
	require.NoError(t, err)
	b, err := reg.Form(ctx, "b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistrySaveAndRestore(t *testing.T) {
	reg, store, _ := newTestRegistry(time.Hour)
	ctx := context.Background()

	form, err := reg.Form(ctx, "s1")
	require.NoError(t, err)
	form.Increase(2)
	form.SetName("Sari")
	require.NoError(t, reg.Save(ctx, "s1"))
	assert.Equal(t, 1, store.Len())

	fresh := NewRegistry(models.CoffeeMenu, store, time.Hour)
	restored, err := fresh.Form(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Quantity(2))
	assert.Equal(t, "Sari", restored.View().Customer.Name)
}

func TestRegistrySaveEmptyDeletesSnapshot(t *testing.T) {
	reg, store, _ := newTestRegistry(time.Hour)
	ctx := context.Background()

	form, err := reg.Form(ctx, "s1")
	require.NoError(t, err)
	form.Increase(1)
	require.NoError(t, reg.Save(ctx, "s1"))
	require.Equal(t, 1, store.Len())

	form.Decrease(1)
	require.NoError(t, reg.Save(ctx, "s1"))
	assert.Equal(t, 0, store.Len())
}

func TestRegistryNoticeIsOneShot(t *testing.T) {
	reg, _, _ := newTestRegistry(time.Hour)
	_, err := reg.Form(context.Background(), "s1")
	require.NoError(t, err)

	reg.SetNotice("s1", Notice{Kind: NoticeSuccess, Message: order.MsgSubmitted})

	n, ok := reg.TakeNotice("s1")
	require.True(t, ok)
	assert.Equal(t, order.MsgSubmitted, n.Message)

	_, ok = reg.TakeNotice("s1")
	assert.False(t, ok)
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	reg, store, c := newTestRegistry(time.Hour)
	ctx := context.Background()

	old, err := reg.Form(ctx, "old")
	require.NoError(t, err)
	old.Increase(1)
	require.NoError(t, reg.Save(ctx, "old"))

	c.t = c.t.Add(50 * time.Minute)
	_, err = reg.Form(ctx, "recent")
	require.NoError(t, err)

	c.t = c.t.Add(20 * time.Minute)
	assert.Equal(t, 1, reg.evict())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 0, store.Len())
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Load(context.Context, string) (order.Snapshot, bool, error) {
	return order.Snapshot{}, false, errors.New("store down")
}

func TestRegistrySurfacesStoreErrors(t *testing.T) {
	reg := NewRegistry(models.CoffeeMenu, &failingStore{}, time.Hour)

	_, err := reg.Form(context.Background(), "s1")
	assert.EqualError(t, err, "store down")
}

func TestRegistryRunStopsOnCancel(t *testing.T) {
	reg, _, _ := newTestRegistry(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// gatedStore blocks its first Save until release is closed.
type gatedStore struct {
	*MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Save(ctx context.Context, id string, s order.Snapshot) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemoryStore.Save(ctx, id, s)
}

func TestRegistryOverlappingSavesKeepNewestSnapshot(t *testing.T) {
	store := &gatedStore{
		MemoryStore: NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	reg := NewRegistry(models.CoffeeMenu, store, time.Hour)
	ctx := context.Background()

	form, err := reg.Form(ctx, "s1")
	require.NoError(t, err)
	form.Increase(1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, reg.Save(ctx, "s1"))
	}()
	<-store.entered

	form.Increase(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, reg.Save(ctx, "s1"))
	}()

	close(store.release)
	wg.Wait()

	snap, found, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, order.RestoreForm(models.CoffeeMenu, snap).Quantity(1))
}

func TestRegistryDeleteAfterSubmitIsNotOverwritten(t *testing.T) {
	store := &gatedStore{
		MemoryStore: NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	reg := NewRegistry(models.CoffeeMenu, store, time.Hour)
	ctx := context.Background()

	form, err := reg.Form(ctx, "s1")
	require.NoError(t, err)
	form.Increase(3)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, reg.Save(ctx, "s1"))
	}()
	<-store.entered

	form.Decrease(3)
	deleted := make(chan struct{})
	go func() {
		defer close(deleted)
		assert.NoError(t, reg.Save(ctx, "s1"))
	}()

	close(store.release)
	<-done
	<-deleted

	assert.Equal(t, 0, store.Len())
}

func TestRegistryRefreshKeepsReadOnlySessionAlive(t *testing.T) {
	reg, store, c := newTestRegistry(time.Hour)
	ctx := context.Background()

	form, err := reg.Form(ctx, "s1")
	require.NoError(t, err)
	form.Increase(2)
	require.NoError(t, reg.Save(ctx, "s1"))

	// a fresh write is not repeated
	c.t = c.t.Add(10 * time.Minute)
	require.NoError(t, reg.Refresh(ctx, "s1"))
	store.Prune(c.t.Add(-5 * time.Minute))
	assert.Equal(t, 0, store.Len())

	require.NoError(t, reg.Save(ctx, "s1"))
	for i := 0; i < 4; i++ {
		c.t = c.t.Add(30 * time.Minute)
		_, err := reg.Form(ctx, "s1")
		require.NoError(t, err)
		require.NoError(t, reg.Refresh(ctx, "s1"))
	}

	assert.Equal(t, 0, reg.evict())
	snap, found, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, order.RestoreForm(models.CoffeeMenu, snap).Quantity(2))
}

func TestRegistryRefreshUnknownSessionIsNoop(t *testing.T) {
	reg, store, _ := newTestRegistry(time.Hour)

	require.NoError(t, reg.Refresh(context.Background(), "missing"))
	assert.Equal(t, 0, store.Len())
}
