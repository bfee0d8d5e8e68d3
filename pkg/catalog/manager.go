// Package catalog maintains the authoritative in-memory catalog of items,
// reconciling local persisted records against the remote source. Local data
// wins when present; the network is the fallback. A full refresh replaces
// the catalog with the remote snapshot.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/brookstreetgames/amiibodex/pkg/errors"
	"github.com/brookstreetgames/amiibodex/pkg/logging"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithNow overrides the clock used for ownership timestamps and release
// dates of locally created items.
func WithNow(now func() utc.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager owns the catalog state. All methods are safe for concurrent use;
// mutable state is guarded by a single mutex and I/O happens off the lock.
type Manager struct {
	store  Store
	remote RemoteClient
	log    zerolog.Logger
	now    func() utc.Time
	hooks  *hooks

	mu       sync.RWMutex
	items    []*Item
	filtered []*Item
	filter   Filter
}

// NewManager creates a manager over the given store and remote source.
func NewManager(store Store, remote RemoteClient, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		remote: remote,
		log:    *logging.Default(),
		now:    utc.Now,
		hooks:  newHooks(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnCatalogUpdated registers a callback fired after every successful load,
// refresh, or local creation.
func (m *Manager) OnCatalogUpdated(fn CatalogUpdatedHook) {
	m.hooks.OnCatalogUpdated(fn)
}

// Load returns the catalog from local storage, resolving ownership for each
// item. When the store is empty or unreadable it falls back to a single
// Refresh call; exactly one of the two paths executes.
func (m *Manager) Load(ctx context.Context) ([]*Item, error) {
	items, err := m.store.Items(ctx)
	if err == nil && len(items) == 0 {
		err = errors.WrapStorage("read", "item", errors.ErrEmptyStore)
	}
	if err != nil {
		m.log.Debug().Err(err).Msg("Local storage unavailable, falling back to network")
		return m.Refresh(ctx)
	}

	m.log.Debug().Int("items", len(items)).Msg("Catalog loaded from local storage")
	m.attachOwnership(ctx, items)
	return m.publish(items), nil
}

// Refresh authoritatively replaces the catalog with the remote snapshot.
// Persisted items are cleared first; if the clear fails the network is never
// touched. On any fetch or decode failure the in-memory catalog is left
// untouched. Locally created items are discarded by a successful refresh.
func (m *Manager) Refresh(ctx context.Context) ([]*Item, error) {
	if err := m.store.DeleteItems(ctx); err != nil {
		return nil, errors.WrapStorage("clear", "item", err)
	}
	m.log.Debug().Msg("Local storage cleared")

	items, err := m.remote.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	m.log.Debug().Int("items", len(items)).Msg("Catalog received from server")

	sortItems(items)
	if err := m.store.ReplaceItems(ctx, items); err != nil {
		return nil, errors.WrapStorage("write", "item", err)
	}

	m.attachOwnership(ctx, items)
	return m.publish(items), nil
}

// SetFilter updates the active filter and synchronously recomputes the
// derived view. It performs no I/O and is idempotent.
func (m *Manager) SetFilter(f Filter) []*Item {
	m.mu.Lock()
	m.filter = f
	m.filtered = applyFilter(m.items, m.filter)
	out := make([]*Item, len(m.filtered))
	copy(out, m.filtered)
	m.mu.Unlock()
	return out
}

// Filter returns the active filter.
func (m *Manager) Filter() Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// Items returns the complete catalog in (head, tail) order.
func (m *Manager) Items() []*Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Item, len(m.items))
	copy(out, m.items)
	return out
}

// Filtered returns the derived view for the active filter.
func (m *Manager) Filtered() []*Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Item, len(m.filtered))
	copy(out, m.filtered)
	return out
}

// CreateItem synthesizes a custom item under the reserved head code with the
// next zero-padded tail code. The item persist and the counter advance share
// one store transaction, so tail codes never repeat. The new item is
// appended to the catalog and returned.
func (m *Manager) CreateItem(ctx context.Context, name string, hasImage bool) (*Item, error) {
	if name == "" {
		return nil, fmt.Errorf("item name is required: %w", errors.ErrInvalidInput)
	}

	counter, err := m.store.CreationCounter(ctx)
	if err != nil {
		return nil, errors.WrapStorage("read", "counter", err)
	}

	date := m.now().Format(ReleaseDateFormat)
	item := &Item{
		Head:         UserCreatedHead,
		Tail:         fmt.Sprintf("%08d", counter),
		Name:         name,
		Character:    name,
		AmiiboSeries: UserCreatedSeries,
		GameSeries:   UserCreatedSeries,
		Type:         "Figure",
		Releases: map[string]string{
			RegionNorthAmerica: date,
			RegionEurope:       date,
			RegionJapan:        date,
			RegionAustralia:    date,
		},
	}
	if hasImage {
		item.ImagePath = fmt.Sprintf("local/%s.png", item.Identifier())
	}

	if err := m.store.CreateItem(ctx, item, counter+1); err != nil {
		return nil, errors.WrapStorage("write", "item", err)
	}
	m.log.Info().Str("identifier", item.Identifier()).Msg("Item created")

	m.mu.Lock()
	m.items = append(m.items, item)
	sortItems(m.items)
	m.filtered = applyFilter(m.items, m.filter)
	snapshot := make([]*Item, len(m.items))
	copy(snapshot, m.items)
	m.mu.Unlock()

	m.hooks.triggerCatalogUpdated(snapshot)
	return item, nil
}

// AddToCollection creates an ownership record for the item. It fails with
// ErrAlreadyOwned when a record already exists, leaving state unchanged.
// The derived view is not recomputed here; callers refresh it with
// SetFilter once their interaction completes.
func (m *Manager) AddToCollection(ctx context.Context, item *Item) error {
	identifier := item.Identifier()

	existing, err := m.store.Ownership(ctx, identifier)
	if err != nil {
		return errors.WrapStorage("read", "ownership", err)
	}
	if existing != nil {
		return fmt.Errorf("item %s: %w", identifier, errors.ErrAlreadyOwned)
	}

	ownership := &Ownership{Identifier: identifier, AcquiredAt: m.now()}
	if err := m.store.AddOwnership(ctx, ownership); err != nil {
		return errors.WrapStorage("write", "ownership", err)
	}

	m.mu.Lock()
	item.Ownership = ownership
	m.mu.Unlock()

	m.log.Info().Str("identifier", identifier).Msg("Item added to collection")
	return nil
}

// RemoveFromCollection deletes the item's ownership record. Removing an item
// that is not owned is a no-op, not an error.
func (m *Manager) RemoveFromCollection(ctx context.Context, item *Item) error {
	identifier := item.Identifier()

	existing, err := m.store.Ownership(ctx, identifier)
	if err != nil {
		return errors.WrapStorage("read", "ownership", err)
	}
	if existing == nil {
		return nil
	}

	if err := m.store.DeleteOwnership(ctx, identifier); err != nil {
		return errors.WrapStorage("delete", "ownership", err)
	}

	m.mu.Lock()
	item.Ownership = nil
	m.mu.Unlock()

	m.log.Info().Str("identifier", identifier).Msg("Item removed from collection")
	return nil
}

// attachOwnership resolves ownership for every item with one bulk read.
// A failed read degrades to "nothing owned" rather than failing the load.
func (m *Manager) attachOwnership(ctx context.Context, items []*Item) {
	ownerships, err := m.store.Ownerships(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("Could not resolve ownership records")
		ownerships = nil
	}
	for _, item := range items {
		item.Ownership = ownerships[item.Identifier()]
	}
}

// publish swaps the catalog, recomputes the derived view, and fans the new
// snapshot out to hooks. Returns a copy of the new catalog.
func (m *Manager) publish(items []*Item) []*Item {
	m.mu.Lock()
	m.items = items
	m.filtered = applyFilter(m.items, m.filter)
	snapshot := make([]*Item, len(m.items))
	copy(snapshot, m.items)
	m.mu.Unlock()

	m.hooks.triggerCatalogUpdated(snapshot)
	return snapshot
}
