package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brookstreetgames/amiibodex/pkg/errors"
	"github.com/brookstreetgames/amiibodex/pkg/logging"
)

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	items      []*Item
	ownerships map[string]*Ownership
	counter    uint64

	itemsErr  error
	clearErr  error
	writeErr  error
	createErr error

	clearCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{ownerships: map[string]*Ownership{}}
}

func (s *fakeStore) Items(ctx context.Context) ([]*Item, error) {
	if s.itemsErr != nil {
		return nil, s.itemsErr
	}
	out := make([]*Item, len(s.items))
	for i, item := range s.items {
		clone := *item
		clone.Ownership = nil
		out[i] = &clone
	}
	return out, nil
}

func (s *fakeStore) ReplaceItems(ctx context.Context, items []*Item) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.items = append([]*Item(nil), items...)
	return nil
}

func (s *fakeStore) DeleteItems(ctx context.Context) error {
	s.clearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.items = nil
	return nil
}

func (s *fakeStore) CreateItem(ctx context.Context, item *Item, nextCounter uint64) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.items = append(s.items, item)
	s.counter = nextCounter
	return nil
}

func (s *fakeStore) CreationCounter(ctx context.Context) (uint64, error) {
	return s.counter, nil
}

func (s *fakeStore) Ownerships(ctx context.Context) (map[string]*Ownership, error) {
	out := make(map[string]*Ownership, len(s.ownerships))
	for k, v := range s.ownerships {
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) Ownership(ctx context.Context, identifier string) (*Ownership, error) {
	return s.ownerships[identifier], nil
}

func (s *fakeStore) AddOwnership(ctx context.Context, ownership *Ownership) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.ownerships[ownership.Identifier] = ownership
	return nil
}

func (s *fakeStore) DeleteOwnership(ctx context.Context, identifier string) error {
	delete(s.ownerships, identifier)
	return nil
}

func (s *fakeStore) Close() error { return nil }

// fakeRemote counts fetches and serves a fixed catalog or error.
type fakeRemote struct {
	items   []*Item
	err     error
	fetches int
}

func (r *fakeRemote) FetchCatalog(ctx context.Context) ([]*Item, error) {
	r.fetches++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*Item, len(r.items))
	for i, item := range r.items {
		clone := *item
		out[i] = &clone
	}
	return out, nil
}

func testItem(head, tail, name string) *Item {
	return &Item{
		Head:         head,
		Tail:         tail,
		Name:         name,
		Character:    name,
		AmiiboSeries: "Super Smash Bros.",
		GameSeries:   "Super Mario",
		Type:         "Figure",
		ImagePath:    fmt.Sprintf("https://raw.githubusercontent.com/N3evin/AmiiboAPI/master/images/icon_%s-%s.png", head, tail),
		Releases:     map[string]string{RegionNorthAmerica: "2014-11-21"},
	}
}

func newTestManager(store Store, remote RemoteClient) *Manager {
	return NewManager(store, remote, WithLogger(logging.Nop))
}

func TestLoadPrefersLocalStorage(t *testing.T) {
	store := newFakeStore()
	store.items = []*Item{testItem("00000000", "00000002", "Mario"), testItem("00000100", "00000002", "Luigi")}
	remote := &fakeRemote{}
	m := newTestManager(store, remote)

	items, err := m.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 0, remote.fetches, "no network call when local storage has records")
}

func TestLoadFallsBackToNetworkWhenStoreEmpty(t *testing.T) {
	store := newFakeStore()
	remote := &fakeRemote{items: []*Item{
		testItem("00000100", "00000002", "Luigi"),
		testItem("00000000", "00000002", "Mario"),
		testItem("00000200", "00000002", "Peach"),
	}}
	m := newTestManager(store, remote)

	items, err := m.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, remote.fetches, "exactly one network call on empty store")
	assert.Len(t, items, 3)
	assert.Equal(t, items, m.Filtered(), "default filter exposes everything")

	// Fetched catalog is persisted and sorted.
	assert.Len(t, store.items, 3)
	assert.Equal(t, "Mario", items[0].Name)
	assert.Equal(t, "Luigi", items[1].Name)
	assert.Equal(t, "Peach", items[2].Name)
}

func TestLoadFallsBackToNetworkOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.itemsErr = errors.New("corrupt database")
	remote := &fakeRemote{items: []*Item{testItem("00000000", "00000002", "Mario")}}
	m := newTestManager(store, remote)

	items, err := m.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, remote.fetches)
	assert.Len(t, items, 1)
}

func TestRefreshFailsFastWhenClearFails(t *testing.T) {
	store := newFakeStore()
	store.clearErr = errors.New("busy")
	remote := &fakeRemote{items: []*Item{testItem("00000000", "00000002", "Mario")}}
	m := newTestManager(store, remote)

	_, err := m.Refresh(context.Background())

	require.Error(t, err)
	var storageErr *errors.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "clear", storageErr.Operation)
	assert.Equal(t, 0, remote.fetches, "fetch is never attempted when clearing failed")
}

func TestRefreshLeavesCatalogUntouchedOnNetworkFailure(t *testing.T) {
	store := newFakeStore()
	store.items = []*Item{testItem("00000000", "00000002", "Mario")}
	remote := &fakeRemote{items: store.items}
	m := newTestManager(store, remote)

	_, err := m.Load(context.Background())
	require.NoError(t, err)
	before := m.Items()

	remote.err = errors.NewAPIError("https://www.amiiboapi.com/api/amiibo", 503, "unavailable")
	_, err = m.Refresh(context.Background())

	require.Error(t, err)
	assert.Equal(t, before, m.Items(), "in-memory catalog unchanged after failed refresh")
}

func TestRefreshDiscardsUserCreatedItems(t *testing.T) {
	store := newFakeStore()
	remote := &fakeRemote{items: []*Item{testItem("00000000", "00000002", "Mario")}}
	m := newTestManager(store, remote)

	_, err := m.Load(context.Background())
	require.NoError(t, err)

	_, err = m.CreateItem(context.Background(), "Custom", false)
	require.NoError(t, err)
	assert.Len(t, m.Items(), 2)

	items, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1, "refresh replaces the catalog with the remote snapshot")
	assert.Equal(t, "Mario", items[0].Name)
}

func TestSetFilterOwnedOnly(t *testing.T) {
	store := newFakeStore()
	mario := testItem("00000000", "00000002", "Mario")
	luigi := testItem("00000100", "00000002", "Luigi")
	peach := testItem("00000200", "00000002", "Peach")
	store.items = []*Item{mario, luigi, peach}
	store.ownerships[mario.Identifier()] = &Ownership{Identifier: mario.Identifier(), AcquiredAt: utc.Now()}
	store.ownerships[peach.Identifier()] = &Ownership{Identifier: peach.Identifier(), AcquiredAt: utc.Now()}
	m := newTestManager(store, &fakeRemote{})

	_, err := m.Load(context.Background())
	require.NoError(t, err)

	owned := m.SetFilter(FilterOwned)

	require.Len(t, owned, 2)
	assert.Equal(t, "Mario", owned[0].Name, "sort order preserved")
	assert.Equal(t, "Peach", owned[1].Name)
	assert.Len(t, m.Items(), 3, "full catalog unchanged")

	all := m.SetFilter(FilterAll)
	assert.Len(t, all, 3)
}

func TestCreateItemAssignsIncreasingTailCodes(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, &fakeRemote{})

	var tails []string
	for i := 0; i < 3; i++ {
		item, err := m.CreateItem(context.Background(), fmt.Sprintf("Custom %d", i), false)
		require.NoError(t, err)
		tails = append(tails, item.Tail)
	}

	assert.Equal(t, []string{"00000000", "00000001", "00000002"}, tails)
}

func TestCreateItemFreshCounter(t *testing.T) {
	store := newFakeStore()
	now := utc.Time{Time: time.Date(2020, 12, 5, 12, 0, 0, 0, time.UTC)}
	m := NewManager(store, &fakeRemote{},
		WithLogger(logging.Nop),
		WithNow(func() utc.Time { return now }))

	item, err := m.CreateItem(context.Background(), "Custom", false)

	require.NoError(t, err)
	assert.Equal(t, UserCreatedHead, item.Head)
	assert.Equal(t, "00000000", item.Tail)
	assert.Equal(t, "FFFFFFFF00000000", item.Identifier())
	assert.Empty(t, item.ImagePath)
	assert.Equal(t, UserCreatedSeries, item.AmiiboSeries)
	assert.Equal(t, UserCreatedSeries, item.GameSeries)
	assert.Equal(t, "2020-12-05", item.Releases[RegionNorthAmerica])

	// Persisted immediately, catalog grew, counter advanced.
	assert.Len(t, store.items, 1)
	assert.Equal(t, uint64(1), store.counter)
	assert.Len(t, m.Items(), 1)
}

func TestCreateItemWithImage(t *testing.T) {
	m := newTestManager(newFakeStore(), &fakeRemote{})

	item, err := m.CreateItem(context.Background(), "Custom", true)

	require.NoError(t, err)
	assert.Equal(t, "local/FFFFFFFF00000000.png", item.ImagePath)
}

func TestCreateItemRequiresName(t *testing.T) {
	m := newTestManager(newFakeStore(), &fakeRemote{})

	_, err := m.CreateItem(context.Background(), "", false)

	require.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestCreateItemCounterUntouchedOnWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("disk full")
	m := newTestManager(store, &fakeRemote{})

	_, err := m.CreateItem(context.Background(), "Custom", false)

	require.Error(t, err)
	assert.Equal(t, uint64(0), store.counter, "counter must not advance on failed writes")
	assert.Empty(t, m.Items())
}

func TestAddToCollectionTwiceFails(t *testing.T) {
	store := newFakeStore()
	mario := testItem("00000000", "00000002", "Mario")
	store.items = []*Item{mario}
	m := newTestManager(store, &fakeRemote{})

	items, err := m.Load(context.Background())
	require.NoError(t, err)
	item := items[0]

	require.NoError(t, m.AddToCollection(context.Background(), item))
	assert.True(t, item.Owned())

	err = m.AddToCollection(context.Background(), item)
	require.ErrorIs(t, err, errors.ErrAlreadyOwned)
	assert.True(t, item.Owned(), "ownership state unchanged after the failed second call")
	assert.Len(t, store.ownerships, 1)
}

func TestRemoveFromCollection(t *testing.T) {
	store := newFakeStore()
	mario := testItem("00000000", "00000002", "Mario")
	store.items = []*Item{mario}
	m := newTestManager(store, &fakeRemote{})

	items, err := m.Load(context.Background())
	require.NoError(t, err)
	item := items[0]

	// Removing an item that is not owned is a no-op.
	require.NoError(t, m.RemoveFromCollection(context.Background(), item))

	require.NoError(t, m.AddToCollection(context.Background(), item))
	require.NoError(t, m.RemoveFromCollection(context.Background(), item))
	assert.False(t, item.Owned())
	assert.Empty(t, store.ownerships)
}

func TestOwnershipResolvedOnLoad(t *testing.T) {
	store := newFakeStore()
	mario := testItem("00000000", "00000002", "Mario")
	store.items = []*Item{mario}
	acquired := utc.Now()
	store.ownerships[mario.Identifier()] = &Ownership{Identifier: mario.Identifier(), AcquiredAt: acquired}
	m := newTestManager(store, &fakeRemote{})

	items, err := m.Load(context.Background())

	require.NoError(t, err)
	require.True(t, items[0].Owned())
	assert.Equal(t, acquired, items[0].Ownership.AcquiredAt)
}

func TestCatalogUpdatedHookFires(t *testing.T) {
	store := newFakeStore()
	remote := &fakeRemote{items: []*Item{testItem("00000000", "00000002", "Mario")}}
	m := newTestManager(store, remote)

	var published [][]*Item
	m.OnCatalogUpdated(func(items []*Item) {
		published = append(published, items)
	})

	_, err := m.Load(context.Background())
	require.NoError(t, err)

	_, err = m.CreateItem(context.Background(), "Custom", false)
	require.NoError(t, err)

	require.Len(t, published, 2)
	assert.Len(t, published[0], 1)
	assert.Len(t, published[1], 2)
}
