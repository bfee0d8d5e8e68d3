package catalog

import "context"

// Store is the persistent record store the manager reads from and writes to.
// Implementations must return items in ascending (head, tail) order and keep
// at most one ownership row per identifier.
type Store interface {
	// Items returns all persisted items sorted by (head, tail).
	Items(ctx context.Context) ([]*Item, error)

	// ReplaceItems persists a full catalog snapshot in a single transaction.
	ReplaceItems(ctx context.Context, items []*Item) error

	// DeleteItems removes all persisted items in one batch. Ownership rows
	// are untouched; rows for removed items become orphaned and are tolerated.
	DeleteItems(ctx context.Context) error

	// CreateItem persists a locally created item and advances the creation
	// counter in the same transaction.
	CreateItem(ctx context.Context, item *Item, nextCounter uint64) error

	// CreationCounter returns the next counter value for locally created
	// items. It is zero for a fresh store and survives process restarts.
	CreationCounter(ctx context.Context) (uint64, error)

	// Ownerships returns all ownership records keyed by identifier.
	Ownerships(ctx context.Context) (map[string]*Ownership, error)

	// Ownership returns the ownership record for an identifier, or
	// (nil, nil) when the item is not owned.
	Ownership(ctx context.Context, identifier string) (*Ownership, error)

	// AddOwnership persists a new ownership record.
	AddOwnership(ctx context.Context, ownership *Ownership) error

	// DeleteOwnership removes the ownership record for an identifier.
	DeleteOwnership(ctx context.Context, identifier string) error

	// Close releases the underlying storage handle.
	Close() error
}

// RemoteClient fetches the authoritative catalog from the remote source.
type RemoteClient interface {
	// FetchCatalog performs a single network request for the full catalog
	// and decodes it. No retries are performed; retry is a caller policy.
	FetchCatalog(ctx context.Context) ([]*Item, error)
}
