package catalog

import (
	"github.com/agentstation/utc"
)

// Ownership records that an item has been added to the user's personal
// collection. At most one record exists per distinct identifier at any time.
// Records are created and deleted, never updated in place.
type Ownership struct {
	// Identifier matches the owning Item's identifier. The relationship is
	// resolved by equality lookup, not a foreign key.
	Identifier string

	// AcquiredAt is when the item was added to the collection.
	AcquiredAt utc.Time
}
