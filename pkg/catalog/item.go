package catalog

import (
	"sort"
	"time"
)

const (
	// UserCreatedHead is the reserved head code assigned to locally created items.
	UserCreatedHead = "FFFFFFFF"

	// UserCreatedSeries is the series name assigned to locally created items.
	UserCreatedSeries = "User Created"

	// ReleaseDateFormat is the wire format for release dates.
	ReleaseDateFormat = "2006-01-02"
)

// Region codes used by the remote catalog for release dates.
const (
	RegionNorthAmerica = "na"
	RegionEurope       = "eu"
	RegionJapan        = "jp"
	RegionAustralia    = "au"
)

// Item is a single catalog entry. Identity is the composite (Head, Tail)
// pair; descriptive fields are immutable after creation. Only the transient
// Ownership relationship changes over an item's lifetime.
type Item struct {
	Head         string
	Tail         string
	Name         string
	Character    string
	AmiiboSeries string
	GameSeries   string
	Type         string

	// ImagePath is the remote address for artwork, empty when the item has none.
	ImagePath string

	// Releases maps a region code to a yyyy-MM-dd date. Regions with no
	// release are omitted.
	Releases map[string]string

	// Ownership is resolved from the store at load time and attached
	// transiently. It is never persisted as part of the item.
	Ownership *Ownership
}

// Identifier returns the globally unique identifier for the item,
// the concatenation of its head and tail codes.
func (i *Item) Identifier() string {
	return i.Head + i.Tail
}

// Owned reports whether the item is part of the user's collection.
func (i *Item) Owned() bool {
	return i.Ownership != nil
}

// Release parses the release date for a region. The second return value is
// false when the region has no release or the date is malformed.
func (i *Item) Release(region string) (time.Time, bool) {
	raw, ok := i.Releases[region]
	if !ok {
		return time.Time{}, false
	}
	date, err := time.Parse(ReleaseDateFormat, raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// sortItems orders items ascending by (head, tail), the catalog's
// canonical order.
func sortItems(items []*Item) {
	sort.Slice(items, func(a, b int) bool {
		if items[a].Head != items[b].Head {
			return items[a].Head < items[b].Head
		}
		return items[a].Tail < items[b].Tail
	})
}
