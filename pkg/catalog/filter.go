package catalog

// Filter selects the subset of the catalog exposed through Filtered.
type Filter int

// Available filters.
const (
	// FilterAll exposes the complete catalog.
	FilterAll Filter = iota

	// FilterOwned exposes only items with an ownership record.
	FilterOwned
)

// String implements fmt.Stringer.
func (f Filter) String() string {
	switch f {
	case FilterOwned:
		return "owned"
	default:
		return "all"
	}
}

// applyFilter returns the subset of items matching the filter, preserving
// the original order. The result is always a fresh slice.
func applyFilter(items []*Item, f Filter) []*Item {
	if f == FilterAll {
		out := make([]*Item, len(items))
		copy(out, items)
		return out
	}

	out := make([]*Item, 0, len(items))
	for _, item := range items {
		if item.Owned() {
			out = append(out, item)
		}
	}
	return out
}
