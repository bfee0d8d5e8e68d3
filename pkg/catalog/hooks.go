package catalog

import "sync"

// CatalogUpdatedHook is called after the catalog is loaded, refreshed, or
// grown by a local creation. The slice passed to the hook is a snapshot the
// hook may keep.
type CatalogUpdatedHook func(items []*Item)

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu               sync.RWMutex
	onCatalogUpdated []CatalogUpdatedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnCatalogUpdated registers a callback for catalog updates
func (h *hooks) OnCatalogUpdated(fn CatalogUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCatalogUpdated = append(h.onCatalogUpdated, fn)
}

// triggerCatalogUpdated fans the snapshot out to every registered hook
func (h *hooks) triggerCatalogUpdated(items []*Item) {
	h.mu.RLock()
	registered := make([]CatalogUpdatedHook, len(h.onCatalogUpdated))
	copy(registered, h.onCatalogUpdated)
	h.mu.RUnlock()

	for _, hook := range registered {
		hook(items)
	}
}
