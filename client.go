// Package amiibodex provides the data layer for an Amiibo collection
// application: a catalog manager that reconciles locally persisted items
// with the remote Amiibo API, and a deduplicating, disk-backed cache for
// item artwork.
//
// Example usage:
//
//	dex, err := amiibodex.New(amiibodex.WithDatabasePath("amiibodex.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dex.Close()
//
//	items, err := dex.Catalog().Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dex.Images().OnImageLoaded(func(e imagecache.Event) {
//	    // e.Data is nil when no image is available.
//	})
//	if data, ok := dex.Images().Load(ctx, items[0].ImagePath); ok {
//	    // cache hit, data served synchronously
//	    _ = data
//	}
package amiibodex

import (
	"github.com/brookstreetgames/amiibodex/internal/amiiboapi"
	"github.com/brookstreetgames/amiibodex/internal/gormstore"
	"github.com/brookstreetgames/amiibodex/internal/transport"
	"github.com/brookstreetgames/amiibodex/pkg/catalog"
	"github.com/brookstreetgames/amiibodex/pkg/imagecache"
)

// Client wires the catalog manager and image cache with their production
// collaborators. It is the composition root: construct one and pass it by
// reference to consumers instead of global lookup.
type Client interface {
	// Catalog returns the catalog manager.
	Catalog() *catalog.Manager

	// Images returns the image cache.
	Images() *imagecache.Cache

	// Close waits for in-flight image downloads and releases storage.
	Close() error
}

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// client is the internal implementation of the Client interface.
type client struct {
	catalog *catalog.Manager
	images  *imagecache.Cache
	store   catalog.Store
}

// New creates a new Client instance with the given options. By default it
// persists to a SQLite database and an image directory next to the working
// directory, and talks to the production Amiibo API.
func New(opts ...Option) (Client, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		if store, err = gormstore.Open(o.databasePath); err != nil {
			return nil, err
		}
	}

	remote := o.remote
	if remote == nil {
		remote = amiiboapi.New(o.baseURL, o.httpTimeout)
	}

	downloader := o.downloader
	if downloader == nil {
		downloader = transport.New(o.httpTimeout)
	}

	images, err := imagecache.New(o.fs, o.imageDir, downloader, imagecache.WithLogger(o.log))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	manager := catalog.NewManager(store, remote, catalog.WithLogger(o.log))

	return &client{
		catalog: manager,
		images:  images,
		store:   store,
	}, nil
}

// Catalog returns the catalog manager.
func (c *client) Catalog() *catalog.Manager {
	return c.catalog
}

// Images returns the image cache.
func (c *client) Images() *imagecache.Cache {
	return c.images
}

// Close waits for in-flight image downloads, then closes the store.
func (c *client) Close() error {
	err := c.images.Close()
	if cerr := c.store.Close(); err == nil {
		err = cerr
	}
	return err
}
