// Package imagecache provides a deduplicating, disk-backed cache for
// remotely hosted images. Cache hits are served synchronously from disk; a
// miss starts at most one download per address and broadcasts the completion
// to every registered observer. Download failures degrade to a "no image"
// event, never an error; a missing image must not block catalog display.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"

	"github.com/brookstreetgames/amiibodex/pkg/logging"
)

// Downloader fetches raw bytes from a remote address.
type Downloader interface {
	Fetch(ctx context.Context, address string) ([]byte, error)
}

// Event carries the completion of an image load. Data is nil when the
// download failed or the payload was not an image; observers treat that as
// "no image available".
type Event struct {
	Address string
	Data    []byte
}

// ImageLoadedHook is called once per completed download. Every registered
// hook receives every event and filters by address itself.
type ImageLoadedHook func(Event)

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used by the cache.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// Cache is a content-addressed image cache backed by a directory of blobs.
// One blob exists per derived key; last writer wins on key collisions.
type Cache struct {
	fs         afero.Fs
	dir        string
	downloader Downloader
	log        zerolog.Logger

	mu     sync.Mutex
	active map[string]struct{}
	hooks  []ImageLoadedHook
	wg     conc.WaitGroup
}

// New creates a cache over the given filesystem directory, creating the
// directory if needed.
func New(fs afero.Fs, dir string, downloader Downloader, opts ...Option) (*Cache, error) {
	c := &Cache{
		fs:         fs,
		dir:        dir,
		downloader: downloader,
		log:        *logging.Default(),
		active:     map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return c, nil
}

// KeyFor returns the stable cache key for an address: the hex SHA-256 of the
// full address. The key is decoupled from host or path structure, so URL
// shape changes that do not affect content identity do not invalidate blobs.
func KeyFor(address string) string {
	sum := sha256.Sum256([]byte(address))
	return hex.EncodeToString(sum[:])
}

// OnImageLoaded registers an observer for completion events.
func (c *Cache) OnImageLoaded(fn ImageLoadedHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Load returns the cached image for the address when one exists on disk,
// with no network access. On a miss it starts a download, or joins the one
// already in flight, and returns (nil, false); the completion event follows
// asynchronously via OnImageLoaded.
func (c *Cache) Load(ctx context.Context, address string) ([]byte, bool) {
	if data, err := afero.ReadFile(c.fs, c.blobPath(address)); err == nil {
		return data, true
	}

	c.mu.Lock()
	if _, inFlight := c.active[address]; inFlight {
		c.mu.Unlock()
		return nil, false
	}
	c.active[address] = struct{}{}
	c.mu.Unlock()

	// Downloads run to completion even if the caller's context ends first;
	// there is no cancel-on-discard path.
	dctx := context.WithoutCancel(ctx)
	c.wg.Go(func() {
		c.download(dctx, address)
	})
	return nil, false
}

// Close waits for all in-flight downloads to finish.
func (c *Cache) Close() error {
	c.wg.Wait()
	return nil
}

func (c *Cache) blobPath(address string) string {
	return filepath.Join(c.dir, KeyFor(address))
}

func (c *Cache) download(ctx context.Context, address string) {
	data, err := c.downloader.Fetch(ctx, address)
	if err != nil {
		c.log.Warn().Err(err).Str("address", address).Msg("Image download failed")
		c.complete(address, nil)
		return
	}

	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		c.log.Warn().Str("address", address).Str("content_type", mt.String()).Msg("Downloaded payload is not an image")
		c.complete(address, nil)
		return
	}

	if err := afero.WriteFile(c.fs, c.blobPath(address), data, 0o644); err != nil {
		// Deliver the image anyway; the next request re-downloads.
		c.log.Warn().Err(err).Str("address", address).Msg("Could not persist image")
	}
	c.complete(address, data)
}

// complete removes the address from the active set before broadcasting, so a
// listener reacting to the event can immediately re-attempt the same address.
func (c *Cache) complete(address string, data []byte) {
	c.mu.Lock()
	delete(c.active, address)
	registered := make([]ImageLoadedHook, len(c.hooks))
	copy(registered, c.hooks)
	c.mu.Unlock()

	event := Event{Address: address, Data: data}
	for _, hook := range registered {
		hook(event)
	}
}
