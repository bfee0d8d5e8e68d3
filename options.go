package amiibodex

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/brookstreetgames/amiibodex/internal/transport"
	"github.com/brookstreetgames/amiibodex/pkg/catalog"
	"github.com/brookstreetgames/amiibodex/pkg/errors"
	"github.com/brookstreetgames/amiibodex/pkg/imagecache"
	"github.com/brookstreetgames/amiibodex/pkg/logging"
)

// Option is a function that configures a Client.
type Option func(*options) error

type options struct {
	databasePath string
	imageDir     string
	fs           afero.Fs
	baseURL      string
	httpTimeout  time.Duration
	log          zerolog.Logger

	// injected collaborators, nil selects the production implementation
	store      catalog.Store
	remote     catalog.RemoteClient
	downloader imagecache.Downloader
}

func defaultOptions() *options {
	return &options{
		databasePath: "amiibodex.db",
		imageDir:     "images",
		fs:           afero.NewOsFs(),
		httpTimeout:  transport.DefaultTimeout,
		log:          *logging.Default(),
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithDatabasePath sets the SQLite database location.
func WithDatabasePath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("database path is required")
		}
		o.databasePath = path
		return nil
	}
}

// WithImageDirectory sets the directory for cached image blobs.
func WithImageDirectory(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.New("image directory is required")
		}
		o.imageDir = dir
		return nil
	}
}

// WithFilesystem sets the filesystem backing the image cache.
func WithFilesystem(fs afero.Fs) Option {
	return func(o *options) error {
		o.fs = fs
		return nil
	}
}

// WithBaseURL overrides the Amiibo API host.
func WithBaseURL(url string) Option {
	return func(o *options) error {
		o.baseURL = url
		return nil
	}
}

// WithHTTPTimeout bounds every catalog fetch and image download request.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return errors.New("http timeout must be positive")
		}
		o.httpTimeout = timeout
		return nil
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) error {
		o.log = log
		return nil
	}
}

// WithStore injects a custom persistent store.
func WithStore(store catalog.Store) Option {
	return func(o *options) error {
		o.store = store
		return nil
	}
}

// WithRemoteClient injects a custom remote catalog source.
func WithRemoteClient(remote catalog.RemoteClient) Option {
	return func(o *options) error {
		o.remote = remote
		return nil
	}
}

// WithDownloader injects a custom image downloader.
func WithDownloader(downloader imagecache.Downloader) Option {
	return func(o *options) error {
		o.downloader = downloader
		return nil
	}
}
