// Package amiiboapi implements the remote catalog client for the public
// Amiibo HTTP API.
package amiiboapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/brookstreetgames/amiibodex/internal/transport"
	"github.com/brookstreetgames/amiibodex/pkg/catalog"
	"github.com/brookstreetgames/amiibodex/pkg/errors"
)

// DefaultBaseURL is the production host for the Amiibo API.
const DefaultBaseURL = "https://www.amiiboapi.com"

// bank is the wire shape of the full catalog document.
type bank struct {
	Amiibo []payload `json:"amiibo"`
}

// payload is the wire shape of a single item.
type payload struct {
	Head         string             `json:"head"`
	Tail         string             `json:"tail"`
	Name         string             `json:"name"`
	Character    string             `json:"character"`
	AmiiboSeries string             `json:"amiiboSeries"`
	GameSeries   string             `json:"gameSeries"`
	Image        string             `json:"image"`
	Release      map[string]*string `json:"release"`
	Type         string             `json:"type"`
}

// Client fetches and decodes the full catalog. It implements
// catalog.RemoteClient.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// Compile-time interface check to ensure proper implementation.
var _ catalog.RemoteClient = (*Client)(nil)

// New creates a client for the given base URL. An empty base URL selects the
// production host; a non-positive timeout selects the transport default.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		transport: transport.New(timeout),
	}
}

// FetchCatalog performs a single GET for the full catalog and decodes it.
func (c *Client) FetchCatalog(ctx context.Context) ([]*catalog.Item, error) {
	endpoint := c.baseURL + "/api/amiibo"

	body, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var document bank
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, errors.WrapDecode("json", endpoint, err)
	}

	items := make([]*catalog.Item, 0, len(document.Amiibo))
	for _, p := range document.Amiibo {
		items = append(items, p.item())
	}
	return items, nil
}

// item converts a wire payload to a catalog item. Null release dates are
// dropped from the map.
func (p payload) item() *catalog.Item {
	releases := make(map[string]string, len(p.Release))
	for region, date := range p.Release {
		if date != nil {
			releases[region] = *date
		}
	}

	return &catalog.Item{
		Head:         p.Head,
		Tail:         p.Tail,
		Name:         p.Name,
		Character:    p.Character,
		AmiiboSeries: p.AmiiboSeries,
		GameSeries:   p.GameSeries,
		Type:         p.Type,
		ImagePath:    p.Image,
		Releases:     releases,
	}
}
