package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/inmeta/pitwall/internal/domain/model"
	"github.com/inmeta/pitwall/pkg/metrics"
)

// rosterQuery projects roster documents into the flat shape the core
// consumes, resolving the image reference to its public URL.
const rosterQuery = `*[_type == "player"]{_id, firstName, lastName, "imageUrl": image.asset->url}`

const defaultTimeout = 10 * time.Second

// SanityClient fetches the roster from a Sanity content lake dataset via
// the GROQ query HTTP API.
type SanityClient struct {
	baseURL    string
	dataset    string
	apiVersion string
	client     *http.Client
}

// SanityOption configures a SanityClient.
type SanityOption func(*SanityClient)

// WithBaseURL overrides the derived API host. Used in tests and for
// self-hosted proxies.
func WithBaseURL(u string) SanityOption {
	return func(c *SanityClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the HTTP client used for roster fetches.
func WithHTTPClient(client *http.Client) SanityOption {
	return func(c *SanityClient) {
		if client != nil {
			c.client = client
		}
	}
}

// NewSanityClient builds a roster client for the given project and
// dataset. useCDN selects the cached API edge over the live one.
func NewSanityClient(projectID, dataset, apiVersion string, useCDN bool, opts ...SanityOption) (*SanityClient, error) {
	if projectID == "" || dataset == "" {
		return nil, ErrNotConfigured
	}

	host := "api.sanity.io"
	if useCDN {
		host = "apicdn.sanity.io"
	}

	c := &SanityClient{
		baseURL:    fmt.Sprintf("https://%s.%s", projectID, host),
		dataset:    dataset,
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// sanityPlayer is the wire shape of one roster document.
type sanityPlayer struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

// queryResponse is the GROQ API envelope.
type queryResponse struct {
	Result []sanityPlayer `json:"result"`
}

// ListPlayers implements Directory.
func (c *SanityClient) ListPlayers(ctx context.Context) ([]model.Player, error) {
	start := time.Now()

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?query=%s",
		c.baseURL, c.apiVersion, c.dataset, url.QueryEscape(rosterQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.RecordDirectoryError()
		return nil, fmt.Errorf("failed to build roster request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordDirectoryError()
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		metrics.RecordDirectoryError()
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	var envelope queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		metrics.RecordDirectoryError()
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	players := make([]model.Player, 0, len(envelope.Result))
	for _, p := range envelope.Result {
		players = append(players, model.Player{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			ImageURL:  p.ImageURL,
		})
	}

	metrics.RecordDirectoryFetchLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateRosterSize(len(players))
	return players, nil
}
