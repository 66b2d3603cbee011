package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Client fetches GeoJSON feature collections from HTTP URLs or local files.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client whose HTTP requests time out after timeout.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Source binds the client to one named location. It satisfies pipeline.Source.
type Source struct {
	name     string
	location string
	client   *Client
}

// Source returns a named source reading from location, which is either an
// http(s) URL or a filesystem path.
func (c *Client) Source(name, location string) *Source {
	return &Source{name: name, location: location, client: c}
}

// Name identifies the source in logs and metrics.
func (s *Source) Name() string { return s.name }

// Fetch retrieves and decodes the source's feature collection.
func (s *Source) Fetch(ctx context.Context) (domain.FeatureCollection, error) {
	return s.client.Fetch(ctx, s.name, s.location)
}

// Fetch retrieves location and decodes it as a GeoJSON feature collection.
func (c *Client) Fetch(ctx context.Context, name, location string) (domain.FeatureCollection, error) {
	start := time.Now()
	fc, err := c.fetch(ctx, location)
	c.metrics.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(name).Inc()
		return domain.FeatureCollection{}, fmt.Errorf("fetch %s: %w", name, err)
	}

	c.metrics.FeaturesFetched.WithLabelValues(name).Add(float64(len(fc.Features)))
	c.logger.Debug("source fetched",
		"source", name,
		"location", location,
		"features", len(fc.Features),
		"duration", time.Since(start),
	)
	return fc, nil
}

func (c *Client) fetch(ctx context.Context, location string) (domain.FeatureCollection, error) {
	if isRemote(location) {
		return c.fetchHTTP(ctx, location)
	}
	return readFile(location)
}

func (c *Client) fetchHTTP(ctx context.Context, url string) (domain.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.FeatureCollection{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	return decode(resp.Body)
}

func readFile(path string) (domain.FeatureCollection, error) {
	f, err := os.Open(strings.TrimPrefix(path, "file://"))
	if err != nil {
		return domain.FeatureCollection{}, err
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (domain.FeatureCollection, error) {
	var fc domain.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("decode geojson: %w", err)
	}
	return fc, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
