package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-map-service/internal/observability"
)

const (
	contentTypeGeoJSON = "application/geo+json"
	headerContentType  = "Content-Type"

	sampleEvents = `{"type":"FeatureCollection","metadata":{"count":1},"features":[
		{"type":"Feature","id":"us7000test","properties":{"mag":4.2,"place":"Test City","time":1700000000000},
		 "geometry":{"type":"Point","coordinates":[-122.4,37.8,5]}}]}`
)

func testClient(timeout time.Duration) (*Client, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, metrics
}

func TestClient_FetchHTTP_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/summary/all_week.geojson", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeGeoJSON)
		_, _ = w.Write([]byte(sampleEvents))
	}))
	defer srv.Close()

	c, metrics := testClient(5 * time.Second)
	fc, err := c.Source("events", srv.URL+"/summary/all_week.geojson").Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "us7000test", string(fc.Features[0].ID))
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeaturesFetched.WithLabelValues("events")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FetchErrors.WithLabelValues("events")))
}

func TestClient_FetchHTTP_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	c, metrics := testClient(5 * time.Second)
	_, err := c.Fetch(context.Background(), "events", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch events")
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchErrors.WithLabelValues("events")))
}

func TestClient_FetchHTTP_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features": [`))
	}))
	defer srv.Close()

	c, _ := testClient(5 * time.Second)
	_, err := c.Fetch(context.Background(), "events", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode geojson")
}

func TestClient_FetchHTTP_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := testClient(50 * time.Millisecond)
	_, err := c.Fetch(context.Background(), "events", srv.URL)
	require.Error(t, err)
}

func TestClient_FetchHTTP_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleEvents))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := testClient(5 * time.Second)
	_, err := c.Fetch(ctx, "events", srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_FetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PB2002_boundaries.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"Name":"AF-AN"},"geometry":{"type":"LineString","coordinates":[[-0.4,-54.8],[0.1,-54.5]]}}]}`), 0o600))

	c, metrics := testClient(time.Second)
	src := c.Source("faults", path)
	assert.Equal(t, "faults", src.Name())

	fc, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeaturesFetched.WithLabelValues("faults")))

	fc, err = c.Fetch(context.Background(), "faults", "file://"+path)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}

func TestClient_FetchFile_Missing(t *testing.T) {
	c, _ := testClient(time.Second)
	_, err := c.Fetch(context.Background(), "faults", filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("https://earthquake.usgs.gov/feed.geojson"))
	assert.True(t, isRemote("http://localhost:8000/data.json"))
	assert.False(t, isRemote("./data/PB2002_boundaries.json"))
	assert.False(t, isRemote("file:///srv/faults.json"))
}
