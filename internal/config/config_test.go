package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

const testEventsURL = "https://example.test/quakes.geojson"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultEventsSourceURL, cfg.EventsSourceURL)
	assert.Equal(t, "./data/PB2002_boundaries.json", cfg.FaultsSourceURL)
	assert.Equal(t, domain.LatLng{Lat: 37.09, Lng: -95.71}, cfg.MapCenter)
	assert.Equal(t, 5, cfg.MapZoom)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.EscapePopups)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "quake-map-markers", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("EVENTS_SOURCE_URL", testEventsURL)
	t.Setenv("FAULTS_SOURCE_URL", "/srv/faults.json")
	t.Setenv("MAP_CENTER", "35.68, 139.69")
	t.Setenv("MAP_ZOOM", "7")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("POPUP_ESCAPE", "true")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "markers")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testEventsURL, cfg.EventsSourceURL)
	assert.Equal(t, "/srv/faults.json", cfg.FaultsSourceURL)
	assert.Equal(t, domain.LatLng{Lat: 35.68, Lng: 139.69}, cfg.MapCenter)
	assert.Equal(t, 7, cfg.MapZoom)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.EscapePopups)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "markers", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_OptionsFile(t *testing.T) {
	path := writeOptionsFile(t, `
events_source_url: https://example.test/file.geojson
faults_source_url: testdata/faults.json
map_center: [19.43, -99.13]
map_zoom: 6
`)
	t.Setenv("QUAKEMAP_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/file.geojson", cfg.EventsSourceURL)
	assert.Equal(t, "testdata/faults.json", cfg.FaultsSourceURL)
	assert.Equal(t, domain.LatLng{Lat: 19.43, Lng: -99.13}, cfg.MapCenter)
	assert.Equal(t, 6, cfg.MapZoom)
}

func TestLoad_EnvOverridesOptionsFile(t *testing.T) {
	path := writeOptionsFile(t, "events_source_url: https://example.test/file.geojson\nmap_zoom: 6\n")
	t.Setenv("QUAKEMAP_CONFIG", path)
	t.Setenv("EVENTS_SOURCE_URL", testEventsURL)
	t.Setenv("MAP_ZOOM", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testEventsURL, cfg.EventsSourceURL)
	assert.Equal(t, 3, cfg.MapZoom)
}

func TestLoad_OptionsFileZoomZero(t *testing.T) {
	t.Setenv("QUAKEMAP_CONFIG", writeOptionsFile(t, "map_zoom: 0\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MapZoom)
}

func TestLoad_MissingOptionsFile(t *testing.T) {
	t.Setenv("QUAKEMAP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUAKEMAP_CONFIG")
}

func TestLoad_BadOptionsCenter(t *testing.T) {
	t.Setenv("QUAKEMAP_CONFIG", writeOptionsFile(t, "map_center: [1, 2, 3]\n"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map_center")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "-2s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_InvalidMapCenter(t *testing.T) {
	for _, v := range []string{"37.09", "north,west", "91,0", "0,181"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("MAP_CENTER", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "MAP_CENTER")
		})
	}
}

func TestLoad_InvalidMapZoom(t *testing.T) {
	for _, v := range []string{"close", "-1", "30"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("MAP_ZOOM", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "MAP_ZOOM")
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func writeOptionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quakemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
