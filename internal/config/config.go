package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Default source locations and view settings.
const (
	DefaultEventsSourceURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultFaultsSourceURL = "./data/PB2002_boundaries.json"
	DefaultMapZoom         = 5

	maxMapZoom = 22
)

// DefaultMapCenter is the initial view center over the contiguous United States.
var DefaultMapCenter = domain.LatLng{Lat: 37.09, Lng: -95.71}

// Config holds all service settings, populated from an optional YAML options
// file and environment variables. Environment variables win.
type Config struct {
	EventsSourceURL string
	FaultsSourceURL string
	MapCenter       domain.LatLng
	MapZoom         int
	FetchTimeout    time.Duration
	EscapePopups    bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka marker publishing, enabled when brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// fileOptions is the YAML options file named by QUAKEMAP_CONFIG.
type fileOptions struct {
	EventsSourceURL string    `yaml:"events_source_url"`
	FaultsSourceURL string    `yaml:"faults_source_url"`
	MapCenter       []float64 `yaml:"map_center"`
	MapZoom         *int      `yaml:"map_zoom"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	opts, err := loadFileOptions(os.Getenv("QUAKEMAP_CONFIG"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "10s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	center := DefaultMapCenter
	if len(opts.MapCenter) > 0 {
		if len(opts.MapCenter) != 2 {
			return nil, errors.New("map_center must be [lat, lon]")
		}
		center = domain.LatLng{Lat: opts.MapCenter[0], Lng: opts.MapCenter[1]}
	}
	if s := os.Getenv("MAP_CENTER"); s != "" {
		center, err = parseCenter(s)
		if err != nil {
			return nil, err
		}
	}

	zoom := DefaultMapZoom
	if opts.MapZoom != nil {
		zoom = *opts.MapZoom
	}
	if s := os.Getenv("MAP_ZOOM"); s != "" {
		zoom, err = strconv.Atoi(s)
		if err != nil {
			return nil, errors.New("invalid MAP_ZOOM")
		}
	}

	var brokers []string
	if s := os.Getenv("KAFKA_BROKERS"); s != "" {
		brokers = sharedcfg.ParseBrokers(s)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		EventsSourceURL: sharedcfg.EnvOrDefault("EVENTS_SOURCE_URL", orDefault(opts.EventsSourceURL, DefaultEventsSourceURL)),
		FaultsSourceURL: sharedcfg.EnvOrDefault("FAULTS_SOURCE_URL", orDefault(opts.FaultsSourceURL, DefaultFaultsSourceURL)),
		MapCenter:       center,
		MapZoom:         zoom,
		FetchTimeout:    fetchTimeout,
		EscapePopups:    os.Getenv("POPUP_ESCAPE") == "true",

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "quake-map-markers"),
		KafkaEnabled: kafkaEnabled,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.EventsSourceURL) == "" {
		return errors.New("EVENTS_SOURCE_URL is required")
	}
	if strings.TrimSpace(c.FaultsSourceURL) == "" {
		return errors.New("FAULTS_SOURCE_URL is required")
	}
	if c.MapCenter.Lat < -90 || c.MapCenter.Lat > 90 || c.MapCenter.Lng < -180 || c.MapCenter.Lng > 180 {
		return fmt.Errorf("MAP_CENTER out of range: %v,%v", c.MapCenter.Lat, c.MapCenter.Lng)
	}
	if c.MapZoom < 0 || c.MapZoom > maxMapZoom {
		return fmt.Errorf("MAP_ZOOM must be between 0 and %d", maxMapZoom)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	return nil
}

func loadFileOptions(path string) (fileOptions, error) {
	var opts fileOptions
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("loading QUAKEMAP_CONFIG: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("loading QUAKEMAP_CONFIG: %w", err)
	}
	return opts, nil
}

// parseCenter parses "lat,lon".
func parseCenter(s string) (domain.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.LatLng{}, errors.New("invalid MAP_CENTER, want lat,lon")
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return domain.LatLng{}, errors.New("invalid MAP_CENTER, want lat,lon")
	}
	return domain.LatLng{Lat: lat, Lng: lon}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
