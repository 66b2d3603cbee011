package main

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
)

// newPipeline wires the feed client, binder, and composer for one render pass.
func newPipeline(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *pipeline.Pipeline {
	client := feed.NewClient(cfg.FetchTimeout, metrics, logger)
	open := func(name, location string) pipeline.Source {
		return client.Source(name, location)
	}
	opts := pipeline.Options{
		EventsSourceURL: cfg.EventsSourceURL,
		FaultsSourceURL: cfg.FaultsSourceURL,
		MapCenter:       cfg.MapCenter,
		MapZoom:         cfg.MapZoom,
		EscapePopups:    cfg.EscapePopups,
	}
	return pipeline.New(opts, open, clock, logger, metrics)
}
