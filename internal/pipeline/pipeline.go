package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Source names used in logs and metrics.
const (
	EventsSource = "events"
	FaultsSource = "faults"
)

// ErrAlreadyRun is returned when Run is called a second time.
var ErrAlreadyRun = errors.New("render pass already run")

// Binder turns raw features into layers.
type Binder interface {
	BindEventLayer(features []domain.Feature) (domain.Layer, error)
	BindFaultLayer(features []domain.Feature) (domain.Layer, error)
}

// Composer assembles the final view from the two overlays.
type Composer interface {
	Compose(events, faults domain.Layer) *mapview.View
}

// Publisher receives the event layer after a successful pass.
type Publisher interface {
	PublishMarkers(ctx context.Context, runID string, layer domain.Layer) (int, error)
}

// SourceOpener returns a Source reading from location.
type SourceOpener func(name, location string) Source

// Options configures a render pass.
type Options struct {
	EventsSourceURL string
	FaultsSourceURL string
	MapCenter       domain.LatLng
	MapZoom         int
	EscapePopups    bool
}

// Pipeline runs the single fetch-join-bind-compose pass and holds its result.
type Pipeline struct {
	events    Source
	faults    Source
	binder    Binder
	composer  Composer
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	started atomic.Bool
	view    atomic.Pointer[mapview.View]
	failure atomic.Pointer[string]
}

// New creates a Pipeline from opts, opening both sources and building the
// default binder and composer.
func New(opts Options, open SourceOpener, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	binder := domain.NewBinder(domain.CircleMarkerRenderer(opts.EscapePopups), domain.FaultLineRenderer())
	composer := mapview.NewComposer(opts.MapCenter, opts.MapZoom, clock)
	return NewWithStages(
		open(EventsSource, opts.EventsSourceURL),
		open(FaultsSource, opts.FaultsSourceURL),
		binder, composer, logger, metrics,
	)
}

// NewWithStages creates a Pipeline from explicit stages.
func NewWithStages(events, faults Source, b Binder, c Composer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		events:   events,
		faults:   faults,
		binder:   b,
		composer: c,
		logger:   logger,
		metrics:  metrics,
	}
}

// WithPublisher sets an optional publisher for the event layer.
func (p *Pipeline) WithPublisher(pub Publisher) *Pipeline {
	p.publisher = pub
	return p
}

// View returns the composed view, or nil if no pass has succeeded.
func (p *Pipeline) View() *mapview.View {
	return p.view.Load()
}

// CheckReadiness returns nil once a view has been composed, or an error
// describing why the map is not available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.view.Load() != nil {
		return nil
	}
	if reason := p.failure.Load(); reason != nil {
		return fmt.Errorf("map unavailable: %s", *reason)
	}
	return errors.New("map has not been rendered yet")
}

// Run fetches both sources, binds them, and composes the view. Any failure
// aborts the pass before anything is composed.
func (p *Pipeline) Run(ctx context.Context) (*mapview.View, error) {
	if !p.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	start := time.Now()
	logger.Info("render pass started")

	ds, err := Join(ctx, p.events, p.faults)
	if err != nil {
		return nil, p.fail(logger, err)
	}

	events, err := p.binder.BindEventLayer(ds.Events.Features)
	if err != nil {
		p.metrics.BindErrors.Inc()
		return nil, p.fail(logger, err)
	}
	faults, err := p.binder.BindFaultLayer(ds.Faults.Features)
	if err != nil {
		p.metrics.BindErrors.Inc()
		return nil, p.fail(logger, err)
	}

	view := p.composer.Compose(events, faults)
	p.view.Store(view)

	p.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	p.metrics.MarkersRendered.Set(float64(len(events.Markers)))
	p.metrics.FaultLinesRendered.Set(float64(len(faults.Lines)))
	p.metrics.MapReady.Set(1)
	logger.Info("map composed",
		"markers", len(events.Markers),
		"fault_lines", len(faults.Lines),
		"duration", time.Since(start),
	)

	p.publish(ctx, logger, runID, events)
	return view, nil
}

// publish hands the event layer to the publisher. Failures are logged only:
// the map is already composed.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, runID string, events domain.Layer) {
	if p.publisher == nil {
		return
	}
	n, err := p.publisher.PublishMarkers(ctx, runID, events)
	p.metrics.MarkersPublished.Add(float64(n))
	if err != nil {
		logger.Warn("publish markers failed", "error", err, "published", n)
		return
	}
	logger.Info("markers published", "count", n)
}

func (p *Pipeline) fail(logger *slog.Logger, err error) error {
	reason := err.Error()
	p.failure.Store(&reason)
	p.metrics.RenderFailures.Inc()
	p.metrics.MapReady.Set(0)
	logger.Error("render pass failed", "error", err)
	return fmt.Errorf("render pass: %w", err)
}
