package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Source yields one GeoJSON feature collection.
type Source interface {
	Fetch(ctx context.Context) (domain.FeatureCollection, error)
}

// Datasets is the joined result of both fetches.
type Datasets struct {
	Events domain.FeatureCollection
	Faults domain.FeatureCollection
}

// Join is the two-way barrier in front of binding. Both fetches start
// together and run to completion; Join returns the first error and only
// yields datasets when both succeeded. A failing fetch does not cancel the other.
func Join(ctx context.Context, events, faults Source) (Datasets, error) {
	var (
		g  errgroup.Group
		ds Datasets
	)
	g.Go(func() error {
		fc, err := events.Fetch(ctx)
		if err != nil {
			return err
		}
		ds.Events = fc
		return nil
	})
	g.Go(func() error {
		fc, err := faults.Fetch(ctx)
		if err != nil {
			return err
		}
		ds.Faults = fc
		return nil
	})
	if err := g.Wait(); err != nil {
		return Datasets{}, err
	}
	return ds, nil
}
