package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

func renderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the map once to a standalone HTML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(cfg)

			var buf bytes.Buffer
			if err := render(cmd.Context(), cfg, clockwork.NewRealClock(), logger, observability.NewMetrics(), &buf); err != nil {
				return err
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.Info("map written", "out", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "map.html", `output file, or "-" for stdout`)
	return cmd
}

// render runs a single pass and writes the page. Nothing is written when the pass fails.
func render(ctx context.Context, cfg *config.Config, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	view, err := newPipeline(cfg, clock, logger, metrics).Run(ctx)
	if err != nil {
		return err
	}
	return mapview.RenderPage(w, view)
}
