package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launch-dashboard/internal/api"
	"launch-dashboard/internal/api/handler"
	"launch-dashboard/internal/chart"
	"launch-dashboard/internal/config"
	"launch-dashboard/internal/controller"
	"launch-dashboard/internal/telemetry"
	"launch-dashboard/pkg/router"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the launch table and serve the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Setup(ctx, telemetry.Options{
				ServiceName: "launch-dashboard",
				Endpoint:    cfg.Tracing.Endpoint,
				Enabled:     cfg.Tracing.Enabled,
				SampleRatio: cfg.Tracing.SampleRatio,
			})
			if err != nil {
				config.Exitf("❌ telemetry: %v", err)
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					fmt.Fprintf(os.Stderr, "⚠️ telemetry shutdown: %v\n", err)
				}
			}()

			ds, err := loadDataset(ctx)
			if err != nil {
				config.Exitf("❌ %v", err)
			}

			cache := chart.NewCache(chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight))
			ctrl := controller.New(ds, controller.WithPublisher(cache))
			ctrl.Render(ctx)

			r := router.New()
			api.RegisterRoutes(r, handler.New(ctrl, cache, handler.Options{
				Title:      cfg.Title,
				SliderStep: cfg.SliderStep,
			}))
			return r.Serve(ctx, cfg.HTTPAddr, cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides DASHBOARD_HTTP_ADDR)")
	return cmd
}
