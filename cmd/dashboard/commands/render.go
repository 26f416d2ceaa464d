package commands

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"launch-dashboard/internal/chart"
	"launch-dashboard/internal/controller"
	"launch-dashboard/internal/model"
	"launch-dashboard/pkg/utils"
)

func renderCmd() *cobra.Command {
	var (
		site      string
		low, high float64
		outDir    string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render both charts for one selection into a run directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := model.ParseSiteSelector(site)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			cache := chart.NewCache(chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight))
			ctrl := controller.New(ds, controller.WithPublisher(cache))
			ctrl.Render(cmd.Context())
			snap := ctrl.SiteChanged(cmd.Context(), sel)

			bounds := ds.Bounds()
			rng := model.PayloadRange{Low: bounds.Low, High: bounds.High}
			if cmd.Flags().Changed("low") {
				rng.Low = low
			}
			if cmd.Flags().Changed("high") {
				rng.High = high
			}
			if rng != snap.Range {
				snap = ctrl.PayloadRangeChanged(cmd.Context(), rng)
			}

			om := utils.NewOutputManager(outDir)
			runID := uuid.NewString()
			breakdown, _ := cache.Breakdown()
			scatter, _ := cache.Scatter()
			views, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			for name, data := range map[string][]byte{
				"breakdown.png": breakdown.PNG,
				"scatter.png":   scatter.PNG,
				"views.json":    views,
			} {
				path, err := om.WriteFile(runID, name, data)
				if err != nil {
					return err
				}
				fmt.Printf("💾 %s\n", path)
			}
			if snap.Scatter.State == model.SlotError {
				fmt.Printf("⚠️ scatter view: %s\n", snap.Scatter.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&site, "site", model.AllSitesValue, `launch site, or "ALL"`)
	cmd.Flags().Float64Var(&low, "low", 0, "payload range lower bound in kg (default dataset minimum)")
	cmd.Flags().Float64Var(&high, "high", 0, "payload range upper bound in kg (default dataset maximum)")
	cmd.Flags().StringVar(&outDir, "out", "output", "base output directory")
	return cmd
}
