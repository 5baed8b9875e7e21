package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"canvas-designs/internal/app"
	"canvas-designs/internal/observability"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Browse the animated canvas designs in a window.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := app.Setup(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		defer observability.Sync()
		log.Info("starting gallery", zap.String("start", cfg.Gallery.Start))
		return run(cmd.Context(), cfg, log)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./canvas-designs.yaml)")
	fs := rootCmd.Flags()
	app.AddFlags(fs)
	fs.Bool("hud", false, "show the parameter HUD")
	fs.Int("width", 0, "window width in logical pixels")
	fs.Int("height", 0, "window height in logical pixels")
	fs.Int("tps", 0, "updates per second")
	fs.Float64("pixel-ratio", 0, "device pixel ratio override")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
