package main

import (
	"fmt"
	"os"

	"portfolio/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio resume page with PDF export",
		Long: `Serves the resume page and exports its content area to PDF through a
headless browser, one export at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newServeCmd(), newExportCmd(), newRenderCmd())
	return root
}

// loadConfig reads the config file; it must exist only when --config was
// given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, *logrus.Logger, func() error, error) {
	cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, closeLog, err := config.NewLogger(cfg.Log, verbose)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, log, closeLog, nil
}
