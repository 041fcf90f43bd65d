package main

import (
	"fmt"
	"os"

	"qc-dashboard/internal/core/config"
	"qc-dashboard/internal/core/logger"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configDir string
	verbose   bool

	cfg *config.AppConfig
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qcctl",
	Short: "Operate the QC dashboard backend from the command line",
	Long: `qcctl runs the bulk order pipeline and database maintenance without the HTTP server.

It reads the same .env file and environment variables as the API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		return logger.Init(cfg.Environment, level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing the .env file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(fetchCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
