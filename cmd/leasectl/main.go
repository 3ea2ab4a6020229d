package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load() // optional .env next to the binary

	var configPath string
	rootCmd := &cobra.Command{
		Use:          "leasectl",
		Short:        "Leasehub operations tool",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")

	rootCmd.AddCommand(
		migrateCmd(&configPath),
		jobsCmd(&configPath),
		schedulerCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
