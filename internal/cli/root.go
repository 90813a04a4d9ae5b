// Package cli defines the Cobra commands of the kilimo-smart binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile string
	version = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "kilimo-smart",
	Short: "USSD and SMS agricultural advisory gateway",
	Long: `Kilimo Smart serves farmers over USSD menus and SMS conversations:
crop prices, weather, logistics and AI agronomy advice in Swahili.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Running without a subcommand starts the server.
	RunE: runServe,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Env file to load instead of ./.env")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(versionCmd)
}
