package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pulseforge/tsengine/cmd/cli/commands"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "tsengine-cli",
		Short: "Time series analytics CLI",
		Long: `A command-line interface for analyzing and forecasting time series data:
seasonal decomposition, anomaly detection, trend analysis and forecasting.`,
		Version: "0.1.0",
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	cobra.OnInitialize(func() {
		if verbose {
			commands.Logger.SetLevel(logrus.DebugLevel)
		} else {
			commands.Logger.SetLevel(logrus.WarnLevel)
		}
	})

	rootCmd.AddCommand(commands.NewAnalyzeCmd())
	rootCmd.AddCommand(commands.NewForecastCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
