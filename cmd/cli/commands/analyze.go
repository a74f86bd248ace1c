package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pulseforge/tsengine/internal/analytics"
	"github.com/pulseforge/tsengine/internal/timeseries"
	"github.com/pulseforge/tsengine/pkg/models"
)

// Logger is shared by all commands; the root command tunes its level.
var Logger = logrus.New()

type AnalyzeOptions struct {
	InputFile       string
	DetectAnomalies bool
	AnomalyMethod   string
	Threshold       float64
	Seasonality     bool
	SeasonalPeriod  int
	OutputFormat    string
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze time series data patterns and characteristics",
		Long: `Analyze time series data to understand its trend, detect anomalies
and decompose it into seasonal components.`,
		Example: `  # Trend analysis
  tsengine-cli analyze --input sensor_data.csv

  # Detect anomalies with the IQR method
  tsengine-cli analyze --input data.csv --detect-anomalies --method iqr

  # Seasonal decomposition with a known weekly period
  tsengine-cli analyze --input data.csv --seasonality --period 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file to analyze (required)")
	cmd.Flags().BoolVar(&opts.DetectAnomalies, "detect-anomalies", false, "Detect anomalies in the data")
	cmd.Flags().StringVar(&opts.AnomalyMethod, "method", "zscore", "Anomaly detection method (zscore, iqr, isolation_forest, statistical)")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "Anomaly score threshold (0 for default)")
	cmd.Flags().BoolVar(&opts.Seasonality, "seasonality", false, "Decompose seasonality")
	cmd.Flags().IntVar(&opts.SeasonalPeriod, "period", 0, "Seasonal period (0 to auto-detect)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "Output format (text, json)")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions) error {
	data, err := timeseries.LoadCSV(opts.InputFile, nil)
	if err != nil {
		return err
	}

	ctx := context.Background()
	engine := analytics.NewEngine(nil, Logger)

	trend, err := engine.AnalyzeTrend(ctx, data, 0.95)
	if err != nil {
		return err
	}

	var decomposition *models.SeasonalDecomposition
	if opts.Seasonality {
		decomposition, err = engine.Decompose(ctx, data, opts.SeasonalPeriod)
		if err != nil {
			return err
		}
	}

	var anomalies *models.AnomalyDetection
	if opts.DetectAnomalies {
		anomalies, err = engine.DetectAnomalies(ctx, data, opts.AnomalyMethod, opts.Threshold)
		if err != nil {
			return err
		}
	}

	if opts.OutputFormat == "json" {
		output := map[string]interface{}{"trend": trend}
		if decomposition != nil {
			output["decomposition"] = decomposition
		}
		if anomalies != nil {
			output["anomalies"] = anomalies
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	fmt.Printf("Analysis of %s (%d points)\n", opts.InputFile, data.Len())
	fmt.Println("==========================")

	fmt.Println("\nTrend:")
	fmt.Printf("- Direction: %s\n", trend.TrendDirection)
	fmt.Printf("- Slope: %.4f per step\n", trend.Slope)
	fmt.Printf("- P-Value: %.4f\n", trend.PValue)
	fmt.Printf("- Change Points: %d\n", len(trend.ChangePoints))

	if decomposition != nil {
		fmt.Println("\nSeasonality:")
		fmt.Printf("- Period: %d\n", decomposition.SeasonalPeriod)
		fmt.Printf("- Strength: %.2f\n", decomposition.Strength)
	}

	if anomalies != nil {
		fmt.Println("\nAnomaly Detection:")
		fmt.Printf("- Method: %s\n", anomalies.Method)
		fmt.Printf("- Threshold: %.2f\n", anomalies.Threshold)
		fmt.Printf("- Anomalies Found: %d\n", len(anomalies.Anomalies))
		for _, idx := range anomalies.Anomalies {
			fmt.Printf("  - index %d (value %.2f, score %.2f)\n", idx, data.Values[idx], anomalies.Scores[idx])
		}
	}

	return nil
}
