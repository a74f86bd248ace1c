package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulseforge/tsengine/internal/analytics"
	"github.com/pulseforge/tsengine/internal/forecast"
	"github.com/pulseforge/tsengine/internal/timeseries"
)

type ForecastOptions struct {
	InputFile       string
	Model           string
	Order           int
	P               int
	D               int
	Q               int
	Horizon         int
	ConfidenceLevel float64
	OutputFormat    string
}

func NewForecastCmd() *cobra.Command {
	opts := &ForecastOptions{}

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast future values of a time series",
		Long: `Forecast future values of a time series using one of the supported
strategies: autoregressive, moving_average, arima, exponential_smoothing,
seasonal_decomposition or prophet_like.`,
		Example: `  # AR(2) forecast, 10 steps ahead
  tsengine-cli forecast --input data.csv --model autoregressive --order 2 --horizon 10

  # ARIMA(1,1,0) forecast
  tsengine-cli forecast --input data.csv --model arima -p 1 -d 1 -q 0 --horizon 14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "autoregressive", "Forecast model")
	cmd.Flags().IntVar(&opts.Order, "order", 2, "Lag order for autoregressive and moving_average models")
	cmd.Flags().IntVarP(&opts.P, "ar-order", "p", 1, "ARIMA autoregressive order")
	cmd.Flags().IntVarP(&opts.D, "diff-order", "d", 1, "ARIMA differencing order")
	cmd.Flags().IntVarP(&opts.Q, "ma-order", "q", 0, "ARIMA moving-average order")
	cmd.Flags().IntVar(&opts.Horizon, "horizon", 10, "Number of steps to forecast (1-100)")
	cmd.Flags().Float64Var(&opts.ConfidenceLevel, "confidence", 0.95, "Confidence level for intervals")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "Output format (text, json)")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runForecast(opts *ForecastOptions) error {
	kind, err := forecast.ParseKind(opts.Model)
	if err != nil {
		return err
	}

	var model forecast.Model
	switch kind {
	case forecast.KindAutoregressive:
		model = forecast.Autoregressive(opts.Order)
	case forecast.KindMovingAverage:
		model = forecast.MovingAverage(opts.Order)
	case forecast.KindARIMA:
		model = forecast.ARIMA(opts.P, opts.D, opts.Q)
	case forecast.KindExponentialSmoothing:
		model = forecast.ExponentialSmoothing()
	case forecast.KindSeasonalDecomposition:
		model = forecast.SeasonalDecomposition()
	case forecast.KindProphetLike:
		model = forecast.ProphetLike()
	}

	data, err := timeseries.LoadCSV(opts.InputFile, nil)
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(nil, Logger)
	result, err := engine.Forecast(context.Background(), data, model, opts.Horizon, opts.ConfidenceLevel)
	if err != nil {
		return err
	}

	if opts.OutputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Forecast (%s, %d steps):\n", result.Model, opts.Horizon)
	fmt.Printf("- Accuracy: %.4f\n", result.Accuracy)
	fmt.Printf("- Confidence Level: %.0f%%\n", opts.ConfidenceLevel*100)
	for i, pred := range result.Predictions {
		ci := result.ConfidenceIntervals[i]
		fmt.Printf("  %s  %.4f  [%.4f, %.4f]\n",
			result.Timestamps[i].Format("2006-01-02"), pred, ci.Lower, ci.Upper)
	}

	return nil
}
