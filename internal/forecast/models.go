package forecast

import (
	"fmt"

	"github.com/pulseforge/tsengine/pkg/errors"
)

// Kind identifies a forecasting strategy.
type Kind string

const (
	KindAutoregressive        Kind = "autoregressive"
	KindMovingAverage         Kind = "moving_average"
	KindARIMA                 Kind = "arima"
	KindExponentialSmoothing  Kind = "exponential_smoothing"
	KindSeasonalDecomposition Kind = "seasonal_decomposition"
	KindProphetLike           Kind = "prophet_like"
)

// Model is a closed union over the six forecasting strategies. Order carries
// the lag order for the autoregressive and moving-average variants; P, D and Q
// apply to ARIMA only.
type Model struct {
	Kind  Kind `json:"kind"`
	Order int  `json:"order,omitempty"`
	P     int  `json:"p,omitempty"`
	D     int  `json:"d,omitempty"`
	Q     int  `json:"q,omitempty"`
}

// Autoregressive builds an AR(order) model.
func Autoregressive(order int) Model {
	return Model{Kind: KindAutoregressive, Order: order}
}

// MovingAverage builds a moving-average model over the last order samples.
func MovingAverage(order int) Model {
	return Model{Kind: KindMovingAverage, Order: order}
}

// ARIMA builds an ARIMA(p,d,q) model.
func ARIMA(p, d, q int) Model {
	return Model{Kind: KindARIMA, P: p, D: d, Q: q}
}

// ExponentialSmoothing builds a single exponential smoothing model.
func ExponentialSmoothing() Model {
	return Model{Kind: KindExponentialSmoothing}
}

// SeasonalDecomposition builds a decomposition-based model: extrapolated
// trend plus tiled seasonal pattern.
func SeasonalDecomposition() Model {
	return Model{Kind: KindSeasonalDecomposition}
}

// ProphetLike builds a linear trend plus day-of-week seasonality model.
func ProphetLike() Model {
	return Model{Kind: KindProphetLike}
}

// String returns the canonical model name used in results and logs.
func (m Model) String() string {
	switch m.Kind {
	case KindAutoregressive, KindMovingAverage:
		return fmt.Sprintf("%s(%d)", m.Kind, m.Order)
	case KindARIMA:
		return fmt.Sprintf("arima(%d,%d,%d)", m.P, m.D, m.Q)
	default:
		return string(m.Kind)
	}
}

// ParseKind resolves a strategy name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindAutoregressive, KindMovingAverage, KindARIMA,
		KindExponentialSmoothing, KindSeasonalDecomposition, KindProphetLike:
		return Kind(name), nil
	}
	return "", errors.NewInvalidInputError(fmt.Sprintf("unknown forecast model %q", name))
}
