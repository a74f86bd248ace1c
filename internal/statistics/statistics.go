// Package statistics implements the numeric kernel shared by the forecasting,
// decomposition and trend components: autocorrelation, Yule-Walker estimation
// via the Levinson-Durbin recursion, index regression with significance, and
// differencing/integration helpers. All functions are pure and stateless.
package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ACF calculates the autocorrelation function for lags 0..maxLag.
// A zero-variance series yields all-zero correlations rather than NaN.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	acf := make([]float64, maxLag+1)
	if variance == 0 {
		return acf
	}

	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// YuleWalker estimates AR coefficients of the given order from the series'
// autocorrelations. Order 1 uses the closed form phi = acf[1]; higher orders
// are solved with the Levinson-Durbin recursion. A degenerate series yields
// all-zero coefficients.
func YuleWalker(values []float64, order int) []float64 {
	phi := make([]float64, order)
	if order <= 0 {
		return phi
	}

	acf := ACF(values, order)
	if acf == nil || len(acf) <= order {
		return phi
	}

	if order == 1 {
		phi[0] = acf[1]
		return phi
	}

	// Levinson-Durbin recursion
	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}

		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
	}

	return phi
}

// RegressionResult holds an ordinary least squares fit of value on index.
type RegressionResult struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	StdErr    float64 // standard error of the slope
	TStat     float64
	PValue    float64 // two-sided, normal approximation
}

// LinearRegression regresses values on their index position 0..n-1.
// Fewer than 3 samples yields a zero slope with p-value 1.
func LinearRegression(values []float64) RegressionResult {
	n := len(values)
	if n < 3 {
		return RegressionResult{PValue: 1}
	}

	nf := float64(n)
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	sxx := sumX2 - sumX*sumX/nf
	slope := (nf*sumXY - sumX*sumY) / (nf * sxx)
	intercept := (sumY - slope*sumX) / nf

	meanY := sumY / nf
	var ssRes, ssTot float64
	for i, y := range values {
		predicted := intercept + slope*float64(i)
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}

	rSquared := 0.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	stdErr := math.Sqrt(ssRes / float64(n-2) / sxx)

	var tStat, pValue float64
	if stdErr == 0 {
		// Perfect fit: a nonzero slope is certain, a zero slope is not a trend.
		if slope != 0 {
			pValue = 0
		} else {
			pValue = 1
		}
	} else {
		tStat = slope / stdErr
		pValue = 2 * (1 - NormalCDF(math.Abs(tStat)))
	}

	return RegressionResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		StdErr:    stdErr,
		TStat:     tStat,
		PValue:    pValue,
	}
}

// NormalCDF returns the standard normal cumulative distribution at x.
func NormalCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// NormalQuantile returns the standard normal quantile for probability p.
func NormalQuantile(p float64) float64 {
	return stdNormal.Quantile(p)
}

// ZMultiplier returns the two-sided interval multiplier for the requested
// confidence level, falling back to the 95% value for out-of-range input.
func ZMultiplier(confidenceLevel float64) float64 {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		confidenceLevel = 0.95
	}
	return NormalQuantile(1 - (1-confidenceLevel)/2)
}

// Difference applies lag-1 differencing d times.
func Difference(values []float64, d int) []float64 {
	result := values
	for i := 0; i < d && len(result) > 1; i++ {
		diff := make([]float64, len(result)-1)
		for j := 1; j < len(result); j++ {
			diff[j-1] = result[j] - result[j-1]
		}
		result = diff
	}
	return result
}

// Integrate reverses d levels of differencing on forecasts, seeding each
// level from the final pre-differencing value of the original series.
func Integrate(forecasts, original []float64, d int) []float64 {
	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	for i := 0; i < d; i++ {
		level := Difference(original, d-1-i)
		if len(level) == 0 {
			continue
		}
		last := level[len(level)-1]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}

// Percentile returns the linearly interpolated percentile (0..1) of a sorted
// slice.
func Percentile(sorted []float64, percentile float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	index := percentile * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := stat.Mean(values, nil)
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}
