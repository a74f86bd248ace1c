// Package anomaly implements per-sample anomaly scoring over a time series
// with four interchangeable strategies: z-score, IQR fences, an isolation
// forest approximation and a sliding-window local z-score.
package anomaly

import (
	"math"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/pulseforge/tsengine/internal/statistics"
	"github.com/pulseforge/tsengine/pkg/models"
)

// Supported detection methods.
const (
	MethodZScore          = "zscore"
	MethodIQR             = "iqr"
	MethodIsolationForest = "isolation_forest"
	MethodStatistical     = "statistical"

	// DefaultThreshold flags samples whose absolute score exceeds it.
	DefaultThreshold = 2.0
)

// Config contains tuning parameters for the detector.
type Config struct {
	Threshold     float64 `json:"threshold" mapstructure:"threshold"`
	ForestTrees   int     `json:"forest_trees" mapstructure:"forest_trees"`
	SubsampleSize int     `json:"subsample_size" mapstructure:"subsample_size"`
	Seed          int64   `json:"seed" mapstructure:"seed"`
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() *Config {
	return &Config{
		Threshold:     DefaultThreshold,
		ForestTrees:   100,
		SubsampleSize: 256,
		Seed:          1,
	}
}

// Detector scores every sample of a series and flags the indices whose
// absolute score exceeds the threshold.
type Detector struct {
	logger *logrus.Logger
	config *Config
}

// NewDetector creates a detector. A nil config uses DefaultConfig.
func NewDetector(config *Config, logger *logrus.Logger) *Detector {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Detector{logger: logger, config: config}
}

// Detect scores data.Values with the named method. A threshold <= 0 uses the
// configured default. An unknown method name falls back to z-score scoring.
func (d *Detector) Detect(data *models.TimeSeriesData, method string, threshold float64) *models.AnomalyDetection {
	if threshold <= 0 {
		threshold = d.config.Threshold
	}

	resolved := method
	var scores []float64
	switch method {
	case MethodZScore:
		scores = d.zScores(data.Values)
	case MethodIQR:
		scores = d.iqrScores(data.Values)
	case MethodIsolationForest:
		scores = d.isolationForestScores(data.Values)
	case MethodStatistical:
		scores = d.slidingWindowScores(data.Values)
	default:
		d.logger.WithField("method", method).Warn("Unknown anomaly detection method, falling back to zscore")
		resolved = MethodZScore
		scores = d.zScores(data.Values)
	}

	var anomalies []int
	for i, score := range scores {
		if math.Abs(score) > threshold {
			anomalies = append(anomalies, i)
		}
	}

	return &models.AnomalyDetection{
		Anomalies: anomalies,
		Scores:    scores,
		Threshold: threshold,
		Method:    resolved,
	}
}

// zScores scores each sample by its deviation from the mean in standard
// deviations. Zero dispersion yields all-zero scores.
func (d *Detector) zScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}

	mean := stat.Mean(values, nil)
	stddev := statistics.StdDev(values)
	if stddev == 0 {
		return scores
	}

	for i, v := range values {
		scores[i] = (v - mean) / stddev
	}
	return scores
}

// iqrScores scores samples outside the Tukey fences proportionally to their
// distance from the fence; samples inside score 0.
func (d *Detector) iqrScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := statistics.Percentile(sorted, 0.25)
	q3 := statistics.Percentile(sorted, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return scores
	}

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	for i, v := range values {
		switch {
		case v < lower:
			scores[i] = (v - lower) / iqr
		case v > upper:
			scores[i] = (v - upper) / iqr
		}
	}
	return scores
}

// isolationForestScores approximates isolation forest scoring over the raw
// values: randomized binary partition trees over a bootstrap subsample, with
// each point scored by the inverse of its depth-normalized average path.
func (d *Detector) isolationForestScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) < 2 {
		return scores
	}

	subsampleSize := d.config.SubsampleSize
	if subsampleSize > len(values) {
		subsampleSize = len(values)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(subsampleSize))))
	norm := math.Log2(float64(subsampleSize))
	if norm == 0 {
		return scores
	}

	rng := rand.New(rand.NewSource(d.config.Seed))

	trees := make([]*isolationTree, d.config.ForestTrees)
	for i := range trees {
		sample := bootstrapSample(values, subsampleSize, rng)
		trees[i] = buildIsolationTree(sample, 0, maxDepth, rng)
	}

	for i, v := range values {
		total := 0.0
		for _, tree := range trees {
			total += float64(tree.pathDepth(v, 0))
		}
		avgDepth := total / float64(len(trees))
		if avgDepth > 0 {
			scores[i] = norm / avgDepth
		}
	}
	return scores
}

// slidingWindowScores computes a local z-score over a window of
// min(10, n/4) neighbors on each side of every sample.
func (d *Detector) slidingWindowScores(values []float64) []float64 {
	n := len(values)
	scores := make([]float64, n)

	window := n / 4
	if window > 10 {
		window = 10
	}
	if window < 1 {
		return scores
	}

	for i := range values {
		start := i - window
		if start < 0 {
			start = 0
		}
		end := i + window + 1
		if end > n {
			end = n
		}

		local := values[start:end]
		mean := stat.Mean(local, nil)
		stddev := statistics.StdDev(local)
		if stddev == 0 {
			continue
		}
		scores[i] = (values[i] - mean) / stddev
	}
	return scores
}

// isolationTree is a single randomized binary partition tree over 1-D values.
type isolationTree struct {
	splitValue float64
	left       *isolationTree
	right      *isolationTree
	isLeaf     bool
}

func buildIsolationTree(values []float64, depth, maxDepth int, rng *rand.Rand) *isolationTree {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if len(values) <= 1 || depth >= maxDepth || min == max {
		return &isolationTree{isLeaf: true}
	}

	split := min + rng.Float64()*(max-min)

	var left, right []float64
	for _, v := range values {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isolationTree{isLeaf: true}
	}

	return &isolationTree{
		splitValue: split,
		left:       buildIsolationTree(left, depth+1, maxDepth, rng),
		right:      buildIsolationTree(right, depth+1, maxDepth, rng),
	}
}

func (t *isolationTree) pathDepth(value float64, depth int) int {
	if t.isLeaf {
		return depth
	}
	if value < t.splitValue {
		return t.left.pathDepth(value, depth+1)
	}
	return t.right.pathDepth(value, depth+1)
}

// bootstrapSample draws size values with replacement.
func bootstrapSample(values []float64, size int, rng *rand.Rand) []float64 {
	sample := make([]float64, size)
	for i := range sample {
		sample[i] = values[rng.Intn(len(values))]
	}
	return sample
}
