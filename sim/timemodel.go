// Implements the duration generators that govern all stochastic timing in a
// run: processing times, inter-arrival times, failure inter-arrivals and
// repair times.

package sim

import (
	"fmt"
	"math"
	"math/rand"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Location is a planar position used for distance-based transport durations
// and nearest-resource routing.
type Location [2]float64

func manhattan(a, b Location) float64 {
	return math.Abs(a[0]-b[0]) + math.Abs(a[1]-b[1])
}

// TimeModel produces successive non-negative duration samples. Samples are
// deterministic given the run seed: each model instance draws from its own
// derived RNG stream, so the sequence a model produces does not depend on
// how often other models are sampled.
type TimeModel interface {
	// Sample returns the next duration.
	Sample() float64
	// Mean returns the expected duration, used by the SPT dispatch policy.
	Mean() float64
}

const functionalBatchSize = 64

// FunctionalTimeModel draws durations from a closed-form distribution in
// refillable batches.
type FunctionalTimeModel struct {
	dist  distuv.Rander
	mean  float64
	batch []float64
	next  int
}

// NewFunctionalTimeModel builds a model for the named distribution.
// Supported distributions and their required params keys:
//
//	constant:    value
//	exponential: mean
//	normal:      mean, stdev
//	lognormal:   mu, sigma
//	uniform:     min, max
func NewFunctionalTimeModel(distribution string, params map[string]float64, src exprand.Source) (*FunctionalTimeModel, error) {
	get := func(key string) (float64, error) {
		v, ok := params[key]
		if !ok {
			return 0, fmt.Errorf("distribution %q requires param %q", distribution, key)
		}
		return v, nil
	}

	m := &FunctionalTimeModel{}
	switch distribution {
	case "constant":
		v, err := get("value")
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fmt.Errorf("constant value must be non-negative, got %v", v)
		}
		m.dist = constantDist{v: v}
		m.mean = v
	case "exponential":
		mean, err := get("mean")
		if err != nil {
			return nil, err
		}
		if mean <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %v", mean)
		}
		m.dist = distuv.Exponential{Rate: 1 / mean, Src: src}
		m.mean = mean
	case "normal":
		mean, err := get("mean")
		if err != nil {
			return nil, err
		}
		stdev, err := get("stdev")
		if err != nil {
			return nil, err
		}
		if stdev < 0 {
			return nil, fmt.Errorf("normal stdev must be non-negative, got %v", stdev)
		}
		m.dist = distuv.Normal{Mu: mean, Sigma: stdev, Src: src}
		m.mean = mean
	case "lognormal":
		mu, err := get("mu")
		if err != nil {
			return nil, err
		}
		sigma, err := get("sigma")
		if err != nil {
			return nil, err
		}
		if sigma <= 0 {
			return nil, fmt.Errorf("lognormal sigma must be positive, got %v", sigma)
		}
		m.dist = distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}
		m.mean = math.Exp(mu + sigma*sigma/2)
	case "uniform":
		lo, err := get("min")
		if err != nil {
			return nil, err
		}
		hi, err := get("max")
		if err != nil {
			return nil, err
		}
		if hi < lo || lo < 0 {
			return nil, fmt.Errorf("uniform bounds must satisfy 0 <= min <= max, got [%v, %v]", lo, hi)
		}
		m.dist = distuv.Uniform{Min: lo, Max: hi, Src: src}
		m.mean = (lo + hi) / 2
	default:
		return nil, fmt.Errorf("unknown distribution %q", distribution)
	}
	return m, nil
}

// constantDist degenerates to a fixed value; distuv has no point-mass
// distribution.
type constantDist struct{ v float64 }

func (c constantDist) Rand() float64 { return c.v }

func (m *FunctionalTimeModel) refill() {
	if m.batch == nil {
		m.batch = make([]float64, functionalBatchSize)
	}
	for i := range m.batch {
		// Negative draws (possible for normal) clamp to zero.
		m.batch[i] = math.Max(0, m.dist.Rand())
	}
	m.next = 0
}

// Sample returns the next duration from the current batch, refilling when
// the batch is exhausted.
func (m *FunctionalTimeModel) Sample() float64 {
	if m.next >= len(m.batch) {
		m.refill()
	}
	v := m.batch[m.next]
	m.next++
	return v
}

func (m *FunctionalTimeModel) Mean() float64 { return m.mean }

// HistoricalTimeModel resamples with replacement from recorded durations.
type HistoricalTimeModel struct {
	samples []float64
	mean    float64
	rng     *rand.Rand
}

// NewHistoricalTimeModel builds a model over the recorded samples, which
// must be non-empty and non-negative.
func NewHistoricalTimeModel(samples []float64, rng *rand.Rand) (*HistoricalTimeModel, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("historical time model requires at least one sample")
	}
	var sum float64
	for i, s := range samples {
		if s < 0 {
			return nil, fmt.Errorf("historical sample %d is negative: %v", i, s)
		}
		sum += s
	}
	return &HistoricalTimeModel{
		samples: append([]float64(nil), samples...),
		mean:    sum / float64(len(samples)),
		rng:     rng,
	}, nil
}

func (m *HistoricalTimeModel) Sample() float64 {
	return m.samples[m.rng.Intn(len(m.samples))]
}

func (m *HistoricalTimeModel) Mean() float64 { return m.mean }

// DistanceBasedTimeModel computes transport durations from geometry rather
// than a random draw: duration = manhattan(from, to)/speed + reaction time.
type DistanceBasedTimeModel struct {
	Speed    float64
	Reaction float64
}

// NewDistanceBasedTimeModel builds a model with the given speed (distance
// units per time unit, must be positive) and fixed reaction time.
func NewDistanceBasedTimeModel(speed, reaction float64) (*DistanceBasedTimeModel, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("distance-based speed must be positive, got %v", speed)
	}
	if reaction < 0 {
		return nil, fmt.Errorf("distance-based reaction time must be non-negative, got %v", reaction)
	}
	return &DistanceBasedTimeModel{Speed: speed, Reaction: reaction}, nil
}

// DurationBetween returns the travel duration between two locations.
func (m *DistanceBasedTimeModel) DurationBetween(from, to Location) float64 {
	return manhattan(from, to)/m.Speed + m.Reaction
}

// Sample without endpoints degenerates to the reaction time; callers with
// endpoints use DurationBetween via sampleDuration.
func (m *DistanceBasedTimeModel) Sample() float64 { return m.Reaction }

func (m *DistanceBasedTimeModel) Mean() float64 { return m.Reaction }

// sampleDuration draws the actual duration for one unit of work, routing
// distance-based models through their endpoints.
func sampleDuration(tm TimeModel, from, to Location) float64 {
	if d, ok := tm.(*DistanceBasedTimeModel); ok {
		return d.DurationBetween(from, to)
	}
	return tm.Sample()
}

// expectedDuration is the deterministic estimate the SPT policy ranks by.
func expectedDuration(tm TimeModel, from, to Location) float64 {
	if d, ok := tm.(*DistanceBasedTimeModel); ok {
		return d.DurationBetween(from, to)
	}
	return tm.Mean()
}
