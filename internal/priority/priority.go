// Package priority scores sub-district aggregates for policy intervention.
//
// The score combines four sub-scores on a 0-100 scale:
//
//	poverty      min(poverty% / ceiling, 1) * 100
//	unemployment min(unemployment% / ceiling, 1) * 100
//	density      min(businesses per 1000 / ceiling, 1) * 100
//	readiness    (internet + logistics cost + ease of business) / 3
//
// Readiness averages the logistics cost index as is, even though a higher
// value there means costlier logistics. TestReadiness_LogisticsPolarity pins
// that behaviour.
package priority

import (
	"fmt"
	"math"
	"sort"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
)

const weightTolerance = 0.001

// Weights of the four sub-scores. They must sum to 1.
type Weights struct {
	Poverty      float64 `mapstructure:"poverty" json:"poverty"`
	Unemployment float64 `mapstructure:"unemployment" json:"unemployment"`
	Density      float64 `mapstructure:"density" json:"density"`
	Readiness    float64 `mapstructure:"readiness" json:"readiness"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Poverty + w.Unemployment + w.Density + w.Readiness
}

// Ceilings are the values at which a raw indicator saturates to 100.
// They are heuristics, not dataset maxima.
type Ceilings struct {
	PovertyPct      float64 `mapstructure:"poverty" json:"poverty"`
	UnemploymentPct float64 `mapstructure:"unemployment" json:"unemployment"`
	Density         float64 `mapstructure:"density" json:"density"`
}

// Config holds the scoring weights and ceilings.
type Config struct {
	Weights  Weights  `mapstructure:"weights" json:"weights"`
	Ceilings Ceilings `mapstructure:"ceilings" json:"ceilings"`
}

// DefaultConfig returns the standard weighting: 30/20/20/30 with ceilings of
// 20% poverty, 15% unemployment and 50 businesses per 1000 residents.
func DefaultConfig() Config {
	return Config{
		Weights:  Weights{Poverty: 0.30, Unemployment: 0.20, Density: 0.20, Readiness: 0.30},
		Ceilings: Ceilings{PovertyPct: 20, UnemploymentPct: 15, Density: 50},
	}
}

// Validate checks that weights are non-negative and sum to 1 and that every
// ceiling is positive.
func (c Config) Validate() error {
	w := c.Weights
	named := []struct {
		name  string
		value float64
	}{{"poverty", w.Poverty}, {"unemployment", w.Unemployment}, {"density", w.Density}, {"readiness", w.Readiness}}
	for _, n := range named {
		if n.value < 0 {
			return fmt.Errorf("priority weight %s must not be negative (got %g)", n.name, n.value)
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return fmt.Errorf("priority weights must sum to 1 (got %.3f)", w.Sum())
	}
	if c.Ceilings.PovertyPct <= 0 || c.Ceilings.UnemploymentPct <= 0 || c.Ceilings.Density <= 0 {
		return fmt.Errorf("priority ceilings must be positive (got %+v)", c.Ceilings)
	}
	return nil
}

// Breakdown is the per-criterion detail of a score. Each Normalized value is
// on the 0-100 scale; Weighted is Normalized times the criterion weight.
type Breakdown struct {
	PovertyNormalized      float64 `json:"povertyNormalized"`
	UnemploymentNormalized float64 `json:"unemploymentNormalized"`
	DensityNormalized      float64 `json:"densityNormalized"`
	Readiness              float64 `json:"readiness"`

	PovertyWeighted      float64 `json:"povertyWeighted"`
	UnemploymentWeighted float64 `json:"unemploymentWeighted"`
	DensityWeighted      float64 `json:"densityWeighted"`
	ReadinessWeighted    float64 `json:"readinessWeighted"`
}

// Total is the unrounded composite.
func (b Breakdown) Total() float64 {
	return b.PovertyWeighted + b.UnemploymentWeighted + b.DensityWeighted + b.ReadinessWeighted
}

// Explain computes the breakdown of g's score.
func (c Config) Explain(g aggregate.Group) Breakdown {
	b := Breakdown{
		PovertyNormalized:      normalize(g.AvgPovertyPct, c.Ceilings.PovertyPct),
		UnemploymentNormalized: normalize(g.AvgUnemploymentPct, c.Ceilings.UnemploymentPct),
		DensityNormalized:      normalize(g.AvgDensity, c.Ceilings.Density),
		Readiness:              math.Max(0, (g.AvgInternetIndex+g.AvgLogisticsIndex+g.AvgEaseIndex)/3),
	}
	b.PovertyWeighted = b.PovertyNormalized * c.Weights.Poverty
	b.UnemploymentWeighted = b.UnemploymentNormalized * c.Weights.Unemployment
	b.DensityWeighted = b.DensityNormalized * c.Weights.Density
	b.ReadinessWeighted = b.Readiness * c.Weights.Readiness
	return b
}

// Score returns the composite priority of g rounded to 2 decimals.
func (c Config) Score(g aggregate.Group) float64 {
	return round2(c.Explain(g).Total())
}

// Score scores g with DefaultConfig.
func Score(g aggregate.Group) float64 {
	return DefaultConfig().Score(g)
}

// normalize maps v onto [0, 100] against ceiling. Negative inputs, which the
// loader reports but keeps, count as zero.
func normalize(v, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return math.Max(0, math.Min(v/ceiling, 1)) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Scored is a sub-district aggregate with its priority.
type Scored struct {
	aggregate.Group
	Score     float64   `json:"skorPrioritas"`
	Breakdown Breakdown `json:"breakdown"`
}

// Rank scores every group and returns them by descending score. Equal scores
// keep their input order. n <= 0 returns all groups. The result is never nil.
func (c Config) Rank(groups []aggregate.Group, n int) []Scored {
	out := make([]Scored, 0, len(groups))
	for _, g := range groups {
		b := c.Explain(g)
		out = append(out, Scored{Group: g, Score: round2(b.Total()), Breakdown: b})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	if len(out) > 0 {
		logf(out[0].Label(), "ranked %d group(s), top score %.2f", len(groups), out[0].Score)
	}
	return out
}

// Rank ranks groups with DefaultConfig.
func Rank(groups []aggregate.Group, n int) []Scored {
	return DefaultConfig().Rank(groups, n)
}
