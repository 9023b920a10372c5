// Package decision ranks policy alternatives with a Weighted Sum Model.
//
// Every criterion is mapped to a 0-100 score, multiplied by its weight and
// summed. Weights must sum to 1. The alternative catalog is passed in by the
// caller; DefaultCatalog only provides the built-in starting set.
package decision

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Method is the name reported in every trace.
const Method = "Weighted Sum Model"

const (
	minImpact       = 45
	maxImpact       = 95
	weightTolerance = 0.001
)

// CostTier is the relative budget an alternative needs.
type CostTier string

const (
	CostLow    CostTier = "low"
	CostMedium CostTier = "medium"
	CostHigh   CostTier = "high"
)

// Timeframe is how long an alternative takes to show results.
type Timeframe string

const (
	TimeShort  Timeframe = "short"
	TimeMedium Timeframe = "medium"
	TimeLong   Timeframe = "long"
)

// RiskTier is the implementation risk of an alternative. The zero value means
// the tier is derived from the cons text.
type RiskTier string

const (
	RiskUnset  RiskTier = ""
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Impact is the headline effect an alternative promises.
type Impact struct {
	Metric string `yaml:"metric" json:"metric"`
	Value  string `yaml:"value" json:"value"`
}

// Alternative is one policy option.
type Alternative struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Pros        []string  `yaml:"pros" json:"pros"`
	Cons        []string  `yaml:"cons" json:"cons"`
	Impact      Impact    `yaml:"impact" json:"estimatedImpact"`
	Cost        CostTier  `yaml:"cost" json:"cost"`
	Timeframe   Timeframe `yaml:"timeframe" json:"timeframe"`

	// ImpactScore overrides the score parsed from Impact.Value.
	ImpactScore *float64 `yaml:"impactScore,omitempty" json:"impactScore,omitempty"`
	// Risk overrides the tier scanned from Cons.
	Risk RiskTier `yaml:"risk,omitempty" json:"risk,omitempty"`
}

// Validate checks tiers and the structured impact score.
func (a Alternative) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("alternative %q: id is required", a.Name)
	}
	if _, ok := feasibilityScores[a.Cost]; !ok {
		return fmt.Errorf("alternative %s: unknown cost tier %q (expected low|medium|high)", a.ID, a.Cost)
	}
	if _, ok := timeScores[a.Timeframe]; !ok {
		return fmt.Errorf("alternative %s: unknown timeframe %q (expected short|medium|long)", a.ID, a.Timeframe)
	}
	if _, ok := riskScores[a.Risk]; !ok && a.Risk != RiskUnset {
		return fmt.Errorf("alternative %s: unknown risk tier %q (expected low|medium|high)", a.ID, a.Risk)
	}
	if a.ImpactScore != nil && (*a.ImpactScore < 0 || *a.ImpactScore > 100) {
		return fmt.Errorf("alternative %s: impactScore %g outside 0-100", a.ID, *a.ImpactScore)
	}
	return nil
}

// Weights of the four criteria.
type Weights struct {
	Impact      float64 `mapstructure:"impact" yaml:"impact" json:"impact"`
	Feasibility float64 `mapstructure:"feasibility" yaml:"feasibility" json:"feasibility"`
	Risk        float64 `mapstructure:"risk" yaml:"risk" json:"risk"`
	TimeToValue float64 `mapstructure:"time-to-value" yaml:"timeToValue" json:"timeToValue"`
}

// DefaultWeights returns impact 0.40, feasibility 0.25, risk 0.20 and
// time-to-value 0.15.
func DefaultWeights() Weights {
	return Weights{Impact: 0.40, Feasibility: 0.25, Risk: 0.20, TimeToValue: 0.15}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Impact + w.Feasibility + w.Risk + w.TimeToValue
}

// Validate checks that no weight is negative and that they sum to 1.
func (w Weights) Validate() error {
	if w.Impact < 0 || w.Feasibility < 0 || w.Risk < 0 || w.TimeToValue < 0 {
		return fmt.Errorf("decision weights must not be negative (got %+v)", w)
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return fmt.Errorf("decision weights must sum to 1 (got %.3f)", w.Sum())
	}
	return nil
}

var (
	feasibilityScores = map[CostTier]float64{CostLow: 90, CostMedium: 70, CostHigh: 45}
	timeScores        = map[Timeframe]float64{TimeShort: 90, TimeMedium: 72, TimeLong: 55}
	riskScores        = map[RiskTier]float64{RiskLow: 85, RiskMedium: 70, RiskHigh: 45}
)

// Scores are the four criterion scores, each 0-100.
type Scores struct {
	Impact      float64 `json:"impact"`
	Feasibility float64 `json:"feasibility"`
	Risk        float64 `json:"risk"`
	TimeToValue float64 `json:"timeToValue"`
}

// TraceItem is the ranking entry for one alternative.
type TraceItem struct {
	AlternativeID   string   `json:"alternativeId"`
	AlternativeName string   `json:"alternativeName"`
	WeightedScore   float64  `json:"weightedScore"`
	Scores          Scores   `json:"scoreBreakdown"`
	Notes           []string `json:"notes"`
}

// Trace is the full decision record.
type Trace struct {
	Method  string      `json:"method"`
	Weights Weights     `json:"weights"`
	Ranking []TraceItem `json:"ranking"`
}

// Evaluate ranks alts and wraps the result with the method and weights.
func Evaluate(alts []Alternative, w Weights) Trace {
	return Trace{Method: Method, Weights: w, Ranking: Rank(alts, w)}
}

// Rank scores every alternative and sorts by descending weighted score.
// Equal scores keep catalog order. The result is never nil.
func Rank(alts []Alternative, w Weights) []TraceItem {
	out := make([]TraceItem, 0, len(alts))
	for _, a := range alts {
		out = append(out, score(a, w))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WeightedScore > out[j].WeightedScore })
	for i, item := range out {
		logf(item.AlternativeID, "#%d weighted=%.2f", i+1, item.WeightedScore)
	}
	return out
}

func score(a Alternative, w Weights) TraceItem {
	var s Scores
	var notes []string

	if a.ImpactScore != nil {
		s.Impact = clamp(*a.ImpactScore, minImpact, maxImpact)
		notes = append(notes, fmt.Sprintf("dampak dari katalog: %g", s.Impact))
	} else {
		s.Impact = ImpactFromText(a.Impact.Value)
		notes = append(notes, fmt.Sprintf("dampak diturunkan dari %q: %g", a.Impact.Value, s.Impact))
	}

	s.Feasibility = feasibilityScores[a.Cost]
	notes = append(notes, fmt.Sprintf("biaya %s: kelayakan %g", a.Cost, s.Feasibility))

	risk := a.Risk
	if risk == RiskUnset {
		risk = RiskFromCons(a.Cons)
		notes = append(notes, fmt.Sprintf("risiko %s dari daftar kekurangan", risk))
	} else {
		notes = append(notes, fmt.Sprintf("risiko %s dari katalog", risk))
	}
	s.Risk = riskScores[risk]

	s.TimeToValue = timeScores[a.Timeframe]
	notes = append(notes, fmt.Sprintf("jangka waktu %s: %g", a.Timeframe, s.TimeToValue))

	weighted := s.Impact*w.Impact + s.Feasibility*w.Feasibility + s.Risk*w.Risk + s.TimeToValue*w.TimeToValue
	return TraceItem{
		AlternativeID:   a.ID,
		AlternativeName: a.Name,
		WeightedScore:   math.Round(weighted*100) / 100,
		Scores:          s,
		Notes:           notes,
	}
}

var integerPattern = regexp.MustCompile(`\d+`)

// ImpactFromText derives an impact score from a free-text value such as
// "+35%": the mean of every integer in the text, doubled and clamped to
// [45, 95]. Text without digits scores 45.
func ImpactFromText(value string) float64 {
	matches := integerPattern.FindAllString(value, -1)
	if len(matches) == 0 {
		return minImpact
	}
	sum := 0.0
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		sum += float64(n)
	}
	return clamp(sum/float64(len(matches))*2, minImpact, maxImpact)
}

// RiskFromCons scans the cons for Indonesian severity words: "tinggi" (high)
// wins over "sedang" (medium); neither means low risk.
func RiskFromCons(cons []string) RiskTier {
	text := strings.ToLower(strings.Join(cons, " "))
	switch {
	case strings.Contains(text, "tinggi"):
		return RiskHigh
	case strings.Contains(text, "sedang"):
		return RiskMedium
	default:
		return RiskLow
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
