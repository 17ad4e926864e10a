// Package severity classifies metric values into ordered urgency tiers and
// describes how the metric rail renders them.
package severity

import (
	"math"
	"strconv"
	"strings"
)

// Default rail thresholds.
const (
	DefaultDangerAbove  = 75.0
	DefaultCautionAbove = 60.0
	DefaultGoodAbove    = 40.0

	minFill = 0.0
	maxFill = 100.0
)

// Tier is a visual-urgency bucket. Tiers are totally ordered:
// Sky < Good < Caution < Danger.
type Tier int

// Tier values in ascending order.
const (
	Sky Tier = iota
	Good
	Caution
	Danger
)

var tierNames = [...]string{
	Sky:     "sky",
	Good:    "good",
	Caution: "caution",
	Danger:  "danger",
}

// String returns the lowercase tier name.
func (t Tier) String() string {
	if t < Sky || t > Danger {
		return "unknown"
	}
	return tierNames[t]
}

// MarshalText implements encoding.TextMarshaler so tiers encode as names in JSON.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTier parses a tier name (case-insensitive).
func ParseTier(s string) (Tier, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range tierNames {
		if name == s {
			return Tier(i), true
		}
	}
	return Sky, false
}

// Treatment is the visual encoding bound to a tier.
type Treatment struct {
	FillClass string
	TextClass string
}

var treatments = [...]Treatment{
	Sky:     {FillClass: "bg-sky-500", TextClass: "text-sky-700"},
	Good:    {FillClass: "bg-emerald-500", TextClass: "text-emerald-700"},
	Caution: {FillClass: "bg-amber-500", TextClass: "text-amber-700"},
	Danger:  {FillClass: "bg-red-500", TextClass: "text-red-700"},
}

// Treatment returns the visual treatment for t. Out-of-range tiers get Sky's.
func (t Tier) Treatment() Treatment {
	if t < Sky || t > Danger {
		return treatments[Sky]
	}
	return treatments[t]
}

// Thresholds are the lower bounds of the Danger, Caution and Good tiers.
// Callers are expected to keep Danger > Caution > Good; nothing checks it.
type Thresholds struct {
	Danger  float64 `json:"danger"`
	Caution float64 `json:"caution"`
	Good    float64 `json:"good"`
}

// DefaultThresholds returns 75/60/40.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Danger:  DefaultDangerAbove,
		Caution: DefaultCautionAbove,
		Good:    DefaultGoodAbove,
	}
}

// IsZero reports whether no threshold was set.
func (t Thresholds) IsZero() bool {
	return t == Thresholds{}
}

// Step pairs a lower bound with the tier it selects.
type Step struct {
	Threshold float64
	Tier      Tier
}

// Ladder returns the steps evaluated by Classify, highest tier first.
func (t Thresholds) Ladder() []Step {
	return []Step{
		{Threshold: t.Danger, Tier: Danger},
		{Threshold: t.Caution, Tier: Caution},
		{Threshold: t.Good, Tier: Good},
	}
}

// Classify returns the tier of the first ladder step whose threshold value
// meets or exceeds, or Sky when none does. Bounds are inclusive.
func Classify(value float64, t Thresholds) Tier {
	for _, step := range t.Ladder() {
		if value >= step.Threshold {
			return step.Tier
		}
	}
	return Sky
}

// Clamp bounds value to the [0, 100] fill range. NaN fills nothing.
func Clamp(value float64) float64 {
	if math.IsNaN(value) {
		return minFill
	}
	return math.Max(minFill, math.Min(maxFill, value))
}

// FormatValue renders value rounded to the nearest integer with halves
// rounding up, so -2.5 renders as "-2".
func FormatValue(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	rounded := math.Floor(value + 0.5)
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64)
}
