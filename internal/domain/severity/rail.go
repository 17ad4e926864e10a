package severity

// MetricReading is the input to a metric rail.
type MetricReading struct {
	Value float64
	Label string
	// ValueLabel replaces the rounded numeric label when non-empty.
	ValueLabel string
	// Thresholds falls back to the classifier defaults when nil. A non-nil
	// value is used as given, including all zeros.
	Thresholds *Thresholds
}

// Rail is the declarative render description of a metric rail.
type Rail struct {
	Label      string     `json:"label"`
	Value      float64    `json:"value"`
	ValueLabel string     `json:"value_label"`
	FillPct    float64    `json:"fill_pct"`
	Tier       Tier       `json:"tier"`
	ColorClass string     `json:"color_class"`
	Thresholds Thresholds `json:"thresholds"`
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithThresholds sets the thresholds used when a reading carries none.
func WithThresholds(t Thresholds) Option {
	return func(c *Classifier) {
		if !t.IsZero() {
			c.defaults = t
		}
	}
}

// Classifier builds rails using a set of default thresholds.
type Classifier struct {
	defaults Thresholds
}

// NewClassifier creates a classifier; without options it uses DefaultThresholds.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{defaults: DefaultThresholds()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Defaults returns the thresholds applied to readings that carry none.
func (c *Classifier) Defaults() Thresholds {
	return c.defaults
}

// Rail renders r. The fill is clamped; the tier and the numeric label use
// the raw value.
func (c *Classifier) Rail(r MetricReading) Rail {
	th := c.defaults
	if r.Thresholds != nil {
		th = *r.Thresholds
	}
	tier := Classify(r.Value, th)

	label := r.ValueLabel
	if label == "" {
		label = FormatValue(r.Value)
	}

	return Rail{
		Label:      r.Label,
		Value:      r.Value,
		ValueLabel: label,
		FillPct:    Clamp(r.Value),
		Tier:       tier,
		ColorClass: tier.Treatment().FillClass,
		Thresholds: th,
	}
}

// NewRail renders r with the package defaults.
func NewRail(r MetricReading) Rail {
	return NewClassifier().Rail(r)
}
