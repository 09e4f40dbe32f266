// Package alliance tracks the therapeutic alliance per user on the
// bond/task/goal model, smoothed across messages.
package alliance

// #region imports
import "time"

// #endregion

// #region measurement

// Measurement is one per-message alliance reading. Component scores and the
// auxiliary scalars all live in [0, 1].
type Measurement struct {
	Overall         float64   `json:"overall"`
	Bond            float64   `json:"bond"`
	Task            float64   `json:"task"`
	Goal            float64   `json:"goal"`
	Engagement      float64   `json:"engagement"`
	DisclosureDepth float64   `json:"disclosure_depth"`

	// Names of the positive / negative indicator categories that fired.
	TrustIndicators      []string `json:"trust_indicators,omitempty"`
	ResistanceIndicators []string `json:"resistance_indicators,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// #endregion

// #region trend

// Trend classifies the direction of the alliance over recent measurements.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// #endregion

// #region context

// MessageContext carries the optional caller-supplied signals the tracker
// understands. Zero values are neutral.
type MessageContext struct {
	ResponseTimeSeconds float64
}

// #endregion

// #region defaults

const (
	// DefaultAlliance is the alliance level reported for unseen users.
	DefaultAlliance = 0.3

	// seedComponent is the starting value of bond, task, and goal before
	// indicators are applied to a message.
	seedComponent = 0.5

	// emaAlpha weighs the raw measurement against the previous smoothed one.
	emaAlpha = 0.3

	// historyCap bounds the per-user measurement history.
	historyCap = 50

	// trendEpsilon is the half-history mean difference below which the
	// trend counts as stable.
	trendEpsilon = 0.05
)

// #endregion
