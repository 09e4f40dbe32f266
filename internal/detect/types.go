// Package detect holds the five stateless construct detectors: cognitive
// distortions, defense mechanisms, core beliefs, blind spots, and
// breakthrough moments. Each one is a catalog of categories fed through the
// shared indicator classifier.
package detect

// #region maturity

// Maturity classifies a defense mechanism on the primitive/neurotic/mature
// scale. Deeper (less mature) defenses require more alliance before they may
// be named to the user.
type Maturity string

const (
	MaturityPrimitive Maturity = "primitive"
	MaturityNeurotic  Maturity = "neurotic"
	MaturityMature    Maturity = "mature"
)

// #endregion

// #region belief-domain

// BeliefDomain is the owner of a core belief: the self, other people, or the
// world at large.
type BeliefDomain string

const (
	DomainSelf   BeliefDomain = "self"
	DomainOthers BeliefDomain = "others"
	DomainWorld  BeliefDomain = "world"
)

// #endregion

// #region finding

// Finding is one detected construct instance. Category-specific tags are
// populated only by the detector that owns them; the rest stay zero.
type Finding struct {
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Evidence    string  `json:"evidence"`
	Explanation string  `json:"explanation,omitempty"`

	// Distortion
	Reframe string `json:"reframe,omitempty"`

	// Defense mechanism
	Maturity Maturity `json:"maturity,omitempty"`

	// Core belief
	Domain    BeliefDomain `json:"domain,omitempty"`
	Valence   float64      `json:"valence,omitempty"`
	Schema    string       `json:"schema,omitempty"`
	Recurring bool         `json:"recurring_pattern,omitempty"`

	// Blind spot
	SpotType string `json:"spot_type,omitempty"`

	// Breakthrough
	Intensity float64 `json:"intensity,omitempty"`
	Response  string  `json:"response,omitempty"`
}

// #endregion
