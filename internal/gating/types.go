// Package gating decides which depth of psychological content may surface
// in the next response. Hard vetoes are evaluated in fixed priority order;
// denial is a normal business outcome carrying a reason and an alternative,
// never an error.
package gating

// #region tiers

// Tier is a named depth level of psychological content.
type Tier string

const (
	TierSurface           Tier = "surface"
	TierConscious         Tier = "conscious"
	TierEdge              Tier = "edge"
	TierShadow            Tier = "shadow"
	TierDefenseMechanisms Tier = "defense_mechanisms"
	TierCoreBeliefs       Tier = "core_beliefs"
	TierBlindSpots        Tier = "blind_spots"
	TierUnconscious       Tier = "unconscious"
	TierTrauma            Tier = "trauma"
)

// Threshold is the unlock requirement for one tier.
type Threshold struct {
	MinAlliance float64 `json:"min_alliance"`
	MinDays     int     `json:"min_days"`
}

// #endregion

// #region user-state

// UserState carries the external per-call flags the gate reads. Zero value
// is fully neutral.
type UserState struct {
	CrisisDetected bool    `json:"crisis_detected"`
	HighResistance bool    `json:"high_resistance"`
	FatigueLevel   float64 `json:"fatigue_level"`
}

// #endregion

// #region decision

// Decision is the ephemeral outcome of one gating call.
type Decision struct {
	Allowed           bool     `json:"allowed"`
	Reason            string   `json:"reason"`
	AlternativeAction string   `json:"alternative_action,omitempty"`
	WaitConditions    []string `json:"wait_conditions,omitempty"`
}

// Alternative actions suggested on denial.
const (
	ActionStabilize   = "stabilize"
	ActionBuildTrust  = "build_trust"
	ActionSurfaceWork = "surface_work"
)

// #endregion

// #region readiness

// ReadinessStatus classifies how close one tier is to unlocking.
type ReadinessStatus string

const (
	StatusReady        ReadinessStatus = "ready"
	StatusWaitingTime  ReadinessStatus = "waiting_time"
	StatusNeedAlliance ReadinessStatus = "need_alliance"
	StatusNotReady     ReadinessStatus = "not_ready"
)

// Readiness is the per-tier entry of a readiness report.
type Readiness struct {
	Tier     Tier            `json:"tier"`
	Status   ReadinessStatus `json:"status"`
	Progress float64         `json:"progress"` // 0–1 fraction toward unlock
}

// #endregion

// #region intervention

// Intervention tags recommended to the response layer.
const (
	InterventionSupportive        = "supportive"
	InterventionReframing         = "reframing"
	InterventionGentleChallenge   = "gentle_challenge"
	InterventionPatternReflection = "pattern_reflection"
	InterventionDepthExploration  = "depth_exploration"
	InterventionIntegration       = "integration"
)

// #endregion
