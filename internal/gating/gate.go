package gating

// #region imports
import (
	"fmt"

	"github.com/danielpatrickdp/psycore/internal/detect"
)

// #endregion

// #region thresholds

// thresholds orders the tiers by (min_alliance, min_days). The table forms
// a partial order: surface ≤ conscious ≤ edge ≤ {shadow, defense_mechanisms,
// core_beliefs} ≤ {blind_spots, unconscious} ≤ trauma.
var thresholds = map[Tier]Threshold{
	TierSurface:           {MinAlliance: 0.0, MinDays: 0},
	TierConscious:         {MinAlliance: 0.3, MinDays: 3},
	TierEdge:              {MinAlliance: 0.4, MinDays: 7},
	TierShadow:            {MinAlliance: 0.5, MinDays: 14},
	TierDefenseMechanisms: {MinAlliance: 0.5, MinDays: 14},
	TierCoreBeliefs:       {MinAlliance: 0.5, MinDays: 14},
	TierBlindSpots:        {MinAlliance: 0.6, MinDays: 21},
	TierUnconscious:       {MinAlliance: 0.6, MinDays: 21},
	TierTrauma:            {MinAlliance: 0.8, MinDays: 30},
}

// tiersByDepth lists tiers strictest-first for depth scans, and reversed
// for reports.
var tiersByDepth = []Tier{
	TierTrauma, TierUnconscious, TierBlindSpots,
	TierCoreBeliefs, TierDefenseMechanisms, TierShadow,
	TierEdge, TierConscious, TierSurface,
}

// fatigueSensitiveTiers are denied under heavy fatigue even when alliance
// and time thresholds are met.
var fatigueSensitiveTiers = map[Tier]bool{
	TierShadow:      true,
	TierUnconscious: true,
	TierTrauma:      true,
}

const fatigueLimit = 0.7

// Thresholds returns a copy of the tier threshold table.
func Thresholds() map[Tier]Threshold {
	out := make(map[Tier]Threshold, len(thresholds))
	for t, th := range thresholds {
		out[t] = th
	}
	return out
}

// #endregion

// #region gate

// Gate is the stateless depth-gating decision engine. Ratcheting of the
// alliance input (never re-locking an unlocked tier) is the session
// engine's job; the gate judges exactly what it is handed.
type Gate struct{}

// NewGate creates a gate over the built-in threshold table.
func NewGate() *Gate {
	return &Gate{}
}

// ShouldSurface evaluates the veto chain in fixed priority order, first
// match wins:
//
//	1. crisis            → deny, stabilize
//	2. alliance deficit  → deny, build_trust
//	3. time deficit      → deny, surface_work
//	4. high resistance   → deny, build_trust
//	5. fatigue > 0.7 on a fatigue-sensitive tier → deny, stabilize
//	6. otherwise         → allow
func (g *Gate) ShouldSurface(tier Tier, allianceLevel float64, daysSinceStart int, state UserState) Decision {
	th, known := thresholds[tier]
	if !known {
		return Decision{
			Allowed:           false,
			Reason:            fmt.Sprintf("unknown content tier %q", tier),
			AlternativeAction: ActionSurfaceWork,
		}
	}

	// 1. Crisis overrides everything: stabilization first.
	if state.CrisisDetected {
		return Decision{
			Allowed:           false,
			Reason:            "crisis detected: stabilization takes priority over depth work",
			AlternativeAction: ActionStabilize,
		}
	}

	// 2. Alliance threshold.
	if allianceLevel < th.MinAlliance {
		deficit := th.MinAlliance - allianceLevel
		return Decision{
			Allowed:           false,
			Reason:            fmt.Sprintf("alliance %.2f below required %.2f for %s (deficit %.2f)", allianceLevel, th.MinAlliance, tier, deficit),
			AlternativeAction: ActionBuildTrust,
			WaitConditions:    []string{fmt.Sprintf("alliance needs to grow by %.2f", deficit)},
		}
	}

	// 3. Relationship time threshold.
	if daysSinceStart < th.MinDays {
		remaining := th.MinDays - daysSinceStart
		return Decision{
			Allowed:           false,
			Reason:            fmt.Sprintf("day %d of the required %d for %s (%d days remaining)", daysSinceStart, th.MinDays, tier, remaining),
			AlternativeAction: ActionSurfaceWork,
			WaitConditions:    []string{fmt.Sprintf("%d more days of relationship", remaining)},
		}
	}

	// 4. Active resistance: do not push depth against it.
	if state.HighResistance {
		return Decision{
			Allowed:           false,
			Reason:            "high resistance: deepening now would strain the alliance",
			AlternativeAction: ActionBuildTrust,
		}
	}

	// 5. Fatigue guard on the heaviest tiers.
	if state.FatigueLevel > fatigueLimit && fatigueSensitiveTiers[tier] {
		return Decision{
			Allowed:           false,
			Reason:            fmt.Sprintf("fatigue %.2f too high for %s work", state.FatigueLevel, tier),
			AlternativeAction: ActionStabilize,
		}
	}

	// 6. All checks passed.
	return Decision{
		Allowed: true,
		Reason:  fmt.Sprintf("%s unlocked: alliance %.2f ≥ %.2f, day %d ≥ %d", tier, allianceLevel, th.MinAlliance, daysSinceStart, th.MinDays),
	}
}

// #endregion

// #region depth

// MaxAllowedDepth scans tiers strictest-first and returns the deepest tier
// whose both thresholds are satisfied. The surface tier is always reachable.
func (g *Gate) MaxAllowedDepth(allianceLevel float64, daysSinceStart int) Tier {
	for _, tier := range tiersByDepth {
		th := thresholds[tier]
		if allianceLevel >= th.MinAlliance && daysSinceStart >= th.MinDays {
			return tier
		}
	}
	return TierSurface
}

// #endregion

// #region readiness

// ReadinessReport renders per-tier unlock status for display, laxest tier
// first. Progress is the mean of the alliance and time fractions, 1.0 once
// unlocked.
func (g *Gate) ReadinessReport(allianceLevel float64, daysSinceStart int) []Readiness {
	out := make([]Readiness, 0, len(tiersByDepth))
	for i := len(tiersByDepth) - 1; i >= 0; i-- {
		tier := tiersByDepth[i]
		th := thresholds[tier]

		allianceOK := allianceLevel >= th.MinAlliance
		daysOK := daysSinceStart >= th.MinDays

		var status ReadinessStatus
		switch {
		case allianceOK && daysOK:
			status = StatusReady
		case allianceOK:
			status = StatusWaitingTime
		case daysOK:
			status = StatusNeedAlliance
		default:
			status = StatusNotReady
		}

		out = append(out, Readiness{
			Tier:     tier,
			Status:   status,
			Progress: (fraction(allianceLevel, th.MinAlliance) + fraction(float64(daysSinceStart), float64(th.MinDays))) / 2,
		})
	}
	return out
}

func fraction(have, need float64) float64 {
	if need <= 0 {
		return 1
	}
	f := have / need
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	return f
}

// #endregion

// #region intervention

// SuggestInterventionType maps the deepest unlocked tier, and the presence
// of a breakthrough moment, onto a single recommended intervention tag.
// When nothing beyond surface is unlocked the suggestion is supportive.
func (g *Gate) SuggestInterventionType(findings []detect.Finding, allianceLevel float64, daysSinceStart int) string {
	depth := g.MaxAllowedDepth(allianceLevel, daysSinceStart)

	// A live breakthrough beats depth analysis whenever any real tier is
	// open: reinforce the moment instead of digging.
	if depth != TierSurface {
		for _, f := range findings {
			if f.Intensity > 0 {
				return InterventionIntegration
			}
		}
	}

	switch depth {
	case TierTrauma, TierUnconscious, TierBlindSpots:
		return InterventionDepthExploration
	case TierCoreBeliefs, TierDefenseMechanisms, TierShadow:
		return InterventionPatternReflection
	case TierEdge:
		return InterventionGentleChallenge
	case TierConscious:
		return InterventionReframing
	default:
		return InterventionSupportive
	}
}

// #endregion

// #region maturity-filter

// maturityFloor is the minimum alliance required before a defense finding
// of the given maturity may be surfaced. Mature defenses carry no floor.
var maturityFloor = map[detect.Maturity]float64{
	detect.MaturityPrimitive: 0.6,
	detect.MaturityNeurotic:  0.4,
}

// FilterDefenseFindings suppresses defense-mechanism findings whose
// maturity floor exceeds the current alliance. This is the single authority
// for maturity-based suppression; the detector itself only tags maturity.
func FilterDefenseFindings(findings []detect.Finding, allianceLevel float64) []detect.Finding {
	out := make([]detect.Finding, 0, len(findings))
	for _, f := range findings {
		if floor, ok := maturityFloor[f.Maturity]; ok && allianceLevel < floor {
			continue
		}
		out = append(out, f)
	}
	return out
}

// #endregion
