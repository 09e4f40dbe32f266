package session

// #region imports
import (
	"github.com/danielpatrickdp/psycore/internal/alliance"
	"github.com/danielpatrickdp/psycore/internal/gating"
)

// #endregion

// #region context

// Context is the caller-owned key/value record accompanying a message.
// Recognized keys: response_time_seconds, emotional_state, crisis_detected,
// high_resistance, fatigue_level. Unknown keys are ignored; missing or
// malformed values default to neutral.
type Context map[string]any

// Recognized context keys.
const (
	KeyResponseTime   = "response_time_seconds"
	KeyEmotionalState = "emotional_state"
	KeyCrisisDetected = "crisis_detected"
	KeyHighResistance = "high_resistance"
	KeyFatigueLevel   = "fatigue_level"
)

// Float reads a numeric value, tolerating the common numeric types JSON
// decoding and callers produce. Anything else reads as 0.
func (c Context) Float(key string) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Bool reads a boolean value; anything else reads as false.
func (c Context) Bool(key string) bool {
	v, _ := c[key].(bool)
	return v
}

// String reads a string value; anything else reads as "".
func (c Context) String(key string) string {
	v, _ := c[key].(string)
	return v
}

// UserState assembles the gating-relevant flags, clamping fatigue to [0, 1].
func (c Context) UserState() gating.UserState {
	fatigue := c.Float(KeyFatigueLevel)
	if fatigue < 0 {
		fatigue = 0
	}
	if fatigue > 1 {
		fatigue = 1
	}
	return gating.UserState{
		CrisisDetected: c.Bool(KeyCrisisDetected),
		HighResistance: c.Bool(KeyHighResistance),
		FatigueLevel:   fatigue,
	}
}

// MessageContext assembles the alliance-relevant signals.
func (c Context) MessageContext() alliance.MessageContext {
	return alliance.MessageContext{
		ResponseTimeSeconds: c.Float(KeyResponseTime),
	}
}

// #endregion
