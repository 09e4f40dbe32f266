package replay

// #region imports
import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/psycore/internal/eval"
	"github.com/danielpatrickdp/psycore/internal/session"
)

// #endregion

// #region types

// TurnResult captures the outcome of replaying one message.
type TurnResult struct {
	UserID       string `json:"user_id"`
	Turn         int    `json:"turn"`
	MaxDepth     string `json:"max_depth"`
	Intervention string `json:"intervention"`
	Alliance     float64 `json:"alliance"`

	// Mismatches lists failed expectations; Invariants lists eval failures.
	Mismatches []string `json:"mismatches,omitempty"`
	Invariants []string `json:"invariants,omitempty"`
}

// Summary aggregates a replay run.
type Summary struct {
	Description string       `json:"description"`
	Users       int          `json:"users"`
	Turns       int          `json:"turns"`
	Failures    int          `json:"failures"`
	Results     []TurnResult `json:"results"`
}

// Passed reports whether every expectation and invariant held.
func (s Summary) Passed() bool {
	return s.Failures == 0
}

// #endregion

// #region replay

// Replay runs the fixture through the engine. Users run in parallel —
// the engine serializes same-user calls itself — while each user's own
// messages stay strictly ordered.
func Replay(engine *session.Engine, fixture Fixture) Summary {
	harness := eval.NewHarness()

	var mu sync.Mutex
	summary := Summary{Description: fixture.Description, Users: len(fixture.Users)}

	var g errgroup.Group
	for _, user := range fixture.Users {
		user := user
		g.Go(func() error {
			for i, msg := range user.Messages {
				snap := engine.Process(user.UserID, msg.Text, msg.Context)
				res := TurnResult{
					UserID:       user.UserID,
					Turn:         i,
					MaxDepth:     string(snap.MaxDepth),
					Intervention: snap.Intervention,
					Alliance:     snap.AllianceLevel,
				}

				if msg.ExpectedMaxDepth != "" && msg.ExpectedMaxDepth != res.MaxDepth {
					res.Mismatches = append(res.Mismatches,
						fmt.Sprintf("max_depth: want %s, got %s", msg.ExpectedMaxDepth, res.MaxDepth))
				}
				if msg.ExpectedIntervention != "" && msg.ExpectedIntervention != res.Intervention {
					res.Mismatches = append(res.Mismatches,
						fmt.Sprintf("intervention: want %s, got %s", msg.ExpectedIntervention, res.Intervention))
				}
				if check := harness.Run(snap); !check.Passed {
					res.Invariants = append(res.Invariants, check.FailReasons...)
				}

				mu.Lock()
				summary.Turns++
				if len(res.Mismatches) > 0 || len(res.Invariants) > 0 {
					summary.Failures++
				}
				summary.Results = append(summary.Results, res)
				mu.Unlock()
			}
			return nil
		})
	}
	// Workers only record results; no error path.
	_ = g.Wait()
	return summary
}

// #endregion
