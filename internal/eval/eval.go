// Package eval runs lightweight post-pipeline validation on a snapshot:
// every declared bound and cap is checked after each processed message.
// Replay uses it per turn; tests use it as a property oracle.
package eval

// #region imports
import (
	"fmt"

	"github.com/danielpatrickdp/psycore/internal/detect"
	"github.com/danielpatrickdp/psycore/internal/session"
)

// #endregion

// #region types

// Metric is one named check with its value and pass flag.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// Result is the outcome of validating one snapshot.
type Result struct {
	Passed      bool     `json:"passed"`
	Metrics     []Metric `json:"metrics"`
	FailReasons []string `json:"fail_reasons,omitempty"`
}

// Harness validates snapshots against the core's declared invariants.
type Harness struct{}

// NewHarness creates a harness.
func NewHarness() *Harness {
	return &Harness{}
}

// #endregion

// #region run

// Run checks all bounds on one snapshot.
func (h *Harness) Run(snap session.Snapshot) Result {
	r := Result{Passed: true}

	h.checkFindings(&r, "distortions", snap.Distortions)
	h.checkFindings(&r, "defenses", snap.Defenses)
	h.checkFindings(&r, "beliefs", snap.Beliefs)
	h.checkFindings(&r, "blind_spots", snap.BlindSpots)
	h.checkFindings(&r, "breakthroughs", snap.Breakthroughs)

	h.check01(&r, "alliance_overall", snap.Alliance.Overall)
	h.check01(&r, "alliance_bond", snap.Alliance.Bond)
	h.check01(&r, "alliance_task", snap.Alliance.Task)
	h.check01(&r, "alliance_goal", snap.Alliance.Goal)
	h.check01(&r, "alliance_engagement", snap.Alliance.Engagement)
	h.check01(&r, "alliance_disclosure", snap.Alliance.DisclosureDepth)
	h.check01(&r, "alliance_level", snap.AllianceLevel)

	h.checkSigned(&r, "attachment_anxiety", snap.Attachment.AnxietyDim)
	h.checkSigned(&r, "attachment_avoidance", snap.Attachment.AvoidanceDim)
	h.checkStyleScores(&r, snap)

	for _, p := range snap.GrowthProgress {
		h.check01(&r, "growth_"+p.AreaID, p.Progress)
	}
	for _, p := range snap.MetaPatterns {
		h.check01(&r, "pattern_"+p.PatternID+"_strength", p.Strength)
		h.checkEvidenceCap(&r, "pattern_"+p.PatternID, len(p.Evidence))
	}

	return r
}

// #endregion

// #region checks

func (h *Harness) checkFindings(r *Result, name string, findings []detect.Finding) {
	for _, f := range findings {
		h.check01(r, fmt.Sprintf("%s_%s_confidence", name, f.Category), f.Confidence)
		if f.Intensity != 0 {
			h.check01(r, fmt.Sprintf("%s_%s_intensity", name, f.Category), f.Intensity)
		}
	}
}

func (h *Harness) check01(r *Result, name string, v float64) {
	pass := v >= 0 && v <= 1
	h.record(r, name, v, pass, "outside [0,1]")
}

func (h *Harness) checkSigned(r *Result, name string, v float64) {
	pass := v >= -1 && v <= 1
	h.record(r, name, v, pass, "outside [-1,1]")
}

// checkStyleScores verifies the quadrant distribution sums to 1 within
// floating-point tolerance (or is entirely absent).
func (h *Harness) checkStyleScores(r *Result, snap session.Snapshot) {
	if len(snap.Attachment.StyleScores) == 0 {
		return
	}
	var sum float64
	for _, v := range snap.Attachment.StyleScores {
		sum += v
	}
	pass := sum > 0.999 && sum < 1.001
	h.record(r, "attachment_scores_sum", sum, pass, "does not sum to 1")
}

func (h *Harness) checkEvidenceCap(r *Result, name string, n int) {
	pass := n <= 5
	h.record(r, name+"_evidence", float64(n), pass, "evidence over cap")
}

func (h *Harness) record(r *Result, name string, v float64, pass bool, why string) {
	r.Metrics = append(r.Metrics, Metric{Name: name, Value: v, Pass: pass})
	if !pass {
		r.Passed = false
		r.FailReasons = append(r.FailReasons, fmt.Sprintf("%s: %.4f %s", name, v, why))
	}
}

// #endregion
