package eval

import (
	"testing"

	"github.com/danielpatrickdp/psycore/internal/attachment"
	"github.com/danielpatrickdp/psycore/internal/detect"
	"github.com/danielpatrickdp/psycore/internal/metapattern"
	"github.com/danielpatrickdp/psycore/internal/session"
)

func TestRunCleanSnapshotPasses(t *testing.T) {
	h := NewHarness()
	engine := session.NewEngine(session.Config{})

	snap := engine.Process("u1", "Я никогда ничего не добьюсь, я полный неудачник, мне одиноко", nil)
	result := h.Run(snap)
	if !result.Passed {
		t.Fatalf("live snapshot must pass: %v", result.FailReasons)
	}
	if len(result.Metrics) == 0 {
		t.Fatal("expected metrics to be recorded")
	}
}

func TestRunFlagsOutOfRangeConfidence(t *testing.T) {
	h := NewHarness()
	snap := session.Snapshot{
		Distortions: []detect.Finding{{Category: "bad", Confidence: 1.4}},
	}
	result := h.Run(snap)
	if result.Passed {
		t.Fatal("out-of-range confidence must fail")
	}
	if len(result.FailReasons) == 0 {
		t.Fatal("expected a fail reason")
	}
}

func TestRunFlagsBrokenStyleScores(t *testing.T) {
	h := NewHarness()
	snap := session.Snapshot{
		Attachment: attachment.Assessment{
			StyleScores: map[attachment.Style]float64{
				attachment.StyleSecure:  0.7,
				attachment.StyleAnxious: 0.7,
			},
		},
	}
	if result := h.Run(snap); result.Passed {
		t.Fatal("style scores summing to 1.4 must fail")
	}
}

func TestRunFlagsEvidenceOverCap(t *testing.T) {
	h := NewHarness()
	snap := session.Snapshot{
		MetaPatterns: []metapattern.Pattern{{
			PatternID: "control",
			Strength:  0.5,
			Evidence:  []string{"a", "b", "c", "d", "e", "f"},
		}},
	}
	if result := h.Run(snap); result.Passed {
		t.Fatal("evidence past the cap must fail")
	}
}

func TestRunFlagsNegativeDimension(t *testing.T) {
	h := NewHarness()
	snap := session.Snapshot{
		Attachment: attachment.Assessment{AnxietyDim: -1.5},
	}
	if result := h.Run(snap); result.Passed {
		t.Fatal("dimension below -1 must fail")
	}
}

func TestRunEmptySnapshotPasses(t *testing.T) {
	h := NewHarness()
	if result := h.Run(session.Snapshot{}); !result.Passed {
		t.Fatalf("zero snapshot must pass: %v", result.FailReasons)
	}
}
