package alliance

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestMeasureUnseenUserDefault(t *testing.T) {
	tr := NewTracker()
	if got := tr.Current("nobody"); got != DefaultAlliance {
		t.Fatalf("expected default %.2f for unseen user, got %.2f", DefaultAlliance, got)
	}
}

func TestMeasurePositiveIndicators(t *testing.T) {
	tr := NewTracker()
	m := tr.Measure("u1", "Спасибо, ты меня понимаешь. Давай попробуем разобраться, я хочу измениться", MessageContext{})

	for _, want := range []string{"gratitude", "feeling_understood", "collaboration", "goal_alignment"} {
		found := false
		for _, ind := range m.TrustIndicators {
			if ind == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing trust indicator %s in %v", want, m.TrustIndicators)
		}
	}
	if len(m.ResistanceIndicators) != 0 {
		t.Fatalf("unexpected resistance: %v", m.ResistanceIndicators)
	}
	if m.Bond <= seedComponent {
		t.Fatalf("bond should rise above the seed, got %.2f", m.Bond)
	}
}

func TestMeasureNegativeIndicators(t *testing.T) {
	tr := NewTracker()
	m := tr.Measure("u1", "Это не помогает, ничего не изменится, отстань от меня", MessageContext{})

	if len(m.ResistanceIndicators) < 3 {
		t.Fatalf("expected dismissal, hopelessness, hostility, got %v", m.ResistanceIndicators)
	}
	if m.Bond >= seedComponent {
		t.Fatalf("bond should fall below the seed, got %.2f", m.Bond)
	}
	if m.Goal >= seedComponent {
		t.Fatalf("goal should fall below the seed, got %.2f", m.Goal)
	}
}

func TestMeasureOverallWeighting(t *testing.T) {
	tr := NewTracker()
	m := tr.Measure("u1", "Сегодня я просто расскажу немного о прошедшем дне и о работе", MessageContext{})
	want := 0.4*m.Bond + 0.3*m.Task + 0.3*m.Goal
	if diff := m.Overall - want; diff < -1e-9 || diff > 1e-9 {
		t.Fatalf("overall %.4f != weighted components %.4f", m.Overall, want)
	}
}

func TestMeasureEMASmoothing(t *testing.T) {
	tr := NewTracker()
	first := tr.Measure("u1", "Спасибо, это помогло! Давай попробуем еще, я хочу измениться и верю, что получится", MessageContext{ResponseTimeSeconds: 30})
	second := tr.Measure("u1", "Отстань, это не помогает, нет смысла", MessageContext{})

	// The drop is damped: the second bond stays well above the raw hostile read.
	raw := tr2Raw(t, "Отстань, это не помогает, нет смысла")
	if second.Bond <= raw.Bond {
		t.Fatalf("EMA should damp the drop: smoothed %.2f, raw %.2f", second.Bond, raw.Bond)
	}
	if second.Bond >= first.Bond {
		t.Fatalf("hostile turn must still lower bond: %.2f -> %.2f", first.Bond, second.Bond)
	}
}

// tr2Raw measures the same text on a fresh tracker, giving the unsmoothed value.
func tr2Raw(t *testing.T, text string) Measurement {
	t.Helper()
	return NewTracker().Measure("raw", text, MessageContext{})
}

func TestMeasureRepeatConvergesToRaw(t *testing.T) {
	const text = "Спасибо, ты меня понимаешь. Давай попробуем разобраться, я хочу измениться"
	raw := tr2Raw(t, text)

	// Start from a divergent point, then feed the identical message.
	tr := NewTracker()
	tr.Measure("u1", "Отстань, это не помогает, нет смысла", MessageContext{})

	first := tr.Measure("u1", text, MessageContext{})
	var last Measurement
	for i := 0; i < 19; i++ {
		last = tr.Measure("u1", text, MessageContext{})
	}

	if gapFirst, gapLast := abs(first.Bond-raw.Bond), abs(last.Bond-raw.Bond); gapLast >= gapFirst {
		t.Fatalf("repeats must shrink the gap to raw: %.4f -> %.4f", gapFirst, gapLast)
	}
	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"bond", last.Bond, raw.Bond},
		{"task", last.Task, raw.Task},
		{"goal", last.Goal, raw.Goal},
		{"overall", last.Overall, raw.Overall},
	} {
		if abs(c.got-c.want) > 0.01 {
			t.Errorf("%s did not converge: smoothed %.4f, raw %.4f", c.name, c.got, c.want)
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestHistoryCapFifty(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < historyCap+20; i++ {
		tr.Measure("u1", fmt.Sprintf("сообщение номер %d о том, как прошел день", i), MessageContext{})
	}
	if got := len(tr.History("u1")); got != historyCap {
		t.Fatalf("expected history capped at %d, got %d", historyCap, got)
	}
}

func TestEngagementBands(t *testing.T) {
	tests := []struct {
		name string
		text string
		mctx MessageContext
		want float64
	}{
		{"tiny", "да", MessageContext{}, 0.3},
		{"short", "сегодня был обычный день ничего", MessageContext{}, 0.5},
		{"medium", strings.Repeat("слово ", 30), MessageContext{}, 0.7},
		{"long", strings.Repeat("слово ", 70), MessageContext{}, 0.8},
		{"fast reply", "сегодня был обычный день ничего", MessageContext{ResponseTimeSeconds: 30}, 0.6},
		{"slow reply", "сегодня был обычный день ничего", MessageContext{ResponseTimeSeconds: 700}, 0.4},
		{"expressive", "неужели?! правда?!", MessageContext{}, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engagementScore(tt.text, tt.mctx)
			if got < tt.want-0.001 || got > tt.want+0.001 {
				t.Fatalf("engagement = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestDisclosureScore(t *testing.T) {
	flat := disclosureScore("погода сегодня хорошая", "погода сегодня хорошая")
	deep := disclosureScore(
		"Я чувствую, что мне больно и страшно, в детстве я боялся этого",
		"я чувствую, что мне больно и страшно, в детстве я боялся этого",
	)
	if deep <= flat {
		t.Fatalf("personal disclosure must score higher: %.2f vs %.2f", deep, flat)
	}
	if deep > 1 || flat < 0 {
		t.Fatalf("scores out of range: %.2f / %.2f", deep, flat)
	}
}

func TestTrendRequiresFourMeasurements(t *testing.T) {
	tr := NewTracker()
	tr.Measure("u1", "спасибо, это помогло мне сегодня", MessageContext{})
	tr.Measure("u1", "спасибо, это помогло мне сегодня", MessageContext{})
	tr.Measure("u1", "спасибо, это помогло мне сегодня", MessageContext{})
	if got := tr.TrendOver("u1", 10); got != TrendStable {
		t.Fatalf("under four measurements trend must be stable, got %s", got)
	}
}

func TestTrendImprovingAndDeclining(t *testing.T) {
	tr := NewTracker()
	seedHistory := func(values []float64) {
		hist := make([]Measurement, len(values))
		for i, v := range values {
			hist[i] = Measurement{Overall: v, Timestamp: time.Now().UTC()}
		}
		tr.Restore("u1", hist)
	}

	seedHistory([]float64{0.3, 0.3, 0.6, 0.6})
	if got := tr.TrendOver("u1", 4); got != TrendImproving {
		t.Fatalf("expected improving, got %s", got)
	}

	seedHistory([]float64{0.6, 0.6, 0.3, 0.3})
	if got := tr.TrendOver("u1", 4); got != TrendDeclining {
		t.Fatalf("expected declining, got %s", got)
	}

	seedHistory([]float64{0.5, 0.5, 0.51, 0.5})
	if got := tr.TrendOver("u1", 4); got != TrendStable {
		t.Fatalf("expected stable within epsilon, got %s", got)
	}
}

func TestShouldDeepen(t *testing.T) {
	tr := NewTracker()

	// Solid and stable.
	hist := make([]Measurement, 6)
	for i := range hist {
		hist[i] = Measurement{Overall: 0.7, Bond: 0.7, Task: 0.7, Goal: 0.7}
	}
	tr.Restore("u1", hist)
	if ok, reason := tr.ShouldDeepen("u1"); !ok {
		t.Fatalf("expected deepen at 0.7 stable: %s", reason)
	}

	// Moderate but improving.
	tr.Restore("u2", []Measurement{
		{Overall: 0.30}, {Overall: 0.32}, {Overall: 0.45}, {Overall: 0.47},
	})
	if ok, reason := tr.ShouldDeepen("u2"); !ok {
		t.Fatalf("expected deepen when improving: %s", reason)
	}

	// Declining always holds.
	tr.Restore("u3", []Measurement{
		{Overall: 0.7}, {Overall: 0.7}, {Overall: 0.5}, {Overall: 0.5},
	})
	if ok, _ := tr.ShouldDeepen("u3"); ok {
		t.Fatal("declining trend must hold depth")
	}

	// Low and flat.
	if ok, _ := tr.ShouldDeepen("unseen"); ok {
		t.Fatal("unseen user must not deepen")
	}
}

func TestRestoreAppliesCap(t *testing.T) {
	tr := NewTracker()
	hist := make([]Measurement, historyCap+30)
	for i := range hist {
		hist[i] = Measurement{Overall: float64(i)}
	}
	tr.Restore("u1", hist)

	got := tr.History("u1")
	if len(got) != historyCap {
		t.Fatalf("expected %d after restore, got %d", historyCap, len(got))
	}
	// The newest entries must survive the trim.
	if got[len(got)-1].Overall != float64(historyCap+29) {
		t.Fatalf("restore kept the wrong end of history: %v", got[len(got)-1].Overall)
	}
}
