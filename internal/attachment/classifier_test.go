package attachment

import (
	"math"
	"testing"
)

func TestAssessNoSignalUnknown(t *testing.T) {
	c := NewClassifier()
	a := c.Assess("u1", "Сегодня было солнечно и тихо на улице")
	if a.PrimaryStyle != StyleUnknown {
		t.Fatalf("expected unknown with no signal, got %s", a.PrimaryStyle)
	}
	if a.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %v", a.Confidence)
	}
}

func TestAssessAnxiousSignal(t *testing.T) {
	c := NewClassifier()
	a := c.Assess("u1", "Я боюсь, что ты уйдешь, мне нужно знать, что ты рядом")
	if a.PrimaryStyle != StyleAnxious {
		t.Fatalf("expected anxious, got %s (%v)", a.PrimaryStyle, a.StyleScores)
	}
	if a.AnxietyDim <= 0 {
		t.Fatalf("expected positive anxiety dim, got %v", a.AnxietyDim)
	}
	if a.AvoidanceDim != 0 {
		t.Fatalf("expected zero avoidance dim, got %v", a.AvoidanceDim)
	}
}

func TestAssessAvoidantSignal(t *testing.T) {
	c := NewClassifier()
	a := c.Assess("u1", "Мне никто не нужен, я не люблю зависеть от людей")
	if a.PrimaryStyle != StyleAvoidant {
		t.Fatalf("expected avoidant, got %s (%v)", a.PrimaryStyle, a.StyleScores)
	}
}

func TestAssessSecureSignalDampsDimensions(t *testing.T) {
	c := NewClassifier()
	a := c.Assess("u1", "Я доверяю близким и могу попросить о помощи, но боюсь, что ты уйдешь")
	// Secure signal (0.7) halves into the anxiety raised by the fear phrase (0.4).
	if a.AnxietyDim >= 0.4 {
		t.Fatalf("secure signal must damp anxiety, got %v", a.AnxietyDim)
	}
	if a.PrimaryStyle != StyleSecure {
		t.Fatalf("expected secure to dominate, got %s (%v)", a.PrimaryStyle, a.StyleScores)
	}
}

func TestAssessScoresSumToOne(t *testing.T) {
	c := NewClassifier()
	texts := []string{
		"Я боюсь остаться один и не могу без нее",
		"Справлюсь сам, держу дистанцию со всеми",
		"Мы поссорились и обсудили это спокойно",
	}
	for _, text := range texts {
		a := c.Assess("u1", text)
		var sum float64
		for _, v := range a.StyleScores {
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("style scores sum %.6f for %q", sum, text)
		}
	}
}

func TestAssessDisorganizedQuadrant(t *testing.T) {
	c := NewClassifier()
	a := c.Assess("u1", "Не бросай меня, но близость меня душит и хочется сбежать")
	if a.PrimaryStyle != StyleDisorganized {
		t.Fatalf("expected disorganized on mixed signal, got %s (%v)", a.PrimaryStyle, a.StyleScores)
	}
}

func TestAssessEMAAcrossHistory(t *testing.T) {
	c := NewClassifier()
	c.Assess("u1", "Я боюсь, что ты уйдешь, не бросай меня, я тебе не надоел?")
	second := c.Assess("u1", "Сегодня было солнечно и тихо на улице")

	// With history the neutral message is smoothed, not reset: the anxious
	// share must remain above the uniform quarter.
	if second.StyleScores[StyleAnxious] <= 0.25 {
		t.Fatalf("expected smoothed anxious share above 0.25, got %v", second.StyleScores)
	}
	if second.PrimaryStyle == StyleUnknown {
		t.Fatal("style must not reset to unknown once history exists")
	}
}

func TestAssessRepeatConvergesToRaw(t *testing.T) {
	const text = "Я боюсь, что ты уйдешь, мне нужно знать, что ты рядом"
	raw := NewClassifier().Assess("raw", text)

	// Start from the opposite quadrant, then feed the identical message.
	c := NewClassifier()
	c.Assess("u1", "Мне никто не нужен, я не люблю зависеть от людей")

	first := c.Assess("u1", text)
	var last Assessment
	for i := 0; i < 19; i++ {
		last = c.Assess("u1", text)
	}

	gapFirst := math.Abs(first.StyleScores[StyleAnxious] - raw.StyleScores[StyleAnxious])
	gapLast := math.Abs(last.StyleScores[StyleAnxious] - raw.StyleScores[StyleAnxious])
	if gapLast >= gapFirst {
		t.Fatalf("repeats must shrink the gap to raw: %.4f -> %.4f", gapFirst, gapLast)
	}
	for _, s := range []Style{StyleSecure, StyleAnxious, StyleAvoidant, StyleDisorganized} {
		if math.Abs(last.StyleScores[s]-raw.StyleScores[s]) > 0.01 {
			t.Errorf("%s did not converge: smoothed %.4f, raw %.4f", s, last.StyleScores[s], raw.StyleScores[s])
		}
	}
	if last.PrimaryStyle != raw.PrimaryStyle {
		t.Fatalf("converged primary %s, raw %s", last.PrimaryStyle, raw.PrimaryStyle)
	}
}

func TestCurrentUnseenUser(t *testing.T) {
	c := NewClassifier()
	style, conf := c.Current("nobody")
	if style != StyleUnknown || conf != 0 {
		t.Fatalf("expected (unknown, 0), got (%s, %v)", style, conf)
	}
}

func TestHistoryCap(t *testing.T) {
	c := NewClassifier()
	for i := 0; i < historyCap+10; i++ {
		c.Assess("u1", "Справлюсь сам, мне никто не нужен")
	}
	if got := len(c.History("u1")); got != historyCap {
		t.Fatalf("expected history capped at %d, got %d", historyCap, got)
	}
}

func TestRestore(t *testing.T) {
	c := NewClassifier()
	c.Restore("u1", []Assessment{{
		PrimaryStyle: StyleAvoidant,
		Confidence:   0.6,
		StyleScores: map[Style]float64{
			StyleSecure: 0.1, StyleAnxious: 0.1, StyleAvoidant: 0.6, StyleDisorganized: 0.2,
		},
	}})
	style, conf := c.Current("u1")
	if style != StyleAvoidant || conf != 0.6 {
		t.Fatalf("expected restored (avoidant, 0.6), got (%s, %v)", style, conf)
	}
}

func TestNormalizeZeroesNegatives(t *testing.T) {
	scores := map[Style]float64{
		StyleSecure: -0.5, StyleAnxious: 0.5, StyleAvoidant: 0.5, StyleDisorganized: 0,
	}
	normalize(scores)
	if scores[StyleSecure] != 0 {
		t.Fatalf("negative score must clamp to zero, got %v", scores[StyleSecure])
	}
	if scores[StyleAnxious] != 0.5 {
		t.Fatalf("expected renormalized 0.5, got %v", scores[StyleAnxious])
	}
}
