package detect

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

func findCategory(findings []Finding, category string) (Finding, bool) {
	for _, f := range findings {
		if f.Category == category {
			return f, true
		}
	}
	return Finding{}, false
}

func TestDistortionAllOrNothingRussian(t *testing.T) {
	d := NewDistortionDetector()
	findings := d.Detect("Я никогда ничего не добьюсь, я полный неудачник")

	f, ok := findCategory(findings, "all_or_nothing")
	if !ok {
		t.Fatalf("expected all_or_nothing, got %v", findings)
	}
	// Two groups fire: the absolute quantifier and the total-failure phrasing.
	want := 0.30 + 2*0.15
	if f.Confidence < want-0.001 || f.Confidence > want+0.001 {
		t.Fatalf("expected confidence %.2f, got %.2f", want, f.Confidence)
	}
	if f.Reframe == "" || f.Explanation == "" {
		t.Fatalf("expected reframe and explanation, got %+v", f)
	}
	if !strings.Contains(f.Evidence, "никогда") {
		t.Fatalf("evidence should contain the match, got %q", f.Evidence)
	}
}

func TestDistortionCatastrophizingEnglish(t *testing.T) {
	d := NewDistortionDetector()
	findings := d.Detect("This is a disaster, what if everything will fall apart")
	if _, ok := findCategory(findings, "catastrophizing"); !ok {
		t.Fatalf("expected catastrophizing, got %v", findings)
	}
}

func TestDistortionShortTextIgnored(t *testing.T) {
	d := NewDistortionDetector()
	if findings := d.Detect("всегда"); findings != nil {
		t.Fatalf("expected nil for short text, got %v", findings)
	}
}

func TestDistortionNeutralTextClean(t *testing.T) {
	d := NewDistortionDetector()
	findings := d.Detect("Сегодня я гулял в парке и встретил старого друга")
	if len(findings) != 0 {
		t.Fatalf("expected no findings on neutral text, got %v", findings)
	}
}

func TestDistortionEmotionalStateBoost(t *testing.T) {
	d := NewDistortionDetector()
	text := "Мне кажется, это катастрофа и кошмар для меня"

	plain := d.Detect(text)
	boosted := d.DetectWithState(text, "тревога")
	if len(plain) == 0 || len(boosted) == 0 {
		t.Fatalf("expected findings in both runs: %v / %v", plain, boosted)
	}

	diff := boosted[0].Confidence - plain[0].Confidence
	if diff < 0.099 || diff > 0.101 {
		t.Fatalf("expected +0.1 boost, got %+.3f", diff)
	}
}

func TestDistortionBoostRespectsCap(t *testing.T) {
	d := NewDistortionDetector()
	// Four groups across categories; all_or_nothing alone reaches the cap zone.
	text := "Я всегда все порчу, я полный неудачник, все или ничего, это катастрофа"
	findings := d.DetectWithState(text, "отчаяние")
	for _, f := range findings {
		if f.Confidence > 0.90 {
			t.Fatalf("confidence %.2f above cap for %s", f.Confidence, f.Category)
		}
	}
}

func TestDistortionNeutralStateNoBoost(t *testing.T) {
	d := NewDistortionDetector()
	text := "Мне кажется, это катастрофа и кошмар для меня"
	plain := d.Detect(text)
	calm := d.DetectWithState(text, "спокойствие")
	if plain[0].Confidence != calm[0].Confidence {
		t.Fatalf("neutral state must not boost: %.2f vs %.2f",
			plain[0].Confidence, calm[0].Confidence)
	}
}

func TestDistortionCustomCatalog(t *testing.T) {
	cats := []indicator.Category{
		{
			Name: "test_only",
			Groups: []indicator.Group{
				{Weight: 0.5, Patterns: []string{"особый маркер"}},
			},
		},
	}
	d := NewDistortionDetectorWithCatalog(cats)
	findings := d.Detect("в этом тексте есть особый маркер для проверки")
	if len(findings) != 1 || findings[0].Category != "test_only" {
		t.Fatalf("expected test_only from custom catalog, got %v", findings)
	}
	if findings[0].Reframe != "" {
		t.Fatalf("unknown category should have no reframe, got %q", findings[0].Reframe)
	}
}
