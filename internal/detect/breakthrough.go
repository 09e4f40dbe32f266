package detect

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region catalog

var breakthroughCatalog = []indicator.Category{
	{
		Name: "insight",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"я только что понял", "я только что поняла", "до меня дошло",
				"i just realized", "it just hit me", "теперь я вижу",
			}},
			{Weight: 0.3, Patterns: []string{
				"оказывается, я все это время", "so that's why i",
				"вот почему я всегда",
			}},
		},
	},
	{
		Name: "emotional_release",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"я расплакался", "я расплакалась", "слезы сами",
				"i burst into tears", "finally let myself cry", "стало легче дышать",
			}},
			{Weight: 0.3, Patterns: []string{
				"как камень с души", "weight off my chest", "отпустило",
			}},
		},
	},
	{
		Name: "belief_shift",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"может, я не такой уж", "может, я не такая уж", "возможно, я ошибался",
				"maybe i was wrong about myself", "начинаю думать, что я",
			}},
			{Weight: 0.3, Patterns: []string{
				"раньше я считал, а теперь", "i used to believe, but now",
			}},
		},
	},
	{
		Name: "defense_lowering",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"никогда никому это не рассказывал", "никогда никому это не рассказывала",
				"i've never told anyone this", "впервые говорю об этом вслух",
			}},
			{Weight: 0.3, Patterns: []string{
				"мне страшно это говорить, но", "it's scary to say, but",
			}},
		},
	},
	{
		Name: "integration",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"теперь это складывается", "все эти случаи связаны",
				"it all fits together now", "это часть одной картины",
			}},
			{Weight: 0.3, Patterns: []string{
				"я принимаю эту часть себя", "i accept that part of me",
			}},
		},
	},
}

// breakthroughTemplates carries the fixed supportive response per category,
// handed to the response layer when the moment is surfaced.
var breakthroughTemplates = map[string]string{
	"insight":           "That sounds like an important realization. Stay with it for a moment — what does it change for you?",
	"emotional_release": "Letting that out took courage. There is no rush; take the time you need.",
	"belief_shift":      "You just questioned something you've held about yourself for a long time. That is significant.",
	"defense_lowering":  "Thank you for trusting this space with something you've never said aloud. That is a big step.",
	"integration":       "You're connecting pieces that used to feel separate. That's how the picture becomes whole.",
}

// #endregion

// #region detector

// BreakthroughDetector recognizes moments of insight, release, and shift
// that deserve reinforcement rather than analysis.
type BreakthroughDetector struct {
	clf *indicator.Classifier
}

// NewBreakthroughDetector builds the detector over the compiled-in catalog.
func NewBreakthroughDetector() *BreakthroughDetector {
	return &BreakthroughDetector{
		clf: indicator.New(breakthroughCatalog, indicator.Config{
			Base:      0.30,
			Increment: 0.15,
			Cap:       0.99,
			Threshold: 0.30,
			MinLen:    20,
		}),
	}
}

// Detect returns breakthrough findings. Intensity grows with both pattern
// weight and message length: min(1, score + length bonus). Confidence is
// min(1, score x 1.5).
func (d *BreakthroughDetector) Detect(text string) []Finding {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < d.clf.Config().MinLen {
		return nil
	}
	lower := strings.ToLower(trimmed)
	bonus := lengthBonus(indicator.WordCount(trimmed))

	var findings []Finding
	for _, cat := range d.clf.Categories() {
		score, evidence := rawScore(cat, trimmed, lower)
		if score <= d.clf.Config().Threshold {
			continue
		}
		intensity := score + bonus
		if intensity > 1 {
			intensity = 1
		}
		confidence := score * 1.5
		if confidence > 1 {
			confidence = 1
		}
		findings = append(findings, Finding{
			Category:   cat.Name,
			Confidence: confidence,
			Evidence:   evidence,
			Intensity:  intensity,
			Response:   breakthroughTemplates[cat.Name],
		})
	}
	return findings
}

// MostIntense returns the supportive template of the single most intense
// finding, or "" when the list is empty.
func (d *BreakthroughDetector) MostIntense(findings []Finding) string {
	best := -1.0
	tmpl := ""
	for _, f := range findings {
		if f.Intensity > best {
			best = f.Intensity
			tmpl = f.Response
		}
	}
	return tmpl
}

// rawScore sums matched group weights for one category, first match per
// group only, and returns the evidence span of the earliest match.
func rawScore(cat indicator.Category, original, lower string) (float64, string) {
	var score float64
	firstIdx := -1
	firstLen := 0
	for _, g := range cat.Groups {
		for _, p := range g.Patterns {
			idx := strings.Index(lower, strings.ToLower(p))
			if idx < 0 {
				continue
			}
			score += g.Weight
			if firstIdx < 0 || idx < firstIdx {
				firstIdx = idx
				firstLen = len(p)
			}
			break
		}
	}
	if firstIdx < 0 {
		return 0, ""
	}
	return score, indicator.EvidenceSpan(original, firstIdx, firstLen)
}

// lengthBonus rewards longer, more elaborated disclosures.
func lengthBonus(words int) float64 {
	switch {
	case words > 60:
		return 0.2
	case words > 30:
		return 0.1
	default:
		return 0
	}
}

// #endregion
