package detect

// #region imports
import (
	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region catalog

var blindSpotCatalog = []indicator.Category{
	{
		Name: "avoidance",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"не хочу об этом говорить", "давай сменим тему", "не будем про это",
				"i don't want to talk about it", "let's change the subject",
			}},
			{Weight: 0.4, Patterns: []string{
				"это неважно сейчас", "потом как-нибудь", "some other time",
			}},
		},
	},
	{
		Name: "contradiction",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"мне все равно, но", "я не злюсь, просто", "i don't care, but",
				"i'm not angry, it's just",
			}},
			{Weight: 0.4, Patterns: []string{
				"все хорошо, хотя", "it's fine, although", "не обиделся, но все же",
			}},
		},
	},
	{
		Name: "rationalization",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"просто так сложилось", "у всех так бывает", "it just happened that way",
				"everyone goes through this", "это нормально для моего возраста",
			}},
			{Weight: 0.4, Patterns: []string{
				"есть причины, почему", "there are reasons why",
			}},
		},
	},
	{
		Name: "deflection",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"а вот у моего друга", "кстати, о другом", "anyway, speaking of",
				"but enough about me", "лучше расскажи про",
			}},
			{Weight: 0.4, Patterns: []string{
				"это не обо мне", "that's not about me", "при чем тут я",
			}},
		},
	},
}

var blindSpotExplanations = map[string]string{
	"avoidance":       "The topic is consistently pushed away before it opens.",
	"contradiction":   "The stated feeling and the phrasing pull in opposite directions.",
	"rationalization": "A pattern is normalized before it can be examined.",
	"deflection":      "Attention is steered away whenever the topic gets close.",
}

// #endregion

// #region detector

// BlindSpotDetector finds places where the user steers around material they
// are not yet looking at directly.
type BlindSpotDetector struct {
	clf *indicator.Classifier
}

// NewBlindSpotDetector builds the detector over the compiled-in catalog.
func NewBlindSpotDetector() *BlindSpotDetector {
	return &BlindSpotDetector{
		clf: indicator.New(blindSpotCatalog, indicator.Config{
			Base:      0.30,
			Increment: 0.20,
			Cap:       0.90,
			Threshold: 0.40,
			MinLen:    15,
		}),
	}
}

// Detect returns blind-spot findings sorted by descending confidence.
func (d *BlindSpotDetector) Detect(text string) []Finding {
	scores := d.clf.Detect(text)
	findings := make([]Finding, 0, len(scores))
	for _, s := range scores {
		findings = append(findings, Finding{
			Category:    s.Category,
			Confidence:  s.Confidence,
			Evidence:    s.Evidence,
			Explanation: blindSpotExplanations[s.Category],
			SpotType:    s.Category,
		})
	}
	return findings
}

// #endregion
