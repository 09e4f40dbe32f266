package detect

// #region imports
import (
	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region catalog

var defenseCatalog = []indicator.Category{
	{
		Name: "denial",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"у меня нет проблем", "все нормально, правда", "i don't have a problem",
				"everything is fine, really", "это вообще не про меня",
			}},
			{Weight: 0.3, Patterns: []string{
				"не понимаю, о чем все говорят", "ничего страшного не происходит",
				"nothing is wrong",
			}},
		},
	},
	{
		Name: "projection",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"это он злится, а не я", "она меня ненавидит", "все вокруг агрессивные",
				"everyone around me is angry", "they're the jealous ones",
			}},
			{Weight: 0.3, Patterns: []string{
				"люди всегда хотят меня задеть", "все осуждают меня",
			}},
		},
	},
	{
		Name: "splitting",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"он идеальный", "она ужасный человек", "perfect person",
				"absolutely horrible person", "или прекрасный, или кошмарный",
			}},
			{Weight: 0.3, Patterns: []string{
				"раньше был лучшим, теперь худший", "used to be amazing, now awful",
			}},
		},
	},
	{
		Name: "regression",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"хочу, чтобы кто-то все решил за меня", "не могу сам", "не справлюсь без",
				"want someone to fix everything", "can't do anything alone",
			}},
			{Weight: 0.3, Patterns: []string{
				"как маленький ребенок", "like a small child",
			}},
		},
	},
	{
		Name: "repression",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"не помню ничего из того периода", "стараюсь не вспоминать",
				"i don't remember that time", "blocked it out",
			}},
			{Weight: 0.3, Patterns: []string{
				"какая разница, что было раньше", "прошлое не имеет значения",
			}},
		},
	},
	{
		Name: "displacement",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"сорвался на", "сорвалась на", "накричал на кота", "выместил на",
				"took it out on", "snapped at",
			}},
			{Weight: 0.3, Patterns: []string{
				"злюсь на всех подряд", "angry at everyone lately",
			}},
		},
	},
	{
		Name: "reaction_formation",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"я его обожаю, правда-правда", "мне совсем не обидно",
				"i'm not hurt at all", "totally fine with it, honestly",
			}},
			{Weight: 0.3, Patterns: []string{
				"наоборот, я очень рад за них", "couldn't be happier for them",
			}},
		},
	},
	{
		Name: "rationalization",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"на самом деле это к лучшему", "все равно не хотел",
				"it's for the best anyway", "didn't want it anyway",
			}},
			{Weight: 0.3, Patterns: []string{
				"есть логичное объяснение", "there's a logical explanation",
			}},
		},
	},
	{
		Name: "intellectualization",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"если рассуждать объективно", "с точки зрения психологии",
				"objectively speaking", "from a theoretical standpoint",
			}},
			{Weight: 0.3, Patterns: []string{
				"читал исследование об этом", "статистически это нормально",
			}},
		},
	},
	{
		Name: "passive_aggression",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"делай как хочешь", "мне уже все равно", "fine, whatever",
				"do whatever you want", "забудь, неважно",
			}},
			{Weight: 0.3, Patterns: []string{
				"я же не жалуюсь", "i'm not complaining, am i",
			}},
		},
	},
	{
		Name: "humor",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"смешно, конечно, но", "если не смеяться, то плакать",
				"funny story actually", "i joke about it but",
			}},
			{Weight: 0.3, Patterns: []string{
				"у меня все как в анекдоте", "my life is a sitcom",
			}},
		},
	},
	{
		Name: "sublimation",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"ушел с головой в работу", "выплескиваю это в спорте",
				"pour it into my work", "channel it into",
			}},
			{Weight: 0.3, Patterns: []string{
				"пишу об этом стихи", "рисую, когда тяжело",
			}},
		},
	},
}

// defenseMaturity tags each mechanism on the primitive/neurotic/mature scale.
var defenseMaturity = map[string]Maturity{
	"denial":              MaturityPrimitive,
	"projection":          MaturityPrimitive,
	"splitting":           MaturityPrimitive,
	"regression":          MaturityPrimitive,
	"repression":          MaturityNeurotic,
	"displacement":        MaturityNeurotic,
	"reaction_formation":  MaturityNeurotic,
	"rationalization":     MaturityNeurotic,
	"intellectualization": MaturityNeurotic,
	"passive_aggression":  MaturityNeurotic,
	"humor":               MaturityMature,
	"sublimation":         MaturityMature,
}

var defenseExplanations = map[string]string{
	"denial":              "Refusing to acknowledge an uncomfortable reality.",
	"projection":          "Attributing one's own feelings to other people.",
	"splitting":           "Seeing people as entirely good or entirely bad.",
	"regression":          "Retreating to an earlier, more dependent mode of coping.",
	"repression":          "Keeping painful material out of awareness.",
	"displacement":        "Redirecting feelings toward a safer target.",
	"reaction_formation":  "Expressing the opposite of the unacceptable feeling.",
	"rationalization":     "Explaining away a painful outcome with tidy logic.",
	"intellectualization": "Keeping emotion at bay through abstract analysis.",
	"passive_aggression":  "Expressing hostility indirectly through withdrawal.",
	"humor":               "Discharging tension through jokes about the painful topic.",
	"sublimation":         "Channeling the conflict into productive activity.",
}

// #endregion

// #region detector

// DefenseDetector finds active defense mechanisms in user text. It only
// tags maturity; whether a finding of a given maturity may be surfaced is
// the gating package's decision.
type DefenseDetector struct {
	clf *indicator.Classifier
}

// NewDefenseDetector builds the detector over the compiled-in catalog.
func NewDefenseDetector() *DefenseDetector {
	return &DefenseDetector{
		clf: indicator.New(defenseCatalog, indicator.Config{
			Base:      0.30,
			Increment: 0.15,
			Cap:       0.90,
			Threshold: 0.30,
			MinLen:    10,
		}),
	}
}

// Detect returns defense findings sorted by descending confidence.
func (d *DefenseDetector) Detect(text string) []Finding {
	scores := d.clf.Detect(text)
	findings := make([]Finding, 0, len(scores))
	for _, s := range scores {
		findings = append(findings, Finding{
			Category:    s.Category,
			Confidence:  s.Confidence,
			Evidence:    s.Evidence,
			Explanation: defenseExplanations[s.Category],
			Maturity:    defenseMaturity[s.Category],
		})
	}
	return findings
}

// #endregion
