package detect

// #region imports
import (
	"sort"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region catalog

// beliefInfo tags a belief category with its owner domain, emotional valence
// in [-1, 1], and the schema label it maps to.
type beliefInfo struct {
	Domain      BeliefDomain
	Valence     float64
	Schema      string
	Explanation string
}

var beliefCatalog = []indicator.Category{
	{
		Name: "self_worthlessness",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"я ничего не стою", "я никому не нужен", "я никому не нужна",
				"i'm worthless", "nobody needs me", "я пустое место",
			}},
			{Weight: 0.4, Patterns: []string{
				"не заслуживаю любви", "don't deserve love", "не заслуживаю хорошего",
			}},
		},
	},
	{
		Name: "self_incompetence",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"у меня никогда не получается", "я ни на что не способен",
				"i can't do anything right", "я ни на что не способна",
				"i always mess everything up",
			}},
			{Weight: 0.4, Patterns: []string{
				"все делаю не так", "не гожусь для этого", "not cut out for",
			}},
		},
	},
	{
		Name: "self_unlovability",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"меня невозможно любить", "никто меня не полюбит",
				"i'm unlovable", "no one could love me",
			}},
			{Weight: 0.4, Patterns: []string{
				"со мной что-то не так", "something is wrong with me",
			}},
		},
	},
	{
		Name: "self_strength",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"я справлюсь с этим", "я уже проходил через", "я уже проходила через",
				"i can handle this", "i've survived worse",
			}},
			{Weight: 0.4, Patterns: []string{
				"я сильнее, чем думал", "я горжусь собой", "proud of myself",
			}},
		},
	},
	{
		Name: "others_untrustworthy",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"людям нельзя доверять", "все предают", "people can't be trusted",
				"everyone betrays", "все используют друг друга",
			}},
			{Weight: 0.4, Patterns: []string{
				"рано или поздно обманут", "sooner or later they lie",
			}},
		},
	},
	{
		Name: "others_abandoning",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"все меня бросают", "в итоге все уходят", "everyone leaves me",
				"everyone abandons", "останусь один в итоге", "останусь одна в итоге",
			}},
			{Weight: 0.4, Patterns: []string{
				"никто не остается", "people always leave",
			}},
		},
	},
	{
		Name: "others_judging",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"все меня осуждают", "люди только и ждут моей ошибки",
				"everyone judges me", "waiting for me to fail",
			}},
			{Weight: 0.4, Patterns: []string{
				"надо всем нравиться", "have to please everyone",
			}},
		},
	},
	{
		Name: "world_dangerous",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"мир опасен", "нигде не безопасно", "the world is dangerous",
				"nowhere is safe", "в любой момент может случиться",
			}},
			{Weight: 0.4, Patterns: []string{
				"нельзя расслабляться", "can't let my guard down",
			}},
		},
	},
	{
		Name: "world_unfair",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"жизнь несправедлива", "мир против меня", "life is unfair",
				"the world is against me", "мне никогда не везет",
			}},
			{Weight: 0.4, Patterns: []string{
				"у других все проще", "everything is easier for others",
			}},
		},
	},
	{
		Name: "world_meaningful",
		Groups: []indicator.Group{
			{Weight: 0.5, Patterns: []string{
				"все происходит не зря", "в этом есть смысл", "things happen for a reason",
				"это меня чему-то учит", "this is teaching me",
			}},
			{Weight: 0.4, Patterns: []string{
				"трудности делают сильнее", "hard times build",
			}},
		},
	},
}

var beliefInfos = map[string]beliefInfo{
	"self_worthlessness": {
		Domain: DomainSelf, Valence: -0.9, Schema: "defectiveness",
		Explanation: "A core sense of being without value.",
	},
	"self_incompetence": {
		Domain: DomainSelf, Valence: -0.8, Schema: "failure",
		Explanation: "A core expectation of failing at whatever is attempted.",
	},
	"self_unlovability": {
		Domain: DomainSelf, Valence: -0.85, Schema: "emotional_deprivation",
		Explanation: "A core belief that one cannot be loved as they are.",
	},
	"self_strength": {
		Domain: DomainSelf, Valence: 0.8, Schema: "competence",
		Explanation: "A resourced belief in one's own resilience.",
	},
	"others_untrustworthy": {
		Domain: DomainOthers, Valence: -0.7, Schema: "mistrust_abuse",
		Explanation: "An expectation that others will deceive or exploit.",
	},
	"others_abandoning": {
		Domain: DomainOthers, Valence: -0.8, Schema: "abandonment",
		Explanation: "An expectation that close people will inevitably leave.",
	},
	"others_judging": {
		Domain: DomainOthers, Valence: -0.6, Schema: "approval_seeking",
		Explanation: "A belief that acceptance depends on constant approval.",
	},
	"world_dangerous": {
		Domain: DomainWorld, Valence: -0.75, Schema: "vulnerability",
		Explanation: "A belief that catastrophe can strike at any moment.",
	},
	"world_unfair": {
		Domain: DomainWorld, Valence: -0.6, Schema: "punitiveness",
		Explanation: "A belief that outcomes are rigged against oneself.",
	},
	"world_meaningful": {
		Domain: DomainWorld, Valence: 0.7, Schema: "meaning",
		Explanation: "A resourced belief that experience carries meaning.",
	},
}

// #endregion

// #region detector

// BeliefExtractor surfaces core beliefs about self, others, and the world.
// Results are ranked by |valence| x confidence so the most charged beliefs
// come first.
type BeliefExtractor struct {
	clf *indicator.Classifier
}

// NewBeliefExtractor builds the extractor over the compiled-in catalog.
func NewBeliefExtractor() *BeliefExtractor {
	return &BeliefExtractor{
		clf: indicator.New(beliefCatalog, indicator.Config{
			Base:      0.35,
			Increment: 0.15,
			Cap:       0.95,
			Threshold: 0.35,
			MinLen:    15,
		}),
	}
}

// Detect returns belief findings ranked by |valence| x confidence.
func (b *BeliefExtractor) Detect(text string) []Finding {
	scores := b.clf.Detect(text)
	findings := make([]Finding, 0, len(scores))
	for _, s := range scores {
		info := beliefInfos[s.Category]
		findings = append(findings, Finding{
			Category:    s.Category,
			Confidence:  s.Confidence,
			Evidence:    s.Evidence,
			Explanation: info.Explanation,
			Domain:      info.Domain,
			Valence:     info.Valence,
			Schema:      info.Schema,
		})
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return charge(findings[i]) > charge(findings[j])
	})
	return findings
}

// DetectWithHistory additionally flags categories that also appeared in the
// caller-supplied prior findings for the same user.
func (b *BeliefExtractor) DetectWithHistory(text string, prior []Finding) []Finding {
	findings := b.Detect(text)
	if len(prior) == 0 {
		return findings
	}
	seen := make(map[string]bool, len(prior))
	for _, p := range prior {
		seen[p.Category] = true
	}
	for i := range findings {
		if seen[findings[i].Category] {
			findings[i].Recurring = true
		}
	}
	return findings
}

func charge(f Finding) float64 {
	v := f.Valence
	if v < 0 {
		v = -v
	}
	return v * f.Confidence
}

// #endregion
