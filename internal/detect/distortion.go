package detect

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region catalog

// distortionInfo carries the per-category reframe and explanation shown to
// the response layer alongside the raw finding.
type distortionInfo struct {
	Explanation string
	Reframe     string
}

var distortionCatalog = []indicator.Category{
	{
		Name: "all_or_nothing",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"всегда", "никогда", "always", "never",
			}},
			{Weight: 0.4, Patterns: []string{
				"полный неудачник", "полное ничтожество", "total failure",
				"complete failure", "ничего не добьюсь", "все бессмысленно",
			}},
			{Weight: 0.3, Patterns: []string{
				"либо все, либо ничего", "все или ничего", "all or nothing",
				"either perfect or", "если не идеально",
			}},
		},
	},
	{
		Name: "overgeneralization",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"все время так", "каждый раз", "every time", "every single time",
				"вечно со мной", "так всегда происходит",
			}},
			{Weight: 0.4, Patterns: []string{
				"никто никогда", "все люди такие", "nobody ever", "everyone always",
				"ничего никогда не",
			}},
		},
	},
	{
		Name: "catastrophizing",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"катастрофа", "ужасно", "кошмар", "catastrophe", "disaster",
				"terrible", "worst thing",
			}},
			{Weight: 0.4, Patterns: []string{
				"а вдруг", "а что если", "what if", "все рухнет",
				"everything will fall apart", "не переживу",
			}},
			{Weight: 0.3, Patterns: []string{
				"это конец", "все пропало", "it's over", "ruined forever",
			}},
		},
	},
	{
		Name: "mind_reading",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"он думает что я", "она думает что я", "они думают что я",
				"he thinks i", "she thinks i", "they think i",
			}},
			{Weight: 0.4, Patterns: []string{
				"я знаю, что они", "наверняка считает меня", "i know they think",
				"obviously hates me", "точно меня презирает",
			}},
		},
	},
	{
		Name: "fortune_telling",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"ничего не получится", "все закончится плохо", "it will fail",
				"it's going to end badly", "точно провалюсь", "обязательно провалится",
			}},
			{Weight: 0.3, Patterns: []string{
				"нет смысла пытаться", "no point in trying", "заранее знаю",
			}},
		},
	},
	{
		Name: "emotional_reasoning",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"я чувствую, что я", "раз я так чувствую", "i feel like i am",
				"i feel it so it must", "чувствую себя виноватым, значит",
			}},
			{Weight: 0.3, Patterns: []string{
				"ощущение, что все плохо", "feels hopeless so it is",
			}},
		},
	},
	{
		Name: "should_statements",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"я должен", "я должна", "я обязан", "i should", "i must",
				"i have to be", "мне следует",
			}},
			{Weight: 0.3, Patterns: []string{
				"нельзя ошибаться", "не имею права", "shouldn't feel",
				"не должен чувствовать",
			}},
		},
	},
	{
		Name: "labeling",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"я неудачник", "я идиот", "я дурак", "я ничтожество",
				"i'm a loser", "i'm an idiot", "i'm worthless", "я слабак",
			}},
			{Weight: 0.4, Patterns: []string{
				"он эгоист", "она истеричка", "he's a narcissist",
				"she's toxic", "они все лицемеры",
			}},
		},
	},
	{
		Name: "personalization",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"это все из-за меня", "я во всем виноват", "я во всем виновата",
				"it's all my fault", "because of me", "моя вина",
			}},
			{Weight: 0.3, Patterns: []string{
				"если бы не я", "if i had only", "я испортил всем",
			}},
		},
	},
	{
		Name: "mental_filter",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"единственное, что важно", "только плохое", "only the bad",
				"ничего хорошего не было", "nothing good happened",
			}},
			{Weight: 0.3, Patterns: []string{
				"весь день испорчен", "whole day ruined", "одна ошибка все перечеркнула",
			}},
		},
	},
	{
		Name: "discounting_positive",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"это не считается", "мне просто повезло", "doesn't count",
				"just luck", "любой бы справился", "anyone could have",
			}},
			{Weight: 0.3, Patterns: []string{
				"они просто вежливые", "they're just being nice", "это случайность",
			}},
		},
	},
	{
		Name: "blaming",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"это все из-за них", "они виноваты", "it's their fault",
				"because of them", "из-за него все", "из-за нее все",
			}},
			{Weight: 0.3, Patterns: []string{
				"меня заставили", "they made me", "у меня не было выбора из-за",
			}},
		},
	},
	{
		Name: "magnification",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"это огромная проблема", "непоправимо", "huge problem",
				"irreparable", "невыносимо", "unbearable",
			}},
			{Weight: 0.3, Patterns: []string{
				"хуже всех", "worst of all", "самый страшный",
			}},
		},
	},
	{
		Name: "minimization",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"это ерунда", "ничего особенного", "no big deal",
				"it's nothing", "подумаешь", "не стоит внимания",
			}},
			{Weight: 0.3, Patterns: []string{
				"у других хуже", "others have it worse", "я не имею права жаловаться",
			}},
		},
	},
	{
		Name: "comparison",
		Groups: []indicator.Group{
			{Weight: 0.4, Patterns: []string{
				"все лучше меня", "у всех получается", "everyone is better",
				"everyone else can", "почему у других", "why can everyone else",
			}},
			{Weight: 0.3, Patterns: []string{
				"в моем возрасте уже", "by my age", "отстаю от всех",
			}},
		},
	},
}

var distortionInfos = map[string]distortionInfo{
	"all_or_nothing": {
		Explanation: "Thinking in absolute categories with no middle ground.",
		Reframe:     "What would a result between total success and total failure look like here?",
	},
	"overgeneralization": {
		Explanation: "One event generalized into a permanent rule.",
		Reframe:     "Has there been even one time when it went differently?",
	},
	"catastrophizing": {
		Explanation: "Jumping to the worst possible outcome.",
		Reframe:     "What is the most likely outcome, rather than the worst imaginable one?",
	},
	"mind_reading": {
		Explanation: "Assuming knowledge of another person's thoughts.",
		Reframe:     "What evidence do you have about what they actually think?",
	},
	"fortune_telling": {
		Explanation: "Treating a predicted failure as an established fact.",
		Reframe:     "If a friend predicted this about themselves, what would you tell them?",
	},
	"emotional_reasoning": {
		Explanation: "Treating a feeling as proof of a fact.",
		Reframe:     "The feeling is real — but what facts support or contradict the conclusion?",
	},
	"should_statements": {
		Explanation: "Rigid internal rules expressed as must and should.",
		Reframe:     "Who set this rule, and what would happen if it were a preference instead?",
	},
	"labeling": {
		Explanation: "Replacing a specific behavior with a global label.",
		Reframe:     "What did you actually do, as opposed to what you are calling yourself?",
	},
	"personalization": {
		Explanation: "Taking sole responsibility for events outside one's control.",
		Reframe:     "List everything that contributed to this. How much was truly yours?",
	},
	"mental_filter": {
		Explanation: "Filtering out everything except the negative detail.",
		Reframe:     "If the day were a film, what scenes besides that one would be in it?",
	},
	"discounting_positive": {
		Explanation: "Dismissing positive experience as not counting.",
		Reframe:     "If luck explains the successes, what explains the skills behind them?",
	},
	"blaming": {
		Explanation: "Placing all responsibility on others.",
		Reframe:     "What part of this, however small, was within your influence?",
	},
	"magnification": {
		Explanation: "Inflating the importance of a problem.",
		Reframe:     "How much will this matter in a month? In a year?",
	},
	"minimization": {
		Explanation: "Shrinking one's own pain until it seems illegitimate.",
		Reframe:     "If this happened to someone you care about, would you call it nothing?",
	},
	"comparison": {
		Explanation: "Measuring self-worth against curated images of others.",
		Reframe:     "You see their highlight reel and your backstage. Is that a fair comparison?",
	},
}

// #endregion

// #region negative-emotions

// negativeEmotionTerms trigger the secondary +0.1 boost when the caller
// supplies a current emotional state containing one of them.
var negativeEmotionTerms = []string{
	"тревога", "тревожно", "страх", "грусть", "печаль", "злость", "гнев",
	"стыд", "вина", "отчаяние", "безнадежность", "одиночество",
	"anxiety", "anxious", "fear", "sadness", "anger", "shame", "guilt",
	"despair", "hopeless", "lonely",
}

// #endregion

// #region detector

// DistortionDetector finds cognitive distortions in user text.
type DistortionDetector struct {
	clf *indicator.Classifier
}

// NewDistortionDetector builds the detector over the compiled-in catalog.
func NewDistortionDetector() *DistortionDetector {
	return &DistortionDetector{
		clf: indicator.New(distortionCatalog, indicator.Config{
			Base:      0.30,
			Increment: 0.15,
			Cap:       0.90,
			Threshold: 0.30,
			MinLen:    10,
		}),
	}
}

// NewDistortionDetectorWithCatalog builds the detector over an externally
// loaded catalog. Reframes fall back to empty for unknown categories.
func NewDistortionDetectorWithCatalog(cats []indicator.Category) *DistortionDetector {
	d := NewDistortionDetector()
	d.clf = indicator.New(cats, d.clf.Config())
	return d
}

// Detect returns distortion findings sorted by descending confidence.
func (d *DistortionDetector) Detect(text string) []Finding {
	return d.DetectWithState(text, "")
}

// DetectWithState additionally boosts confidence by +0.1 when the supplied
// emotional state contains a negative-emotion term. The detector cap still
// applies.
func (d *DistortionDetector) DetectWithState(text, emotionalState string) []Finding {
	boost := 0.0
	if emotionalState != "" {
		lower := strings.ToLower(emotionalState)
		if indicator.ContainsAny(lower, negativeEmotionTerms) {
			boost = 0.1
		}
	}

	maxConf := d.clf.Config().Cap
	scores := d.clf.Detect(text)
	findings := make([]Finding, 0, len(scores))
	for _, s := range scores {
		conf := s.Confidence + boost
		if conf > maxConf {
			conf = maxConf
		}
		info := distortionInfos[s.Category]
		findings = append(findings, Finding{
			Category:    s.Category,
			Confidence:  conf,
			Evidence:    s.Evidence,
			Explanation: info.Explanation,
			Reframe:     info.Reframe,
		})
	}
	return findings
}

// #endregion
