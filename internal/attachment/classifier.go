// Package attachment classifies per-user attachment tendencies on the
// two-dimension (anxiety, avoidance) quadrant model, smoothed across
// messages.
package attachment

// #region imports
import (
	"strings"
	"sync"
	"time"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region types

// Style is one of the four attachment quadrants, or unknown before any
// signal has been observed.
type Style string

const (
	StyleSecure       Style = "secure"
	StyleAnxious      Style = "anxious"
	StyleAvoidant     Style = "avoidant"
	StyleDisorganized Style = "disorganized"
	StyleUnknown      Style = "unknown"
)

// Assessment is one smoothed attachment reading. StyleScores sums to 1;
// the dimensions live in [-1, 1].
type Assessment struct {
	PrimaryStyle Style             `json:"primary_style"`
	Confidence   float64           `json:"confidence"`
	StyleScores  map[Style]float64 `json:"style_scores"`
	AnxietyDim   float64           `json:"anxiety_dim"`
	AvoidanceDim float64           `json:"avoidance_dim"`
	Timestamp    time.Time         `json:"timestamp"`
}

const (
	emaAlpha   = 0.4
	historyCap = 50
)

// #endregion

// #region indicator-tables

type dimGroup struct {
	weight   float64
	patterns []string
}

var anxietyTable = []dimGroup{
	{0.4, []string{
		"боюсь, что ты уйдешь", "боюсь остаться один", "боюсь остаться одна",
		"afraid you'll leave", "scared of being left", "не бросай меня",
	}},
	{0.3, []string{
		"тебе со мной не скучно", "я тебе не надоел", "я тебе не надоела",
		"am i too much", "do you still want to talk to me",
	}},
	{0.3, []string{
		"мне нужно знать, что ты рядом", "постоянно проверяю, не ушел ли",
		"need to know you're there", "keep checking if",
	}},
	{0.2, []string{
		"без него я никто", "без нее я никто", "не могу без",
		"i'm nothing without", "can't function without",
	}},
}

var avoidanceTable = []dimGroup{
	{0.4, []string{
		"мне никто не нужен", "справлюсь сам", "справлюсь сама",
		"i don't need anyone", "i can handle it alone", "лучше быть одному",
	}},
	{0.3, []string{
		"не люблю зависеть", "не подпускаю близко", "hate depending on",
		"don't let people close", "держу дистанцию",
	}},
	{0.3, []string{
		"близость меня душит", "отношения — это ловушка", "intimacy feels suffocating",
		"relationships are a trap", "когда сближаемся, хочется сбежать",
	}},
	{0.2, []string{
		"чувства — это слабость", "feelings are weakness", "эмоции мешают",
	}},
}

var secureTable = []dimGroup{
	{0.4, []string{
		"я доверяю близким", "мне комфортно вдвоем и одному", "i trust the people close to me",
		"comfortable with closeness", "могу быть собой рядом с",
	}},
	{0.3, []string{
		"могу попросить о помощи", "не боюсь говорить о чувствах",
		"can ask for help", "okay talking about feelings",
	}},
	{0.3, []string{
		"мы поссорились и обсудили это", "разногласия — это нормально",
		"we talked it through", "conflict doesn't scare me",
	}},
}

// #endregion

// #region classifier

// Classifier accumulates per-user attachment assessments. Same-user calls
// must be serialized by the caller; the mutex only protects the map.
type Classifier struct {
	mu      sync.Mutex
	history map[string][]Assessment
}

// NewClassifier creates an empty classifier.
func NewClassifier() *Classifier {
	return &Classifier{history: make(map[string][]Assessment)}
}

// #endregion

// #region assess

// Assess scores one message and appends the smoothed assessment to the
// user's history. With no attachment signal at all and no history the
// primary style stays unknown.
func (c *Classifier) Assess(userID, text string) Assessment {
	lower := strings.ToLower(text)

	anx := tableScore(lower, anxietyTable)
	avd := tableScore(lower, avoidanceTable)
	sec := tableScore(lower, secureTable)

	// A secure signal pulls both insecure dimensions down.
	anx -= sec * 0.5
	avd -= sec * 0.5
	anx = indicator.ClampSigned(anx)
	avd = indicator.ClampSigned(avd)

	scores := quadrantScores(anx, avd, sec)

	c.mu.Lock()
	defer c.mu.Unlock()

	hist := c.history[userID]
	noSignal := anx == 0 && avd == 0 && sec == 0

	if len(hist) > 0 {
		prev := hist[len(hist)-1].StyleScores
		for s := range scores {
			scores[s] = emaAlpha*scores[s] + (1-emaAlpha)*prev[s]
		}
		normalize(scores)
	} else if noSignal {
		a := Assessment{
			PrimaryStyle: StyleUnknown,
			Confidence:   0,
			StyleScores:  scores,
			AnxietyDim:   anx,
			AvoidanceDim: avd,
			Timestamp:    time.Now().UTC(),
		}
		c.history[userID] = append(hist, a)
		return a
	}

	primary, top := argmax(scores)
	a := Assessment{
		PrimaryStyle: primary,
		Confidence:   top,
		StyleScores:  scores,
		AnxietyDim:   anx,
		AvoidanceDim: avd,
		Timestamp:    time.Now().UTC(),
	}
	hist = append(hist, a)
	if len(hist) > historyCap {
		hist = hist[len(hist)-historyCap:]
	}
	c.history[userID] = hist
	return a
}

// #endregion

// #region queries

// Current returns the latest primary style and its confidence, or
// (unknown, 0) for unseen users.
func (c *Classifier) Current(userID string) (Style, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hist := c.history[userID]
	if len(hist) == 0 {
		return StyleUnknown, 0
	}
	last := hist[len(hist)-1]
	return last.PrimaryStyle, last.Confidence
}

// History returns a copy of the user's assessment history, oldest first.
func (c *Classifier) History(userID string) []Assessment {
	c.mu.Lock()
	defer c.mu.Unlock()
	hist := c.history[userID]
	out := make([]Assessment, len(hist))
	copy(out, hist)
	return out
}

// Restore replaces the user's history with persisted assessments.
func (c *Classifier) Restore(userID string, hist []Assessment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(hist) > historyCap {
		hist = hist[len(hist)-historyCap:]
	}
	cp := make([]Assessment, len(hist))
	copy(cp, hist)
	c.history[userID] = cp
}

// #endregion

// #region scoring

func tableScore(lower string, table []dimGroup) float64 {
	var score float64
	for _, g := range table {
		if indicator.ContainsAny(lower, g.patterns) {
			score += g.weight
		}
	}
	return score
}

// quadrantScores derives the four normalized style scores from the two
// dimensions mapped onto [0, 1] plus the raw secure signal:
// low/low = secure, high-anx/low-avd = anxious, low/high = avoidant,
// high/high = disorganized.
func quadrantScores(anx, avd, sec float64) map[Style]float64 {
	anxN := (anx + 1) / 2
	avdN := (avd + 1) / 2

	scores := map[Style]float64{
		StyleSecure:       (1-anxN)*(1-avdN) + sec,
		StyleAnxious:      anxN * (1 - avdN),
		StyleAvoidant:     avdN * (1 - anxN),
		StyleDisorganized: anxN * avdN,
	}
	normalize(scores)
	return scores
}

func normalize(scores map[Style]float64) {
	var sum float64
	for s, v := range scores {
		if v < 0 {
			scores[s] = 0
			continue
		}
		sum += v
	}
	if sum == 0 {
		for s := range scores {
			scores[s] = 1 / float64(len(scores))
		}
		return
	}
	for s := range scores {
		scores[s] /= sum
	}
}

func argmax(scores map[Style]float64) (Style, float64) {
	// Fixed order keeps ties deterministic.
	order := []Style{StyleSecure, StyleAnxious, StyleAvoidant, StyleDisorganized}
	best := order[0]
	for _, s := range order[1:] {
		if scores[s] > scores[best] {
			best = s
		}
	}
	return best, scores[best]
}

// #endregion
