package alliance

// #region imports
import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region indicator-tables

// component identifies which alliance component an indicator feeds.
type component int

const (
	compBond component = iota
	compTask
	compGoal
)

// allianceIndicator is one named category with its patterns, signed weight,
// and target component.
type allianceIndicator struct {
	name     string
	comp     component
	weight   float64
	patterns []string
}

// positiveIndicators: seven categories, each tagged to exactly one component.
var positiveIndicators = []allianceIndicator{
	{"gratitude", compBond, 0.08, []string{
		"спасибо", "благодарю", "thank you", "thanks", "это помогло",
	}},
	{"feeling_understood", compBond, 0.10, []string{
		"ты меня понимаешь", "меня наконец понимают", "you understand me",
		"feel understood", "ты первый, кто",
	}},
	{"openness", compBond, 0.08, []string{
		"честно говоря", "признаюсь", "если честно", "to be honest",
		"i'll admit", "скажу как есть",
	}},
	{"collaboration", compTask, 0.08, []string{
		"давай попробуем", "готов попробовать", "готова попробовать",
		"let's try", "i'm willing to try", "давай разберемся",
	}},
	{"follow_through", compTask, 0.08, []string{
		"я попробовал", "я попробовала", "сделал, как мы обсуждали",
		"i tried what", "i did the exercise", "получилось применить",
	}},
	{"goal_alignment", compGoal, 0.08, []string{
		"хочу измениться", "хочу это изменить", "моя цель", "i want to change",
		"my goal is", "хочу разобраться в себе",
	}},
	{"hope", compGoal, 0.06, []string{
		"надеюсь", "верю, что получится", "i hope", "starting to believe",
		"кажется, есть шанс",
	}},
}

// negativeIndicators: five resistance categories with negative weights.
var negativeIndicators = []allianceIndicator{
	{"dismissal", compBond, -0.10, []string{
		"это не помогает", "бесполезно", "this isn't helping", "useless",
		"пустая трата времени",
	}},
	{"distancing", compBond, -0.08, []string{
		"неважно", "забудь", "не хочу говорить", "forget it",
		"don't want to talk", "проехали",
	}},
	{"task_refusal", compTask, -0.10, []string{
		"не буду это делать", "это глупо", "i won't do that",
		"that's stupid", "не вижу смысла в упражнениях",
	}},
	{"hopelessness", compGoal, -0.08, []string{
		"ничего не изменится", "нет смысла", "nothing will change",
		"what's the point", "все равно не поможет",
	}},
	{"hostility", compBond, -0.10, []string{
		"отстань", "ты ничего не понимаешь", "leave me alone",
		"you don't understand anything", "хватит лезть",
	}},
}

// emotionWords feed the disclosure-depth measure.
var emotionWords = []string{
	"чувствую", "боюсь", "страшно", "больно", "обидно", "злюсь", "стыдно",
	"одиноко", "тревожно", "грустно", "радостно", "люблю", "ненавижу",
	"feel", "afraid", "scared", "hurt", "angry", "ashamed", "lonely",
	"anxious", "sad", "love", "hate",
}

// pastReferences signal disclosure reaching back into personal history.
var pastReferences = []string{
	"в детстве", "когда я был маленьким", "когда я была маленькой",
	"мои родители", "моя мать", "мой отец", "в школе", "много лет назад",
	"in my childhood", "when i was a kid", "my parents", "my mother",
	"my father", "years ago", "growing up",
}

// #endregion

// #region tracker

// Tracker accumulates per-user alliance measurements. Same-user calls must
// be serialized by the caller; the internal mutex only protects the map.
type Tracker struct {
	mu      sync.Mutex
	history map[string][]Measurement
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{history: make(map[string][]Measurement)}
}

// #endregion

// #region measure

// Measure scores one message and appends the smoothed measurement to the
// user's history. Never fails: short or empty text simply reads as low
// engagement.
func (t *Tracker) Measure(userID, text string, mctx MessageContext) Measurement {
	lower := strings.ToLower(text)

	bond, task, goal := seedComponent, seedComponent, seedComponent
	var trust, resistance []string

	for _, ind := range positiveIndicators {
		if indicator.ContainsAny(lower, ind.patterns) {
			addTo(&bond, &task, &goal, ind.comp, ind.weight)
			trust = append(trust, ind.name)
		}
	}
	for _, ind := range negativeIndicators {
		if indicator.ContainsAny(lower, ind.patterns) {
			addTo(&bond, &task, &goal, ind.comp, ind.weight)
			resistance = append(resistance, ind.name)
		}
	}

	engagement := engagementScore(text, mctx)
	disclosure := disclosureScore(text, lower)

	// Both auxiliary scalars blend into every component.
	blend := (engagement-0.5)*0.2 + (disclosure-0.5)*0.15
	bond = indicator.Clamp01(bond + blend)
	task = indicator.Clamp01(task + blend)
	goal = indicator.Clamp01(goal + blend)

	t.mu.Lock()
	defer t.mu.Unlock()

	if hist := t.history[userID]; len(hist) > 0 {
		prev := hist[len(hist)-1]
		bond = emaAlpha*bond + (1-emaAlpha)*prev.Bond
		task = emaAlpha*task + (1-emaAlpha)*prev.Task
		goal = emaAlpha*goal + (1-emaAlpha)*prev.Goal
	}

	m := Measurement{
		Overall:              0.4*bond + 0.3*task + 0.3*goal,
		Bond:                 bond,
		Task:                 task,
		Goal:                 goal,
		Engagement:           engagement,
		DisclosureDepth:      disclosure,
		TrustIndicators:      trust,
		ResistanceIndicators: resistance,
		Timestamp:            time.Now().UTC(),
	}

	t.history[userID] = appendCapped(t.history[userID], m, historyCap)
	return m
}

func addTo(bond, task, goal *float64, comp component, w float64) {
	switch comp {
	case compBond:
		*bond += w
	case compTask:
		*task += w
	case compGoal:
		*goal += w
	}
}

// #endregion

// #region auxiliary-scalars

// engagementScore bands word count, rewards fast replies, and adds a small
// emotionality bonus for expressive punctuation.
func engagementScore(text string, mctx MessageContext) float64 {
	words := indicator.WordCount(text)
	var score float64
	switch {
	case words < 5:
		score = 0.3
	case words < 20:
		score = 0.5
	case words < 60:
		score = 0.7
	default:
		score = 0.8
	}
	if mctx.ResponseTimeSeconds > 0 {
		if mctx.ResponseTimeSeconds < 60 {
			score += 0.1
		} else if mctx.ResponseTimeSeconds > 600 {
			score -= 0.1
		}
	}
	if strings.Count(text, "!")+strings.Count(text, "?") >= 2 {
		score += 0.1
	}
	return indicator.Clamp01(score)
}

// disclosureScore estimates how much of themselves the user is putting into
// the message: first-person density, emotion vocabulary, and reaches into
// personal history.
func disclosureScore(text, lower string) float64 {
	score := 0.2

	density := indicator.FirstPersonDensity(text)
	switch {
	case density >= 0.15:
		score += 0.3
	case density >= 0.08:
		score += 0.2
	case density > 0:
		score += 0.1
	}

	switch n := indicator.CountAny(lower, emotionWords); {
	case n >= 3:
		score += 0.2
	case n >= 1:
		score += 0.1
	}

	if indicator.ContainsAny(lower, pastReferences) {
		score += 0.2
	}
	return indicator.Clamp01(score)
}

// #endregion

// #region queries

// Current returns the latest smoothed overall alliance, or DefaultAlliance
// for unseen users.
func (t *Tracker) Current(userID string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	hist := t.history[userID]
	if len(hist) == 0 {
		return DefaultAlliance
	}
	return hist[len(hist)-1].Overall
}

// History returns a copy of the user's measurement history, oldest first.
func (t *Tracker) History(userID string) []Measurement {
	t.mu.Lock()
	defer t.mu.Unlock()
	hist := t.history[userID]
	out := make([]Measurement, len(hist))
	copy(out, hist)
	return out
}

// Restore replaces the user's history with persisted measurements, applying
// the cap. Used by the storage adapter on startup.
func (t *Tracker) Restore(userID string, hist []Measurement) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(hist) > historyCap {
		hist = hist[len(hist)-historyCap:]
	}
	cp := make([]Measurement, len(hist))
	copy(cp, hist)
	t.history[userID] = cp
}

// TrendOver compares the mean overall of the first and second halves of the
// last n measurements.
func (t *Tracker) TrendOver(userID string, n int) Trend {
	t.mu.Lock()
	defer t.mu.Unlock()

	hist := t.history[userID]
	if len(hist) < n {
		n = len(hist)
	}
	if n < 4 {
		return TrendStable
	}
	recent := hist[len(hist)-n:]
	half := n / 2
	first := meanOverall(recent[:half])
	second := meanOverall(recent[n-half:])

	switch diff := second - first; {
	case diff > trendEpsilon:
		return TrendImproving
	case diff < -trendEpsilon:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// ShouldDeepen combines level and trend into the go/no-go decision for
// moving the conversation deeper, with a human-readable reason.
func (t *Tracker) ShouldDeepen(userID string) (bool, string) {
	level := t.Current(userID)
	trend := t.TrendOver(userID, 10)

	switch {
	case level >= 0.6 && trend != TrendDeclining:
		return true, fmt.Sprintf("alliance %.2f is solid and %s", level, trend)
	case level >= 0.4 && trend == TrendImproving:
		return true, fmt.Sprintf("alliance %.2f is moderate but improving", level)
	case trend == TrendDeclining:
		return false, fmt.Sprintf("alliance %.2f is declining; hold current depth", level)
	default:
		return false, fmt.Sprintf("alliance %.2f is not yet sufficient", level)
	}
}

func meanOverall(ms []Measurement) float64 {
	if len(ms) == 0 {
		return 0
	}
	var sum float64
	for _, m := range ms {
		sum += m.Overall
	}
	return sum / float64(len(ms))
}

func appendCapped(hist []Measurement, m Measurement, limit int) []Measurement {
	hist = append(hist, m)
	if len(hist) > limit {
		hist = hist[len(hist)-limit:]
	}
	return hist
}

// #endregion
