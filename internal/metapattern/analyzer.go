// Package metapattern tracks themes that recur for a user across sessions:
// each sighting strengthens the pattern and advances its evolution stage.
package metapattern

// #region imports
import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region types

// PatternCategory groups patterns by the plane they live on.
type PatternCategory string

const (
	CategoryTheme      PatternCategory = "theme"
	CategoryBehavior   PatternCategory = "behavior"
	CategoryEmotion    PatternCategory = "emotion"
	CategoryCognitive  PatternCategory = "cognitive"
	CategoryRelational PatternCategory = "relational"
)

// Evolution is the lifecycle stage of a recurring pattern.
type Evolution string

const (
	EvolutionEmerging Evolution = "emerging"
	EvolutionStable   Evolution = "stable"
	EvolutionGrowing  Evolution = "growing"
)

// Pattern is one tracked recurring pattern for a user. Occurrences only
// grow; strength is derived from them; evidence is a ring capped at
// evidenceCap.
type Pattern struct {
	PatternID   string          `json:"pattern_id"`
	Category    PatternCategory `json:"category"`
	Occurrences int             `json:"occurrences"`
	Strength    float64         `json:"strength"`
	Evolution   Evolution       `json:"evolution"`
	FirstSeen   time.Time       `json:"first_seen"`
	LastSeen    time.Time       `json:"last_seen"`
	Evidence    []string        `json:"evidence,omitempty"`
}

const evidenceCap = 5

// #endregion

// #region catalog

type patternSpec struct {
	id       string
	category PatternCategory
	patterns []string
}

var patternCatalog = []patternSpec{
	{"loneliness", CategoryTheme, []string{
		"мне одиноко", "я один", "я одна", "никого рядом", "feel so alone",
		"nobody around", "не с кем поговорить",
	}},
	{"rejection_fear", CategoryTheme, []string{
		"меня отвергнут", "надо мной посмеются", "they'll reject me",
		"боюсь быть лишним", "боюсь быть лишней", "afraid they won't like me",
	}},
	{"control", CategoryTheme, []string{
		"все должно быть под контролем", "не могу отпустить",
		"need everything under control", "если не я, то кто", "все держится на мне",
	}},
	{"perfectionism", CategoryTheme, []string{
		"должно быть идеально", "недостаточно хорошо", "has to be perfect",
		"not good enough yet", "переделываю по сто раз",
	}},
	{"withdrawal", CategoryBehavior, []string{
		"я закрылся", "я закрылась", "перестал отвечать", "isolate myself",
		"shut everyone out", "ушел в себя", "ушла в себя",
	}},
	{"conflict_avoidance", CategoryBehavior, []string{
		"лишь бы не ссориться", "промолчал, чтобы не ругаться",
		"avoid the argument", "keep the peace", "сгладил, как обычно",
	}},
	{"people_pleasing", CategoryBehavior, []string{
		"лишь бы всем угодить", "стараюсь быть удобным", "стараюсь быть удобной",
		"try to please everyone", "ставлю других выше себя",
	}},
	{"procrastination", CategoryBehavior, []string{
		"опять все отложил", "опять все отложила", "тяну до последнего",
		"keep putting it off", "до дедлайна не притронусь",
	}},
	{"suppressed_anger", CategoryEmotion, []string{
		"проглотил злость", "проглотила злость", "нельзя злиться",
		"swallowed my anger", "не имею права злиться", "держу злость в себе",
	}},
	{"shame", CategoryEmotion, []string{
		"мне стыдно за себя", "сгораю со стыда", "so ashamed of myself",
		"стыдно признаться", "хочется провалиться",
	}},
	{"anxiety_spiral", CategoryEmotion, []string{
		"накручиваю себя", "тревога по кругу", "spiraling again",
		"can't stop worrying", "прокручиваю худшие сценарии",
	}},
	{"rumination", CategoryCognitive, []string{
		"прокручиваю в голове", "не могу перестать думать", "replay it over and over",
		"can't stop thinking about", "возвращаюсь к этому снова и снова",
	}},
	{"self_criticism", CategoryCognitive, []string{
		"опять все испортил", "опять все испортила", "вечно я все порчу",
		"always my fault somehow", "сам во всем виноват", "сама во всем виновата",
	}},
	{"caretaker_role", CategoryRelational, []string{
		"я всех спасаю", "все приходят ко мне с проблемами", "i fix everyone",
		"всегда в роли жилетки", "everyone leans on me", "а меня никто не спрашивает",
	}},
}

// #endregion

// #region analyzer

// Analyzer keeps the per-user pattern map. Same-user calls must be
// serialized by the caller; the mutex only protects the map.
type Analyzer struct {
	mu       sync.Mutex
	patterns map[string]map[string]*Pattern // userID → patternID → pattern
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{patterns: make(map[string]map[string]*Pattern)}
}

// #endregion

// #region analyze

// Analyze matches the message against the catalog and updates every hit:
// occurrences up, last_seen now, evidence appended, strength and evolution
// recomputed. Returns copies of the patterns that matched this message.
func (a *Analyzer) Analyze(userID, text string) []Pattern {
	lower := strings.ToLower(text)
	now := time.Now().UTC()

	a.mu.Lock()
	defer a.mu.Unlock()

	user := a.patterns[userID]
	if user == nil {
		user = make(map[string]*Pattern)
		a.patterns[userID] = user
	}

	var matched []Pattern
	for _, spec := range patternCatalog {
		hit := firstMatch(lower, spec.patterns)
		if hit == "" {
			continue
		}

		p := user[spec.id]
		if p == nil {
			p = &Pattern{
				PatternID: spec.id,
				Category:  spec.category,
				FirstSeen: now,
			}
			user[spec.id] = p
		}

		p.Occurrences++
		p.LastSeen = now
		p.Evidence = appendRing(p.Evidence,
			indicator.EvidenceSpan(text, strings.Index(lower, hit), len(hit)), evidenceCap)
		p.Strength = strengthFor(p.Occurrences)
		p.Evolution = evolutionFor(p.Occurrences)

		matched = append(matched, clone(p))
	}
	return matched
}

// strengthFor maps an occurrence count onto [0.3, 1].
func strengthFor(occurrences int) float64 {
	s := 0.3 + float64(occurrences)/10*0.7
	if s > 1 {
		s = 1
	}
	return s
}

// evolutionFor thresholds occurrences into a lifecycle stage.
func evolutionFor(occurrences int) Evolution {
	switch {
	case occurrences == 1:
		return EvolutionEmerging
	case occurrences > 3:
		return EvolutionGrowing
	default:
		return EvolutionStable
	}
}

// #endregion

// #region queries

// All returns copies of every tracked pattern for the user, strongest first.
func (a *Analyzer) All(userID string) []Pattern {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sorted(userID, byStrength)
}

// TopByOccurrences returns up to n patterns ranked by occurrence count.
func (a *Analyzer) TopByOccurrences(userID string, n int) []Pattern {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.sorted(userID, byOccurrences)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopByStrength returns up to n patterns ranked by strength.
func (a *Analyzer) TopByStrength(userID string, n int) []Pattern {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.sorted(userID, byStrength)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ByCategory returns the user's patterns on one plane, strongest first.
func (a *Analyzer) ByCategory(userID string, cat PatternCategory) []Pattern {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Pattern
	for _, p := range a.sorted(userID, byStrength) {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// CorrelationInsight renders a one-sentence link between the user's two
// strongest patterns, or "" when fewer than two are tracked.
func (a *Analyzer) CorrelationInsight(userID string) string {
	top := a.TopByStrength(userID, 2)
	if len(top) < 2 {
		return ""
	}
	return fmt.Sprintf(
		"The %s pattern %q (%d occurrences) tends to appear alongside the %s pattern %q (%d occurrences); they may be feeding each other.",
		top[0].Category, top[0].PatternID, top[0].Occurrences,
		top[1].Category, top[1].PatternID, top[1].Occurrences,
	)
}

// Restore installs persisted patterns for a user, replacing whatever is held.
func (a *Analyzer) Restore(userID string, patterns []Pattern) {
	a.mu.Lock()
	defer a.mu.Unlock()

	user := make(map[string]*Pattern, len(patterns))
	for _, p := range patterns {
		cp := p
		if len(cp.Evidence) > evidenceCap {
			cp.Evidence = cp.Evidence[len(cp.Evidence)-evidenceCap:]
		}
		user[p.PatternID] = &cp
	}
	a.patterns[userID] = user
}

// #endregion

// #region helpers

type lessFunc func(a, b *Pattern) bool

func byStrength(a, b *Pattern) bool {
	if a.Strength != b.Strength {
		return a.Strength > b.Strength
	}
	return a.PatternID < b.PatternID
}

func byOccurrences(a, b *Pattern) bool {
	if a.Occurrences != b.Occurrences {
		return a.Occurrences > b.Occurrences
	}
	return a.PatternID < b.PatternID
}

// sorted copies the user's patterns into a slice ordered by less.
// Callers must hold the mutex.
func (a *Analyzer) sorted(userID string, less lessFunc) []Pattern {
	user := a.patterns[userID]
	out := make([]Pattern, 0, len(user))
	for _, p := range user {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func clone(p *Pattern) Pattern {
	cp := *p
	cp.Evidence = append([]string(nil), p.Evidence...)
	return cp
}

func firstMatch(lower string, patterns []string) string {
	bestIdx := -1
	best := ""
	for _, p := range patterns {
		if idx := strings.Index(lower, p); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			bestIdx = idx
			best = p
		}
	}
	return best
}

func appendRing(ring []string, s string, limit int) []string {
	ring = append(ring, s)
	if len(ring) > limit {
		ring = ring[len(ring)-limit:]
	}
	return ring
}

// #endregion
