// Package growth tracks long-running growth areas per user: identified from
// struggle indicators, nudged up or down by every subsequent message.
package growth

// #region imports
import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielpatrickdp/psycore/internal/indicator"
)

// #endregion

// #region types

// Area is one tracked growth area for a user. Progress lives in [0, 1];
// evidence is a ring capped at evidenceCap.
type Area struct {
	AreaID    string    `json:"area_id"`
	Category  string    `json:"category"`
	Progress  float64   `json:"progress"`
	Evidence  []string  `json:"evidence,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressMeasurement is the per-area outcome of one Measure call.
type ProgressMeasurement struct {
	AreaID          string  `json:"area_id"`
	Delta           float64 `json:"delta"`
	Progress        float64 `json:"progress"`
	PositiveMatches int     `json:"positive_matches"`
	NegativeMatches int     `json:"negative_matches"`
}

// CategorySummary aggregates mean progress per area category.
type CategorySummary struct {
	Category     string  `json:"category"`
	Areas        int     `json:"areas"`
	MeanProgress float64 `json:"mean_progress"`
}

const (
	initialProgress = 0.2
	deltaPerMatch   = 0.05
	evidenceCap     = 5
)

// #endregion

// #region catalog

// areaSpec defines one growth area: negative indicators identify it,
// positive indicators mark movement.
type areaSpec struct {
	id       string
	category string
	positive []string
	negative []string
}

var areaCatalog = []areaSpec{
	{
		id:       "self_compassion",
		category: "self_relation",
		positive: []string{
			"я разрешил себе отдохнуть", "я разрешила себе отдохнуть",
			"отнесся к себе мягче", "i was kind to myself", "gave myself a break",
			"простил себя", "простила себя",
		},
		negative: []string{
			"ненавижу себя", "я себе противен", "i hate myself",
			"не прощаю себе", "ругаю себя за все", "beating myself up",
		},
	},
	{
		id:       "boundary_setting",
		category: "relational",
		positive: []string{
			"я сказал нет", "я сказала нет", "отказался, и ничего страшного",
			"i said no", "set a boundary", "обозначил границы",
		},
		negative: []string{
			"не могу отказать", "соглашаюсь на все", "can't say no",
			"все на мне ездят", "боюсь отказать", "people walk all over me",
		},
	},
	{
		id:       "emotional_awareness",
		category: "emotional",
		positive: []string{
			"я заметил, что злюсь", "я заметила, что злюсь", "понял, что я чувствую",
			"i noticed i was feeling", "named the feeling", "поймал себя на чувстве",
		},
		negative: []string{
			"не понимаю, что чувствую", "внутри пустота", "don't know what i feel",
			"ничего не чувствую", "numb inside", "как будто отключен от себя",
		},
	},
	{
		id:       "assertiveness",
		category: "relational",
		positive: []string{
			"я высказал свое мнение", "я высказала свое мнение", "попросил о том, что мне нужно",
			"i spoke up", "asked for what i need", "отстоял свою позицию",
		},
		negative: []string{
			"промолчал, как всегда", "промолчала, как всегда", "боюсь высказаться",
			"afraid to speak up", "мое мнение никому не интересно", "swallowed my words",
		},
	},
	{
		id:       "self_trust",
		category: "self_relation",
		positive: []string{
			"я принял решение сам", "я приняла решение сама", "доверился своему чутью",
			"i trusted my gut", "made the call myself", "послушал себя",
		},
		negative: []string{
			"не доверяю своим решениям", "вечно сомневаюсь", "can't trust my own judgment",
			"переспрашиваю у всех", "second-guess everything", "без чужого одобрения не могу",
		},
	},
	{
		id:       "uncertainty_tolerance",
		category: "emotional",
		positive: []string{
			"отпустил контроль", "отпустила контроль", "решил посмотреть, как пойдет",
			"let it unfold", "okay with not knowing", "перестал все планировать",
		},
		negative: []string{
			"мне нужно все контролировать", "не выношу неопределенность",
			"need to control everything", "can't stand not knowing",
			"паникую без плана",
		},
	},
}

// #endregion

// #region tracker

// Tracker keeps the per-user growth area map. Same-user calls must be
// serialized by the caller; the mutex only protects the map.
type Tracker struct {
	mu    sync.Mutex
	areas map[string]map[string]*Area // userID → areaID → area
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{areas: make(map[string]map[string]*Area)}
}

// #endregion

// #region identify

// Identify scans the message for struggle indicators and creates any growth
// area matched for the first time at the initial progress level. Returns
// the ids of all areas whose negative indicators fired, new or existing.
func (t *Tracker) Identify(userID, text string) []string {
	lower := strings.ToLower(text)
	now := time.Now().UTC()

	t.mu.Lock()
	defer t.mu.Unlock()

	user := t.areas[userID]
	if user == nil {
		user = make(map[string]*Area)
		t.areas[userID] = user
	}

	var matched []string
	for _, spec := range areaCatalog {
		hit := firstMatch(lower, spec.negative)
		if hit == "" {
			continue
		}
		matched = append(matched, spec.id)
		if _, ok := user[spec.id]; ok {
			continue
		}
		user[spec.id] = &Area{
			AreaID:    spec.id,
			Category:  spec.category,
			Progress:  initialProgress,
			Evidence:  []string{indicator.EvidenceSpan(text, strings.Index(lower, hit), len(hit))},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return matched
}

// #endregion

// #region measure

// Measure nudges every tracked area for the user by
// (positive − negative) × deltaPerMatch, clamped to [0, 1].
func (t *Tracker) Measure(userID, text string) []ProgressMeasurement {
	lower := strings.ToLower(text)
	now := time.Now().UTC()

	t.mu.Lock()
	defer t.mu.Unlock()

	user := t.areas[userID]
	if len(user) == 0 {
		return nil
	}

	specs := make(map[string]areaSpec, len(areaCatalog))
	for _, s := range areaCatalog {
		specs[s.id] = s
	}

	ids := make([]string, 0, len(user))
	for id := range user {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []ProgressMeasurement
	for _, id := range ids {
		area := user[id]
		spec := specs[id]

		pos := indicator.CountAny(lower, spec.positive)
		neg := indicator.CountAny(lower, spec.negative)
		delta := float64(pos-neg) * deltaPerMatch

		area.Progress = indicator.Clamp01(area.Progress + delta)
		area.UpdatedAt = now
		if pos > 0 || neg > 0 {
			if hit := firstMatch(lower, append(spec.positive, spec.negative...)); hit != "" {
				area.Evidence = appendRing(area.Evidence,
					indicator.EvidenceSpan(text, strings.Index(lower, hit), len(hit)), evidenceCap)
			}
		}

		out = append(out, ProgressMeasurement{
			AreaID:          id,
			Delta:           delta,
			Progress:        area.Progress,
			PositiveMatches: pos,
			NegativeMatches: neg,
		})
	}
	return out
}

// #endregion

// #region queries

// Areas returns copies of the user's tracked areas, ordered by area id.
func (t *Tracker) Areas(userID string) []Area {
	t.mu.Lock()
	defer t.mu.Unlock()

	user := t.areas[userID]
	out := make([]Area, 0, len(user))
	for _, a := range user {
		cp := *a
		cp.Evidence = append([]string(nil), a.Evidence...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AreaID < out[j].AreaID })
	return out
}

// Restore installs persisted areas for a user, replacing whatever is held.
func (t *Tracker) Restore(userID string, areas []Area) {
	t.mu.Lock()
	defer t.mu.Unlock()

	user := make(map[string]*Area, len(areas))
	for _, a := range areas {
		cp := a
		if len(cp.Evidence) > evidenceCap {
			cp.Evidence = cp.Evidence[len(cp.Evidence)-evidenceCap:]
		}
		user[a.AreaID] = &cp
	}
	t.areas[userID] = user
}

// Summary aggregates mean progress per category across the user's areas.
func (t *Tracker) Summary(userID string) []CategorySummary {
	areas := t.Areas(userID)

	byCat := make(map[string]*CategorySummary)
	for _, a := range areas {
		s := byCat[a.Category]
		if s == nil {
			s = &CategorySummary{Category: a.Category}
			byCat[a.Category] = s
		}
		s.Areas++
		s.MeanProgress += a.Progress
	}

	out := make([]CategorySummary, 0, len(byCat))
	for _, s := range byCat {
		s.MeanProgress /= float64(s.Areas)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// #endregion

// #region helpers

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
