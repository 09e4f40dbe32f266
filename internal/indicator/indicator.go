// Package indicator implements the weighted indicator classifier shared by
// every construct detector. Each detector is a catalog of categories fed
// through the same scoring pass; adding a category is a data change.
package indicator

// #region imports
import (
	"sort"
	"strings"
)

// #endregion

// #region types

// Group is a set of interchangeable surface patterns carrying one weight.
// The first matching pattern claims the weight; further matches within the
// same group do not add.
type Group struct {
	Patterns []string
	Weight   float64
}

// Category names one detectable construct and its pattern groups.
// Boost terms add +0.1 confidence each when present in the text.
type Category struct {
	Name   string
	Groups []Group
	Boost  []string
}

// Config holds the scoring constants that differ per detector.
type Config struct {
	Base      float64 // confidence floor once the category fires
	Increment float64 // confidence added per matched group
	Cap       float64 // hard ceiling on confidence
	Threshold float64 // minimum summed group weight to report at all
	MinLen    int     // texts shorter than this yield no scores
}

// Score is one category hit: confidence in [0, Cap] and the evidence span
// around the first matching pattern.
type Score struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
	Matches    int     `json:"matches"`
}

// #endregion

// #region classifier

// Classifier scores text against a fixed category catalog.
type Classifier struct {
	categories []Category
	config     Config
}

// New creates a classifier over the given catalog.
func New(categories []Category, config Config) *Classifier {
	return &Classifier{categories: categories, config: config}
}

// Categories returns the catalog the classifier was built with.
func (c *Classifier) Categories() []Category {
	return c.categories
}

// Config returns the scoring constants.
func (c *Classifier) Config() Config {
	return c.config
}

// #endregion

// #region detect

// Detect scores every category against the text and returns the hits above
// threshold, sorted by descending confidence. Short text yields nil, never
// an error.
func (c *Classifier) Detect(text string) []Score {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < c.config.MinLen {
		return nil
	}
	lower := strings.ToLower(trimmed)

	var scores []Score
	for _, cat := range c.categories {
		if s, ok := c.scoreCategory(cat, trimmed, lower); ok {
			scores = append(scores, s)
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})
	return scores
}

// scoreCategory runs one category's groups over the text. A group counts at
// most once regardless of how many of its patterns occur.
func (c *Classifier) scoreCategory(cat Category, original, lower string) (Score, bool) {
	var weight float64
	matches := 0
	firstIdx := -1
	firstLen := 0

	for _, g := range cat.Groups {
		for _, p := range g.Patterns {
			idx := strings.Index(lower, strings.ToLower(p))
			if idx < 0 {
				continue
			}
			weight += g.Weight
			matches++
			if firstIdx < 0 || idx < firstIdx {
				firstIdx = idx
				firstLen = len(p)
			}
			break // first match per group wins
		}
	}

	if matches == 0 || weight <= c.config.Threshold {
		return Score{}, false
	}

	confidence := c.config.Base + float64(matches)*c.config.Increment
	if confidence > c.config.Cap {
		confidence = c.config.Cap
	}
	for _, b := range cat.Boost {
		if strings.Contains(lower, strings.ToLower(b)) {
			confidence += 0.1
		}
	}
	if confidence > c.config.Cap {
		confidence = c.config.Cap
	}

	return Score{
		Category:   cat.Name,
		Confidence: confidence,
		Evidence:   EvidenceSpan(original, firstIdx, firstLen),
		Matches:    matches,
	}, true
}

// #endregion

// #region evidence

// EvidenceSpan cuts a readable window around the matched byte range,
// snapping outward to rune boundaries so multibyte text is never split.
func EvidenceSpan(text string, idx, length int) string {
	const pad = 40
	start := idx - pad
	if start < 0 {
		start = 0
	}
	end := idx + length + pad
	if end > len(text) {
		end = len(text)
	}
	for start > 0 && !isRuneStart(text[start]) {
		start--
	}
	for end < len(text) && !isRuneStart(text[end]) {
		end++
	}
	span := strings.TrimSpace(text[start:end])
	if start > 0 {
		span = "…" + span
	}
	if end < len(text) {
		span += "…"
	}
	return span
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// #endregion

// #region helpers

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampSigned bounds v to [-1, 1].
func ClampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// ContainsAny reports whether any term occurs in the lowercased text.
func ContainsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// CountAny counts how many distinct terms occur in the lowercased text.
func CountAny(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

// #endregion
