package indicator

// #region imports
import (
	"strings"
	"unicode"
)

// #endregion

// #region stopwords

// stopwords are common Russian and English words excluded from tokenization.
var stopwords = map[string]bool{
	// English
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"will": true, "would": true, "could": true, "should": true,
	"and": true, "or": true, "but": true, "if": true, "not": true,
	"of": true, "on": true, "to": true, "in": true, "it": true,
	"this": true, "that": true, "what": true, "you": true, "me": true,
	"i": true, "my": true, "your": true, "we": true, "they": true,
	// Russian
	"и": true, "в": true, "не": true, "на": true, "я": true,
	"что": true, "он": true, "она": true, "это": true, "но": true,
	"как": true, "мне": true, "меня": true, "у": true, "же": true,
	"все": true, "так": true, "его": true, "то": true, "с": true,
	"а": true, "бы": true, "по": true, "только": true, "из": true,
	"был": true, "была": true, "было": true, "есть": true, "за": true,
}

// Tokenize splits text into unique lowercase non-stopword tokens.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len([]rune(w)) < 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// #endregion

// #region first-person

// firstPersonWords are Russian and English first-person forms used for the
// disclosure-depth density measure.
var firstPersonWords = map[string]bool{
	"i": true, "me": true, "my": true, "mine": true, "myself": true,
	"я": true, "мне": true, "меня": true, "мной": true, "мой": true,
	"моя": true, "мое": true, "мои": true, "себя": true, "себе": true,
}

// FirstPersonDensity returns the share of words that are first-person forms.
func FirstPersonDensity(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 {
		return 0
	}
	n := 0
	for _, w := range words {
		if firstPersonWords[w] {
			n++
		}
	}
	return float64(n) / float64(len(words))
}

// #endregion
