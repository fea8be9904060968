// Package tokenizer normalises free text into query and index terms. It
// extracts words with a fixed regular expression (2–25 characters, hashtags,
// mentions, hyphens and apostrophes allowed), lower-cases them, and drops
// common English stopwords.
package tokenizer

import (
	"regexp"
	"strings"
)

// \w in RE2 is ASCII-only; spell out letter/number classes so accented and
// non-Latin words tokenize whole instead of splitting at the first non-ASCII
// byte.
var wordRE = regexp.MustCompile(`[#@\p{L}\p{N}_](['\-]?[\p{L}\p{N}_]){2,24}`)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "to": {}, "of": {}, "a": {}, "in": {},
	"is": {}, "it": {}, "that": {}, "for": {}, "you": {}, "he": {},
	"was": {}, "on": {}, "are": {}, "with": {}, "as": {}, "i": {},
	"his": {}, "they": {}, "be": {}, "at": {}, "one": {}, "have": {},
	"this": {}, "from": {}, "or": {}, "had": {}, "by": {}, "not": {},
	"word": {}, "but": {}, "what": {}, "some": {}, "we": {}, "can": {},
	"out": {}, "other": {}, "were": {}, "all": {}, "there": {}, "when": {},
	"up": {}, "use": {}, "your": {}, "how": {}, "said": {}, "an": {},
	"each": {}, "she": {},
}

// Tokenize extracts lowercased, stopword-filtered terms from text, in order
// of appearance. Duplicate terms are kept; scoring treats them additively.
func Tokenize(text string) []string {
	matches := wordRE.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		t := strings.ToLower(m)
		if _, stop := stopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
