package pipeline

import (
	"sort"
	"strings"
	"unicode"
)

// defaultKeywordLimit caps the keywords stored per chunk.
const defaultKeywordLimit = 8

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "have": {}, "this": {},
	"that": {}, "with": {}, "from": {}, "they": {}, "their": {}, "what": {},
	"which": {}, "when": {}, "where": {}, "will": {}, "would": {}, "there": {},
	"been": {}, "were": {}, "into": {}, "than": {}, "then": {}, "them": {},
	"these": {}, "those": {}, "some": {}, "such": {}, "only": {}, "also": {},
	"about": {}, "after": {}, "before": {}, "between": {}, "because": {},
	"does": {}, "doing": {}, "during": {}, "each": {}, "more": {}, "most": {},
	"other": {}, "over": {}, "same": {}, "should": {}, "under": {}, "very": {},
	"while": {}, "your": {}, "could": {}, "here": {}, "how": {}, "its": {},
	"may": {}, "might": {}, "must": {}, "shall": {}, "who": {}, "why": {},
	"any": {}, "both": {}, "did": {}, "don": {}, "down": {}, "few": {},
	"further": {}, "just": {}, "now": {}, "off": {}, "once": {}, "own": {},
	"too": {}, "until": {}, "upon": {}, "through": {},
}

// ExtractKeywords returns up to limit non-stopword terms of the text, most
// frequent first. Ties keep first-occurrence order so extraction is
// deterministic for identical input.
func ExtractKeywords(text string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	counts := map[string]int{}
	firstSeen := map[string]int{}
	for _, word := range words {
		word = strings.Trim(word, "-")
		if len(word) < 3 {
			continue
		}
		if _, ok := stopwords[word]; ok {
			continue
		}
		if _, seen := counts[word]; !seen {
			firstSeen[word] = len(firstSeen)
		}
		counts[word]++
	}

	keywords := make([]string, 0, len(counts))
	for word := range counts {
		keywords = append(keywords, word)
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return firstSeen[keywords[i]] < firstSeen[keywords[j]]
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}
