package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern    = regexp.MustCompile(`https?://\S+`)
	nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)
)

// URLPattern matches http(s) URLs in free text
func URLPattern() *regexp.Regexp {
	return urlPattern
}

// Tokenize lower-cases text, strips URLs and anything that is not a letter,
// digit or whitespace, folds diacritics, and returns the distinct tokens in
// first-seen order.
func Tokenize(text string) []string {
	// transform.Chain is stateful, build one per call
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	stripped := urlPattern.ReplaceAllString(text, " ")
	folded, _, err := transform.String(fold, stripped)
	if err != nil {
		folded = stripped
	}
	bare := strings.ToLower(nonTokenChars.ReplaceAllString(folded, ""))

	fields := strings.Fields(bare)
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// TokenSet converts tokens to a set for membership tests
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard returns |A∩B| / |A∪B|, or 0 when both sets are empty
func Jaccard(a, b []string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// TextSimilarity is Jaccard over the tokens of two texts
func TextSimilarity(a, b string) float64 {
	return Jaccard(Tokenize(a), Tokenize(b))
}
