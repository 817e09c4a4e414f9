// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textproc cleans paper text into the token strings the
// analytics stages consume.
package textproc

import "strings"

// stopwords holds common English function words plus a handful of
// academic-writing boilerplate terms that carry no topical signal in
// titles and abstracts.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"if": {}, "then": {}, "else": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"from": {}, "by": {}, "with": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"it": {}, "its": {}, "as": {}, "such": {},
	"we": {}, "you": {}, "they": {}, "he": {}, "she": {}, "i": {},
	"our": {}, "their": {}, "his": {}, "her": {},
	"can": {}, "could": {}, "may": {}, "might": {}, "should": {}, "would": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"not": {}, "no": {}, "yes": {},
	"using": {}, "used": {}, "use": {},
	"results": {}, "conclusion": {}, "conclusions": {},
	"study": {}, "studies": {}, "paper": {}, "article": {},
}

// IsStopword reports whether token is in the fixed stopword set.
// Matching is exact; callers lowercase first.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Normalize cleans raw text into a canonical token string: lowercase,
// every rune outside [a-z0-9] and whitespace replaced by a space,
// whitespace runs collapsed, stopwords dropped, tokens rejoined with
// single spaces. Empty or all-noise input yields "".
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if !IsStopword(tok) {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// Tokens normalizes raw text and splits it into its surviving tokens.
func Tokens(raw string) []string {
	clean := Normalize(raw)
	if clean == "" {
		return nil
	}
	return strings.Split(clean, " ")
}
