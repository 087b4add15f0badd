package note

import "strings"

// stopWords is the fixed filter list for keyword extraction. Scoring parity
// between notes depends on this exact list. In particular "will" is absent
// on purpose, so "Alice will review" keeps its verb phrase.
var stopWords = map[string]bool{
	"a": true, "about": true, "after": true, "again": true, "all": true,
	"also": true, "am": true, "an": true, "and": true, "any": true,
	"are": true, "as": true, "at": true, "be": true, "because": true,
	"been": true, "before": true, "but": true, "by": true, "can": true,
	"could": true, "did": true, "do": true, "does": true, "for": true,
	"from": true, "had": true, "has": true, "have": true, "he": true,
	"her": true, "here": true, "him": true, "his": true, "how": true,
	"i": true, "if": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "just": true, "me": true, "more": true,
	"most": true, "my": true, "no": true, "nor": true, "not": true,
	"of": true, "off": true, "on": true, "once": true, "only": true,
	"or": true, "other": true, "our": true, "out": true, "over": true,
	"she": true, "so": true, "some": true, "such": true, "than": true,
	"that": true, "the": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true,
	"up": true, "very": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"why": true, "with": true, "you": true, "your": true,
}

// ExtractKeywords reduces free text to its significant terms: lowercased,
// punctuation stripped, tokens of length <= 2 and stop words dropped,
// duplicates collapsed.
func ExtractKeywords(text string) map[string]bool {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	keywords := make(map[string]bool)
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		keywords[tok] = true
	}
	return keywords
}
