// Package position maps raw position labels onto the canonical taxonomy and
// holds the per-position stat profiles.
package position

import "strings"

// Canonical position codes.
const (
	QB  = "QB"
	RB  = "RB"
	WR  = "WR"
	FB  = "FB"
	TE  = "TE"
	OL  = "OL"
	DL  = "DL"
	LB  = "LB"
	CB  = "CB"
	S   = "S"
	RET = "RET"
	K   = "K"
	P   = "P"
)

// synonyms maps every known raw token to its canonical code. Tokens are the
// labels pro-football season tables actually use.
var synonyms = buildSynonyms(map[string][]string{
	LB:  {"LB", "OLB", "ILB", "MLB", "WLB", "WILL", "SLB", "SAM", "LILB", "LLB", "ROLB", "LOLB", "RLB", "MILB", "RILB"},
	CB:  {"CB", "NC", "NCB", "DC", "DCB", "DB", "RCB", "LCB"},
	RET: {"RET", "KR", "PR"},
	OL:  {"T", "OT", "OG", "G", "C", "LG", "RG", "LT", "RT", "LS"},
	DL:  {"DE", "DT", "NT", "LDT", "RDT", "LDE", "RDE"},
	S:   {"FS", "SS", "S"},
	FB:  {"FB"},
	WR:  {"WR"},
	RB:  {"RB"},
	QB:  {"QB"},
	TE:  {"TE"},
	K:   {"K"},
	P:   {"P"},
})

func buildSynonyms(sets map[string][]string) map[string]string {
	m := make(map[string]string)
	for canonical, tokens := range sets {
		for _, tok := range tokens {
			m[tok] = canonical
		}
	}
	return m
}

// Normalize maps a raw position token to its canonical code. It is pure and
// total: case and surrounding whitespace are ignored, and a token outside
// every synonym set is returned uppercased unchanged. Unknown labels are
// deliberately preserved; later stages simply find no stat profile for them.
func Normalize(raw string) string {
	tok := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := synonyms[tok]; ok {
		return canonical
	}
	return tok
}
