package position

// profiles is the authoritative mapping from canonical position to the stat
// columns that matter for it. It is consulted, never inferred from data.
var profiles = map[string][]string{
	QB:  {"Yds", "Cmp%", "Int", "TD", "1D"},
	WR:  {"Y/R", "Catch%", "Y/Tgt", "Succ%"},
	FB:  {"Y/R", "Catch%", "Y/Tgt", "Succ%"},
	RB:  {"Y/A", "Y/R", "Succ%", "1D"},
	TE:  {"Y/R", "Catch%", "Y/Tgt", "Succ%"},
	OL:  {"Comb", "Solo", "Ast"},
	DL:  {"PD", "Comb", "Solo", "Ast"},
	LB:  {"PD", "Comb", "Solo", "Ast"},
	CB:  {"PD", "Comb", "Solo", "Ast"},
	S:   {"PD", "Comb", "Solo", "Ast"},
	K:   {"FG%", "Lng"},
	P:   {"Y/P", "Lng"},
}

// Profile returns the ordered stat names for a canonical position, or nil if
// the position is not configured.
func Profile(pos string) []string {
	stats, ok := profiles[pos]
	if !ok {
		return nil
	}
	out := make([]string, len(stats))
	copy(out, stats)
	return out
}

// Configured reports whether the position has a stat profile.
func Configured(pos string) bool {
	_, ok := profiles[pos]
	return ok
}
