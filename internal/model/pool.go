package model

// Eligible filters out players flagged unavailable (injury or suspension).
// The pool passed to the optimizers is always the eligible view.
func Eligible(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if p.Unavailable {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ByID indexes a player slice by ID. Later duplicates win, which never
// happens for a well-formed pool.
func ByID(players []Player) map[int]Player {
	m := make(map[int]Player, len(players))
	for _, p := range players {
		m[p.ID] = p
	}
	return m
}
