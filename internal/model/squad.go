package model

import "fmt"

// Composition is the required per-position squad split.
type Composition struct {
	GK  int `json:"gk" yaml:"gk"`
	DEF int `json:"def" yaml:"def"`
	MID int `json:"mid" yaml:"mid"`
	FWD int `json:"fwd" yaml:"fwd"`
}

// DefaultComposition is the standard 2/5/5/3 squad split.
func DefaultComposition() Composition {
	return Composition{GK: 2, DEF: 5, MID: 5, FWD: 3}
}

func (c Composition) Count(p Position) int {
	switch p {
	case Goalkeeper:
		return c.GK
	case Defender:
		return c.DEF
	case Midfielder:
		return c.MID
	case Forward:
		return c.FWD
	default:
		return 0
	}
}

func (c Composition) Total() int {
	return c.GK + c.DEF + c.MID + c.FWD
}

// FormationBounds constrain the outfield starters; the XI always has
// exactly one goalkeeper.
type FormationBounds struct {
	MinDEF int `json:"min_def" yaml:"min_def"`
	MaxDEF int `json:"max_def" yaml:"max_def"`
	MinMID int `json:"min_mid" yaml:"min_mid"`
	MaxMID int `json:"max_mid" yaml:"max_mid"`
	MinFWD int `json:"min_fwd" yaml:"min_fwd"`
	MaxFWD int `json:"max_fwd" yaml:"max_fwd"`
}

// DefaultFormationBounds matches the game rules: 3-5 DEF, 2-5 MID, 1-3 FWD.
func DefaultFormationBounds() FormationBounds {
	return FormationBounds{MinDEF: 3, MaxDEF: 5, MinMID: 2, MaxMID: 5, MinFWD: 1, MaxFWD: 3}
}

// Validate checks the bounds can form a legal XI of xiSize players
// (one goalkeeper plus xiSize-1 outfielders).
func (b FormationBounds) Validate(xiSize int) error {
	outfield := xiSize - 1
	if b.MinDEF < 0 || b.MinMID < 0 || b.MinFWD < 0 {
		return fmt.Errorf("%w: negative formation minimum", ErrInvalidConfiguration)
	}
	if b.MinDEF > b.MaxDEF || b.MinMID > b.MaxMID || b.MinFWD > b.MaxFWD {
		return fmt.Errorf("%w: formation minimum exceeds maximum", ErrInvalidConfiguration)
	}
	if b.MinDEF+b.MinMID+b.MinFWD > outfield {
		return fmt.Errorf("%w: formation minimums exceed %d outfield starters", ErrInvalidConfiguration, outfield)
	}
	if b.MaxDEF+b.MaxMID+b.MaxFWD < outfield {
		return fmt.Errorf("%w: formation maximums cannot fill %d outfield starters", ErrInvalidConfiguration, outfield)
	}
	return nil
}

// Squad is the full 15-player set. Captain and Bench are filled in once a
// lineup has been chosen; both reference player IDs.
type Squad struct {
	Players []Player `json:"players"`
	Captain int      `json:"captain,omitempty"`
	Bench   []int    `json:"bench,omitempty"`
}

func (s Squad) TotalPrice() int {
	total := 0
	for _, p := range s.Players {
		total += p.Price
	}
	return total
}

func (s Squad) ProjectedTotal() float64 {
	total := 0.0
	for _, p := range s.Players {
		total += p.ProjectedTotal()
	}
	return total
}

func (s Squad) Contains(id int) bool {
	for _, p := range s.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s Squad) PositionCounts() map[Position]int {
	counts := make(map[Position]int, 4)
	for _, p := range s.Players {
		counts[p.Position]++
	}
	return counts
}

func (s Squad) ClubCounts() map[int]int {
	counts := make(map[int]int)
	for _, p := range s.Players {
		counts[p.Club]++
	}
	return counts
}

// Validate checks the squad against composition, club limit, and budget.
func (s Squad) Validate(budget int, clubLimit int, comp Composition) error {
	if len(s.Players) != comp.Total() {
		return fmt.Errorf("%w: squad has %d players, want %d", ErrInfeasible, len(s.Players), comp.Total())
	}
	seen := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate player %d", ErrInfeasible, p.ID)
		}
		seen[p.ID] = true
	}
	counts := s.PositionCounts()
	for _, pos := range []Position{Goalkeeper, Defender, Midfielder, Forward} {
		if counts[pos] != comp.Count(pos) {
			return fmt.Errorf("%w: %d %s players, want %d", ErrInfeasible, counts[pos], pos, comp.Count(pos))
		}
	}
	for club, n := range s.ClubCounts() {
		if n > clubLimit {
			return fmt.Errorf("%w: %d players from club %d (limit %d)", ErrInfeasible, n, club, clubLimit)
		}
	}
	if s.TotalPrice() > budget {
		return fmt.Errorf("%w: squad price %d exceeds budget %d", ErrInfeasible, s.TotalPrice(), budget)
	}
	return nil
}

// Lineup partitions a squad into 11 starters and an ordered 4-player bench.
type Lineup struct {
	Starters []Player `json:"starters"`
	Bench    []Player `json:"bench"`
	Captain  int      `json:"captain"`
}

// StartersNext is the next-gameweek projection for the XI, captain doubled.
func (l Lineup) StartersNext() float64 {
	total := 0.0
	for _, p := range l.Starters {
		v := p.ProjectedNext()
		if p.ID == l.Captain {
			v *= 2
		}
		total += v
	}
	return total
}

// BenchNext is the next-gameweek projection summed over the bench.
func (l Lineup) BenchNext() float64 {
	total := 0.0
	for _, p := range l.Bench {
		total += p.ProjectedNext()
	}
	return total
}
