// Package chip decides whether a one-shot strategic chip is worth playing
// this gameweek. Each chip is usable once per season; chips are mutually
// exclusive within a gameweek.
package chip

import (
	"fmt"
	"sort"
)

// Chip is one of the four season-long boosts.
type Chip string

const (
	TripleCaptain Chip = "TRIPLE_CAPTAIN"
	BenchBoost    Chip = "BENCH_BOOST"
	Wildcard      Chip = "WILDCARD"
	FreeHit       Chip = "FREE_HIT"
)

// All lists the chips in a fixed report order.
var All = []Chip{TripleCaptain, BenchBoost, Wildcard, FreeHit}

func (c Chip) Valid() bool {
	switch c {
	case TripleCaptain, BenchBoost, Wildcard, FreeHit:
		return true
	}
	return false
}

// State tracks chip consumption for one planning session. A chip moves
// from available to consumed exactly once; consumed is terminal.
type State struct {
	consumed map[Chip]bool
}

func NewState() *State {
	return &State{consumed: make(map[Chip]bool, len(All))}
}

// NewStateWithConsumed seeds a state from an externally tracked season,
// e.g. the chips a manager has already played.
func NewStateWithConsumed(consumed ...Chip) *State {
	s := NewState()
	for _, c := range consumed {
		s.consumed[c] = true
	}
	return s
}

func (s *State) Available(c Chip) bool {
	return c.Valid() && !s.consumed[c]
}

// Activate marks the chip consumed. Activating an already consumed chip is
// a no-op, so re-applying a decision is safe.
func (s *State) Activate(c Chip) error {
	if !c.Valid() {
		return fmt.Errorf("unknown chip %q", c)
	}
	s.consumed[c] = true
	return nil
}

func (s *State) Consumed() []Chip {
	out := make([]Chip, 0, len(s.consumed))
	for _, c := range All {
		if s.consumed[c] {
			out = append(out, c)
		}
	}
	return out
}

// Context supplies the per-gameweek metrics each chip evaluates against.
type Context struct {
	// CaptainNext is the captain's next-gameweek projection; it is the
	// extra points a triple captain adds on top of the normal doubling.
	CaptainNext float64 `json:"captain_next_points"`
	// BenchNext is the bench's summed next-gameweek projection, the full
	// gain of a bench boost.
	BenchNext float64 `json:"bench_next_points"`
	// RebuildGain is the projected gain of an unconstrained squad rebuild
	// versus the current squad, used by Wildcard and Free Hit.
	RebuildGain float64 `json:"rebuild_gain"`
}

// Thresholds are the minimum projected gains to play each chip.
type Thresholds struct {
	TripleCaptain float64 `json:"triple_captain" yaml:"triple_captain"`
	BenchBoost    float64 `json:"bench_boost" yaml:"bench_boost"`
	Wildcard      float64 `json:"wildcard" yaml:"wildcard"`
	FreeHit       float64 `json:"free_hit" yaml:"free_hit"`
}

// DefaultThresholds: 15 projected points for the single-gameweek chips,
// 40 for a wildcard rebuild.
func DefaultThresholds() Thresholds {
	return Thresholds{TripleCaptain: 15.0, BenchBoost: 15.0, Wildcard: 40.0, FreeHit: 15.0}
}

func (t Thresholds) For(c Chip) float64 {
	switch c {
	case TripleCaptain:
		return t.TripleCaptain
	case BenchBoost:
		return t.BenchBoost
	case Wildcard:
		return t.Wildcard
	case FreeHit:
		return t.FreeHit
	default:
		return 0
	}
}

// Gain projects what the chip would add this gameweek.
func Gain(c Chip, ctx Context) float64 {
	switch c {
	case TripleCaptain:
		return ctx.CaptainNext
	case BenchBoost:
		return ctx.BenchNext
	case Wildcard, FreeHit:
		return ctx.RebuildGain
	default:
		return 0
	}
}

// Evaluate is the per-chip policy: play iff the chip is still available and
// its projected gain exceeds the threshold. It never mutates state, so a
// consumed chip always evaluates to (false, gain).
func Evaluate(c Chip, ctx Context, st *State, th Thresholds) (bool, float64) {
	gain := Gain(c, ctx)
	if !st.Available(c) {
		return false, gain
	}
	return gain > th.For(c), gain
}

// Recommendation is the advice for one chip this gameweek.
type Recommendation struct {
	Chip          Chip    `json:"chip"`
	Threshold     float64 `json:"threshold"`
	ProjectedGain float64 `json:"projected_gain"`
	ConditionMet  bool    `json:"condition_met"`
	Advice        string  `json:"recommendation"` // "play" or "hold"
}

// Recommend evaluates every chip and plays at most one: when several clear
// their thresholds the highest projected gain wins and the rest are held.
// The winning chip is consumed in the state, which is the evaluator's only
// mutation.
func Recommend(ctx Context, st *State, th Thresholds) []Recommendation {
	recs := make([]Recommendation, 0, len(All))
	for _, c := range All {
		ok, gain := Evaluate(c, ctx, st, th)
		recs = append(recs, Recommendation{
			Chip:          c,
			Threshold:     th.For(c),
			ProjectedGain: gain,
			ConditionMet:  ok,
			Advice:        "hold",
		})
	}

	cleared := make([]int, 0, len(recs))
	for i, r := range recs {
		if r.ConditionMet {
			cleared = append(cleared, i)
		}
	}
	if len(cleared) == 0 {
		return recs
	}
	sort.Slice(cleared, func(i, j int) bool {
		ri, rj := recs[cleared[i]], recs[cleared[j]]
		if ri.ProjectedGain != rj.ProjectedGain {
			return ri.ProjectedGain > rj.ProjectedGain
		}
		return ri.Chip < rj.Chip
	})

	// Losers keep ConditionMet = true but stay "hold": chips are mutually
	// exclusive within a gameweek.
	winner := cleared[0]
	recs[winner].Advice = "play"
	_ = st.Activate(recs[winner].Chip)
	return recs
}
