// Package squad holds the combinatorial core of the planner: exact squad
// selection under budget, composition, and club-limit constraints, and
// lineup selection under formation bounds.
package squad

import (
	"fmt"
	"sort"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

// SelectOptions carries the constraint values for one selection run. All
// values are explicit; the solver keeps no ambient state.
type SelectOptions struct {
	Budget      int               // total price budget in tenths
	ClubLimit   int               // max players per club
	Composition model.Composition // required per-position counts
}

// DefaultSelectOptions is the standard game: 100.0m budget, 3 per club,
// 2/5/5/3 squad.
func DefaultSelectOptions() SelectOptions {
	return SelectOptions{Budget: 1000, ClubLimit: 3, Composition: model.DefaultComposition()}
}

// Select solves the binary selection program exactly: pick the squad that
// maximizes summed horizon projections subject to exact composition, total
// price within budget, and at most ClubLimit players per club. Ties in
// total projection are broken toward higher price, then lower player ID, so
// identical input always yields identical output. Returns
// model.ErrInsufficientPool when some position cannot be staffed at all,
// and model.ErrInfeasible when no combination satisfies every constraint.
func Select(pool []model.Player, opts SelectOptions) (model.Squad, error) {
	if err := validateOptions(opts); err != nil {
		return model.Squad{}, err
	}

	groups, err := groupPool(pool, opts.Composition)
	if err != nil {
		return model.Squad{}, err
	}

	s := newSolver(groups, opts)
	chosen, ok := s.solve()
	if !ok {
		return model.Squad{}, fmt.Errorf("%w: budget %d, club limit %d", model.ErrInfeasible, opts.Budget, opts.ClubLimit)
	}
	return model.Squad{Players: chosen}, nil
}

func validateOptions(opts SelectOptions) error {
	if opts.Budget < 0 {
		return fmt.Errorf("%w: negative budget", model.ErrInvalidConfiguration)
	}
	if opts.ClubLimit < 1 {
		return fmt.Errorf("%w: club limit must be at least 1", model.ErrInvalidConfiguration)
	}
	c := opts.Composition
	if c.GK < 0 || c.DEF < 0 || c.MID < 0 || c.FWD < 0 || c.Total() == 0 {
		return fmt.Errorf("%w: bad composition %+v", model.ErrInvalidConfiguration, c)
	}
	return nil
}

// positionOrder fixes the group traversal: goalkeepers first, forwards last.
var positionOrder = []model.Position{model.Goalkeeper, model.Defender, model.Midfielder, model.Forward}

type group struct {
	pos     model.Position
	need    int
	players []model.Player
}

// groupPool splits the pool per position, orders each group by the
// deterministic desirability key, and rejects pools that cannot staff a
// position before any solving happens.
func groupPool(pool []model.Player, comp model.Composition) ([]group, error) {
	byPos := make(map[model.Position][]model.Player, 4)
	for _, p := range pool {
		if !p.Position.Valid() {
			continue
		}
		byPos[p.Position] = append(byPos[p.Position], p)
	}

	groups := make([]group, 0, len(positionOrder))
	for _, pos := range positionOrder {
		need := comp.Count(pos)
		players := byPos[pos]
		if len(players) < need {
			return nil, fmt.Errorf("%w: %d %s players for %d slots", model.ErrInsufficientPool, len(players), pos, need)
		}
		sortByValue(players)
		groups = append(groups, group{pos: pos, need: need, players: players})
	}
	return groups, nil
}

// sortByValue orders players by projected points descending, then price
// descending, then ID ascending. This single ordering drives both the
// search order and the documented tie-break.
func sortByValue(players []model.Player) {
	sort.Slice(players, func(i, j int) bool {
		pi, pj := players[i], players[j]
		if pi.ProjectedTotal() != pj.ProjectedTotal() {
			return pi.ProjectedTotal() > pj.ProjectedTotal()
		}
		if pi.Price != pj.Price {
			return pi.Price > pj.Price
		}
		return pi.ID < pj.ID
	})
}

type solver struct {
	groups []group
	opts   SelectOptions

	// topPts[g][i][k] is the max summed projection of any k players from
	// groups[g].players[i:], ignoring budget and club limits — an upper
	// bound for pruning. minCost[g][i][k] is the cheapest such k-subset —
	// a lower bound on remaining spend.
	topPts  [][][]float64
	minCost [][][]int

	// tailPts[g] / tailCost[g] aggregate the bounds of groups after g.
	tailPts  []float64
	tailCost []int

	best      []model.Player
	bestScore float64
	found     bool

	chosen []model.Player
	clubs  map[int]int
}

func newSolver(groups []group, opts SelectOptions) *solver {
	s := &solver{groups: groups, opts: opts, clubs: make(map[int]int)}
	s.topPts = make([][][]float64, len(groups))
	s.minCost = make([][][]int, len(groups))
	for g, grp := range groups {
		n := len(grp.players)
		k := grp.need
		pts := make([][]float64, n+1)
		cost := make([][]int, n+1)
		for i := n; i >= 0; i-- {
			pts[i] = make([]float64, k+1)
			cost[i] = make([]int, k+1)
			for c := 1; c <= k; c++ {
				if n-i < c {
					pts[i][c] = negInf
					cost[i][c] = maxCost
					continue
				}
				p := grp.players[i]
				takePts := p.ProjectedTotal() + pts[i+1][c-1]
				takeCost := p.Price + cost[i+1][c-1]
				pts[i][c] = maxF(takePts, pts[i+1][c])
				cost[i][c] = minI(takeCost, cost[i+1][c])
			}
		}
		s.topPts[g] = pts
		s.minCost[g] = cost
	}

	s.tailPts = make([]float64, len(groups)+1)
	s.tailCost = make([]int, len(groups)+1)
	for g := len(groups) - 1; g >= 0; g-- {
		s.tailPts[g] = s.tailPts[g+1] + s.topPts[g][0][groups[g].need]
		s.tailCost[g] = s.tailCost[g+1] + s.minCost[g][0][groups[g].need]
	}
	return s
}

const (
	negInf  = -1e18
	maxCost = int(1) << 50
)

func (s *solver) solve() ([]model.Player, bool) {
	s.bestScore = negInf
	s.search(0, 0, 0, 0, 0)
	if !s.found {
		return nil, false
	}
	return s.best, true
}

// search extends the partial squad with players from groups[g].players[i:],
// with taken already picked in this group, spent the running price, and
// score the running projection sum.
func (s *solver) search(g, i, taken, spent int, score float64) {
	if g == len(s.groups) {
		// Strict improvement only: among equal-projection squads the
		// first one reached wins, and the search order already prefers
		// higher price then lower ID.
		if score > s.bestScore {
			s.bestScore = score
			s.best = append([]model.Player(nil), s.chosen...)
			s.found = true
		}
		return
	}

	grp := s.groups[g]
	needLeft := grp.need - taken
	if needLeft == 0 {
		s.search(g+1, 0, 0, spent, score)
		return
	}
	if len(grp.players)-i < needLeft {
		return
	}

	// Budget lower bound: cheapest completion of this group plus the
	// cheapest completion of all later groups.
	if spent+s.minCost[g][i][needLeft]+s.tailCost[g+1] > s.opts.Budget {
		return
	}
	// Projection upper bound: best completion cannot beat the incumbent.
	if s.found && score+s.topPts[g][i][needLeft]+s.tailPts[g+1] <= s.bestScore {
		return
	}

	p := grp.players[i]

	// Take players[i] when the club cap allows it.
	if s.clubs[p.Club] < s.opts.ClubLimit && spent+p.Price <= s.opts.Budget {
		s.chosen = append(s.chosen, p)
		s.clubs[p.Club]++
		s.search(g, i+1, taken+1, spent+p.Price, score+p.ProjectedTotal())
		s.clubs[p.Club]--
		s.chosen = s.chosen[:len(s.chosen)-1]
	}

	// Skip players[i].
	s.search(g, i+1, taken, spent, score)
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}
