package squad

import (
	"fmt"
	"sort"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

const (
	startingXI = 11
	benchSize  = 4
)

// SelectLineup picks the starting XI maximizing next-gameweek projected
// points under the formation bounds, the captain as the highest-projected
// starter, and the bench ordered by descending next-gameweek projection.
// The squad's fixed 2/5/5/3 composition always admits the default bounds;
// custom bounds are checked and can make the squad infeasible.
func SelectLineup(sq model.Squad, bounds model.FormationBounds) (model.Lineup, error) {
	if err := bounds.Validate(startingXI); err != nil {
		return model.Lineup{}, err
	}
	if len(sq.Players) != startingXI+benchSize {
		return model.Lineup{}, fmt.Errorf("%w: lineup needs a %d-player squad, got %d",
			model.ErrInfeasible, startingXI+benchSize, len(sq.Players))
	}

	byPos := make(map[model.Position][]model.Player, 4)
	for _, p := range sq.Players {
		byPos[p.Position] = append(byPos[p.Position], p)
	}
	for _, pos := range positionOrder {
		sortByNext(byPos[pos])
	}

	gk := byPos[model.Goalkeeper]
	def := byPos[model.Defender]
	mid := byPos[model.Midfielder]
	fwd := byPos[model.Forward]
	if len(gk) == 0 {
		return model.Lineup{}, fmt.Errorf("%w: no goalkeeper in squad", model.ErrInfeasible)
	}

	prefix := func(players []model.Player) []float64 {
		sums := make([]float64, len(players)+1)
		for i, p := range players {
			sums[i+1] = sums[i] + p.ProjectedNext()
		}
		return sums
	}
	defSum, midSum, fwdSum := prefix(def), prefix(mid), prefix(fwd)

	bestD, bestM, bestF := -1, 0, 0
	bestTotal := 0.0
	for d := bounds.MinDEF; d <= bounds.MaxDEF && d <= len(def); d++ {
		for m := bounds.MinMID; m <= bounds.MaxMID && m <= len(mid); m++ {
			f := startingXI - 1 - d - m
			if f < bounds.MinFWD || f > bounds.MaxFWD || f > len(fwd) {
				continue
			}
			total := gk[0].ProjectedNext() + defSum[d] + midSum[m] + fwdSum[f]
			if bestD < 0 || total > bestTotal {
				bestD, bestM, bestF = d, m, f
				bestTotal = total
			}
		}
	}
	if bestD < 0 {
		return model.Lineup{}, fmt.Errorf("%w: squad cannot satisfy formation bounds %+v",
			model.ErrInfeasible, bounds)
	}

	starters := make([]model.Player, 0, startingXI)
	starters = append(starters, gk[0])
	starters = append(starters, def[:bestD]...)
	starters = append(starters, mid[:bestM]...)
	starters = append(starters, fwd[:bestF]...)

	bench := make([]model.Player, 0, benchSize)
	bench = append(bench, gk[1:]...)
	bench = append(bench, def[bestD:]...)
	bench = append(bench, mid[bestM:]...)
	bench = append(bench, fwd[bestF:]...)
	sortByNext(bench)

	return model.Lineup{
		Starters: starters,
		Bench:    bench,
		Captain:  pickCaptain(starters),
	}, nil
}

// pickCaptain returns the starter with the highest next-gameweek projection,
// ties broken by higher price then lower ID.
func pickCaptain(starters []model.Player) int {
	best := starters[0]
	for _, p := range starters[1:] {
		if nextBefore(p, best) {
			best = p
		}
	}
	return best.ID
}

// sortByNext orders by next-gameweek projection descending, then price
// descending, then ID ascending.
func sortByNext(players []model.Player) {
	sort.Slice(players, func(i, j int) bool {
		return nextBefore(players[i], players[j])
	})
}

func nextBefore(a, b model.Player) bool {
	if a.ProjectedNext() != b.ProjectedNext() {
		return a.ProjectedNext() > b.ProjectedNext()
	}
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.ID < b.ID
}
