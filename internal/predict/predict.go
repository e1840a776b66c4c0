// Package predict defines the prediction boundary of the planner: the
// fixture ease transform and the provider interface that supplies
// per-gameweek point projections. The statistical model behind a provider
// is out of scope here; the planner only requires non-negative estimates.
package predict

import (
	"fmt"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

// Ease converts a fixture difficulty rating in [1,5] to a fixture ease
// score in [0,1]: 1 is the easiest possible opponent, 0 the hardest.
// Downstream linear predictors assume ease stays inside [0,1], so an
// out-of-range rating is rejected rather than clamped.
func Ease(fdr float64) (float64, error) {
	if fdr < 1.0 || fdr > 5.0 {
		return 0, fmt.Errorf("%w: fdr %.2f not in [1.0, 5.0]", model.ErrInvalidRating, fdr)
	}
	return (5.0 - fdr) / 4.0, nil
}

// Provider supplies a predicted-points estimate for a player in a future
// gameweek (period 0 = next gameweek). Estimates are never negative.
type Provider interface {
	Predict(playerID int, period int) (float64, error)
}

// Static is a Provider backed by a precomputed projection table, as loaded
// from a pool snapshot or the players database. Missing players or periods
// predict zero; negative table entries are clamped to zero.
type Static struct {
	table map[int][]float64
}

func NewStatic(table map[int][]float64) *Static {
	return &Static{table: table}
}

func (s *Static) Predict(playerID int, period int) (float64, error) {
	if period < 0 {
		return 0, fmt.Errorf("negative period %d", period)
	}
	proj, ok := s.table[playerID]
	if !ok || period >= len(proj) {
		return 0, nil
	}
	if proj[period] < 0 {
		return 0, nil
	}
	return proj[period], nil
}

// HorizonTotal sums a provider's projections over the first horizon periods.
func HorizonTotal(p Provider, playerID int, horizon int) (float64, error) {
	total := 0.0
	for period := 0; period < horizon; period++ {
		v, err := p.Predict(playerID, period)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// FillProjections populates each player's Projected slice from the provider
// over the given horizon, leaving the rest of the player untouched.
func FillProjections(players []model.Player, p Provider, horizon int) ([]model.Player, error) {
	out := make([]model.Player, len(players))
	for i, pl := range players {
		proj := make([]float64, horizon)
		for period := 0; period < horizon; period++ {
			v, err := p.Predict(pl.ID, period)
			if err != nil {
				return nil, fmt.Errorf("player %d period %d: %w", pl.ID, period, err)
			}
			proj[period] = v
		}
		pl.Projected = proj
		out[i] = pl
	}
	return out, nil
}
