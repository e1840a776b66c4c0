// Package transfer ranks single-swap transfer candidates for an existing
// squad: weakest members out, shortlisted same-position replacements in,
// with budget/club-limit/composition feasibility and point-hit costs.
package transfer

import (
	"fmt"
	"sort"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

// Config carries every knob the planner reads. Zero values are filled from
// the defaults below so a zero Config behaves like the standard game.
type Config struct {
	WeakLinks     int `json:"weak_links" yaml:"weak_links"`         // squad members considered for transfer out
	Shortlist     int `json:"shortlist" yaml:"shortlist"`           // replacement candidates per weak link
	FreeTransfers int `json:"free_transfers" yaml:"free_transfers"` // transfers at zero cost this gameweek
	MaxHits       int `json:"max_hits" yaml:"max_hits"`             // paid transfers allowed beyond the free allowance
	HitCost       int `json:"hit_cost" yaml:"hit_cost"`             // points per transfer beyond the allowance
	ClubLimit     int `json:"club_limit" yaml:"club_limit"`

	// ExcludeHighRotationRisk removes HIGH rotation-risk squad members
	// from weak-link consideration instead of flagging them for transfer.
	ExcludeHighRotationRisk bool `json:"exclude_high_rotation_risk" yaml:"exclude_high_rotation_risk"`

	Thresholds HitThresholds `json:"thresholds" yaml:"thresholds"`
}

// HitThresholds are the minimum net uplifts for a transfer to be
// recommended at each cost tier.
type HitThresholds struct {
	Free    float64 `json:"free" yaml:"free"`
	OneHit  float64 `json:"one_hit" yaml:"one_hit"`
	TwoHits float64 `json:"two_hits" yaml:"two_hits"`
}

// DefaultConfig is the standard policy: 3 weak links, 10-player shortlist,
// 1 free transfer, up to 2 paid hits at 4 points each, and net-uplift
// floors of 0 / 2 / 4 per tier.
func DefaultConfig() Config {
	return Config{
		WeakLinks:     3,
		Shortlist:     10,
		FreeTransfers: 1,
		MaxHits:       2,
		HitCost:       4,
		ClubLimit:     3,
		Thresholds:    HitThresholds{Free: 0, OneHit: 2, TwoHits: 4},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WeakLinks <= 0 {
		c.WeakLinks = d.WeakLinks
	}
	if c.Shortlist <= 0 {
		c.Shortlist = d.Shortlist
	}
	if c.MaxHits <= 0 {
		c.MaxHits = d.MaxHits
	}
	if c.HitCost <= 0 {
		c.HitCost = d.HitCost
	}
	if c.ClubLimit <= 0 {
		c.ClubLimit = d.ClubLimit
	}
	return c
}

func (c Config) validate() error {
	if c.FreeTransfers < 0 {
		return fmt.Errorf("%w: negative free transfer count", model.ErrInvalidConfiguration)
	}
	if c.Thresholds.Free < 0 || c.Thresholds.OneHit < 0 || c.Thresholds.TwoHits < 0 {
		return fmt.Errorf("%w: negative recommendation threshold", model.ErrInvalidConfiguration)
	}
	return nil
}

// WeakLinks returns the k squad members with the lowest projected points
// over the horizon, ties broken by higher price so expensive underperformers
// surface first.
func WeakLinks(sq model.Squad, k int, excludeHighRisk bool) []model.Player {
	members := make([]model.Player, 0, len(sq.Players))
	for _, p := range sq.Players {
		if excludeHighRisk && p.RotationRisk == model.RiskHigh {
			continue
		}
		members = append(members, p)
	}
	sort.Slice(members, func(i, j int) bool {
		pi, pj := members[i], members[j]
		if pi.ProjectedTotal() != pj.ProjectedTotal() {
			return pi.ProjectedTotal() < pj.ProjectedTotal()
		}
		if pi.Price != pj.Price {
			return pi.Price > pj.Price
		}
		return pi.ID < pj.ID
	})
	if len(members) > k {
		members = members[:k]
	}
	return members
}

// Plan evaluates every (weak link, shortlisted replacement) swap against
// the current squad and returns the feasible candidates ranked by net
// uplift descending. Infeasible swaps are dropped silently: infeasibility
// is expected filtering here, not a fault. Each candidate is costed as a
// first transfer (zero within the free allowance); BuildPlan applies the
// incremental costs of stacking several transfers.
func Plan(sq model.Squad, bank int, pool []model.Player, cfg Config) ([]model.TransferCandidate, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	firstCost := 0
	if cfg.FreeTransfers == 0 {
		firstCost = cfg.HitCost
	}

	candidates := make([]model.TransferCandidate, 0)
	for _, out := range WeakLinks(sq, cfg.WeakLinks, cfg.ExcludeHighRotationRisk) {
		for _, in := range shortlist(pool, sq, out.Position, cfg.Shortlist) {
			cand := evaluate(sq, bank, out, in, firstCost, cfg.ClubLimit)
			if !cand.Feasible() {
				continue
			}
			candidates = append(candidates, cand)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.NetUplift != cj.NetUplift {
			return ci.NetUplift > cj.NetUplift
		}
		if ci.Out.ID != cj.Out.ID {
			return ci.Out.ID < cj.Out.ID
		}
		return ci.In.ID < cj.In.ID
	})
	return candidates, nil
}

// shortlist returns the top n pool players of the given position not
// already in the squad, by horizon projection descending.
func shortlist(pool []model.Player, sq model.Squad, pos model.Position, n int) []model.Player {
	out := make([]model.Player, 0, n)
	for _, p := range pool {
		if p.Position != pos || sq.Contains(p.ID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i], out[j]
		if pi.ProjectedTotal() != pj.ProjectedTotal() {
			return pi.ProjectedTotal() > pj.ProjectedTotal()
		}
		if pi.Price != pj.Price {
			return pi.Price > pj.Price
		}
		return pi.ID < pj.ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// evaluate builds the immutable candidate for one swap, checking all three
// feasibility flags against the squad that would result from it.
func evaluate(sq model.Squad, bank int, out, in model.Player, costPoints, clubLimit int) model.TransferCandidate {
	priceDiff := in.Price - out.Price
	gross := in.ProjectedTotal() - out.ProjectedTotal()

	clubs := sq.ClubCounts()
	clubs[out.Club]--
	clubs[in.Club]++

	return model.TransferCandidate{
		Out:           out,
		In:            in,
		PriceDiff:     priceDiff,
		GrossUplift:   gross,
		CostPoints:    costPoints,
		NetUplift:     gross - float64(costPoints),
		BudgetOK:      priceDiff <= bank,
		ClubLimitOK:   clubs[in.Club] <= clubLimit,
		CompositionOK: out.Position == in.Position,
	}
}
