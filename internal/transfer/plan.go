package transfer

import "github.com/aatrey56/fpl-squad-planner/internal/model"

// PlannedTransfer is one step of an assembled multi-transfer plan, with the
// incremental cost it carries at its position in the plan.
type PlannedTransfer struct {
	Candidate   model.TransferCandidate `json:"candidate"`
	CostPoints  int                     `json:"transfer_cost_points"`
	NetUplift   float64                 `json:"net_uplift"`
	Recommended bool                    `json:"recommended"`
	Why         string                  `json:"why"`
}

// PlanResult is the ranked plan the caller decides over. The planner never
// executes transfers; it prices the options.
type PlanResult struct {
	Transfers      []PlannedTransfer `json:"transfers"`
	TotalCost      int               `json:"total_transfer_cost_points"`
	TotalNetUplift float64           `json:"total_net_uplift"`
	HitsTaken      int               `json:"hits_taken"`
}

// BuildPlan walks the ranked candidates and assembles up to maxTransfers
// swaps, at most one per outgoing player and one per incoming player.
// Transfers within the free allowance cost nothing; each one beyond it
// costs HitCost more, cumulatively, capped at MaxHits paid transfers. A
// step is recommended when its net uplift at its tier clears the configured
// threshold (> Free for free transfers, > OneHit for the first hit,
// > TwoHits for the second).
func BuildPlan(candidates []model.TransferCandidate, maxTransfers int, cfg Config) PlanResult {
	cfg = cfg.withDefaults()

	result := PlanResult{Transfers: make([]PlannedTransfer, 0, maxTransfers)}
	usedOut := make(map[int]bool)
	usedIn := make(map[int]bool)

	for _, cand := range candidates {
		if len(result.Transfers) == maxTransfers {
			break
		}
		if usedOut[cand.Out.ID] || usedIn[cand.In.ID] {
			continue
		}

		ordinal := len(result.Transfers)
		cost := 0
		if ordinal >= cfg.FreeTransfers {
			if result.HitsTaken == cfg.MaxHits {
				break
			}
			cost = cfg.HitCost
		}

		net := cand.GrossUplift - float64(cost)
		step := PlannedTransfer{
			Candidate:  cand,
			CostPoints: cost,
			NetUplift:  net,
		}
		switch {
		case cost == 0:
			step.Recommended = net > cfg.Thresholds.Free
			step.Why = "free transfer"
		case result.HitsTaken == 0:
			step.Recommended = net > cfg.Thresholds.OneHit
			step.Why = "first point hit"
		default:
			step.Recommended = net > cfg.Thresholds.TwoHits
			step.Why = "additional point hit"
		}

		if cost > 0 {
			result.HitsTaken++
		}
		usedOut[cand.Out.ID] = true
		usedIn[cand.In.ID] = true
		result.Transfers = append(result.Transfers, step)
		result.TotalCost += cost
		result.TotalNetUplift += net
	}
	return result
}
