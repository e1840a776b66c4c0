package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

func cand(outID, inID int, pos model.Position, gross float64) model.TransferCandidate {
	return model.TransferCandidate{
		Out:           mk(outID, pos, outID, 50, 0),
		In:            mk(inID, pos, inID, 50, gross),
		GrossUplift:   gross,
		NetUplift:     gross,
		BudgetOK:      true,
		ClubLimitOK:   true,
		CompositionOK: true,
	}
}

func TestBuildPlan_IncrementalHitCosts(t *testing.T) {
	candidates := []model.TransferCandidate{
		cand(31, 101, model.Forward, 12),
		cand(32, 102, model.Forward, 8),
		cand(15, 103, model.Defender, 6),
	}
	cfg := DefaultConfig() // 1 free, hits cost 4

	plan := BuildPlan(candidates, 3, cfg)
	require.Len(t, plan.Transfers, 3)

	// One free transfer, then each extra move costs 4 more.
	assert.Equal(t, 0, plan.Transfers[0].CostPoints)
	assert.Equal(t, 4, plan.Transfers[1].CostPoints)
	assert.Equal(t, 4, plan.Transfers[2].CostPoints)
	assert.Equal(t, 8, plan.TotalCost)
	assert.Equal(t, 2, plan.HitsTaken)

	assert.InDelta(t, 12.0, plan.Transfers[0].NetUplift, 1e-9)
	assert.InDelta(t, 4.0, plan.Transfers[1].NetUplift, 1e-9)
	assert.InDelta(t, 2.0, plan.Transfers[2].NetUplift, 1e-9)
	assert.InDelta(t, 18.0, plan.TotalNetUplift, 1e-9)
}

func TestBuildPlan_TwoFreeTransfersThenHit(t *testing.T) {
	candidates := []model.TransferCandidate{
		cand(31, 101, model.Forward, 10),
		cand(32, 102, model.Forward, 9),
		cand(15, 103, model.Defender, 8),
	}
	cfg := DefaultConfig()
	cfg.FreeTransfers = 2

	plan := BuildPlan(candidates, 3, cfg)
	require.Len(t, plan.Transfers, 3)
	assert.Equal(t, 0, plan.Transfers[0].CostPoints)
	assert.Equal(t, 0, plan.Transfers[1].CostPoints)
	assert.Equal(t, 4, plan.Transfers[2].CostPoints)
	assert.Equal(t, 4, plan.TotalCost)
}

func TestBuildPlan_StopsAtMaxHits(t *testing.T) {
	candidates := []model.TransferCandidate{
		cand(31, 101, model.Forward, 20),
		cand(32, 102, model.Forward, 19),
		cand(15, 103, model.Defender, 18),
		cand(14, 104, model.Defender, 17),
		cand(25, 105, model.Midfielder, 16),
	}
	cfg := DefaultConfig() // 1 free + at most 2 hits

	plan := BuildPlan(candidates, 10, cfg)
	assert.Len(t, plan.Transfers, 3, "1 free + 2 hits caps the plan")
	assert.Equal(t, 2, plan.HitsTaken)
}

func TestBuildPlan_OnePlayerMovesOnce(t *testing.T) {
	// Two candidates replace the same outgoing player; only the better
	// one enters the plan. Same for a shared incoming player.
	candidates := []model.TransferCandidate{
		cand(31, 101, model.Forward, 12),
		cand(31, 102, model.Forward, 11),
		cand(32, 101, model.Forward, 10),
		cand(32, 103, model.Forward, 9),
	}
	plan := BuildPlan(candidates, 4, DefaultConfig())
	require.Len(t, plan.Transfers, 2)
	assert.Equal(t, 101, plan.Transfers[0].Candidate.In.ID)
	assert.Equal(t, 103, plan.Transfers[1].Candidate.In.ID)
}

func TestBuildPlan_RecommendationTiers(t *testing.T) {
	// Default thresholds: free > 0, first hit > 2, second hit > 4.
	candidates := []model.TransferCandidate{
		cand(31, 101, model.Forward, 12), // free: net 12 > 0
		cand(32, 102, model.Forward, 6),  // first hit: net 2, not > 2
		cand(15, 103, model.Defender, 9), // second hit: net 5 > 4
	}
	plan := BuildPlan(candidates, 3, DefaultConfig())
	require.Len(t, plan.Transfers, 3)

	assert.True(t, plan.Transfers[0].Recommended)
	assert.Equal(t, "free transfer", plan.Transfers[0].Why)

	assert.False(t, plan.Transfers[1].Recommended, "net uplift must strictly exceed the tier threshold")
	assert.Equal(t, "first point hit", plan.Transfers[1].Why)

	assert.True(t, plan.Transfers[2].Recommended)
	assert.Equal(t, "additional point hit", plan.Transfers[2].Why)
}

func TestBuildPlan_EmptyCandidates(t *testing.T) {
	plan := BuildPlan(nil, 3, DefaultConfig())
	assert.Empty(t, plan.Transfers)
	assert.Equal(t, 0, plan.TotalCost)
}
