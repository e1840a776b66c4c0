package main

import (
	"context"
	"testing"

	"github.com/aatrey56/fpl-squad-planner/internal/chip"
	"github.com/aatrey56/fpl-squad-planner/internal/config"
	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/store"
)

// fixturePool builds a pool big enough for a full 15-player selection:
// projections descend with ID inside each position so the expected picks
// are the low IDs.
func fixturePool() []model.Player {
	var pool []model.Player
	id := 0
	add := func(pos model.Position, n, price int, top float64) {
		for i := 0; i < n; i++ {
			id++
			per := (top - float64(i)*0.3) / 3
			if per < 0.1 {
				per = 0.1
			}
			pool = append(pool, model.Player{
				ID:        id,
				Name:      pos.String(),
				Position:  pos,
				Club:      id, // one club each, club limit never binds
				Price:     price,
				Projected: []float64{per, per, per},
			})
		}
	}
	add(model.Goalkeeper, 6, 45, 12)
	add(model.Defender, 12, 48, 14)
	add(model.Midfielder, 12, 70, 20)
	add(model.Forward, 8, 80, 18)
	return pool
}

// serverFixture writes a pool snapshot into a temp raw root and returns a
// ServerConfig pointed at it.
func serverFixture(t *testing.T) ServerConfig {
	t.Helper()
	derived := t.TempDir()
	st := store.NewJSONStore(derived)
	snap := store.PoolSnapshot{Gameweek: 1, Horizon: 3, Players: fixturePool()}
	if err := st.WritePool(poolSnapshotPath, snap); err != nil {
		t.Fatalf("write pool: %v", err)
	}
	return ServerConfig{
		Planner:     config.Default(),
		RawRoot:     t.TempDir(),
		DerivedRoot: derived,
	}
}

func TestSquadFromIDs(t *testing.T) {
	pool := fixturePool()
	ids := make([]int, 0, 15)
	for _, p := range pool[:15] {
		ids = append(ids, p.ID)
	}

	sq, err := squadFromIDs(ids, pool)
	if err != nil {
		t.Fatalf("squadFromIDs: %v", err)
	}
	if len(sq.Players) != 15 {
		t.Errorf("players = %d, want 15", len(sq.Players))
	}

	if _, err := squadFromIDs(ids[:14], pool); err == nil {
		t.Error("want error for 14 ids")
	}
	dup := append([]int{}, ids...)
	dup[1] = dup[0]
	if _, err := squadFromIDs(dup, pool); err == nil {
		t.Error("want error for duplicate id")
	}
	missing := append([]int{}, ids...)
	missing[0] = 9999
	if _, err := squadFromIDs(missing, pool); err == nil {
		t.Error("want error for unknown id")
	}
}

func TestBuildOptimalSquad_FromSnapshot(t *testing.T) {
	cfg := serverFixture(t)

	report, err := buildOptimalSquad(context.Background(), cfg, OptimalSquadArgs{})
	if err != nil {
		t.Fatalf("buildOptimalSquad: %v", err)
	}

	total := 0
	for _, rows := range report.Squad {
		total += len(rows)
	}
	if total != 15 {
		t.Errorf("squad players = %d, want 15", total)
	}
	if report.SquadPrice > cfg.Planner.Budget {
		t.Errorf("squad price %d exceeds budget %d", report.SquadPrice, cfg.Planner.Budget)
	}
	if len(report.Starters) != 11 || len(report.Bench) != 4 {
		t.Errorf("lineup split = %d/%d, want 11/4", len(report.Starters), len(report.Bench))
	}
	if report.Captain == 0 {
		t.Error("captain not set")
	}
}

func TestBuildTransferPlan_FromSnapshot(t *testing.T) {
	cfg := serverFixture(t)
	cfg.WriteDerived = true

	// A deliberately weak squad: the worst members of each position.
	pool := fixturePool()
	byPos := map[model.Position][]model.Player{}
	for _, p := range pool {
		byPos[p.Position] = append(byPos[p.Position], p)
	}
	ids := make([]int, 0, 15)
	take := func(pos model.Position, n int) {
		ps := byPos[pos]
		for i := 0; i < n; i++ {
			ids = append(ids, ps[len(ps)-1-i].ID)
		}
	}
	take(model.Goalkeeper, 2)
	take(model.Defender, 5)
	take(model.Midfielder, 5)
	take(model.Forward, 3)

	report, err := buildTransferPlan(context.Background(), cfg, TransferPlanArgs{
		PlayerIDs:  ids,
		BankTenths: 100,
	})
	if err != nil {
		t.Fatalf("buildTransferPlan: %v", err)
	}

	if report.RunID == "" {
		t.Error("run id not set")
	}
	if len(report.WeakLinks) != cfg.Planner.Transfers.WeakLinks {
		t.Errorf("weak links = %d, want %d", len(report.WeakLinks), cfg.Planner.Transfers.WeakLinks)
	}
	if len(report.Candidates) == 0 {
		t.Fatal("no candidates for an obviously weak squad")
	}
	for i := 1; i < len(report.Candidates); i++ {
		if report.Candidates[i].NetUplift > report.Candidates[i-1].NetUplift {
			t.Errorf("candidates not ranked at index %d", i)
		}
	}

	st := store.NewJSONStore(cfg.DerivedRoot)
	if !st.Exists("reports/transfer_plan/" + report.RunID + ".json") {
		t.Error("derived report not written")
	}
}

func TestBuildChipAdvice_FromSnapshot(t *testing.T) {
	cfg := serverFixture(t)

	ids := make([]int, 0, 15)
	// Use the optimal squad so the context metrics are realistic.
	optimal, err := buildOptimalSquad(context.Background(), cfg, OptimalSquadArgs{})
	if err != nil {
		t.Fatalf("buildOptimalSquad: %v", err)
	}
	for _, rows := range optimal.Squad {
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
	}

	report, err := buildChipAdvice(context.Background(), cfg, chip.NewState(), ChipAdviceArgs{
		PlayerIDs:  ids,
		BankTenths: 0,
	})
	if err != nil {
		t.Fatalf("buildChipAdvice: %v", err)
	}

	if len(report.Recommendations) != 4 {
		t.Errorf("recommendations = %d, want 4", len(report.Recommendations))
	}
	// The optimal squad has nothing to gain from a rebuild.
	if report.Context.RebuildGain > 1e-9 {
		t.Errorf("rebuild gain = %v, want 0 for the optimal squad", report.Context.RebuildGain)
	}
}

func TestBuildPoolRankings(t *testing.T) {
	cfg := serverFixture(t)

	report, err := buildPoolRankings(context.Background(), cfg, PoolRankingsArgs{Limit: 5})
	if err != nil {
		t.Fatalf("buildPoolRankings: %v", err)
	}
	for pos, rows := range report.Positions {
		if len(rows) > 5 {
			t.Errorf("%s rows = %d, want at most 5", pos, len(rows))
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].Projected > rows[i-1].Projected {
				t.Errorf("%s not ranked at index %d", pos, i)
			}
		}
	}
}

func TestBuildFixtureEase(t *testing.T) {
	out, err := buildFixtureEase(FixtureEaseArgs{FDR: 2.0})
	if err != nil {
		t.Fatalf("buildFixtureEase: %v", err)
	}
	if out.Ease != 0.75 {
		t.Errorf("ease = %v, want 0.75", out.Ease)
	}
	if _, err := buildFixtureEase(FixtureEaseArgs{FDR: 6.0}); err == nil {
		t.Error("want error for out-of-range rating")
	}
}
