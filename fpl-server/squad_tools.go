package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/squad"
	"github.com/aatrey56/fpl-squad-planner/internal/store"
)

type OptimalSquadArgs struct {
	BudgetTenths *int `json:"budget_tenths,omitempty" jsonschema:"Total budget in tenths of a million (0 = configured default)"`
	ClubLimit    *int `json:"club_limit,omitempty" jsonschema:"Max players per club (0 = configured default)"`
}

type OptimalSquadReport struct {
	GeneratedAtUTC string                 `json:"generated_at_utc"`
	BudgetTenths   int                    `json:"budget_tenths"`
	ClubLimit      int                    `json:"club_limit"`
	SquadPrice     int                    `json:"squad_price_tenths"`
	ProjectedTotal float64                `json:"projected_total"`
	StartersNext   float64                `json:"starters_next_points"`
	Captain        int                    `json:"captain"`
	Squad          map[string][]playerRow `json:"squad"`
	Starters       []playerRow            `json:"starters"`
	Bench          []playerRow            `json:"bench"`
}

// buildOptimalSquad runs fresh-squad construction: exact selection over the
// eligible pool, then lineup and captain choice.
func buildOptimalSquad(ctx context.Context, cfg ServerConfig, args OptimalSquadArgs) (OptimalSquadReport, error) {
	pool, err := loadPool(ctx, cfg)
	if err != nil {
		return OptimalSquadReport{}, err
	}

	opts := squad.SelectOptions{
		Budget:      cfg.Planner.Budget,
		ClubLimit:   cfg.Planner.ClubLimit,
		Composition: cfg.Planner.Composition,
	}
	if args.BudgetTenths != nil && *args.BudgetTenths > 0 {
		opts.Budget = *args.BudgetTenths
	}
	if args.ClubLimit != nil && *args.ClubLimit > 0 {
		opts.ClubLimit = *args.ClubLimit
	}

	sq, err := squad.Select(pool, opts)
	if err != nil {
		return OptimalSquadReport{}, err
	}
	lineup, err := squad.SelectLineup(sq, cfg.Planner.Formation)
	if err != nil {
		return OptimalSquadReport{}, err
	}

	report := OptimalSquadReport{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		BudgetTenths:   opts.Budget,
		ClubLimit:      opts.ClubLimit,
		SquadPrice:     sq.TotalPrice(),
		ProjectedTotal: sq.ProjectedTotal(),
		StartersNext:   lineup.StartersNext(),
		Captain:        lineup.Captain,
		Squad:          groupRows(sq.Players),
		Starters:       toRows(lineup.Starters),
		Bench:          toRows(lineup.Bench),
	}
	if cfg.WriteDerived {
		st := store.NewJSONStore(cfg.DerivedRoot)
		if err := st.WriteReport("reports/optimal_squad.json", report); err != nil {
			return OptimalSquadReport{}, fmt.Errorf("write report: %w", err)
		}
	}
	return report, nil
}

type LineupArgs struct {
	PlayerIDs []int `json:"player_ids" jsonschema:"The 15 squad player ids (required)"`
}

type LineupReport struct {
	GeneratedAtUTC string      `json:"generated_at_utc"`
	StartersNext   float64     `json:"starters_next_points"`
	BenchNext      float64     `json:"bench_next_points"`
	Captain        int         `json:"captain"`
	Starters       []playerRow `json:"starters"`
	Bench          []playerRow `json:"bench"`
}

// buildLineup picks the best XI, captain, and bench order for a fixed squad.
func buildLineup(ctx context.Context, cfg ServerConfig, args LineupArgs) (LineupReport, error) {
	pool, err := loadFullPool(ctx, cfg)
	if err != nil {
		return LineupReport{}, err
	}
	sq, err := squadFromIDs(args.PlayerIDs, pool)
	if err != nil {
		return LineupReport{}, err
	}
	lineup, err := squad.SelectLineup(sq, cfg.Planner.Formation)
	if err != nil {
		return LineupReport{}, err
	}
	return LineupReport{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		StartersNext:   lineup.StartersNext(),
		BenchNext:      lineup.BenchNext(),
		Captain:        lineup.Captain,
		Starters:       toRows(lineup.Starters),
		Bench:          toRows(lineup.Bench),
	}, nil
}

// loadFullPool is loadPool without the availability filter: an existing
// squad may legitimately contain flagged players.
func loadFullPool(ctx context.Context, cfg ServerConfig) ([]model.Player, error) {
	if cfg.SQLitePath != "" {
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return store.LoadPoolSQLite(ctx, db)
	}
	st := store.NewJSONStore(cfg.DerivedRoot)
	snap, err := st.LoadPool(poolSnapshotPath)
	if err != nil {
		return nil, err
	}
	return snap.Players, nil
}
