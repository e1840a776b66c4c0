package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aatrey56/fpl-squad-planner/internal/chip"
	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/predict"
	"github.com/aatrey56/fpl-squad-planner/internal/squad"
)

type ChipAdviceArgs struct {
	PlayerIDs  []int    `json:"player_ids" jsonschema:"The 15 squad player ids (required)"`
	BankTenths int      `json:"bank_tenths" jsonschema:"Money in the bank in tenths of a million"`
	Consumed   []string `json:"consumed_chips,omitempty" jsonschema:"Chips already played this season (TRIPLE_CAPTAIN, BENCH_BOOST, WILDCARD, FREE_HIT)"`
}

type ChipAdviceReport struct {
	GeneratedAtUTC  string                `json:"generated_at_utc"`
	Context         chip.Context          `json:"context"`
	Recommendations []chip.Recommendation `json:"recommendations"`
	Consumed        []chip.Chip           `json:"consumed_after"`
}

// buildChipAdvice derives the chip context from the squad and pool, then
// runs the mutually exclusive chip policy against the session state.
func buildChipAdvice(ctx context.Context, cfg ServerConfig, st *chip.State, args ChipAdviceArgs) (ChipAdviceReport, error) {
	pool, err := loadPool(ctx, cfg)
	if err != nil {
		return ChipAdviceReport{}, err
	}
	full, err := loadFullPool(ctx, cfg)
	if err != nil {
		return ChipAdviceReport{}, err
	}
	sq, err := squadFromIDs(args.PlayerIDs, full)
	if err != nil {
		return ChipAdviceReport{}, err
	}

	for _, name := range args.Consumed {
		c := chip.Chip(name)
		if !c.Valid() {
			return ChipAdviceReport{}, fmt.Errorf("unknown chip %q", name)
		}
		if err := st.Activate(c); err != nil {
			return ChipAdviceReport{}, err
		}
	}

	chipCtx, err := buildChipContext(sq, pool, args.BankTenths, cfg)
	if err != nil {
		return ChipAdviceReport{}, err
	}
	recs := chip.Recommend(chipCtx, st, cfg.Planner.Chips)

	return ChipAdviceReport{
		GeneratedAtUTC:  time.Now().UTC().Format(time.RFC3339),
		Context:         chipCtx,
		Recommendations: recs,
		Consumed:        st.Consumed(),
	}, nil
}

// buildChipContext computes the three chip metrics: captain's next-gameweek
// projection, bench next-gameweek sum, and the gain of a full rebuild at
// the squad's sell value plus bank.
func buildChipContext(sq model.Squad, pool []model.Player, bank int, cfg ServerConfig) (chip.Context, error) {
	lineup, err := squad.SelectLineup(sq, cfg.Planner.Formation)
	if err != nil {
		return chip.Context{}, err
	}

	captainNext := 0.0
	for _, p := range lineup.Starters {
		if p.ID == lineup.Captain {
			captainNext = p.ProjectedNext()
			break
		}
	}

	rebuildGain := 0.0
	rebuilt, err := squad.Select(pool, squad.SelectOptions{
		Budget:      sq.TotalPrice() + bank,
		ClubLimit:   cfg.Planner.ClubLimit,
		Composition: cfg.Planner.Composition,
	})
	if err == nil {
		gain := rebuilt.ProjectedTotal() - sq.ProjectedTotal()
		if gain > 0 {
			rebuildGain = gain
		}
	}

	return chip.Context{
		CaptainNext: captainNext,
		BenchNext:   lineup.BenchNext(),
		RebuildGain: rebuildGain,
	}, nil
}

type FixtureEaseArgs struct {
	FDR float64 `json:"fdr" jsonschema:"Fixture difficulty rating in [1.0, 5.0]"`
}

type FixtureEaseReport struct {
	FDR  float64 `json:"fdr"`
	Ease float64 `json:"ease"`
}

func buildFixtureEase(args FixtureEaseArgs) (FixtureEaseReport, error) {
	ease, err := predict.Ease(args.FDR)
	if err != nil {
		return FixtureEaseReport{}, err
	}
	return FixtureEaseReport{FDR: args.FDR, Ease: ease}, nil
}

type PlayerLookupArgs struct {
	PlayerID int `json:"player_id" jsonschema:"Player id (required)"`
}

func lookupPlayer(ctx context.Context, cfg ServerConfig, playerID int) (playerRow, error) {
	pool, err := loadFullPool(ctx, cfg)
	if err != nil {
		return playerRow{}, err
	}
	for _, p := range pool {
		if p.ID == playerID {
			return toRow(p), nil
		}
	}
	return playerRow{}, fmt.Errorf("player not found: %d", playerID)
}
