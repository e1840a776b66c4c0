package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/store"
	"github.com/aatrey56/fpl-squad-planner/internal/transfer"
)

type TransferPlanArgs struct {
	PlayerIDs     []int `json:"player_ids" jsonschema:"The 15 squad player ids (required)"`
	BankTenths    int   `json:"bank_tenths" jsonschema:"Money in the bank in tenths of a million"`
	FreeTransfers *int  `json:"free_transfers,omitempty" jsonschema:"Free transfers available (default 1)"`
	MaxTransfers  *int  `json:"max_transfers,omitempty" jsonschema:"How many transfers to plan (default free + max hits)"`
	Shortlist     *int  `json:"shortlist,omitempty" jsonschema:"Replacement shortlist size per weak link (default 10)"`
	WeakLinks     *int  `json:"weak_links,omitempty" jsonschema:"Squad members considered for transfer out (default 3)"`
}

type TransferPlanReport struct {
	RunID          string                    `json:"run_id"`
	GeneratedAtUTC string                    `json:"generated_at_utc"`
	BankTenths     int                       `json:"bank_tenths"`
	FreeTransfers  int                       `json:"free_transfers"`
	WeakLinks      []playerRow               `json:"weak_links"`
	Candidates     []model.TransferCandidate `json:"ranked_candidates"`
	Plan           transfer.PlanResult       `json:"plan"`
}

// buildTransferPlan ranks single-swap options for an existing squad and
// assembles the incremental-cost plan over them.
func buildTransferPlan(ctx context.Context, cfg ServerConfig, args TransferPlanArgs) (TransferPlanReport, error) {
	pool, err := loadPool(ctx, cfg)
	if err != nil {
		return TransferPlanReport{}, err
	}
	full, err := loadFullPool(ctx, cfg)
	if err != nil {
		return TransferPlanReport{}, err
	}
	sq, err := squadFromIDs(args.PlayerIDs, full)
	if err != nil {
		return TransferPlanReport{}, err
	}

	tcfg := cfg.Planner.Transfers
	if args.FreeTransfers != nil && *args.FreeTransfers >= 0 {
		tcfg.FreeTransfers = *args.FreeTransfers
	}
	if args.Shortlist != nil && *args.Shortlist > 0 {
		tcfg.Shortlist = *args.Shortlist
	}
	if args.WeakLinks != nil && *args.WeakLinks > 0 {
		tcfg.WeakLinks = *args.WeakLinks
	}

	candidates, err := transfer.Plan(sq, args.BankTenths, pool, tcfg)
	if err != nil {
		return TransferPlanReport{}, err
	}

	maxTransfers := tcfg.FreeTransfers + tcfg.MaxHits
	if args.MaxTransfers != nil && *args.MaxTransfers > 0 {
		maxTransfers = *args.MaxTransfers
	}
	plan := transfer.BuildPlan(candidates, maxTransfers, tcfg)

	report := TransferPlanReport{
		RunID:          uuid.NewString(),
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		BankTenths:     args.BankTenths,
		FreeTransfers:  tcfg.FreeTransfers,
		WeakLinks:      toRows(transfer.WeakLinks(sq, tcfg.WeakLinks, tcfg.ExcludeHighRotationRisk)),
		Candidates:     candidates,
		Plan:           plan,
	}
	if cfg.WriteDerived {
		st := store.NewJSONStore(cfg.DerivedRoot)
		rel := fmt.Sprintf("reports/transfer_plan/%s.json", report.RunID)
		if err := st.WriteReport(rel, report); err != nil {
			return TransferPlanReport{}, fmt.Errorf("write report: %w", err)
		}
	}
	return report, nil
}
