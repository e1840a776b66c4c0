package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aatrey56/fpl-squad-planner/internal/chip"
	"github.com/aatrey56/fpl-squad-planner/internal/config"
	"github.com/aatrey56/fpl-squad-planner/internal/fetch"
	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/squad"
	"github.com/aatrey56/fpl-squad-planner/internal/store"
	"github.com/aatrey56/fpl-squad-planner/internal/transfer"
)

var (
	configPath string
	sqlitePath string
	logger     zerolog.Logger
)

func main() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "fplplan",
		Short:         "Fantasy squad planning from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "planner configuration file")
	root.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "players SQLite database (overrides config)")

	root.AddCommand(newSquadCommand())
	root.AddCommand(newLineupCommand())
	root.AddCommand(newTransfersCommand())
	root.AddCommand(newChipsCommand())
	root.AddCommand(newFetchCommand())

	if err := root.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("fplplan")
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if sqlitePath != "" {
		cfg.Data.SQLitePath = sqlitePath
	}
	return cfg, nil
}

func loadPool(ctx context.Context, cfg config.Config) ([]model.Player, error) {
	if cfg.Data.SQLitePath != "" {
		db, err := store.OpenSQLite(cfg.Data.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return store.LoadPoolSQLite(ctx, db)
	}
	snap, err := store.NewJSONStore(cfg.Data.DerivedRoot).LoadPool("pool/current.json")
	if err != nil {
		return nil, err
	}
	return snap.Players, nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func newSquadCommand() *cobra.Command {
	var budgetTenths int
	cmd := &cobra.Command{
		Use:   "squad",
		Short: "Build the optimal 15-player squad under budget and club limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := loadPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			pool = model.Eligible(pool)

			opts := squad.SelectOptions{
				Budget:      cfg.Budget,
				ClubLimit:   cfg.ClubLimit,
				Composition: cfg.Composition,
			}
			if budgetTenths > 0 {
				opts.Budget = budgetTenths
			}

			sq, err := squad.Select(pool, opts)
			if err != nil {
				return err
			}
			lineup, err := squad.SelectLineup(sq, cfg.Formation)
			if err != nil {
				return err
			}

			logger.Info().
				Int("pool", len(pool)).
				Int("spent_tenths", sq.TotalPrice()).
				Float64("projected", sq.ProjectedTotal()).
				Msg("squad selected")
			return printJSON(map[string]any{
				"squad":  sq.Players,
				"lineup": lineup,
			})
		},
	}
	cmd.Flags().IntVar(&budgetTenths, "budget", 0, "budget in tenths of a million (0 = config)")
	return cmd
}

func newLineupCommand() *cobra.Command {
	var ids []int
	cmd := &cobra.Command{
		Use:   "lineup",
		Short: "Pick the starting XI, captain, and bench for an existing squad",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := loadPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			sq, err := squadFromIDs(ids, pool)
			if err != nil {
				return err
			}
			lineup, err := squad.SelectLineup(sq, cfg.Formation)
			if err != nil {
				return err
			}
			return printJSON(lineup)
		},
	}
	cmd.Flags().IntSliceVar(&ids, "players", nil, "the 15 player ids of the squad (required)")
	cmd.MarkFlagRequired("players")
	return cmd
}

func newTransfersCommand() *cobra.Command {
	var (
		ids      []int
		bank     int
		free     int
		maxMoves int
	)
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Rank transfer options and price point hits for an existing squad",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := loadPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			sq, err := squadFromIDs(ids, pool)
			if err != nil {
				return err
			}

			tcfg := cfg.Transfers
			if free > 0 {
				tcfg.FreeTransfers = free
			}
			candidates, err := transfer.Plan(sq, bank, model.Eligible(pool), tcfg)
			if err != nil {
				return err
			}
			n := maxMoves
			if n <= 0 {
				n = tcfg.FreeTransfers + tcfg.MaxHits
			}
			plan := transfer.BuildPlan(candidates, n, tcfg)

			logger.Info().
				Int("candidates", len(candidates)).
				Int("planned", len(plan.Transfers)).
				Int("hits", plan.HitsTaken).
				Msg("transfer plan built")
			return printJSON(map[string]any{
				"candidates": candidates,
				"plan":       plan,
			})
		},
	}
	cmd.Flags().IntSliceVar(&ids, "players", nil, "the 15 player ids of the squad (required)")
	cmd.Flags().IntVar(&bank, "bank", 0, "money in the bank, tenths of a million")
	cmd.Flags().IntVar(&free, "free", 0, "free transfers available (0 = config)")
	cmd.Flags().IntVar(&maxMoves, "max", 0, "maximum transfers to plan (0 = free + max hits)")
	cmd.MarkFlagRequired("players")
	return cmd
}

func newChipsCommand() *cobra.Command {
	var (
		ids      []int
		bank     int
		consumed []string
	)
	cmd := &cobra.Command{
		Use:   "chips",
		Short: "Evaluate Triple Captain, Bench Boost, Wildcard, and Free Hit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := loadPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			sq, err := squadFromIDs(ids, pool)
			if err != nil {
				return err
			}

			lineup, err := squad.SelectLineup(sq, cfg.Formation)
			if err != nil {
				return err
			}
			captainNext := 0.0
			if skipper, ok := model.ByID(sq.Players)[lineup.Captain]; ok {
				captainNext = skipper.ProjectedNext()
			}

			rebuildGain := 0.0
			if rebuilt, err := squad.Select(model.Eligible(pool), squad.SelectOptions{
				Budget:      sq.TotalPrice() + bank,
				ClubLimit:   cfg.ClubLimit,
				Composition: cfg.Composition,
			}); err == nil {
				if g := rebuilt.ProjectedTotal() - sq.ProjectedTotal(); g > 0 {
					rebuildGain = g
				}
			}

			used := make([]chip.Chip, 0, len(consumed))
			for _, c := range consumed {
				ch := chip.Chip(c)
				if !ch.Valid() {
					return fmt.Errorf("unknown chip %q", c)
				}
				used = append(used, ch)
			}
			st := chip.NewStateWithConsumed(used...)
			advice := chip.Recommend(chip.Context{
				CaptainNext: captainNext,
				BenchNext:   lineup.BenchNext(),
				RebuildGain: rebuildGain,
			}, st, cfg.Chips)
			return printJSON(advice)
		},
	}
	cmd.Flags().IntSliceVar(&ids, "players", nil, "the 15 player ids of the squad (required)")
	cmd.Flags().IntVar(&bank, "bank", 0, "money in the bank, tenths of a million")
	cmd.Flags().StringSliceVar(&consumed, "consumed", nil, "chips already played this season")
	cmd.MarkFlagRequired("players")
	return cmd
}

func newFetchCommand() *cobra.Command {
	var (
		gameweek    int
		refresh     bool
		formMatches int
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the bootstrap feed and write a pool snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := fetch.NewClient(store.NewJSONStore(cfg.Data.RawRoot))
			raw, err := client.FetchBootstrap(refresh)
			if err != nil {
				return err
			}
			snap, err := fetch.BuildSnapshot(raw, gameweek, cfg.Horizon)
			if err != nil {
				return err
			}
			if formMatches > 0 {
				logger.Info().Int("players", len(snap.Players)).Msg("fetching element summaries, one request per player")
				snap.Players, err = client.FillRecentForm(snap.Players, formMatches,
					cfg.Rotation.LowShare, cfg.Rotation.MediumShare, refresh)
				if err != nil {
					return err
				}
			}
			derived := store.NewJSONStore(cfg.Data.DerivedRoot)
			if err := derived.WritePool("pool/current.json", snap); err != nil {
				return err
			}

			logger.Info().
				Int("players", len(snap.Players)).
				Int("gameweek", snap.Gameweek).
				Str("path", derived.Path("pool/current.json")).
				Msg("pool snapshot written")
			return nil
		},
	}
	cmd.Flags().IntVar(&gameweek, "gameweek", 0, "gameweek the snapshot starts from")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached raw JSON and refetch")
	cmd.Flags().IntVar(&formMatches, "form", 0, "also fetch recent form over this many matches (0 = skip)")
	return cmd
}

// squadFromIDs resolves the 15 squad ids against the pool. The pool is not
// availability-filtered here: an existing squad may legitimately hold a
// flagged player.
func squadFromIDs(ids []int, pool []model.Player) (model.Squad, error) {
	if len(ids) != 15 {
		return model.Squad{}, fmt.Errorf("expected 15 player ids, got %d", len(ids))
	}
	byID := model.ByID(pool)
	players := make([]model.Player, 0, len(ids))
	seen := map[int]bool{}
	for _, id := range ids {
		if seen[id] {
			return model.Squad{}, fmt.Errorf("duplicate player id %d", id)
		}
		seen[id] = true
		p, ok := byID[id]
		if !ok {
			return model.Squad{}, fmt.Errorf("player %d not found in pool", id)
		}
		players = append(players, p)
	}
	return model.Squad{Players: players}, nil
}
