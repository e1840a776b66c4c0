package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/aatrey56/fpl-squad-planner/internal/config"
	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/store"
)

// ServerConfig wires the planner configuration and data roots into the
// tool handlers.
type ServerConfig struct {
	Planner      config.Config
	RawRoot      string
	DerivedRoot  string
	SQLitePath   string
	WriteDerived bool
}

// poolSnapshotPath is where the current pool snapshot lives in the derived
// root, as written by the fetch pipeline.
const poolSnapshotPath = "pool/current.json"

// loadPool resolves the eligible player pool: the SQLite players database
// when configured, the JSON snapshot otherwise.
func loadPool(ctx context.Context, cfg ServerConfig) ([]model.Player, error) {
	if cfg.SQLitePath != "" {
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		pool, err := store.LoadPoolSQLite(ctx, db)
		if err != nil {
			return nil, err
		}
		return model.Eligible(pool), nil
	}

	st := store.NewJSONStore(cfg.DerivedRoot)
	snap, err := st.LoadPool(poolSnapshotPath)
	if err != nil {
		return nil, err
	}
	return model.Eligible(snap.Players), nil
}

// squadFromIDs resolves 15 player IDs against the pool plus any unavailable
// players (an existing squad may hold injured members the eligible pool
// filters out).
func squadFromIDs(ids []int, pool []model.Player) (model.Squad, error) {
	if len(ids) != 15 {
		return model.Squad{}, fmt.Errorf("squad needs exactly 15 player ids, got %d", len(ids))
	}
	byID := model.ByID(pool)

	players := make([]model.Player, 0, 15)
	seen := make(map[int]bool, 15)
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

// playerRow is the compact per-player record every report shares.
type playerRow struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	TeamID        int     `json:"team_id"`
	PriceTenths   int     `json:"price_tenths"`
	PriceMillions float64 `json:"price_millions"`
	ProjectedNext float64 `json:"projected_next"`
	ProjectedSum  float64 `json:"projected_total"`
}

func toRow(p model.Player) playerRow {
	return playerRow{
		ID:            p.ID,
		Name:          p.Name,
		Position:      p.Position.String(),
		TeamID:        p.Club,
		PriceTenths:   p.Price,
		PriceMillions: p.PriceMillions(),
		ProjectedNext: p.ProjectedNext(),
		ProjectedSum:  p.ProjectedTotal(),
	}
}

func toRows(players []model.Player) []playerRow {
	rows := make([]playerRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, toRow(p))
	}
	return rows
}

// groupRows buckets report rows by position label in GK/DEF/MID/FWD order.
func groupRows(players []model.Player) map[string][]playerRow {
	grouped := make(map[string][]playerRow, 4)
	for _, p := range players {
		grouped[p.Position.String()] = append(grouped[p.Position.String()], toRow(p))
	}
	for pos := range grouped {
		rows := grouped[pos]
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].ProjectedSum != rows[j].ProjectedSum {
				return rows[i].ProjectedSum > rows[j].ProjectedSum
			}
			return rows[i].ID < rows[j].ID
		})
		grouped[pos] = rows
	}
	return grouped
}
