package main

import (
	"context"
	"sort"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

type PoolRankingsArgs struct {
	Limit      int  `json:"limit" jsonschema:"Limit players per position (0 = all)"`
	IncludeRaw bool `json:"include_raw" jsonschema:"Include per-gameweek projection breakdown"`
}

type PoolRankingsReport struct {
	Horizon   int                          `json:"horizon"`
	PoolSize  int                          `json:"pool_size"`
	Positions map[string][]PoolRankingItem `json:"positions"`
}

type PoolRankingItem struct {
	Rank          int       `json:"rank"`
	PlayerID      int       `json:"player_id"`
	Name          string    `json:"name"`
	Club          int       `json:"club"`
	PriceMillions float64   `json:"price_millions"`
	Projected     float64   `json:"projected"`
	RotationRisk  string    `json:"rotation_risk,omitempty"`
	ByGameweek    []float64 `json:"by_gameweek,omitempty"`
}

// buildPoolRankings ranks every eligible pool player per position by total
// projected points over the horizon. The transfer shortlist is the top slice
// of the same ordering, so this is the tool to inspect when a shortlist
// looks surprising.
func buildPoolRankings(ctx context.Context, cfg ServerConfig, args PoolRankingsArgs) (PoolRankingsReport, error) {
	pool, err := loadPool(ctx, cfg)
	if err != nil {
		return PoolRankingsReport{}, err
	}

	byPos := map[model.Position][]model.Player{}
	for _, p := range pool {
		byPos[p.Position] = append(byPos[p.Position], p)
	}

	positions := map[string][]PoolRankingItem{}
	for _, pos := range []model.Position{model.Goalkeeper, model.Defender, model.Midfielder, model.Forward} {
		rows := byPos[pos]
		sort.Slice(rows, func(i, j int) bool {
			pi, pj := rows[i].ProjectedTotal(), rows[j].ProjectedTotal()
			if pi != pj {
				return pi > pj
			}
			if rows[i].Price != rows[j].Price {
				return rows[i].Price > rows[j].Price
			}
			return rows[i].ID < rows[j].ID
		})

		limit := args.Limit
		if limit <= 0 || limit > len(rows) {
			limit = len(rows)
		}

		out := make([]PoolRankingItem, 0, limit)
		for i := 0; i < limit; i++ {
			p := rows[i]
			item := PoolRankingItem{
				Rank:          i + 1,
				PlayerID:      p.ID,
				Name:          p.Name,
				Club:          p.Club,
				PriceMillions: p.PriceMillions(),
				Projected:     p.ProjectedTotal(),
				RotationRisk:  string(p.RotationRisk),
			}
			if args.IncludeRaw {
				item.ByGameweek = append([]float64(nil), p.Projected...)
			}
			out = append(out, item)
		}
		positions[pos.String()] = out
	}

	return PoolRankingsReport{
		Horizon:   cfg.Planner.Horizon,
		PoolSize:  len(pool),
		Positions: positions,
	}, nil
}
