package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

// OpenSQLite opens the upstream players database read-only for pool loads.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// LoadPoolSQLite builds the eligible player pool from the players table:
// selectable players with a price and per-gameweek predictions. Missing
// predictions read as zero; negative predictions are clamped, matching the
// provider contract.
func LoadPoolSQLite(ctx context.Context, db *sql.DB) ([]model.Player, error) {
	const query = `
		SELECT p.id,
		       p.web_name,
		       p.element_type,
		       p.team,
		       p.now_cost,
		       COALESCE(p.pred_match1, 0),
		       COALESCE(p.pred_match2, 0),
		       COALESCE(p.pred_match3, 0),
		       COALESCE(p.status, 'a')
		FROM players p
		WHERE p.element_type IN (1, 2, 3, 4)
		  AND p.now_cost > 0
		ORDER BY p.id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	pool := make([]model.Player, 0, 512)
	for rows.Next() {
		var (
			p          model.Player
			posType    int
			p1, p2, p3 float64
			status     string
		)
		if err := rows.Scan(&p.ID, &p.Name, &posType, &p.Club, &p.Price, &p1, &p2, &p3, &status); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Position = model.Position(posType)
		p.Projected = []float64{clampZero(p1), clampZero(p2), clampZero(p3)}
		p.Unavailable = status != "a"
		pool = append(pool, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return pool, nil
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
