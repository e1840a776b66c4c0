package fetch

import (
	"encoding/json"
	"fmt"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

// /fixtures/?event={gw}
func (c *Client) FetchFixtures(gameweek int, force bool) ([]byte, error) {
	return c.FetchRaw(
		fmt.Sprintf("/fixtures/?event=%d", gameweek),
		fmt.Sprintf("fixtures/event-%d.json", gameweek),
		force,
	)
}

// /event/{gw}/live/
func (c *Client) FetchEventLive(gameweek int, force bool) ([]byte, error) {
	return c.FetchRaw(
		fmt.Sprintf("/event/%d/live/", gameweek),
		fmt.Sprintf("live/event-%d.json", gameweek),
		force,
	)
}

// /element-summary/{id}/
func (c *Client) FetchElementSummary(playerID int, force bool) ([]byte, error) {
	return c.FetchRaw(
		fmt.Sprintf("/element-summary/%d/", playerID),
		fmt.Sprintf("elements/%d.json", playerID),
		force,
	)
}

// elementHistoryRow is one finished match in an element summary, most
// recent last in the feed.
type elementHistoryRow struct {
	TotalPoints int `json:"total_points"`
	Minutes     int `json:"minutes"`
}

// FillRecentForm fetches each player's element summary and fills
// RecentPoints, RecentMinutes (most recent first, up to matches samples),
// and the derived RotationRisk. Players with no finished matches yet come
// back as HIGH risk. This is one request per player; callers decide how
// much of the pool to enrich.
func (c *Client) FillRecentForm(players []model.Player, matches int, lowShare, mediumShare float64, force bool) ([]model.Player, error) {
	out := make([]model.Player, len(players))
	for i, p := range players {
		raw, err := c.FetchElementSummary(p.ID, force)
		if err != nil {
			return nil, fmt.Errorf("element summary %d: %w", p.ID, err)
		}
		var resp struct {
			History []elementHistoryRow `json:"history"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("parse element summary %d: %w", p.ID, err)
		}

		n := len(resp.History)
		take := matches
		if take > n {
			take = n
		}
		points := make([]float64, 0, take)
		minutes := make([]int, 0, take)
		for j := n - 1; j >= n-take; j-- {
			points = append(points, float64(resp.History[j].TotalPoints))
			minutes = append(minutes, resp.History[j].Minutes)
		}

		p.RecentPoints = points
		p.RecentMinutes = minutes
		p.RotationRisk = model.RiskFromMinutes(minutes, lowShare, mediumShare)
		out[i] = p
	}
	return out, nil
}
