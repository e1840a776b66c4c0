// Package fetch downloads raw FPL data into the JSON store and converts
// bootstrap player data into pool snapshots the planner consumes.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/store"
)

type Client struct {
	HTTP        *http.Client
	Store       *store.JSONStore
	BaseURL     string
	UserAgent   string
	Sleep       time.Duration
	PrettyWrite bool
	UseCache    bool
}

func NewClient(st *store.JSONStore) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 20 * time.Second},
		Store:       st,
		BaseURL:     "https://fantasy.premierleague.com/api",
		UserAgent:   "fpl-squad-planner/1.0",
		Sleep:       250 * time.Millisecond,
		PrettyWrite: true,
		UseCache:    true,
	}
}

// FetchRaw downloads urlPath (like "/bootstrap-static/") and writes it to
// relPath. Returns raw bytes (from cache or network).
func (c *Client) FetchRaw(urlPath string, relPath string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.Store.Exists(relPath) {
		return c.Store.ReadRaw(relPath)
	}

	if c.Sleep > 0 {
		time.Sleep(c.Sleep)
	}

	req, err := http.NewRequest("GET", c.BaseURL+urlPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d", urlPath, resp.StatusCode)
	}

	if err := c.Store.WriteRaw(relPath, body, c.PrettyWrite); err != nil {
		return nil, err
	}
	return body, nil
}

// FetchBootstrap downloads bootstrap-static into the raw store.
func (c *Client) FetchBootstrap(force bool) ([]byte, error) {
	return c.FetchRaw("/bootstrap-static/", "bootstrap/bootstrap-static.json", force)
}

// bootstrapElement is the subset of a bootstrap element the pool needs.
type bootstrapElement struct {
	ID          int    `json:"id"`
	WebName     string `json:"web_name"`
	ElementType int    `json:"element_type"`
	Team        int    `json:"team"`
	NowCost     int    `json:"now_cost"`
	Status      string `json:"status"`
	EPNext      string `json:"ep_next"`
}

// BuildSnapshot converts raw bootstrap bytes into a pool snapshot. The
// site's ep_next estimate is spread flat across the horizon; a dedicated
// prediction provider can overwrite projections afterwards. Managers
// (element_type 5) and zero-price entries are skipped; any status other
// than "a" marks the player unavailable.
func BuildSnapshot(raw []byte, gameweek int, horizon int) (store.PoolSnapshot, error) {
	var resp struct {
		Elements []bootstrapElement `json:"elements"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return store.PoolSnapshot{}, fmt.Errorf("parse bootstrap: %w", err)
	}

	players := make([]model.Player, 0, len(resp.Elements))
	for _, e := range resp.Elements {
		pos := model.Position(e.ElementType)
		if !pos.Valid() || e.NowCost <= 0 {
			continue
		}
		next, _ := strconv.ParseFloat(e.EPNext, 64)
		if next < 0 {
			next = 0
		}
		proj := make([]float64, horizon)
		for i := range proj {
			proj[i] = next
		}
		players = append(players, model.Player{
			ID:          e.ID,
			Name:        e.WebName,
			Position:    pos,
			Club:        e.Team,
			Price:       e.NowCost,
			Projected:   proj,
			Unavailable: e.Status != "a",
		})
	}
	return store.PoolSnapshot{Gameweek: gameweek, Horizon: horizon, Players: players}, nil
}
