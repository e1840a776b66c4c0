package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/store"
)

const bootstrapFixture = `{
	"elements": [
		{"id": 1, "web_name": "Keeper", "element_type": 1, "team": 1, "now_cost": 45, "status": "a", "ep_next": "4.2"},
		{"id": 2, "web_name": "Star", "element_type": 3, "team": 2, "now_cost": 125, "status": "a", "ep_next": "7.8"},
		{"id": 3, "web_name": "Crocked", "element_type": 4, "team": 3, "now_cost": 80, "status": "i", "ep_next": "0.0"},
		{"id": 4, "web_name": "Boss", "element_type": 5, "team": 4, "now_cost": 10, "status": "a", "ep_next": "0.0"},
		{"id": 5, "web_name": "Weird", "element_type": 2, "team": 5, "now_cost": 50, "status": "a", "ep_next": "-1.0"}
	]
}`

func TestBuildSnapshot(t *testing.T) {
	snap, err := BuildSnapshot([]byte(bootstrapFixture), 12, 3)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}

	if snap.Gameweek != 12 || snap.Horizon != 3 {
		t.Errorf("snapshot header = %d/%d, want 12/3", snap.Gameweek, snap.Horizon)
	}
	// The manager row (element_type 5) is dropped.
	if len(snap.Players) != 4 {
		t.Fatalf("players = %d, want 4", len(snap.Players))
	}

	star := snap.Players[1]
	if star.Position != model.Midfielder || star.Price != 125 {
		t.Errorf("star = %+v, want MID at 125", star)
	}
	// ep_next spreads flat across the horizon.
	want := []float64{7.8, 7.8, 7.8}
	for i, v := range star.Projected {
		if v != want[i] {
			t.Errorf("star.Projected[%d] = %v, want %v", i, v, want[i])
		}
	}

	if !snap.Players[2].Unavailable {
		t.Error("injured player should be unavailable")
	}
	// Negative ep_next clamps to zero.
	if got := snap.Players[3].ProjectedNext(); got != 0 {
		t.Errorf("negative ep_next = %v, want 0", got)
	}
}

func TestBuildSnapshot_BadJSON(t *testing.T) {
	if _, err := BuildSnapshot([]byte("not json"), 1, 3); err == nil {
		t.Error("want parse error")
	}
}

func TestFetchRaw_CachesAndRefetches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"elements": []}`))
	}))
	defer srv.Close()

	c := NewClient(store.NewJSONStore(t.TempDir()))
	c.BaseURL = srv.URL
	c.Sleep = 0

	if _, err := c.FetchRaw("/bootstrap-static/", "bootstrap/bootstrap-static.json", false); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := c.FetchRaw("/bootstrap-static/", "bootstrap/bootstrap-static.json", false); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if hits != 1 {
		t.Errorf("network hits = %d, want 1 (second read from cache)", hits)
	}

	if _, err := c.FetchRaw("/bootstrap-static/", "bootstrap/bootstrap-static.json", true); err != nil {
		t.Fatalf("forced fetch: %v", err)
	}
	if hits != 2 {
		t.Errorf("network hits = %d, want 2 after force", hits)
	}
}

func TestFetchRaw_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(store.NewJSONStore(t.TempDir()))
	c.BaseURL = srv.URL
	c.Sleep = 0

	if _, err := c.FetchRaw("/bootstrap-static/", "x.json", false); err == nil {
		t.Error("want error on 503")
	}
}
