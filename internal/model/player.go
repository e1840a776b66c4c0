package model

// Position is the FPL element type (1=GK, 2=DEF, 3=MID, 4=FWD).
type Position int

const (
	Goalkeeper Position = 1
	Defender   Position = 2
	Midfielder Position = 3
	Forward    Position = 4
)

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return "UNK"
	}
}

func (p Position) Valid() bool {
	return p >= Goalkeeper && p <= Forward
}

// RotationRisk classifies how likely a player is to be benched by his club
// manager, based on share of available minutes actually played.
type RotationRisk string

const (
	RiskLow    RotationRisk = "LOW"
	RiskMedium RotationRisk = "MEDIUM"
	RiskHigh   RotationRisk = "HIGH"
)

// RiskFromMinutes derives rotation risk from recent per-match minutes.
// lowShare and mediumShare are the minimum minutes shares (of 90 per match)
// for LOW and MEDIUM; anything below mediumShare is HIGH. No samples is HIGH.
func RiskFromMinutes(minutes []int, lowShare, mediumShare float64) RotationRisk {
	available := len(minutes) * 90
	if available == 0 {
		return RiskHigh
	}
	total := 0
	for _, m := range minutes {
		total += m
	}
	share := float64(total) / float64(available)
	switch {
	case share >= lowShare:
		return RiskLow
	case share >= mediumShare:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Player is one pool entry. Prices are in tenths of a million. Projected
// holds per-gameweek predicted points ordered by gameweek; RecentPoints and
// RecentMinutes are most-recent-first raw samples. Position and Club never
// change after load.
type Player struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Position      Position     `json:"position_type"`
	Club          int          `json:"team_id"`
	Price         int          `json:"price_tenths"`
	Projected     []float64    `json:"projected_points"`
	RecentPoints  []float64    `json:"recent_points,omitempty"`
	RecentMinutes []int        `json:"recent_minutes,omitempty"`
	Unavailable   bool         `json:"unavailable,omitempty"`
	RotationRisk  RotationRisk `json:"rotation_risk,omitempty"`
}

// ProjectedTotal sums projections over the full loaded horizon.
func (p Player) ProjectedTotal() float64 {
	total := 0.0
	for _, v := range p.Projected {
		total += v
	}
	return total
}

// ProjectedNext is the next-gameweek projection (0 if no horizon loaded).
func (p Player) ProjectedNext() float64 {
	if len(p.Projected) == 0 {
		return 0
	}
	return p.Projected[0]
}

// PriceMillions formats the tenths price for reports.
func (p Player) PriceMillions() float64 {
	return float64(p.Price) / 10.0
}
