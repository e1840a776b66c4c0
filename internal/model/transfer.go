package model

// TransferCandidate is one evaluated (out, in) swap. It is a projection over
// the squad it was evaluated against and is never mutated after construction.
type TransferCandidate struct {
	Out Player `json:"out"`
	In  Player `json:"in"`

	PriceDiff   int     `json:"price_diff_tenths"`
	GrossUplift float64 `json:"gross_uplift"`
	CostPoints  int     `json:"transfer_cost_points"`
	NetUplift   float64 `json:"net_uplift"`

	BudgetOK      bool `json:"budget_ok"`
	ClubLimitOK   bool `json:"club_limit_ok"`
	CompositionOK bool `json:"squad_comp_ok"`
}

// Feasible reports whether all three constraint checks passed.
func (t TransferCandidate) Feasible() bool {
	return t.BudgetOK && t.ClubLimitOK && t.CompositionOK
}
