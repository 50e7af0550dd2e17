package entity

// PlayerStats are the per-address ledger counters. Both counters are
// monotonically non-decreasing for the lifetime of the system; an address
// with no history reads as the zero value.
type PlayerStats struct {
	Wins       uint64 `json:"wins"`
	TotalGames uint64 `json:"total_games"`
}
