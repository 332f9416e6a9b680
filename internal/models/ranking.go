package models

// RankingRow is one line of the overall points ranking.
type RankingRow struct {
	Nickname string `bun:"nickname" json:"nickname"`
	Points   int    `bun:"points" json:"points"`
}

// EventRankingRow is one line of a per-event ranking; points are summed over
// the challenges of that event the user redeemed.
type EventRankingRow struct {
	Nickname    string `bun:"nickname" json:"nickname"`
	TotalPoints int    `bun:"total_points" json:"total_points"`
}
