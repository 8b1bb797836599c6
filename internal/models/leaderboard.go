package models

// LeaderboardEntry is a derived ranking row. It is recomputed per query and
// never persisted.
type LeaderboardEntry struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Karma    int    `json:"karma"`
}
