// Package model defines shared data structures.
package model

import "time"

// Run is a single typing-test result from the scoreboard API. WPM and Acc
// are nil when the field was absent or not coercible to a number.
type Run struct {
	WPM *float64
	Acc *float64
}

// Summary aggregates a batch of runs.
type Summary struct {
	BestWPM int
	AvgAcc  float64
}

// Snapshot is one stored fetch summary.
type Snapshot struct {
	ID        int64
	FetchedAt time.Time
	Username  string
	BestWPM   int
	AvgAcc    float64
	Runs      int
}

// HistoryConfig defines filters for the history report.
type HistoryConfig struct {
	Username string
	Last     int
}
