package models

import "time"

// Defaults applied by the normalizer when a source row has no usable value.
const (
	DefaultPlayerName = "Unknown Player"
	DefaultTeam       = "UNK"
	DefaultOpponent   = "TBD"
)

// BenchSlot is the only slot label that marks a player as benched.
// Any other value, including an empty slot, means the active lineup.
const BenchSlot = "BEN"

// PlayerRecord is one normalized roster entry.
// Stored as a JSON array under the roster data key.
type PlayerRecord struct {
	PlayerName      string   `json:"playerName"`
	Team            string   `json:"team"`
	Position        string   `json:"position"`
	Slot            string   `json:"slot"`
	Opponent        string   `json:"opponent"`
	ProjectedPoints *float64 `json:"projectedPoints"` // nil when missing or unparseable; 0 is a real projection
}

// IsBench reports whether the record sits on the bench.
func (p PlayerRecord) IsBench() bool {
	return p.Slot == BenchSlot
}

// HasName reports whether the source row carried a player name.
// Rows without one get DefaultPlayerName so they still render locally.
func (p PlayerRecord) HasName() bool {
	return p.PlayerName != "" && p.PlayerName != DefaultPlayerName
}

// RosterSnapshot is the full roster as seen at one point in time.
// Subscribers always receive a whole snapshot, never a diff.
type RosterSnapshot struct {
	Players   []PlayerRecord `json:"players"`
	FileName  string         `json:"fileName,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// RosterPartition splits a roster into lineup and bench, each in import order.
type RosterPartition struct {
	Active []PlayerRecord `json:"active"`
	Bench  []PlayerRecord `json:"bench"`
}

// RosterSummary holds roster counts. Total == ActiveCount + BenchCount.
type RosterSummary struct {
	Total       int `json:"total"`
	ActiveCount int `json:"activeCount"`
	BenchCount  int `json:"benchCount"`
}

// PositionGroup is every rostered player at one canonical position.
type PositionGroup struct {
	Position string         `json:"position"`
	Color    string         `json:"color"`
	Players  []PlayerRecord `json:"players"`
}

// RosterView is the classified roster returned to clients.
type RosterView struct {
	FileName  string          `json:"fileName"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Players   []PlayerRecord  `json:"players"`
	Active    []PlayerRecord  `json:"active"`
	Bench     []PlayerRecord  `json:"bench"`
	Summary   RosterSummary   `json:"summary"`
	Groups    []PositionGroup `json:"groups"`
}

// ImportResult describes a completed import.
type ImportResult struct {
	FileName           string        `json:"fileName"`
	Summary            RosterSummary `json:"summary"`
	UnnamedPlayers     int           `json:"unnamedPlayers"`
	MissingProjections int           `json:"missingProjections"`
}
