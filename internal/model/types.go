// Package model defines shared data structures.
package model

import "time"

// PlayerConfig defines the starting character of a run.
type PlayerConfig struct {
	MaxHP   int
	Attack  int
	Defense int
	Skills  []string
}

// RunConfig defines run settings chosen before play.
type RunConfig struct {
	Seed       int64
	Zone       int
	Preset     string
	Challenges []string
	RestHeal   float64
	Encounters int
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// EncounterRecord captures a finished encounter.
type EncounterRecord struct {
	ID             string
	RunID          string
	StartedAt      time.Time
	EndedAt        time.Time
	Zone           int
	Enemy          string
	Boss           bool
	Outcome        string
	Turns          int
	WordsCompleted int
	WordsClean     int
	WordsFailed    int
	MaxCombo       int
	DamageDealt    int
	DamageTaken    int
	Correct        int
	Incorrect      int
	TypingMs       int64
	Chars          []CharStats
}

// CharStats stores per-character stats for an encounter.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across encounters.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// EncounterAggregate summarizes an encounter for reporting.
type EncounterAggregate struct {
	ID          string
	EndedAt     time.Time
	Enemy       string
	Outcome     string
	Correct     int
	Incorrect   int
	TypingMs    int64
	MaxCombo    int
	DamageDealt int
}

// InkEntry is one ledger line.
type InkEntry struct {
	RunID  string
	Amount int
	Reason string
	At     time.Time
}
