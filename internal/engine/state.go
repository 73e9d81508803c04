package engine

import (
	"maps"
	"slices"
	"time"
)

// Participant is the per-name reaction record for the current round.
// Locked and ReactionTime move together: a locked participant always has a
// recorded time, an unlocked one never does.
type Participant struct {
	ReactionTime *float64 `json:"reaction_time,omitempty"`
	Locked       bool     `json:"locked"`
	Connected    bool     `json:"connected"`
}

// Entry is one leaderboard row. The board is kept sorted ascending by
// ReactionTime, ties in arrival order.
type Entry struct {
	Name         string  `json:"name"`
	ReactionTime float64 `json:"reaction_time"`
}

type State struct {
	Armed       bool                   `json:"armed"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	Winner      string                 `json:"winner,omitempty"`
	Players     map[string]Participant `json:"players"`
	Leaderboard []Entry                `json:"leaderboard"`
}

func NewState() State {
	return State{
		Players:     map[string]Participant{},
		Leaderboard: []Entry{},
	}
}

// clone makes Apply copy-on-write: callers holding a previous State value
// (snapshot fan-out, tests) never observe a later mutation.
func clone(s State) State {
	next := s
	next.Players = maps.Clone(s.Players)
	next.Leaderboard = slices.Clone(s.Leaderboard)
	return next
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
