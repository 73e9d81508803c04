package engine

import (
	"errors"
	"time"
)

var ErrNotArmed = errors.New("round not armed")
var ErrRoundNotStarted = errors.New("round never started")
var ErrAlreadyBuzzed = errors.New("participant already buzzed")
var ErrAlreadyRegistered = errors.New("participant already registered")
var ErrEmptyName = errors.New("empty participant name")
var ErrUnknownParticipant = errors.New("unknown participant")
var ErrNotConnected = errors.New("participant not connected")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdRegister         CommandType = "Register"
	CmdStart            CommandType = "Start"
	CmdLock             CommandType = "Lock"
	CmdReset            CommandType = "Reset"
	CmdBuzz             CommandType = "Buzz"
	CmdMarkDisconnected CommandType = "MarkDisconnected"
)

// Command is one requested mutation. Now is the receipt timestamp stamped by
// the caller; only Start and Buzz read it. Authorization for privileged
// commands (Start/Lock/Reset) is the caller's concern; the reducer assumes
// it has already been checked.
type Command struct {
	Type CommandType
	Name string
	Now  time.Time
}

type EventType string

const (
	EvtParticipantJoined       EventType = "ParticipantJoined"
	EvtParticipantReconnected  EventType = "ParticipantReconnected"
	EvtParticipantDisconnected EventType = "ParticipantDisconnected"
	EvtRoundStarted            EventType = "RoundStarted"
	EvtRoundLocked             EventType = "RoundLocked"
	EvtRoundReset              EventType = "RoundReset"
	EvtBuzzAccepted            EventType = "BuzzAccepted"
	EvtWinnerDeclared          EventType = "WinnerDeclared"
)

type Event struct {
	Type         EventType
	Name         string
	ReactionTime float64
}

// Apply runs one command against the round state and returns the events it
// produced plus the next state. The input state is never mutated. A non-nil
// error means the command was rejected and the state is unchanged; rejections
// stay silent on the wire, the error exists so callers can skip the broadcast
// and tests can assert the reason.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdRegister:
		if p, ok := s.Players[cmd.Name]; ok {
			if p.Connected {
				return nil, s, ErrAlreadyRegistered
			}
			// Same name coming back after a disconnect.
			next := clone(s)
			p.Connected = true
			next.Players[cmd.Name] = p
			return []Event{{Type: EvtParticipantReconnected, Name: cmd.Name}}, next, nil
		}
		next := clone(s)
		ensure(next.Players, cmd.Name)
		return []Event{{Type: EvtParticipantJoined, Name: cmd.Name}}, next, nil

	case CmdStart:
		next := clone(s)
		resetAll(next.Players)
		next.Leaderboard = []Entry{}
		next.Winner = ""
		startedAt := cmd.Now
		next.StartedAt = &startedAt
		next.Armed = true
		return []Event{{Type: EvtRoundStarted}}, next, nil

	case CmdLock:
		next := clone(s)
		next.Armed = false
		return []Event{{Type: EvtRoundLocked}}, next, nil

	case CmdReset:
		next := clone(s)
		next.Armed = false
		next.Winner = ""
		resetAll(next.Players)
		next.Leaderboard = []Entry{}
		return []Event{{Type: EvtRoundReset}}, next, nil

	case CmdBuzz:
		if cmd.Name == "" {
			return nil, s, ErrEmptyName
		}
		if !s.Armed {
			return nil, s, ErrNotArmed
		}
		if s.StartedAt == nil {
			return nil, s, ErrRoundNotStarted
		}
		if p, ok := s.Players[cmd.Name]; ok && p.Locked {
			return nil, s, ErrAlreadyBuzzed
		}

		next := clone(s)
		events := []Event{}
		if ensure(next.Players, cmd.Name) {
			events = append(events, Event{Type: EvtParticipantJoined, Name: cmd.Name})
		}

		rt := cmd.Now.Sub(*s.StartedAt).Seconds()
		p := next.Players[cmd.Name]
		p.ReactionTime = &rt
		p.Locked = true
		p.Connected = true
		next.Players[cmd.Name] = p
		next.Leaderboard = upsertEntry(next.Leaderboard, cmd.Name, rt)
		events = append(events, Event{Type: EvtBuzzAccepted, Name: cmd.Name, ReactionTime: rt})

		// First accepted buzz wins, by arrival order. Later buzzes never
		// revise the winner, even with a lower computed reaction time.
		if next.Winner == "" {
			next.Winner = cmd.Name
			events = append(events, Event{Type: EvtWinnerDeclared, Name: cmd.Name, ReactionTime: rt})
		}
		return events, next, nil

	case CmdMarkDisconnected:
		p, ok := s.Players[cmd.Name]
		if !ok {
			return nil, s, ErrUnknownParticipant
		}
		if !p.Connected {
			return nil, s, ErrNotConnected
		}
		next := clone(s)
		p.Connected = false
		next.Players[cmd.Name] = p
		return []Event{{Type: EvtParticipantDisconnected, Name: cmd.Name}}, next, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}
