package engine

import (
	"errors"
	"fmt"
)

var ErrUnknownRole = errors.New("unknown role")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdStartGame CommandType = "StartGame"
	CmdDrawCard  CommandType = "DrawCard"
	CmdNextRound CommandType = "NextRound"
)

/*
	CmdStartGame -> EvtGameStarted
	CmdDrawCard  -> EvtCardDrawn
	CmdNextRound -> EvtRoundAdvanced or EvtGameCompleted

	A command whose guard fails (already picked, deck empty, picks missing,
	game not running) yields no events and no error.
*/

type Command struct {
	Type CommandType
	Role Role
}

type EventType string

const (
	EvtGameStarted   EventType = "GameStarted"
	EvtCardDrawn     EventType = "CardDrawn"
	EvtRoundAdvanced EventType = "RoundAdvanced"
	EvtGameCompleted EventType = "GameCompleted"
)

type Event struct {
	Type  EventType
	Role  Role
	Round int
	Card  Card
}

func (g *Game) Apply(cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdStartGame:
		g.Start()
		return []Event{{Type: EvtGameStarted, Round: g.round.Number}}, nil

	case CmdDrawCard:
		if !cmd.Role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, cmd.Role)
		}
		c, ok := g.Draw(cmd.Role)
		if !ok {
			return nil, nil
		}
		return []Event{{Type: EvtCardDrawn, Role: cmd.Role, Round: g.round.Number, Card: c}}, nil

	case CmdNextRound:
		if !g.AdvanceRound() {
			return nil, nil
		}
		if g.phase == PhaseCompleted {
			return []Event{{Type: EvtGameCompleted, Round: g.round.Number}}, nil
		}
		return []Event{{Type: EvtRoundAdvanced, Round: g.round.Number}}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCommand, cmd.Type)
	}
}
