package types

import "github.com/DoyleJ11/sniper-keeper/internal/engine"

type ClientMessage struct {
	Type string `json:"type"` // "StartGame" | "DrawCard" | "NextRound"
	Role string `json:"role,omitempty"`
}

type ServerMessage struct {
	Type    string     `json:"type"` // "StateSnapshot" | "Error"
	Version int        `json:"version,omitempty"`
	State   *StateView `json:"state,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type CardView struct {
	Kind engine.CardKind `json:"kind"`
	Text string          `json:"text"`
}

type StateView struct {
	Phase      engine.Phase `json:"phase"`
	Round      int          `json:"round"`
	MaxRounds  int          `json:"max_rounds"`
	SniperPick *CardView    `json:"sniper_pick"`
	KeeperPick *CardView    `json:"keeper_pick"`
	Remaining  Remaining    `json:"remaining"`
	BothPicked bool         `json:"both_picked"`
}

type Remaining struct {
	Sniper     int `json:"sniper"`
	Goalkeeper int `json:"goalkeeper"`
}

type CatalogsView struct {
	Sniper     []CardView `json:"sniper"`
	Goalkeeper []CardView `json:"goalkeeper"`
}

func NewStateView(s engine.State) *StateView {
	return &StateView{
		Phase:      s.Phase,
		Round:      s.Round,
		MaxRounds:  s.MaxRounds,
		SniperPick: cardView(s.SniperPick),
		KeeperPick: cardView(s.KeeperPick),
		Remaining: Remaining{
			Sniper:     s.Remaining[engine.RoleSniper],
			Goalkeeper: s.Remaining[engine.RoleGoalkeeper],
		},
		BothPicked: s.BothPicked(),
	}
}

func NewCatalogsView(c engine.Catalogs) CatalogsView {
	return CatalogsView{
		Sniper:     catalogView(c.Sniper),
		Goalkeeper: catalogView(c.Goalkeeper),
	}
}

func cardView(c *engine.Card) *CardView {
	if c == nil {
		return nil
	}
	return &CardView{Kind: c.Kind, Text: c.Text}
}

func catalogView(c engine.Catalog) []CardView {
	out := make([]CardView, 0, len(c))
	for _, card := range c {
		out = append(out, CardView{Kind: card.Kind, Text: card.Text})
	}
	return out
}

// ToCommand maps a client message onto an engine command. Role is only
// required for draws.
func ToCommand(m ClientMessage) (engine.Command, bool) {
	switch engine.CommandType(m.Type) {
	case engine.CmdStartGame:
		return engine.Command{Type: engine.CmdStartGame}, true
	case engine.CmdNextRound:
		return engine.Command{Type: engine.CmdNextRound}, true
	case engine.CmdDrawCard:
		role, ok := engine.ParseRole(m.Role)
		if !ok {
			return engine.Command{}, false
		}
		return engine.Command{Type: engine.CmdDrawCard, Role: role}, true
	default:
		return engine.Command{}, false
	}
}
