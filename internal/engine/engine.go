package engine

import (
	"math/rand/v2"
)

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// Round is the live round. A nil pick means the role has not drawn yet.
type Round struct {
	Number     int
	SniperPick *Card
	KeeperPick *Card
}

func (r *Round) pick(role Role) **Card {
	if role == RoleGoalkeeper {
		return &r.KeeperPick
	}
	return &r.SniperPick
}

// Game owns both decks and the round counter. It is not safe for
// concurrent use; the lobby serializes access.
type Game struct {
	catalogs  Catalogs
	maxRounds int
	rng       *rand.Rand

	phase      Phase
	sniperDeck Deck
	keeperDeck Deck
	round      Round
}

type Option func(*Game)

// WithRand sets the randomness source used for shuffles and draws.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithMaxRounds lowers the round bound. Values above the catalog size or
// below 1 are ignored.
func WithMaxRounds(n int) Option {
	return func(g *Game) {
		if n >= 1 && n < g.maxRounds {
			g.maxRounds = n
		}
	}
}

func NewGame(catalogs Catalogs, opts ...Option) *Game {
	g := &Game{
		catalogs:  catalogs.clone(),
		maxRounds: min(len(catalogs.Sniper), len(catalogs.Goalkeeper)),
		phase:     PhaseNotStarted,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Start throws away any previous game and deals fresh decks. With an
// empty catalog there is no round to play and the game completes at once.
func (g *Game) Start() {
	g.sniperDeck = newDeck(g.catalogs.Sniper, g.rng)
	g.keeperDeck = newDeck(g.catalogs.Goalkeeper, g.rng)
	g.round = Round{Number: 1}
	g.phase = PhaseInProgress
	if g.maxRounds == 0 {
		g.phase = PhaseCompleted
	}
}

// Draw takes one card for role. It reports false and changes nothing when
// the role is unknown, the game is not in progress, the deck is empty, or
// the role already picked this round.
func (g *Game) Draw(role Role) (Card, bool) {
	if !role.Valid() || g.phase != PhaseInProgress {
		return Card{}, false
	}
	pick := g.round.pick(role)
	if *pick != nil {
		return Card{}, false
	}
	c, ok := g.deck(role).draw(g.rng)
	if !ok {
		return Card{}, false
	}
	*pick = &c
	return c, true
}

// AdvanceRound moves to the next round once both roles picked. On the last
// round it completes the game and leaves the picks in place.
func (g *Game) AdvanceRound() bool {
	if g.phase != PhaseInProgress || !g.BothPicked() {
		return false
	}
	if g.round.Number >= g.maxRounds {
		g.phase = PhaseCompleted
		return true
	}
	g.round = Round{Number: g.round.Number + 1}
	return true
}

func (g *Game) deck(role Role) *Deck {
	if role == RoleGoalkeeper {
		return &g.keeperDeck
	}
	return &g.sniperDeck
}

func (g *Game) Phase() Phase     { return g.phase }
func (g *Game) RoundNumber() int { return g.round.Number }
func (g *Game) MaxRounds() int   { return g.maxRounds }

func (g *Game) Pick(role Role) (Card, bool) {
	p := *g.round.pick(role)
	if p == nil {
		return Card{}, false
	}
	return *p, true
}

func (g *Game) Remaining(role Role) int { return g.deck(role).Len() }

func (g *Game) CatalogSize(role Role) int { return len(g.catalogs.For(role)) }

func (g *Game) Catalogs() Catalogs { return g.catalogs.clone() }

func (g *Game) BothPicked() bool {
	return g.round.SniperPick != nil && g.round.KeeperPick != nil
}

// State is a read-only copy of a game, safe to hand to other goroutines.
type State struct {
	Phase      Phase
	Round      int
	MaxRounds  int
	SniperPick *Card
	KeeperPick *Card
	Remaining  map[Role]int
}

func (s State) BothPicked() bool {
	return s.SniperPick != nil && s.KeeperPick != nil
}

func (g *Game) Snapshot() State {
	return State{
		Phase:      g.phase,
		Round:      g.round.Number,
		MaxRounds:  g.maxRounds,
		SniperPick: copyCard(g.round.SniperPick),
		KeeperPick: copyCard(g.round.KeeperPick),
		Remaining: map[Role]int{
			RoleSniper:     g.sniperDeck.Len(),
			RoleGoalkeeper: g.keeperDeck.Len(),
		},
	}
}

func copyCard(c *Card) *Card {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}
