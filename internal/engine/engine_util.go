package engine

import "math/rand/v2"

func NewDefaultGame(opts ...Option) *Game {
	return NewGame(DefaultCatalogs(), opts...)
}

// NewSeededRand is a deterministic source for tests and replays.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
