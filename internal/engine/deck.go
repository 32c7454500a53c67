package engine

import "math/rand/v2"

// Deck is the shuffled remainder of one role's catalog for the current game.
type Deck struct {
	cards []Card
}

func newDeck(catalog Catalog, r *rand.Rand) Deck {
	d := Deck{cards: make([]Card, len(catalog))}
	copy(d.cards, catalog)
	shuffle(d.cards, r)
	return d
}

// Fisher-Yates
func shuffle(cards []Card, r *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// draw removes a uniformly chosen card. The remaining order carries no
// meaning, so the last card is swapped into the hole.
func (d *Deck) draw(r *rand.Rand) (Card, bool) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, false
	}
	idx := r.IntN(n)
	c := d.cards[idx]
	d.cards[idx] = d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, true
}

func (d Deck) Len() int { return len(d.cards) }

// remaining returns a copy of the cards left in the deck.
func (d Deck) remaining() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
