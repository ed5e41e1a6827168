package goat

import "github.com/tjwilson90/goat/card"

// Deck is the capability the war phase needs from a deck: how many cards
// may still be drawn or played. The last physical card is reserved as the
// future trump and is never counted.
type Deck interface {
	CardsRemaining() int
}

// ServerDeck is an ordered deck with the topmost card at the end. Index 0
// is the bottom card, reserved as the trump.
type ServerDeck []card.Card

func (d ServerDeck) CardsRemaining() int {
	return len(d) - 1
}

// Pop removes and returns the top card.
func (d *ServerDeck) Pop() card.Card {
	top := (*d)[len(*d)-1]
	*d = (*d)[:len(*d)-1]
	return top
}

// Trump returns the reserved bottom card.
func (d ServerDeck) Trump() card.Card {
	return d[0]
}

// ClientDeck tracks only the count of drawable cards.
type ClientDeck int

func NewClientDeck(numDecks int) ClientDeck {
	return ClientDeck(52*numDecks - 1)
}

func (d ClientDeck) CardsRemaining() int {
	return int(d)
}

func (d *ClientDeck) Draw() {
	*d--
}
