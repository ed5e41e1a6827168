package goat

import "github.com/tjwilson90/goat/card"

// WarPlayKind distinguishes how a card entered a war trick.
type WarPlayKind uint8

const (
	PlayHand WarPlayKind = iota
	PlayTop
	Slough
)

// WarPlay is one entry in a war trick's play log. The player and kind are
// packed into one byte: the low nibble is the seat, the high nibble the
// kind.
type WarPlay struct {
	playerAndKind uint8
	Card          card.Card
}

func NewWarPlay(player PlayerIdx, kind WarPlayKind, c card.Card) WarPlay {
	return WarPlay{
		playerAndKind: uint8(player) | uint8(kind)<<4,
		Card:          c,
	}
}

func (p WarPlay) Player() PlayerIdx {
	return PlayerIdx(p.playerAndKind & 0xf)
}

func (p WarPlay) Kind() WarPlayKind {
	return WarPlayKind(p.playerAndKind >> 4)
}
