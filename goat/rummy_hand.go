package goat

import (
	"fmt"

	"github.com/tjwilson90/goat/card"
)

// RummyHand is the capability set the rummy phase needs from a hand.
// RemoveCards reports a removal the hand cannot account for as an error so
// a mirror fed an inconsistent stream fails its Apply instead of
// corrupting state.
type RummyHand interface {
	IsEmpty() bool
	Len() int
	CheckCanPlay(lo, hi card.Card) error
	AddCard(c card.Card)
	AddCards(cs card.Cards)
	RemoveCards(cs card.Cards) error
}

// ServerRummyHand is an exact multiset of cards.
type ServerRummyHand card.Cards

func NewServerRummyHand(cs card.Cards) *ServerRummyHand {
	h := ServerRummyHand(cs)
	return &h
}

func (h *ServerRummyHand) Cards() card.Cards {
	return card.Cards(*h)
}

func (h *ServerRummyHand) IsEmpty() bool {
	return h.Cards().IsEmpty()
}

func (h *ServerRummyHand) Len() int {
	return h.Cards().Len()
}

func (h *ServerRummyHand) CheckCanPlay(lo, hi card.Card) error {
	cards := card.Range(lo, hi)
	if !h.Cards().ContainsAll(cards) {
		for _, c := range cards.Ascending() {
			if !h.Cards().Contains(c) {
				return NotYourCardError{Card: c}
			}
		}
	}
	return nil
}

func (h *ServerRummyHand) AddCard(c card.Card) {
	*h = ServerRummyHand(h.Cards().PlusCard(c))
}

func (h *ServerRummyHand) AddCards(cs card.Cards) {
	*h = ServerRummyHand(h.Cards().Plus(cs))
}

func (h *ServerRummyHand) RemoveCards(cs card.Cards) error {
	if !h.Cards().ContainsAll(cs) {
		return ErrInvalidAction
	}
	*h = ServerRummyHand(h.Cards().Minus(cs))
	return nil
}

// RemoveDreck strips every card of the dreck set from the hand, returning
// the cards actually removed.
func (h *ServerRummyHand) RemoveDreck(dreck card.Cards) card.Cards {
	cards := h.Cards()
	removed := cards.RemoveAll(dreck)
	*h = ServerRummyHand(cards)
	return removed
}

func (h *ServerRummyHand) String() string {
	return h.Cards().String()
}

// ClientRummyHand mirrors a hand as the cards known to the viewer plus a
// count of unknown cards.
type ClientRummyHand struct {
	Known   card.Cards
	Unknown uint8
}

func (h *ClientRummyHand) IsEmpty() bool {
	return h.Known.IsEmpty() && h.Unknown == 0
}

func (h *ClientRummyHand) Len() int {
	return h.Known.Len() + int(h.Unknown)
}

func (h *ClientRummyHand) CheckCanPlay(lo, hi card.Card) error {
	return nil
}

func (h *ClientRummyHand) AddCard(c card.Card) {
	h.Known = h.Known.PlusCard(c)
}

func (h *ClientRummyHand) AddCards(cs card.Cards) {
	h.Known = h.Known.Plus(cs)
}

// RemoveCards removes known copies first; any shortfall comes out of the
// unknown count, because the player played cards we did not know they had.
// A shortfall the unknown count cannot cover leaves the hand untouched and
// reports an error.
func (h *ClientRummyHand) RemoveCards(cs card.Cards) error {
	if h.Known.ContainsAll(cs) {
		h.Known = h.Known.Minus(cs)
		return nil
	}
	known, unknown := h.Known, h.Unknown
	for _, c := range cs.List() {
		switch {
		case known.Contains(c):
			known = known.MinusCard(c)
		case unknown > 0:
			unknown--
		default:
			return ErrInvalidAction
		}
	}
	h.Known, h.Unknown = known, unknown
	return nil
}

func (h *ClientRummyHand) String() string {
	if h.Unknown == 0 {
		return h.Known.String()
	}
	return fmt.Sprintf("%s + %d", h.Known, h.Unknown)
}
