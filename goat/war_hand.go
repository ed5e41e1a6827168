package goat

import (
	"fmt"
	"strings"

	"github.com/tjwilson90/goat/card"
)

// WarHand is the capability set the war phase needs from a hand. The
// server backs it with exact cards; clients may only know a count.
// Mutations report malformed requests as errors so a mirror fed an
// inconsistent stream fails its Apply instead of corrupting state.
type WarHand interface {
	Add(c card.Card) error
	Remove(c card.Card) error
	Len() int
	IsEmpty() bool
	CheckHasCard(c card.Card) error
}

// ServerWarHand holds at most three cards in draw order.
type ServerWarHand struct {
	cards [3]card.Card
	n     uint8
}

func (h *ServerWarHand) Cards() []card.Card {
	return h.cards[:h.n]
}

func (h *ServerWarHand) Add(c card.Card) error {
	if h.n == uint8(len(h.cards)) {
		return ErrCannotDrawMoreThanThreeCards
	}
	h.cards[h.n] = c
	h.n++
	return nil
}

func (h *ServerWarHand) Remove(c card.Card) error {
	for i := 0; i < int(h.n); i++ {
		if h.cards[i] == c {
			copy(h.cards[i:], h.cards[i+1:int(h.n)])
			h.n--
			return nil
		}
	}
	return NotYourCardError{Card: c}
}

func (h *ServerWarHand) Len() int {
	return int(h.n)
}

func (h *ServerWarHand) IsEmpty() bool {
	return h.n == 0
}

func (h *ServerWarHand) CheckHasCard(c card.Card) error {
	for i := 0; i < int(h.n); i++ {
		if h.cards[i] == c {
			return nil
		}
	}
	return NotYourCardError{Card: c}
}

// MergeIntoRummy folds the hand into a won pile when war ends.
func (h *ServerWarHand) MergeIntoRummy(won card.Cards) card.Cards {
	for _, c := range h.Cards() {
		won = won.PlusCard(c)
	}
	return won
}

func (h *ServerWarHand) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range h.Cards() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(']')
	return b.String()
}

// ClientWarHand mirrors an opponent's hand as a count of unknown cards, or
// the viewer's own hand with full visibility. A hand is never both.
type ClientWarHand struct {
	known  ServerWarHand
	count  uint8
	hidden bool
}

func (h *ClientWarHand) Add(c card.Card) error {
	switch {
	case !h.hidden:
		return h.known.Add(c)
	case h.count == 0:
		h.hidden = false
		return h.known.Add(c)
	default:
		return ErrInvalidAction
	}
}

// AddHidden records n cards of unknown identity entering the hand.
func (h *ClientWarHand) AddHidden(n uint8) error {
	switch {
	case h.hidden:
		h.count += n
		return nil
	case h.known.IsEmpty():
		h.hidden = true
		h.count = n
		return nil
	default:
		return ErrInvalidAction
	}
}

func (h *ClientWarHand) Remove(c card.Card) error {
	if h.hidden {
		if h.count == 0 {
			return ErrInvalidAction
		}
		h.count--
		return nil
	}
	return h.known.Remove(c)
}

func (h *ClientWarHand) Len() int {
	if h.hidden {
		return int(h.count)
	}
	return h.known.Len()
}

func (h *ClientWarHand) IsEmpty() bool {
	return h.Len() == 0
}

func (h *ClientWarHand) CheckHasCard(card.Card) error {
	return nil
}

// Visible returns the exact hand when its cards are known to the viewer.
func (h *ClientWarHand) Visible() (*ServerWarHand, bool) {
	if h.hidden {
		return nil, false
	}
	return &h.known, true
}

// MergeIntoRummy folds the hand into a won pile when war ends.
func (h *ClientWarHand) MergeIntoRummy(won card.Cards) ClientRummyHand {
	if h.hidden {
		return ClientRummyHand{Known: won, Unknown: h.count}
	}
	return ClientRummyHand{Known: h.known.MergeIntoRummy(won)}
}

func (h *ClientWarHand) String() string {
	if h.hidden {
		return fmt.Sprintf("%d", h.count)
	}
	return h.known.String()
}
