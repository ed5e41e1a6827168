package goat

import "github.com/tjwilson90/goat/card"

// RummyHistory receives a hook for every rummy move. The server plugs in
// NoHistory; bots that simulate plug in CardsHistory to know which cards
// are out; UI clients plug in LastActionHistory to render each player's
// most recent move.
type RummyHistory interface {
	Lead(player PlayerIdx, lo, hi card.Card)
	Play(player PlayerIdx, lo, hi card.Card)
	Kill(player PlayerIdx, lo, hi card.Card)
	PickUp(player PlayerIdx, lo, hi card.Card)
}

type NoHistory struct{}

func (NoHistory) Lead(PlayerIdx, card.Card, card.Card)   {}
func (NoHistory) Play(PlayerIdx, card.Card, card.Card)   {}
func (NoHistory) Kill(PlayerIdx, card.Card, card.Card)   {}
func (NoHistory) PickUp(PlayerIdx, card.Card, card.Card) {}

// CardsHistory accumulates the multiset of cards currently exposed in
// play: runs add their cards, pick-ups return them to a hand and remove
// them again.
type CardsHistory struct {
	cards card.Cards
}

func (h *CardsHistory) Cards() card.Cards {
	return h.cards
}

func (h *CardsHistory) Lead(_ PlayerIdx, lo, hi card.Card) {
	h.cards = h.cards.Plus(card.Range(lo, hi))
}

func (h *CardsHistory) Play(_ PlayerIdx, lo, hi card.Card) {
	h.cards = h.cards.Plus(card.Range(lo, hi))
}

func (h *CardsHistory) Kill(_ PlayerIdx, lo, hi card.Card) {
	h.cards = h.cards.Plus(card.Range(lo, hi))
}

func (h *CardsHistory) PickUp(_ PlayerIdx, lo, hi card.Card) {
	h.cards = h.cards.Minus(card.Range(lo, hi))
}

// LastActionKind labels a player's most recent rummy move.
type LastActionKind uint8

const (
	LastActionNone LastActionKind = iota
	LastActionLead
	LastActionPlay
	LastActionKill
	LastActionKillAndLead
	LastActionPickUp
)

// LastAction is one player's most recent move. A kill immediately followed
// by the same player leading the next trick collapses into KillAndLead,
// since killing leaves the turn with the killer.
type LastAction struct {
	Kind   LastActionKind
	Lo, Hi card.Card
	// KillLo and KillHi hold the killing run for KillAndLead.
	KillLo, KillHi card.Card
}

// LastActionHistory records each player's single most recent action.
type LastActionHistory struct {
	actions []LastAction
}

func NewLastActionHistory(numPlayers int) *LastActionHistory {
	return &LastActionHistory{actions: make([]LastAction, numPlayers)}
}

func (h *LastActionHistory) LastAction(player PlayerIdx) LastAction {
	return h.actions[player.Idx()]
}

func (h *LastActionHistory) Lead(player PlayerIdx, lo, hi card.Card) {
	prev := h.actions[player.Idx()]
	if prev.Kind == LastActionKill {
		h.actions[player.Idx()] = LastAction{
			Kind:   LastActionKillAndLead,
			Lo:     lo,
			Hi:     hi,
			KillLo: prev.Lo,
			KillHi: prev.Hi,
		}
		return
	}
	h.actions[player.Idx()] = LastAction{Kind: LastActionLead, Lo: lo, Hi: hi}
}

func (h *LastActionHistory) Play(player PlayerIdx, lo, hi card.Card) {
	h.actions[player.Idx()] = LastAction{Kind: LastActionPlay, Lo: lo, Hi: hi}
}

func (h *LastActionHistory) Kill(player PlayerIdx, lo, hi card.Card) {
	h.actions[player.Idx()] = LastAction{Kind: LastActionKill, Lo: lo, Hi: hi}
}

func (h *LastActionHistory) PickUp(player PlayerIdx, lo, hi card.Card) {
	h.actions[player.Idx()] = LastAction{Kind: LastActionPickUp, Lo: lo, Hi: hi}
}
