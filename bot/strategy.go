package bot

import (
	"github.com/tjwilson90/goat/card"
	"github.com/tjwilson90/goat/goat"
)

// WarView and RummyView are the client-side phase mirrors strategies read.
type (
	WarView   = goat.WarPhase[*goat.ClientDeck, *goat.ClientWarHand]
	RummyView = goat.RummyPhase[*goat.ClientRummyHand]
)

// Strategy decides one action at a time for a bot seated in a game. War
// may decline to act; rummy is only consulted on the bot's turn and must
// produce an action.
type Strategy interface {
	War(idx goat.PlayerIdx, war *WarView) (goat.Action, bool)
	Rummy(idx goat.PlayerIdx, rummy *RummyView) goat.Action
}

// PlayTop never holds cards and always plays from the top of the deck.
type PlayTop struct{}

func (PlayTop) War(idx goat.PlayerIdx, war *WarView) (goat.Action, bool) {
	return warPlayTop(idx, war)
}

func (PlayTop) Rummy(idx goat.PlayerIdx, rummy *RummyView) goat.Action {
	return rummySimple(idx, rummy)
}

// Duck tries to lose every trick.
type Duck struct{}

func (Duck) War(idx goat.PlayerIdx, war *WarView) (goat.Action, bool) {
	return warDuck(idx, war)
}

func (Duck) Rummy(idx goat.PlayerIdx, rummy *RummyView) goat.Action {
	return rummySimple(idx, rummy)
}

// Cover tries to win every trick.
type Cover struct{}

func (Cover) War(idx goat.PlayerIdx, war *WarView) (goat.Action, bool) {
	return warCover(idx, war)
}

func (Cover) Rummy(idx goat.PlayerIdx, rummy *RummyView) goat.Action {
	return rummySimple(idx, rummy)
}

// Adapt ducks in small games and covers in large ones.
type Adapt struct{}

func (Adapt) War(idx goat.PlayerIdx, war *WarView) (goat.Action, bool) {
	if len(war.Hands) < 4 {
		return warDuck(idx, war)
	}
	return warCover(idx, war)
}

func (Adapt) Rummy(idx goat.PlayerIdx, rummy *RummyView) goat.Action {
	return rummySimple(idx, rummy)
}

func warPlayTop(idx goat.PlayerIdx, war *WarView) (goat.Action, bool) {
	if _, won := war.Trick.Winner(); won || war.IsFinished() {
		if war.Trick.Ended(idx) {
			return nil, false
		}
		return goat.FinishTrickAction{}, true
	}
	if next, ok := war.Trick.NextPlayer(); ok && next == idx {
		return goat.PlayTopAction{}, true
	}
	return nil, false
}

func warDuck(idx goat.PlayerIdx, war *WarView) (goat.Action, bool) {
	hand, ok := war.Hands[idx.Idx()].Visible()
	if !ok {
		panic("bot hand is hidden")
	}
	if hand.Len() < 3 && war.Deck.CardsRemaining() > 0 {
		return goat.DrawAction{}, true
	}
	for _, c := range hand.Cards() {
		if c.Rank() > card.Eight && war.Trick.CheckCanSlough(idx, c) == nil {
			return goat.SloughAction{Card: c}, true
		}
	}
	if _, won := war.Trick.Winner(); won || war.IsFinished() {
		if war.Trick.Ended(idx) {
			return nil, false
		}
		return goat.FinishTrickAction{}, true
	}
	if next, ok := war.Trick.NextPlayer(); !ok || next != idx {
		return nil, false
	}
	if rank, ok := war.Trick.Rank(); ok {
		if c, ok := findRank(hand, rank); ok {
			return goat.PlayCardAction{Card: c}, true
		}
		if c, ok := maxBelow(hand, rank); ok {
			return goat.PlayCardAction{Card: c}, true
		}
		if war.Deck.CardsRemaining() > 0 {
			return goat.PlayTopAction{}, true
		}
		return goat.PlayCardAction{Card: minCard(hand)}, true
	}
	low := minCard(hand)
	if war.Deck.CardsRemaining() == 0 || low.Rank() < card.Six {
		return goat.PlayCardAction{Card: low}, true
	}
	return goat.PlayTopAction{}, true
}

func warCover(idx goat.PlayerIdx, war *WarView) (goat.Action, bool) {
	hand, ok := war.Hands[idx.Idx()].Visible()
	if !ok {
		panic("bot hand is hidden")
	}
	if hand.Len() < 3 && war.Deck.CardsRemaining() > 0 {
		return goat.DrawAction{}, true
	}
	for _, c := range hand.Cards() {
		if c.Rank() < card.Eight && war.Trick.CheckCanSlough(idx, c) == nil {
			return goat.SloughAction{Card: c}, true
		}
	}
	if _, won := war.Trick.Winner(); won || war.IsFinished() {
		if war.Trick.Ended(idx) {
			return nil, false
		}
		return goat.FinishTrickAction{}, true
	}
	if next, ok := war.Trick.NextPlayer(); !ok || next != idx {
		return nil, false
	}
	if rank, ok := war.Trick.Rank(); ok {
		if c, ok := findRank(hand, rank); ok {
			return goat.PlayCardAction{Card: c}, true
		}
		if c, ok := minAbove(hand, rank); ok {
			return goat.PlayCardAction{Card: c}, true
		}
		if war.Deck.CardsRemaining() > 0 {
			return goat.PlayTopAction{}, true
		}
		return goat.PlayCardAction{Card: minCard(hand)}, true
	}
	high := maxCard(hand)
	if war.Deck.CardsRemaining() == 0 || high.Rank() > card.Ten {
		return goat.PlayCardAction{Card: high}, true
	}
	return goat.PlayTopAction{}, true
}

// rummySimple preferentially plays long, low runs from suits with many
// runs, climbs cheaply when following, trumps when out, and picks up only
// when it has nothing.
func rummySimple(idx goat.PlayerIdx, rummy *RummyView) goat.Action {
	hand := rummy.Hands[idx.Idx()].Known
	trumpSuit := rummy.Trump.Suit()
	if top, ok := rummy.Trick.TopCard(); ok {
		above := hand.Above(top)
		trump := hand.InSuit(trumpSuit)
		switch {
		case above.IsEmpty() && (trump.IsEmpty() || top.Suit() == trumpSuit):
			return goat.PickUpAction{}
		case top.Suit() == trumpSuit:
			low := above.Min()
			return goat.PlayRunAction{Lo: low, Hi: low}
		case above.IsEmpty():
			low := trump.Min()
			return goat.PlayRunAction{Lo: low, Hi: low}
		default:
			lo, hi := above.MinRun()
			return goat.PlayRunAction{Lo: lo, Hi: hi}
		}
	}
	prev := idx.Idx()
	for {
		if prev == 0 {
			prev = len(rummy.Hands) - 1
		} else {
			prev--
		}
		if !rummy.Hands[prev].IsEmpty() {
			break
		}
	}
	prevKnown := rummy.Hands[prev].Known
	best := trumpSuit
	bestRuns, bestCover := 0, 100
	for _, s := range card.Suits {
		if s == trumpSuit {
			continue
		}
		inSuit := hand.InSuit(s)
		if inSuit.IsEmpty() {
			continue
		}
		runs := len(inSuit.Runs())
		cover := 100 - len(prevKnown.Below(inSuit.Min()).Runs())
		if runs > bestRuns || (runs == bestRuns && cover > bestCover) {
			best = s
			bestRuns = runs
			bestCover = cover
		}
	}
	lo, hi := hand.InSuit(best).MinRun()
	return goat.PlayRunAction{Lo: lo, Hi: hi}
}

func findRank(h *goat.ServerWarHand, rank card.Rank) (card.Card, bool) {
	for _, c := range h.Cards() {
		if c.Rank() == rank {
			return c, true
		}
	}
	return 0, false
}

func maxBelow(h *goat.ServerWarHand, rank card.Rank) (card.Card, bool) {
	var best card.Card
	found := false
	for _, c := range h.Cards() {
		if c.Rank() < rank && (!found || c.Rank() > best.Rank()) {
			best = c
			found = true
		}
	}
	return best, found
}

func minAbove(h *goat.ServerWarHand, rank card.Rank) (card.Card, bool) {
	var best card.Card
	found := false
	for _, c := range h.Cards() {
		if c.Rank() > rank && (!found || c.Rank() < best.Rank()) {
			best = c
			found = true
		}
	}
	return best, found
}

func minCard(h *goat.ServerWarHand) card.Card {
	best := h.Cards()[0]
	for _, c := range h.Cards()[1:] {
		if c.Rank() < best.Rank() {
			best = c
		}
	}
	return best
}

func maxCard(h *goat.ServerWarHand) card.Card {
	best := h.Cards()[0]
	for _, c := range h.Cards()[1:] {
		if c.Rank() > best.Rank() {
			best = c
		}
	}
	return best
}
