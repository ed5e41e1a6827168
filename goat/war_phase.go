package goat

import "github.com/tjwilson90/goat/card"

// WarPhase is the first phase of the game: a deck, per-player hands of at
// most three cards, per-player won piles, the current trick, and a slot
// for the previous trick. It is shared between the server (exact deck and
// hands) and clients (counts) through the Deck and WarHand capabilities.
type WarPhase[D Deck, H WarHand] struct {
	Deck  D
	Hands []H
	Won   []card.Cards
	Trick WarTrick
	Prev  TrickSlot
}

// Play records a card from the player due to act.
func (w *WarPhase[D, H]) Play(kind WarPlayKind, c card.Card) {
	w.Trick.Play(kind, c)
}

// Slough discards a card into the trick off-turn.
func (w *WarPhase[D, H]) Slough(player PlayerIdx, c card.Card) error {
	hand := w.Hands[player.Idx()]
	if err := hand.CheckHasCard(c); err != nil {
		return err
	}
	if err := w.Trick.CheckCanSlough(player, c); err != nil {
		return err
	}
	if err := hand.Remove(c); err != nil {
		return err
	}
	w.Trick.Slough(player, c)
	return nil
}

// IsFinished reports whether the war phase is over: no drawable cards
// remain and a still-contending player is out of cards.
func (w *WarPhase[D, H]) IsFinished() bool {
	if w.Deck.CardsRemaining() != 0 {
		return false
	}
	for _, p := range w.Trick.RemainingPlayers() {
		if w.Hands[p.Idx()].IsEmpty() {
			return true
		}
	}
	return false
}

// FinishTrick records player's acknowledgement that the trick is over.
// When the last acknowledgement arrives and the trick has a winner, the
// trick's cards are credited to the winner's pile and a fresh trick with
// the winner as leader is installed; the completed trick moves to the
// previous-trick slot. completed reports whether this acknowledgement was
// the last one.
func (w *WarPhase[D, H]) FinishTrick(player PlayerIdx) (completed bool, err error) {
	if _, won := w.Trick.Winner(); !won && !w.IsFinished() {
		return false, ErrCannotFinishSloughingIncompleteTrick
	}
	if w.Trick.Ended(player) {
		return false, ErrInvalidAction
	}
	w.Trick.finish(player)
	if !w.Trick.AllEnded() {
		return false, nil
	}
	if winner, won := w.Trick.Winner(); won {
		w.Won[winner.Idx()] = w.Won[winner.Idx()].Plus(w.Trick.Cards())
		trick := w.Trick
		w.Trick = NewWarTrick(winner, len(w.Hands))
		w.Prev.Set(trick)
	}
	return true, nil
}
