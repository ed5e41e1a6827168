package goat

import "github.com/tjwilson90/goat/card"

// WarTrick is a multi-round contest. In each round every contending player
// plays once in seating order; the highest rank wins the round. Ties for
// highest advance together to another round until a single winner remains.
// Off-turn players may slough cards whose rank has already appeared. The
// trick is only complete once every seat has acknowledged its end.
type WarTrick struct {
	next    int
	rank    card.Rank
	players []PlayerIdx
	winners []PlayerIdx
	plays   []WarPlay
	// endMask has one bit per original seat; a set bit means that seat has
	// not yet acknowledged the end of the trick.
	endMask uint16
}

func NewWarTrick(leader PlayerIdx, numPlayers int) WarTrick {
	players := make([]PlayerIdx, 0, numPlayers)
	for i := leader.Idx(); i < numPlayers; i++ {
		players = append(players, PlayerIdx(i))
	}
	for i := 0; i < leader.Idx(); i++ {
		players = append(players, PlayerIdx(i))
	}
	return WarTrick{
		players: players,
		endMask: uint16(1)<<numPlayers - 1,
	}
}

// NextPlayer returns the player due to play. ok is false once the trick
// has a winner and no further plays are possible.
func (t *WarTrick) NextPlayer() (PlayerIdx, bool) {
	_, won := t.Winner()
	return t.players[t.next], !won
}

// Rank returns the highest rank of the current round. ok is false at the
// start of a round, when any rank may be played.
func (t *WarTrick) Rank() (card.Rank, bool) {
	return t.rank, t.next != 0
}

// Winner returns the last contender standing, if the trick has one.
func (t *WarTrick) Winner() (PlayerIdx, bool) {
	if len(t.players) == 1 {
		return t.players[0], true
	}
	return 0, false
}

// RemainingPlayers lists the contenders still to play this round, in play
// order.
func (t *WarTrick) RemainingPlayers() []PlayerIdx {
	return t.players[t.next:]
}

// Leader returns the player who led the trick, or the player configured to
// play first when nothing has been played yet.
func (t *WarTrick) Leader() PlayerIdx {
	if len(t.plays) > 0 {
		return t.plays[0].Player()
	}
	p, _ := t.NextPlayer()
	return p
}

// Ended reports whether player has acknowledged the end of the trick.
func (t *WarTrick) Ended(player PlayerIdx) bool {
	return t.endMask&(1<<player) == 0
}

// AllEnded reports whether every seat has acknowledged the end.
func (t *WarTrick) AllEnded() bool {
	return t.endMask == 0
}

func (t *WarTrick) finish(player PlayerIdx) {
	t.endMask &^= 1 << player
}

// Play records a card from the player due to act. When the round's last
// player has played, the tied-for-highest players advance to a fresh round.
func (t *WarTrick) Play(kind WarPlayKind, c card.Card) {
	player := t.players[t.next]
	t.next++
	switch {
	case c.Rank() > t.rank:
		t.winners = append(t.winners[:0], player)
		t.rank = c.Rank()
	case c.Rank() == t.rank:
		t.winners = append(t.winners, player)
	}
	if t.next == len(t.players) {
		t.players = t.winners
		t.winners = nil
		t.next = 0
		t.rank = card.Two
	}
	t.plays = append(t.plays, NewWarPlay(player, kind, c))
}

// CheckCanSlough validates an off-turn discard: the player must not have
// acknowledged trick end. A card of the current round's rank may be
// sloughed only by a player who is not still due to play this round, even
// though that rank has already been played; any other card must match a
// rank already played to the trick.
func (t *WarTrick) CheckCanSlough(player PlayerIdx, c card.Card) error {
	if t.Ended(player) {
		return ErrCannotSloughOnEndedTrick
	}
	if !t.canSlough(player, c) {
		return IllegalSloughError{Card: c}
	}
	return nil
}

func (t *WarTrick) canSlough(player PlayerIdx, c card.Card) bool {
	if rank, ok := t.Rank(); ok && rank == c.Rank() {
		for _, p := range t.players[t.next:] {
			if p == player {
				return false
			}
		}
		return true
	}
	for _, play := range t.plays {
		if play.Card.Rank() == c.Rank() {
			return true
		}
	}
	return false
}

// Slough appends an off-turn discard to the play log. The caller has
// already validated it.
func (t *WarTrick) Slough(player PlayerIdx, c card.Card) {
	t.plays = append(t.plays, NewWarPlay(player, Slough, c))
}

// Plays returns the append-only log of plays, sloughs included.
func (t *WarTrick) Plays() []WarPlay {
	return t.plays
}

// Cards returns every card played to the trick.
func (t *WarTrick) Cards() card.Cards {
	cards := card.NoCards
	for _, p := range t.plays {
		cards = cards.PlusCard(p.Card)
	}
	return cards
}
