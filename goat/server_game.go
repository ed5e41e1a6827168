package goat

import (
	"math/rand"

	"github.com/tjwilson90/goat/card"
)

const (
	// MinPlayers and MaxPlayers bound how many seats a game may have.
	MinPlayers = 3
	MaxPlayers = 15

	// MinDecks and MaxDecks bound how many decks a game may shuffle in.
	// Three is the most the two-bit card counters can represent.
	MinDecks = 1
	MaxDecks = 3
)

// ServerGame is the authoritative game state. Its single source of truth
// is the append-only event log: every successful Apply appends at least
// one event, except a Join by a user who is already seated, which succeeds
// without appending anything. Replaying the log through a ClientGame
// reproduces the observable state.
type ServerGame struct {
	phase   GamePhase
	players []UserId
	events  []Event
	seed    int64

	war   *WarPhase[*ServerDeck, *ServerWarHand]
	rummy *RummyPhase[*ServerRummyHand]
	goat  *GoatPhase
}

func NewServerGame(seed int64) *ServerGame {
	return &ServerGame{seed: seed}
}

// Player resolves a user to their seat.
func (g *ServerGame) Player(userId UserId) (PlayerIdx, error) {
	for i, p := range g.players {
		if p == userId {
			return PlayerIdx(i), nil
		}
	}
	return 0, InvalidPlayerError{UserId: userId}
}

func (g *ServerGame) Players() []UserId {
	return g.players
}

// Events returns the append-only event log.
func (g *ServerGame) Events() []Event {
	return g.events
}

func (g *ServerGame) Phase() GamePhase {
	return g.phase
}

func (g *ServerGame) Started() bool {
	return g.phase != PhaseUnstarted
}

// Complete returns the goat once the game has reached its terminal phase.
func (g *ServerGame) Complete() (PlayerIdx, bool) {
	if g.phase == PhaseGoat {
		return g.goat.Goat, true
	}
	return 0, false
}

// Active reports whether the game is in progress: started and not yet
// complete.
func (g *ServerGame) Active() bool {
	return g.Started() && g.phase != PhaseGoat
}

// Apply validates an action against the current phase and, if legal,
// mutates the game and appends the resulting events to the log. On error
// no state is changed.
func (g *ServerGame) Apply(userId UserId, action Action) error {
	switch a := action.(type) {
	case JoinAction:
		if g.phase != PhaseUnstarted {
			return ErrInvalidAction
		}
		if _, err := g.Player(a.UserId); err == nil {
			return nil
		}
		if len(g.players) == MaxPlayers {
			return ErrInvalidNumberOfPlayers
		}
		g.players = append(g.players, a.UserId)
		g.events = append(g.events, JoinEvent{UserId: a.UserId})

	case LeaveAction:
		if g.phase != PhaseUnstarted {
			return ErrInvalidAction
		}
		if a.Player.Idx() >= len(g.players) {
			return ErrInvalidAction
		}
		g.players[a.Player.Idx()] = g.players[len(g.players)-1]
		g.players = g.players[:len(g.players)-1]
		g.events = append(g.events, LeaveEvent{Player: a.Player})

	case StartAction:
		if g.phase != PhaseUnstarted {
			return ErrInvalidAction
		}
		if a.NumDecks < MinDecks || a.NumDecks > MaxDecks {
			return ErrInvalidNumberOfDecks
		}
		if len(g.players) < MinPlayers || len(g.players) > MaxPlayers {
			return ErrInvalidNumberOfPlayers
		}
		numPlayers := len(g.players)
		deck := ServerDeck(card.OneDeck.Times(int(a.NumDecks)).List())
		rng := rand.New(rand.NewSource(g.seed))
		rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		hands := make([]*ServerWarHand, numPlayers)
		for i := range hands {
			hands[i] = &ServerWarHand{}
		}
		g.war = &WarPhase[*ServerDeck, *ServerWarHand]{
			Deck:  &deck,
			Hands: hands,
			Won:   make([]card.Cards, numPlayers),
			Trick: NewWarTrick(0, numPlayers),
			Prev:  DiscardTrickSlot{},
		}
		g.phase = PhaseWar
		g.events = append(g.events, StartEvent{NumDecks: a.NumDecks})

	case PlayCardAction:
		player, war, err := g.warFor(userId)
		if err != nil {
			return err
		}
		if next, ok := war.Trick.NextPlayer(); !ok || next != player {
			return NotYourTurnError{Player: player}
		}
		hand := war.Hands[player.Idx()]
		if err := hand.CheckHasCard(a.Card); err != nil {
			return err
		}
		if rank, ok := war.Trick.Rank(); ok && a.Card.Rank() != rank && handHasRank(hand, rank) {
			return MustMatchRankError{Rank: rank}
		}
		if err := hand.Remove(a.Card); err != nil {
			return err
		}
		war.Play(PlayHand, a.Card)
		g.events = append(g.events, PlayCardEvent{Card: a.Card})

	case PlayTopAction:
		player, war, err := g.warFor(userId)
		if err != nil {
			return err
		}
		if next, ok := war.Trick.NextPlayer(); !ok || next != player {
			return NotYourTurnError{Player: player}
		}
		if rank, ok := war.Trick.Rank(); ok && handHasRank(war.Hands[player.Idx()], rank) {
			return MustMatchRankError{Rank: rank}
		}
		if war.Deck.CardsRemaining() == 0 {
			return ErrCannotPlayFromEmptyDeck
		}
		c := war.Deck.Pop()
		war.Play(PlayTop, c)
		g.events = append(g.events, PlayTopEvent{Card: c})

	case SloughAction:
		player, war, err := g.warFor(userId)
		if err != nil {
			return err
		}
		if err := war.Slough(player, a.Card); err != nil {
			return err
		}
		g.events = append(g.events, SloughEvent{Player: player, Card: a.Card})

	case DrawAction:
		player, war, err := g.warFor(userId)
		if err != nil {
			return err
		}
		hand := war.Hands[player.Idx()]
		if hand.Len() == 3 {
			return ErrCannotDrawMoreThanThreeCards
		}
		if war.Deck.CardsRemaining() == 0 {
			return ErrCannotDrawFromEmptyDeck
		}
		c := war.Deck.Pop()
		if err := hand.Add(c); err != nil {
			return err
		}
		g.events = append(g.events, DrawEvent{Player: player, Card: c})

	case FinishTrickAction:
		player, war, err := g.warFor(userId)
		if err != nil {
			return err
		}
		completed, err := war.FinishTrick(player)
		if err != nil {
			return err
		}
		g.events = append(g.events, FinishTrickEvent{Player: player})
		if completed && war.IsFinished() {
			trump := war.Deck.Trump()
			g.events = append(g.events, RevealTrumpEvent{Trump: trump})
			rummy := switchToRummy(war, trump)
			g.distributeDreck(rummy)
			g.war = nil
			g.rummy = rummy
			g.phase = PhaseRummy
		}

	case PlayRunAction:
		player, rummy, err := g.rummyFor(userId)
		if err != nil {
			return err
		}
		finished, err := rummy.PlayRun(player, a.Lo, a.Hi)
		if err != nil {
			return err
		}
		g.events = append(g.events, PlayRunEvent{Lo: a.Lo, Hi: a.Hi})
		if finished {
			g.goat = NewGoatPhase(rummy.Next)
			g.rummy = nil
			g.phase = PhaseGoat
		}

	case PickUpAction:
		player, rummy, err := g.rummyFor(userId)
		if err != nil {
			return err
		}
		goat, err := rummy.PickUp(player)
		if err != nil {
			return err
		}
		g.events = append(g.events, PickUpEvent{})
		if goat {
			g.goat = NewGoatPhase(player)
			g.rummy = nil
			g.phase = PhaseGoat
		}

	case GoatAction:
		player, err := g.Player(userId)
		if err != nil {
			return err
		}
		if g.phase != PhaseGoat {
			return ErrInvalidAction
		}
		if player != g.goat.Goat {
			return ErrNoFreeShows
		}
		noise := a.Noise
		g.goat.Noise = &noise
		g.events = append(g.events, GoatEvent{Noise: a.Noise})

	default:
		return ErrInvalidAction
	}
	return nil
}

func (g *ServerGame) warFor(userId UserId) (PlayerIdx, *WarPhase[*ServerDeck, *ServerWarHand], error) {
	player, err := g.Player(userId)
	if err != nil {
		return 0, nil, err
	}
	if g.phase != PhaseWar {
		return 0, nil, ErrInvalidAction
	}
	return player, g.war, nil
}

func (g *ServerGame) rummyFor(userId UserId) (PlayerIdx, *RummyPhase[*ServerRummyHand], error) {
	player, err := g.Player(userId)
	if err != nil {
		return 0, nil, err
	}
	if g.phase != PhaseRummy {
		return 0, nil, ErrInvalidAction
	}
	return player, g.rummy, nil
}

func handHasRank(hand *ServerWarHand, rank card.Rank) bool {
	for _, c := range hand.Cards() {
		if c.Rank() == rank {
			return true
		}
	}
	return false
}

// switchToRummy merges each player's won pile, remaining war hand, and any
// cards they played to the still-open trick into their rummy hand. The
// trick's leader acts first.
func switchToRummy(war *WarPhase[*ServerDeck, *ServerWarHand], trump card.Card) *RummyPhase[*ServerRummyHand] {
	hands := make([]*ServerRummyHand, len(war.Hands))
	for i, h := range war.Hands {
		hands[i] = NewServerRummyHand(h.MergeIntoRummy(war.Won[i]))
	}
	for _, p := range war.Trick.Plays() {
		hands[p.Player().Idx()].AddCard(p.Card)
	}
	return NewRummyPhase(hands, war.Trick.Leader(), trump, NoHistory{})
}

// distributeDreck runs immediately after the trump reveal. Every low card
// (ranks two through five, plus the six of trump) is stripped from every
// hand and dealt to the players who came out of war short of six cards.
func (g *ServerGame) distributeDreck(rummy *RummyPhase[*ServerRummyHand]) {
	var candidates []PlayerIdx
	for i, h := range rummy.Hands {
		if h.Len() < 6 {
			candidates = append(candidates, PlayerIdx(i))
		}
	}
	if len(candidates) == 0 {
		return
	}
	dreckSet := card.CommonDreck.PlusCard(rummy.Trump.WithRank(card.Six))
	allDreck := card.NoCards
	for i, h := range rummy.Hands {
		dreck := h.RemoveDreck(dreckSet)
		if !dreck.IsEmpty() {
			allDreck = allDreck.Plus(dreck)
			g.events = append(g.events, OfferDreckEvent{Player: PlayerIdx(i), Dreck: dreck})
		}
	}
	if len(candidates) == 1 {
		player := candidates[0]
		rummy.Hands[player.Idx()].AddCards(allDreck)
		g.events = append(g.events, ReceiveDreckEvent{Player: player, Dreck: allDreck})
		return
	}
	deal := allDreck.List()
	rng := rand.New(rand.NewSource(g.seed ^ 1))
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	rng.Shuffle(len(deal), func(i, j int) {
		deal[i], deal[j] = deal[j], deal[i]
	})
	idx := 0
	for i, player := range candidates {
		n := (len(deal) - idx) / (len(candidates) - i)
		dreck := card.Of(deal[idx : idx+n]...)
		idx += n
		rummy.Hands[player.Idx()].AddCards(dreck)
		g.events = append(g.events, ReceiveDreckEvent{Player: player, Dreck: dreck})
	}
	rummy.AdvanceLeader()
}
