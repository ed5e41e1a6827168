package goat

import "github.com/tjwilson90/goat/card"

// ClientGame mirrors a server game for one viewer by applying the
// (possibly redacted) events it receives. It holds only the information
// the viewer is entitled to: other players' hands are visible cards plus
// an unknown count.
type ClientGame struct {
	Phase   GamePhase
	Players []UserId
	War     *WarPhase[*ClientDeck, *ClientWarHand]
	Rummy   *RummyPhase[*ClientRummyHand]
	Goat    *GoatPhase

	// NewHistory builds the rummy history sink for this mirror. Defaults
	// to a no-op sink.
	NewHistory func(numPlayers int) RummyHistory
	// NewTrickSlot builds the previous-trick slot. Defaults to discarding.
	NewTrickSlot func() TrickSlot
}

func NewClientGame() *ClientGame {
	return &ClientGame{
		NewHistory:   func(int) RummyHistory { return NoHistory{} },
		NewTrickSlot: func() TrickSlot { return DiscardTrickSlot{} },
	}
}

// Apply advances the mirror by one event.
func (g *ClientGame) Apply(event Event) error {
	switch e := event.(type) {
	case JoinEvent:
		g.Players = append(g.Players, e.UserId)

	case LeaveEvent:
		g.Players[e.Player.Idx()] = g.Players[len(g.Players)-1]
		g.Players = g.Players[:len(g.Players)-1]

	case StartEvent:
		numPlayers := len(g.Players)
		deck := NewClientDeck(int(e.NumDecks))
		hands := make([]*ClientWarHand, numPlayers)
		for i := range hands {
			hands[i] = &ClientWarHand{}
		}
		g.War = &WarPhase[*ClientDeck, *ClientWarHand]{
			Deck:  &deck,
			Hands: hands,
			Won:   make([]card.Cards, numPlayers),
			Trick: NewWarTrick(0, numPlayers),
			Prev:  g.NewTrickSlot(),
		}
		g.Phase = PhaseWar

	case PlayCardEvent:
		war, err := g.war()
		if err != nil {
			return err
		}
		player, _ := war.Trick.NextPlayer()
		if err := war.Hands[player.Idx()].Remove(e.Card); err != nil {
			return err
		}
		war.Play(PlayHand, e.Card)

	case PlayTopEvent:
		war, err := g.war()
		if err != nil {
			return err
		}
		war.Deck.Draw()
		war.Play(PlayTop, e.Card)

	case SloughEvent:
		war, err := g.war()
		if err != nil {
			return err
		}
		if err := war.Slough(e.Player, e.Card); err != nil {
			return err
		}

	case DrawEvent:
		war, err := g.war()
		if err != nil {
			return err
		}
		war.Deck.Draw()
		if err := war.Hands[e.Player.Idx()].Add(e.Card); err != nil {
			return err
		}

	case RedactedDrawEvent:
		war, err := g.war()
		if err != nil {
			return err
		}
		war.Deck.Draw()
		if err := war.Hands[e.Player.Idx()].AddHidden(1); err != nil {
			return err
		}

	case FinishTrickEvent:
		war, err := g.war()
		if err != nil {
			return err
		}
		if _, err := war.FinishTrick(e.Player); err != nil {
			return err
		}

	case RevealTrumpEvent:
		war, err := g.war()
		if err != nil {
			return err
		}
		hands := make([]*ClientRummyHand, len(war.Hands))
		for i, h := range war.Hands {
			merged := h.MergeIntoRummy(war.Won[i])
			hands[i] = &merged
		}
		for _, p := range war.Trick.Plays() {
			hands[p.Player().Idx()].AddCard(p.Card)
		}
		history := g.NewHistory(len(hands))
		g.Rummy = NewRummyPhase(hands, war.Trick.Leader(), e.Trump, history)
		g.War = nil
		g.Phase = PhaseRummy

	case OfferDreckEvent:
		rummy, err := g.rummy()
		if err != nil {
			return err
		}
		if err := rummy.Hands[e.Player.Idx()].RemoveCards(e.Dreck); err != nil {
			return err
		}

	case ReceiveDreckEvent:
		rummy, err := g.rummy()
		if err != nil {
			return err
		}
		rummy.Hands[e.Player.Idx()].AddCards(e.Dreck)

	case RedactedOfferDreckEvent:
		rummy, err := g.rummy()
		if err != nil {
			return err
		}
		hand := rummy.Hands[e.Player.Idx()]
		if e.Dreck > 0 {
			dreckSet := card.CommonDreck.PlusCard(rummy.Trump.WithRank(card.Six))
			removed := hand.Known.RemoveAll(dreckSet)
			hand.Unknown -= e.Dreck - uint8(removed.Len())
		}

	case RedactedReceiveDreckEvent:
		rummy, err := g.rummy()
		if err != nil {
			return err
		}
		rummy.Hands[e.Player.Idx()].Unknown += e.Dreck

	case PlayRunEvent:
		rummy, err := g.rummy()
		if err != nil {
			return err
		}
		rummy.AdvanceLeader()
		finished, err := rummy.PlayRun(rummy.Next, e.Lo, e.Hi)
		if err != nil {
			return err
		}
		if finished {
			g.Goat = NewGoatPhase(rummy.Next)
			g.Rummy = nil
			g.Phase = PhaseGoat
		}

	case PickUpEvent:
		rummy, err := g.rummy()
		if err != nil {
			return err
		}
		rummy.AdvanceLeader()
		player := rummy.Next
		goat, err := rummy.PickUp(player)
		if err != nil {
			return err
		}
		if goat {
			g.Goat = NewGoatPhase(player)
			g.Rummy = nil
			g.Phase = PhaseGoat
		}

	case GoatEvent:
		if g.Phase != PhaseGoat {
			return ErrInvalidAction
		}
		noise := e.Noise
		g.Goat.Noise = &noise

	default:
		return ErrInvalidAction
	}
	return nil
}

func (g *ClientGame) war() (*WarPhase[*ClientDeck, *ClientWarHand], error) {
	if g.Phase != PhaseWar {
		return nil, ErrInvalidAction
	}
	return g.War, nil
}

func (g *ClientGame) rummy() (*RummyPhase[*ClientRummyHand], error) {
	if g.Phase != PhaseRummy {
		return nil, ErrInvalidAction
	}
	return g.Rummy, nil
}
