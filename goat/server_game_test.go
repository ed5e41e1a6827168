package goat

import (
	"reflect"
	"testing"

	"github.com/tjwilson90/goat/card"
)

func newUsers(n int) []UserId {
	users := make([]UserId, n)
	for i := range users {
		users[i] = UserId{RandId{lo: uint64(i) + 1}}
	}
	return users
}

func joinAndStart(t *testing.T, g *ServerGame, users []UserId, numDecks uint8) {
	t.Helper()
	for _, u := range users {
		if err := g.Apply(u, JoinAction{UserId: u}); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if err := g.Apply(users[0], StartAction{NumDecks: numDecks}); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestServerGameLobby(t *testing.T) {
	users := newUsers(4)
	g := NewServerGame(1)
	if err := g.Apply(users[0], StartAction{NumDecks: 1}); err != ErrInvalidNumberOfPlayers {
		t.Fatalf("starting with no players: %v", err)
	}
	for _, u := range users {
		if err := g.Apply(u, JoinAction{UserId: u}); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	// Joining twice is idempotent and appends nothing.
	before := len(g.Events())
	if err := g.Apply(users[1], JoinAction{UserId: users[1]}); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if len(g.Events()) != before {
		t.Fatalf("rejoin appended an event")
	}
	if err := g.Apply(users[3], LeaveAction{Player: 3}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(g.Players()) != 3 {
		t.Fatalf("players = %d", len(g.Players()))
	}
	if err := g.Apply(users[0], StartAction{NumDecks: 0}); err != ErrInvalidNumberOfDecks {
		t.Fatalf("zero decks: %v", err)
	}
	if err := g.Apply(users[0], StartAction{NumDecks: 4}); err != ErrInvalidNumberOfDecks {
		t.Fatalf("four decks: %v", err)
	}
	if g.Started() || g.Active() {
		t.Fatalf("game should still be unstarted")
	}
	if err := g.Apply(users[0], StartAction{NumDecks: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !g.Active() {
		t.Fatalf("game should be active")
	}
	if err := g.Apply(users[0], JoinAction{UserId: users[3]}); err != ErrInvalidAction {
		t.Fatalf("joining a started game: %v", err)
	}
	if err := g.Apply(users[0], StartAction{NumDecks: 1}); err != ErrInvalidAction {
		t.Fatalf("restarting: %v", err)
	}
	if _, err := g.Player(users[3]); err == nil {
		t.Fatalf("departed user still seated")
	}
}

func TestServerGameTooManyPlayers(t *testing.T) {
	users := newUsers(16)
	g := NewServerGame(1)
	for _, u := range users[:15] {
		if err := g.Apply(u, JoinAction{UserId: u}); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if err := g.Apply(users[15], JoinAction{UserId: users[15]}); err != ErrInvalidNumberOfPlayers {
		t.Fatalf("sixteenth join: %v", err)
	}
}

func TestServerGameWarValidation(t *testing.T) {
	users := newUsers(3)
	g := NewServerGame(7)
	joinAndStart(t, g, users, 1)

	outsider := UserId{RandId{lo: 99}}
	if err := g.Apply(outsider, DrawAction{}); err == nil {
		t.Fatalf("an outsider acted")
	}
	next, _ := g.war.Trick.NextPlayer()
	other := (next + 1) % 3
	if err := g.Apply(users[other.Idx()], PlayTopAction{}); err == nil {
		t.Fatalf("played out of turn")
	}
	// Drawing is legal off turn, three cards at most.
	for i := 0; i < 3; i++ {
		if err := g.Apply(users[other.Idx()], DrawAction{}); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
	if err := g.Apply(users[other.Idx()], DrawAction{}); err != ErrCannotDrawMoreThanThreeCards {
		t.Fatalf("fourth draw: %v", err)
	}
	if err := g.Apply(users[next.Idx()], FinishTrickAction{}); err != ErrCannotFinishSloughingIncompleteTrick {
		t.Fatalf("premature finish: %v", err)
	}
	if err := g.Apply(users[next.Idx()], PlayRunAction{Lo: card.TwoClubs, Hi: card.TwoClubs}); err != ErrInvalidAction {
		t.Fatalf("rummy action during war: %v", err)
	}
	if err := g.Apply(users[next.Idx()], GoatAction{Noise: 1}); err != ErrInvalidAction {
		t.Fatalf("goat noise during war: %v", err)
	}
}

// driveWar acknowledges finished tricks and otherwise plays each turn from
// the top of the deck, falling back to the hand when the rank must be
// matched or the deck has run dry, until the war phase ends.
func driveWar(t *testing.T, g *ServerGame, users []UserId) {
	t.Helper()
	for steps := 0; g.Phase() == PhaseWar; steps++ {
		if steps > 10000 {
			t.Fatalf("war did not finish")
		}
		war := g.war
		_, won := war.Trick.Winner()
		if won || war.IsFinished() {
			for p := PlayerIdx(0); p.Idx() < len(users); p++ {
				if !war.Trick.Ended(p) {
					if err := g.Apply(users[p.Idx()], FinishTrickAction{}); err != nil {
						t.Fatalf("finish trick: %v", err)
					}
					break
				}
			}
			continue
		}
		next, _ := war.Trick.NextPlayer()
		hand := war.Hands[next.Idx()]
		if rank, ok := war.Trick.Rank(); ok && handHasRank(hand, rank) {
			for _, c := range hand.Cards() {
				if c.Rank() == rank {
					if err := g.Apply(users[next.Idx()], PlayCardAction{Card: c}); err != nil {
						t.Fatalf("play matching card: %v", err)
					}
					break
				}
			}
			continue
		}
		if war.Deck.CardsRemaining() > 0 {
			if err := g.Apply(users[next.Idx()], PlayTopAction{}); err != nil {
				t.Fatalf("play top: %v", err)
			}
			continue
		}
		c := hand.Cards()[0]
		if err := g.Apply(users[next.Idx()], PlayCardAction{Card: c}); err != nil {
			t.Fatalf("play from hand: %v", err)
		}
	}
}

func TestServerGamePlayTopWarToRummy(t *testing.T) {
	users := newUsers(3)
	g := NewServerGame(1)
	joinAndStart(t, g, users, 1)
	driveWar(t, g, users)

	if g.Phase() != PhaseRummy {
		t.Fatalf("phase = %s", g.Phase())
	}
	var trump *RevealTrumpEvent
	plays := 0
	for _, event := range g.Events() {
		switch e := event.(type) {
		case RevealTrumpEvent:
			te := e
			trump = &te
		case PlayTopEvent:
			plays++
		}
	}
	if trump == nil {
		t.Fatalf("no trump revealed")
	}
	if plays != 51 {
		t.Fatalf("played %d cards from the top", plays)
	}
	if g.rummy.Trump != trump.Trump {
		t.Fatalf("rummy trump %s != revealed %s", g.rummy.Trump, trump.Trump)
	}
	// Every card except the reserved trump is in some hand.
	total := card.NoCards
	for _, h := range g.rummy.Hands {
		total = total.Plus(h.Cards())
	}
	if total.Len() != 51 {
		t.Fatalf("rummy hands hold %d cards", total.Len())
	}
	if total.PlusCard(trump.Trump) != card.OneDeck {
		t.Fatalf("hands + trump != one deck: %s", total)
	}
}

func TestServerGameDeterministic(t *testing.T) {
	run := func() []Event {
		users := newUsers(3)
		g := NewServerGame(42)
		joinAndStart(t, g, users, 1)
		driveWar(t, g, users)
		return g.Events()
	}
	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed, same actions, different logs")
	}
}

func TestServerGameReplayDeterminism(t *testing.T) {
	users := newUsers(3)
	g := NewServerGame(3)
	joinAndStart(t, g, users, 1)
	driveWar(t, g, users)

	// A couple of rummy moves so the replay covers all three phases of
	// state: lead a run, then have the next player pick it up.
	leader := g.rummy.Next
	lo, hi := g.rummy.Hands[leader.Idx()].Cards().MinRun()
	if err := g.Apply(users[leader.Idx()], PlayRunAction{Lo: lo, Hi: hi}); err != nil {
		t.Fatalf("play run: %v", err)
	}
	if g.Phase() == PhaseRummy && !g.rummy.Trick.IsEmpty() {
		picker := g.rummy.Next
		if err := g.Apply(users[picker.Idx()], PickUpAction{}); err != nil {
			t.Fatalf("pick up: %v", err)
		}
	}

	mirror := NewClientGame()
	for i, event := range g.Events() {
		if err := mirror.Apply(event); err != nil {
			t.Fatalf("replay event %d (%v): %v", i, event, err)
		}
	}
	if !reflect.DeepEqual(mirror.Players, g.Players()) {
		t.Fatalf("players: %v != %v", mirror.Players, g.Players())
	}
	if mirror.Phase != g.Phase() {
		t.Fatalf("phase: %s != %s", mirror.Phase, g.Phase())
	}
	if g.Phase() != PhaseRummy {
		return
	}
	if mirror.Rummy.Trump != g.rummy.Trump {
		t.Fatalf("trump: %s != %s", mirror.Rummy.Trump, g.rummy.Trump)
	}
	if mirror.Rummy.Next != g.rummy.Next {
		t.Fatalf("next: %d != %d", mirror.Rummy.Next, g.rummy.Next)
	}
	if !reflect.DeepEqual(mirror.Rummy.Trick.Plays(), g.rummy.Trick.Plays()) {
		t.Fatalf("trick: %v != %v", mirror.Rummy.Trick.Plays(), g.rummy.Trick.Plays())
	}
	for i, h := range g.rummy.Hands {
		got := mirror.Rummy.Hands[i]
		if got.Unknown != 0 {
			t.Fatalf("observer mirror has unknown cards for %d", i)
		}
		if got.Known != h.Cards() {
			t.Fatalf("hand %d: %s != %s", i, got.Known, h.Cards())
		}
	}
}

func TestServerGameRedactionSoundness(t *testing.T) {
	users := newUsers(3)
	g := NewServerGame(5)
	joinAndStart(t, g, users, 1)
	// A few draws put card identities into the log.
	for _, u := range users {
		if err := g.Apply(u, DrawAction{}); err != nil {
			t.Fatalf("draw: %v", err)
		}
	}
	driveWar(t, g, users)

	for _, event := range g.Events() {
		var subject PlayerIdx
		switch e := event.(type) {
		case DrawEvent:
			subject = e.Player
		case OfferDreckEvent:
			subject = e.Player
		case ReceiveDreckEvent:
			subject = e.Player
		default:
			continue
		}
		for receiver := PlayerIdx(0); receiver.Idx() < len(users); receiver++ {
			redacted := RedactEvent(event, receiver, true)
			if receiver == subject {
				if !reflect.DeepEqual(redacted, event) {
					t.Fatalf("subject's own event changed: %v", redacted)
				}
				continue
			}
			switch redacted.(type) {
			case RedactedDrawEvent, RedactedOfferDreckEvent, RedactedReceiveDreckEvent:
			default:
				t.Fatalf("event %v leaked to %d as %v", event, receiver, redacted)
			}
		}
	}
}

func TestServerGameRedactedReplayMirrors(t *testing.T) {
	users := newUsers(3)
	g := NewServerGame(9)
	joinAndStart(t, g, users, 1)
	driveWar(t, g, users)

	for seat := PlayerIdx(0); seat.Idx() < len(users); seat++ {
		mirror := NewClientGame()
		for i, event := range g.Events() {
			if err := mirror.Apply(RedactEvent(event, seat, true)); err != nil {
				t.Fatalf("seat %d, event %d (%v): %v", seat, i, event, err)
			}
		}
		if mirror.Phase != g.Phase() {
			t.Fatalf("seat %d phase: %s != %s", seat, mirror.Phase, g.Phase())
		}
		if g.Phase() != PhaseRummy {
			continue
		}
		for i, h := range g.rummy.Hands {
			got := mirror.Rummy.Hands[i]
			if got.Len() != h.Len() {
				t.Fatalf("seat %d sees %d cards in hand %d, server has %d",
					seat, got.Len(), i, h.Len())
			}
			if !h.Cards().ContainsAll(got.Known) {
				t.Fatalf("seat %d mirrors cards hand %d does not hold", seat, i)
			}
			if PlayerIdx(i) == seat && got.Unknown != 0 {
				t.Fatalf("own hand has unknown cards")
			}
		}
	}
}
