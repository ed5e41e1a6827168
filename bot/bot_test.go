package bot

import (
	"testing"

	"github.com/tjwilson90/goat/goat"
)

// driveGame runs a full game synchronously: every seat mirrors its own
// redacted event stream, and on each step the first seat whose strategy
// produces an action applies it to the server game.
func driveGame(t *testing.T, seed int64, strategies []Strategy) (*goat.ServerGame, []*goat.ClientGame) {
	t.Helper()
	users := make([]goat.UserId, len(strategies))
	for i := range users {
		users[i] = goat.UserIdFromSecret(string(rune('a' + i)))
	}
	game := goat.NewServerGame(seed)
	mirrors := make([]*goat.ClientGame, len(users))
	for i := range mirrors {
		mirrors[i] = goat.NewClientGame()
	}
	applied := 0
	deliver := func() {
		events := game.Events()[applied:]
		applied = len(game.Events())
		for seat, mirror := range mirrors {
			for _, event := range events {
				redacted := goat.RedactEvent(event, goat.PlayerIdx(seat), true)
				if err := mirror.Apply(redacted); err != nil {
					t.Fatalf("seat %d mirroring %v: %v", seat, redacted, err)
				}
			}
		}
	}
	for _, u := range users {
		if err := game.Apply(u, goat.JoinAction{UserId: u}); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if err := game.Apply(users[0], goat.StartAction{NumDecks: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	deliver()

	for step := 0; game.Phase() != goat.PhaseGoat; step++ {
		if step > 50000 {
			t.Fatalf("game did not finish")
		}
		acted := false
		for seat, strategy := range strategies {
			mirror := mirrors[seat]
			player := goat.PlayerIdx(seat)
			var action goat.Action
			var ok bool
			switch mirror.Phase {
			case goat.PhaseWar:
				action, ok = strategy.War(player, mirror.War)
			case goat.PhaseRummy:
				if mirror.Rummy.Next == player {
					action, ok = strategy.Rummy(player, mirror.Rummy), true
				}
			}
			if !ok {
				continue
			}
			if err := game.Apply(users[seat], action); err != nil {
				t.Fatalf("seat %d action %s: %v", seat, actionName(action), err)
			}
			deliver()
			acted = true
			break
		}
		if !acted {
			t.Fatalf("no seat can act in phase %s", game.Phase())
		}
	}
	deliver()
	return game, mirrors
}

func TestPlayTopGameRunsToCompletion(t *testing.T) {
	strategies := []Strategy{PlayTop{}, PlayTop{}, PlayTop{}}
	game, mirrors := driveGame(t, 1, strategies)

	goatSeat, complete := game.Complete()
	if !complete {
		t.Fatalf("game did not complete")
	}
	sawTrump := false
	for _, event := range game.Events() {
		if _, ok := event.(goat.RevealTrumpEvent); ok {
			sawTrump = true
		}
	}
	if !sawTrump {
		t.Fatalf("no trump was revealed")
	}
	for seat, mirror := range mirrors {
		if mirror.Phase != goat.PhaseGoat {
			t.Fatalf("seat %d mirror phase = %s", seat, mirror.Phase)
		}
		if mirror.Goat.Goat != goatSeat {
			t.Fatalf("seat %d thinks the goat is %d, server says %d",
				seat, mirror.Goat.Goat, goatSeat)
		}
	}

	// The goat owes a noise, and only the goat may produce one.
	users := game.Players()
	nonGoat := (goatSeat + 1) % goat.PlayerIdx(len(users))
	if err := game.Apply(users[nonGoat.Idx()], goat.GoatAction{Noise: 1}); err != goat.ErrNoFreeShows {
		t.Fatalf("non-goat noise: %v", err)
	}
	if err := game.Apply(users[goatSeat.Idx()], goat.GoatAction{Noise: 2}); err != nil {
		t.Fatalf("goat noise: %v", err)
	}
}

func TestMixedStrategiesGameRunsToCompletion(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		strategies := []Strategy{Cover{}, Duck{}, PlayTop{}, Adapt{}}
		game, _ := driveGame(t, seed, strategies)
		if _, complete := game.Complete(); !complete {
			t.Fatalf("seed %d did not complete", seed)
		}
	}
}

func TestDeterministicReplayAcrossDrives(t *testing.T) {
	strategies := []Strategy{PlayTop{}, PlayTop{}, PlayTop{}}
	first, _ := driveGame(t, 7, strategies)
	second, _ := driveGame(t, 7, strategies)
	if len(first.Events()) != len(second.Events()) {
		t.Fatalf("event counts differ: %d != %d", len(first.Events()), len(second.Events()))
	}
	for i := range first.Events() {
		if first.Events()[i] != second.Events()[i] {
			t.Fatalf("event %d differs: %v != %v", i, first.Events()[i], second.Events()[i])
		}
	}
}

func TestWarPlayTopDecisions(t *testing.T) {
	users := make([]goat.UserId, 3)
	for i := range users {
		users[i] = goat.UserIdFromSecret(string(rune('a' + i)))
	}
	game := goat.NewServerGame(1)
	for _, u := range users {
		if err := game.Apply(u, goat.JoinAction{UserId: u}); err != nil {
			t.Fatal(err)
		}
	}
	if err := game.Apply(users[0], goat.StartAction{NumDecks: 1}); err != nil {
		t.Fatal(err)
	}
	mirror := goat.NewClientGame()
	for _, event := range game.Events() {
		if err := mirror.Apply(event); err != nil {
			t.Fatal(err)
		}
	}
	// Seat 0 leads and should play from the top; the others wait.
	if action, ok := (PlayTop{}).War(0, mirror.War); !ok || action != goat.Action(goat.PlayTopAction{}) {
		t.Fatalf("leader action = %v, %v", action, ok)
	}
	if _, ok := (PlayTop{}).War(1, mirror.War); ok {
		t.Fatalf("off-turn seat acted")
	}
}
