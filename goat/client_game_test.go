package goat

import (
	"testing"
)

// A UI-flavored mirror keeps the previous trick and each player's most
// recent rummy action.
func TestClientGameUIAdaptors(t *testing.T) {
	users := newUsers(3)
	g := NewServerGame(11)
	joinAndStart(t, g, users, 1)

	mirror := NewClientGame()
	var history *LastActionHistory
	mirror.NewHistory = func(numPlayers int) RummyHistory {
		history = NewLastActionHistory(numPlayers)
		return history
	}
	mirror.NewTrickSlot = func() TrickSlot { return &KeepTrickSlot{} }
	applied := 0
	deliver := func() {
		for _, event := range g.Events()[applied:] {
			if err := mirror.Apply(event); err != nil {
				t.Fatalf("mirror: %v", err)
			}
		}
		applied = len(g.Events())
	}
	deliver()

	// Play out the first trick and acknowledge it everywhere.
	for {
		war := g.war
		if _, won := war.Trick.Winner(); won {
			break
		}
		next, _ := war.Trick.NextPlayer()
		if err := g.Apply(users[next.Idx()], PlayTopAction{}); err != nil {
			t.Fatalf("play top: %v", err)
		}
	}
	for p := PlayerIdx(0); p < 3; p++ {
		if err := g.Apply(users[p.Idx()], FinishTrickAction{}); err != nil {
			t.Fatalf("finish: %v", err)
		}
	}
	deliver()
	prev, ok := mirror.War.Prev.Get()
	if !ok {
		t.Fatalf("previous trick slot empty after the first trick")
	}
	if winner, ok := prev.Winner(); !ok || winner != mirror.War.Trick.Leader() {
		t.Fatalf("previous trick winner %d does not lead the next trick", winner)
	}

	driveWar(t, g, users)
	deliver()
	if history == nil {
		t.Fatalf("history sink was never built")
	}
	leader := g.rummy.Next
	lo, hi := g.rummy.Hands[leader.Idx()].Cards().MinRun()
	if err := g.Apply(users[leader.Idx()], PlayRunAction{Lo: lo, Hi: hi}); err != nil {
		t.Fatalf("play run: %v", err)
	}
	deliver()
	got := history.LastAction(leader)
	if got.Kind != LastActionLead && got.Kind != LastActionKill {
		t.Fatalf("last action kind = %v", got.Kind)
	}
	if got.Lo != lo || got.Hi != hi {
		t.Fatalf("last action run = %s %s, want %s %s", got.Lo, got.Hi, lo, hi)
	}
}
