package goat

import (
	"reflect"
	"testing"

	"github.com/tjwilson90/goat/card"
)

func TestRummyTrickCanPlay(t *testing.T) {
	tr := NewRummyTrick(4)
	if !tr.IsEmpty() {
		t.Fatalf("new trick not empty")
	}
	if !tr.CanPlay(card.TwoClubs, card.Spades) {
		t.Fatalf("anything starts an empty trick")
	}
	if tr.Play(card.ThreeClubs, card.FourClubs) {
		t.Fatalf("one play should not kill a four player trick")
	}
	if tr.CanPlay(card.TwoClubs, card.Spades) {
		t.Fatalf("2C does not beat 4C")
	}
	if tr.CanPlay(card.FourClubs, card.Spades) {
		t.Fatalf("4C does not beat 4C")
	}
	if !tr.CanPlay(card.FiveClubs, card.Spades) {
		t.Fatalf("5C beats 4C")
	}
	if tr.CanPlay(card.FiveDiamonds, card.Spades) {
		t.Fatalf("an off-suit non-trump cannot be played")
	}
	if !tr.CanPlay(card.TwoSpades, card.Spades) {
		t.Fatalf("any trump beats a non-trump top")
	}
}

func TestRummyTrickPickUpConnected(t *testing.T) {
	tr := NewRummyTrick(4)
	tr.Play(card.FourClubs, card.SixClubs)
	tr.Play(card.SevenClubs, card.SevenClubs)
	tr.Play(card.EightClubs, card.EightClubs)
	got := tr.PickUp()
	if got != (card.Run{Lo: card.FourClubs, Hi: card.EightClubs}) {
		t.Fatalf("PickUp = %v", got)
	}
	if !tr.IsEmpty() {
		t.Fatalf("trick should be empty, has %v", tr.Plays())
	}
}

func TestRummyTrickPickUpDisconnected(t *testing.T) {
	tr := NewRummyTrick(4)
	tr.Play(card.FourClubs, card.SixClubs)
	tr.Play(card.AceClubs, card.AceClubs)
	tr.Play(card.ThreeDiamonds, card.ThreeDiamonds)
	got := tr.PickUp()
	if got != (card.Run{Lo: card.FourClubs, Hi: card.SixClubs}) {
		t.Fatalf("PickUp = %v", got)
	}
	want := []card.Run{
		{Lo: card.AceClubs, Hi: card.AceClubs},
		{Lo: card.ThreeDiamonds, Hi: card.ThreeDiamonds},
	}
	if !reflect.DeepEqual(tr.Plays(), want) {
		t.Fatalf("remaining plays = %v", tr.Plays())
	}
	// A second pick-up takes the next connected prefix.
	if got := tr.PickUp(); got != (card.Run{Lo: card.AceClubs, Hi: card.AceClubs}) {
		t.Fatalf("second PickUp = %v", got)
	}
	if tr.IsEmpty() {
		t.Fatalf("3D should remain")
	}
}

func TestRummyTrickKill(t *testing.T) {
	tr := NewRummyTrick(4)
	tr.Play(card.ThreeClubs, card.FourClubs)
	tr.Play(card.SixClubs, card.SixClubs)
	tr.Play(card.FourSpades, card.SixSpades)
	if !tr.Play(card.EightSpades, card.EightSpades) {
		t.Fatalf("the fourth play should kill a four player trick")
	}
}
