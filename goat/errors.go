package goat

import (
	"errors"
	"fmt"

	"github.com/tjwilson90/goat/card"
)

// Validation failures form a closed taxonomy. Every rule violation maps to
// one of the errors below; validation always completes before any state is
// mutated.
var (
	ErrCannotDrawFromEmptyDeck = errors.New(
		"drawing from the deck is not possible when the deck is empty")
	ErrCannotDrawMoreThanThreeCards = errors.New(
		"players cannot hold more than three cards at once")
	ErrCannotFinishSloughingIncompleteTrick = errors.New(
		"sloughing cannot be finished while the trick is incomplete")
	ErrCannotPickUpFromEmptyTrick = errors.New(
		"picking up from an empty trick is not possible")
	ErrCannotPlayFromEmptyDeck = errors.New(
		"playing from the top of the deck is not possible when the deck is empty")
	ErrCannotSloughOnEndedTrick = errors.New(
		"sloughing is not possible after acknowledging the end of the trick")
	ErrInvalidAction = errors.New(
		"this action cannot be taken at this point in the game")
	ErrInvalidNumberOfDecks = errors.New(
		"at least one deck and at most three decks can be used")
	ErrInvalidNumberOfPlayers = errors.New(
		"at least three players and at most fifteen players can play in the same game")
	ErrNoFreeShows = errors.New(
		"only the goat gets to make goat noises")
)

type CannotPlayRangeError struct {
	Lo card.Card
}

func (e CannotPlayRangeError) Error() string {
	return fmt.Sprintf("a range starting with %s cannot be played on the current trick", e.Lo)
}

type IllegalSloughError struct {
	Card card.Card
}

func (e IllegalSloughError) Error() string {
	return fmt.Sprintf("card %s cannot be sloughed", e.Card)
}

type InvalidGameError struct {
	GameId GameId
}

func (e InvalidGameError) Error() string {
	return fmt.Sprintf("%s is not a valid game id", e.GameId)
}

type InvalidPlayerError struct {
	UserId UserId
}

func (e InvalidPlayerError) Error() string {
	return fmt.Sprintf("user %s is not a real player in the game", e.UserId)
}

type InvalidRangeError struct {
	Lo, Hi card.Card
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("the cards %s to %s do not form a valid range", e.Lo, e.Hi)
}

type MustMatchRankError struct {
	Rank card.Rank
}

func (e MustMatchRankError) Error() string {
	return fmt.Sprintf("players must play a card with the same rank, %s, as the "+
		"highest card played so far in this round of the current trick", e.Rank)
}

type NotYourCardError struct {
	Card card.Card
}

func (e NotYourCardError) Error() string {
	return fmt.Sprintf("card %s is not in the hand", e.Card)
}

type NotYourTurnError struct {
	Player PlayerIdx
}

func (e NotYourTurnError) Error() string {
	return fmt.Sprintf("it is not player %s's turn", e.Player)
}
