package goat

import (
	"encoding/json"
	"fmt"

	"github.com/tjwilson90/goat/card"
)

// Action is a client to server request. The wire form is an object with a
// "type" discriminator in lower camelCase and the variant's payload fields.
type Action interface {
	actionType() string
}

type JoinAction struct {
	UserId UserId `json:"userId"`
}

type LeaveAction struct {
	Player PlayerIdx `json:"player"`
}

type StartAction struct {
	NumDecks uint8 `json:"numDecks"`
}

type PlayCardAction struct {
	Card card.Card `json:"card"`
}

type PlayTopAction struct{}

type SloughAction struct {
	Card card.Card `json:"card"`
}

type DrawAction struct{}

type FinishTrickAction struct{}

type PlayRunAction struct {
	Lo card.Card `json:"lo"`
	Hi card.Card `json:"hi"`
}

type PickUpAction struct{}

type GoatAction struct {
	Noise int `json:"noise"`
}

func (JoinAction) actionType() string        { return "join" }
func (LeaveAction) actionType() string       { return "leave" }
func (StartAction) actionType() string       { return "start" }
func (PlayCardAction) actionType() string    { return "playCard" }
func (PlayTopAction) actionType() string     { return "playTop" }
func (SloughAction) actionType() string      { return "slough" }
func (DrawAction) actionType() string        { return "draw" }
func (FinishTrickAction) actionType() string { return "finishTrick" }
func (PlayRunAction) actionType() string     { return "playRun" }
func (PickUpAction) actionType() string      { return "pickUp" }
func (GoatAction) actionType() string        { return "goat" }

func (a JoinAction) MarshalJSON() ([]byte, error) {
	type alias JoinAction
	return marshalTagged(a.actionType(), alias(a))
}

func (a LeaveAction) MarshalJSON() ([]byte, error) {
	type alias LeaveAction
	return marshalTagged(a.actionType(), alias(a))
}

func (a StartAction) MarshalJSON() ([]byte, error) {
	type alias StartAction
	return marshalTagged(a.actionType(), alias(a))
}

func (a PlayCardAction) MarshalJSON() ([]byte, error) {
	type alias PlayCardAction
	return marshalTagged(a.actionType(), alias(a))
}

func (a PlayTopAction) MarshalJSON() ([]byte, error) {
	return marshalTagged(a.actionType(), struct{}{})
}

func (a SloughAction) MarshalJSON() ([]byte, error) {
	type alias SloughAction
	return marshalTagged(a.actionType(), alias(a))
}

func (a DrawAction) MarshalJSON() ([]byte, error) {
	return marshalTagged(a.actionType(), struct{}{})
}

func (a FinishTrickAction) MarshalJSON() ([]byte, error) {
	return marshalTagged(a.actionType(), struct{}{})
}

func (a PlayRunAction) MarshalJSON() ([]byte, error) {
	type alias PlayRunAction
	return marshalTagged(a.actionType(), alias(a))
}

func (a PickUpAction) MarshalJSON() ([]byte, error) {
	return marshalTagged(a.actionType(), struct{}{})
}

func (a GoatAction) MarshalJSON() ([]byte, error) {
	type alias GoatAction
	return marshalTagged(a.actionType(), alias(a))
}

// DecodeAction parses the wire form of an Action.
func DecodeAction(data []byte) (Action, error) {
	typ, err := probeType(data)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "join":
		var a JoinAction
		err = json.Unmarshal(data, &a)
		return a, err
	case "leave":
		var a LeaveAction
		err = json.Unmarshal(data, &a)
		return a, err
	case "start":
		var a StartAction
		err = json.Unmarshal(data, &a)
		return a, err
	case "playCard":
		var a PlayCardAction
		err = json.Unmarshal(data, &a)
		return a, err
	case "playTop":
		return PlayTopAction{}, nil
	case "slough":
		var a SloughAction
		err = json.Unmarshal(data, &a)
		return a, err
	case "draw":
		return DrawAction{}, nil
	case "finishTrick":
		return FinishTrickAction{}, nil
	case "playRun":
		var a PlayRunAction
		err = json.Unmarshal(data, &a)
		return a, err
	case "pickUp":
		return PickUpAction{}, nil
	case "goat":
		var a GoatAction
		err = json.Unmarshal(data, &a)
		return a, err
	default:
		return nil, fmt.Errorf("unknown action type %q", typ)
	}
}
