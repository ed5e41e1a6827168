package goat

import (
	"encoding/json"
	"fmt"

	"github.com/tjwilson90/goat/card"
)

// Event is an authoritative state delta recorded in a game's log. Events
// share the action vocabulary plus the deltas only the server can produce
// (draws, the trump reveal, dreck redistribution) and the redacted variants
// delivered to subscribers who are not entitled to card identities.
type Event interface {
	eventType() string
}

type JoinEvent struct {
	UserId UserId `json:"userId"`
}

type LeaveEvent struct {
	Player PlayerIdx `json:"player"`
}

type StartEvent struct {
	NumDecks uint8 `json:"numDecks"`
}

type PlayCardEvent struct {
	Card card.Card `json:"card"`
}

type PlayTopEvent struct {
	Card card.Card `json:"card"`
}

type SloughEvent struct {
	Player PlayerIdx `json:"player"`
	Card   card.Card `json:"card"`
}

type DrawEvent struct {
	Player PlayerIdx `json:"player"`
	Card   card.Card `json:"card"`
}

type FinishTrickEvent struct {
	Player PlayerIdx `json:"player"`
}

type RevealTrumpEvent struct {
	Trump card.Card `json:"trump"`
}

type OfferDreckEvent struct {
	Player PlayerIdx  `json:"player"`
	Dreck  card.Cards `json:"dreck"`
}

type ReceiveDreckEvent struct {
	Player PlayerIdx  `json:"player"`
	Dreck  card.Cards `json:"dreck"`
}

type PlayRunEvent struct {
	Lo card.Card `json:"lo"`
	Hi card.Card `json:"hi"`
}

type PickUpEvent struct{}

type GoatEvent struct {
	Noise int `json:"noise"`
}

type RedactedDrawEvent struct {
	Player PlayerIdx `json:"player"`
}

type RedactedOfferDreckEvent struct {
	Player PlayerIdx `json:"player"`
	Dreck  uint8     `json:"dreck"`
}

type RedactedReceiveDreckEvent struct {
	Player PlayerIdx `json:"player"`
	Dreck  uint8     `json:"dreck"`
}

func (JoinEvent) eventType() string                 { return "join" }
func (LeaveEvent) eventType() string                { return "leave" }
func (StartEvent) eventType() string                { return "start" }
func (PlayCardEvent) eventType() string             { return "playCard" }
func (PlayTopEvent) eventType() string              { return "playTop" }
func (SloughEvent) eventType() string               { return "slough" }
func (DrawEvent) eventType() string                 { return "draw" }
func (FinishTrickEvent) eventType() string          { return "finishTrick" }
func (RevealTrumpEvent) eventType() string          { return "revealTrump" }
func (OfferDreckEvent) eventType() string           { return "offerDreck" }
func (ReceiveDreckEvent) eventType() string         { return "receiveDreck" }
func (PlayRunEvent) eventType() string              { return "playRun" }
func (PickUpEvent) eventType() string               { return "pickUp" }
func (GoatEvent) eventType() string                 { return "goat" }
func (RedactedDrawEvent) eventType() string         { return "redactedDraw" }
func (RedactedOfferDreckEvent) eventType() string   { return "redactedOfferDreck" }
func (RedactedReceiveDreckEvent) eventType() string { return "redactedReceiveDreck" }

// RedactEvent converts e into the form receiver is entitled to see. A
// subscriber seated as a player sees other players' draws and dreck as
// counts only; the affected player and unseated observers see the event
// unchanged.
func RedactEvent(e Event, receiver PlayerIdx, seated bool) Event {
	if !seated {
		return e
	}
	switch ev := e.(type) {
	case DrawEvent:
		if receiver != ev.Player {
			return RedactedDrawEvent{Player: ev.Player}
		}
	case OfferDreckEvent:
		if receiver != ev.Player {
			return RedactedOfferDreckEvent{Player: ev.Player, Dreck: uint8(ev.Dreck.Len())}
		}
	case ReceiveDreckEvent:
		if receiver != ev.Player {
			return RedactedReceiveDreckEvent{Player: ev.Player, Dreck: uint8(ev.Dreck.Len())}
		}
	}
	return e
}

func (e JoinEvent) MarshalJSON() ([]byte, error) {
	type alias JoinEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e LeaveEvent) MarshalJSON() ([]byte, error) {
	type alias LeaveEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e StartEvent) MarshalJSON() ([]byte, error) {
	type alias StartEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e PlayCardEvent) MarshalJSON() ([]byte, error) {
	type alias PlayCardEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e PlayTopEvent) MarshalJSON() ([]byte, error) {
	type alias PlayTopEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e SloughEvent) MarshalJSON() ([]byte, error) {
	type alias SloughEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e DrawEvent) MarshalJSON() ([]byte, error) {
	type alias DrawEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e FinishTrickEvent) MarshalJSON() ([]byte, error) {
	type alias FinishTrickEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e RevealTrumpEvent) MarshalJSON() ([]byte, error) {
	type alias RevealTrumpEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e OfferDreckEvent) MarshalJSON() ([]byte, error) {
	type alias OfferDreckEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e ReceiveDreckEvent) MarshalJSON() ([]byte, error) {
	type alias ReceiveDreckEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e PlayRunEvent) MarshalJSON() ([]byte, error) {
	type alias PlayRunEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e PickUpEvent) MarshalJSON() ([]byte, error) {
	return marshalTagged(e.eventType(), struct{}{})
}

func (e GoatEvent) MarshalJSON() ([]byte, error) {
	type alias GoatEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e RedactedDrawEvent) MarshalJSON() ([]byte, error) {
	type alias RedactedDrawEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e RedactedOfferDreckEvent) MarshalJSON() ([]byte, error) {
	type alias RedactedOfferDreckEvent
	return marshalTagged(e.eventType(), alias(e))
}

func (e RedactedReceiveDreckEvent) MarshalJSON() ([]byte, error) {
	type alias RedactedReceiveDreckEvent
	return marshalTagged(e.eventType(), alias(e))
}

// DecodeEvent parses the wire form of an Event.
func DecodeEvent(data []byte) (Event, error) {
	typ, err := probeType(data)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "join":
		var e JoinEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "leave":
		var e LeaveEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "start":
		var e StartEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "playCard":
		var e PlayCardEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "playTop":
		var e PlayTopEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "slough":
		var e SloughEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "draw":
		var e DrawEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "finishTrick":
		var e FinishTrickEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "revealTrump":
		var e RevealTrumpEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "offerDreck":
		var e OfferDreckEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "receiveDreck":
		var e ReceiveDreckEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "playRun":
		var e PlayRunEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "pickUp":
		return PickUpEvent{}, nil
	case "goat":
		var e GoatEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "redactedDraw":
		var e RedactedDrawEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "redactedOfferDreck":
		var e RedactedOfferDreckEvent
		err = json.Unmarshal(data, &e)
		return e, err
	case "redactedReceiveDreck":
		var e RedactedReceiveDreckEvent
		err = json.Unmarshal(data, &e)
		return e, err
	default:
		return nil, fmt.Errorf("unknown event type %q", typ)
	}
}
