package goat

import (
	"encoding/json"
	"fmt"
)

// Response is a server to client delivery record.
type Response interface {
	responseType() string
}

type PingResponse struct{}

type ReplayResponse struct {
	GameId GameId  `json:"gameId"`
	Events []Event `json:"events"`
}

type GameResponse struct {
	GameId GameId `json:"gameId"`
	Event  Event  `json:"event"`
}

type ForgetGameResponse struct {
	GameId GameId `json:"gameId"`
}

type UserResponse struct {
	UserId UserId `json:"userId"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

type ForgetUserResponse struct {
	UserId UserId `json:"userId"`
}

func (PingResponse) responseType() string       { return "ping" }
func (ReplayResponse) responseType() string     { return "replay" }
func (GameResponse) responseType() string       { return "game" }
func (ForgetGameResponse) responseType() string { return "forgetGame" }
func (UserResponse) responseType() string       { return "user" }
func (ForgetUserResponse) responseType() string { return "forgetUser" }

func (r PingResponse) MarshalJSON() ([]byte, error) {
	return marshalTagged(r.responseType(), struct{}{})
}

func (r ReplayResponse) MarshalJSON() ([]byte, error) {
	events := r.Events
	if events == nil {
		events = []Event{}
	}
	return marshalTagged(r.responseType(), struct {
		GameId GameId  `json:"gameId"`
		Events []Event `json:"events"`
	}{r.GameId, events})
}

func (r GameResponse) MarshalJSON() ([]byte, error) {
	type alias GameResponse
	return marshalTagged(r.responseType(), alias(r))
}

func (r ForgetGameResponse) MarshalJSON() ([]byte, error) {
	type alias ForgetGameResponse
	return marshalTagged(r.responseType(), alias(r))
}

func (r UserResponse) MarshalJSON() ([]byte, error) {
	type alias UserResponse
	return marshalTagged(r.responseType(), alias(r))
}

func (r ForgetUserResponse) MarshalJSON() ([]byte, error) {
	type alias ForgetUserResponse
	return marshalTagged(r.responseType(), alias(r))
}

// DecodeResponse parses the wire form of a Response.
func DecodeResponse(data []byte) (Response, error) {
	typ, err := probeType(data)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "ping":
		return PingResponse{}, nil
	case "replay":
		var raw struct {
			GameId GameId            `json:"gameId"`
			Events []json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		var events []Event
		if len(raw.Events) > 0 {
			events = make([]Event, len(raw.Events))
		}
		for i, msg := range raw.Events {
			if events[i], err = DecodeEvent(msg); err != nil {
				return nil, err
			}
		}
		return ReplayResponse{GameId: raw.GameId, Events: events}, nil
	case "game":
		var raw struct {
			GameId GameId          `json:"gameId"`
			Event  json.RawMessage `json:"event"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		event, err := DecodeEvent(raw.Event)
		if err != nil {
			return nil, err
		}
		return GameResponse{GameId: raw.GameId, Event: event}, nil
	case "forgetGame":
		var r ForgetGameResponse
		err = json.Unmarshal(data, &r)
		return r, err
	case "user":
		var r UserResponse
		err = json.Unmarshal(data, &r)
		return r, err
	case "forgetUser":
		var r ForgetUserResponse
		err = json.Unmarshal(data, &r)
		return r, err
	default:
		return nil, fmt.Errorf("unknown response type %q", typ)
	}
}
