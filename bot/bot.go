package bot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/tjwilson90/goat/goat"
)

// Sender pushes an action into a game, exactly as a human caller would.
type Sender func(userId goat.UserId, gameId goat.GameId, action goat.Action) error

// Delay returns how long the bot should pretend to think before sending an
// action. A nil Delay acts immediately.
type Delay func(action goat.Action) time.Duration

// Bot subscribes to the server's response stream, mirrors every game into
// a client, and asks its strategy for one action per changed game where it
// is seated. It owns no game state beyond its mirror.
type Bot struct {
	client   *goat.Client
	userId   goat.UserId
	rx       <-chan goat.Response
	tx       Sender
	strategy Strategy
	delay    Delay
	log      zerolog.Logger
}

func New(userId goat.UserId, rx <-chan goat.Response, tx Sender, strategy Strategy, delay Delay, log zerolog.Logger) *Bot {
	return &Bot{
		client:   goat.NewClient(goat.NoUserDb{}),
		userId:   userId,
		rx:       rx,
		tx:       tx,
		strategy: strategy,
		delay:    delay,
		log:      log.With().Str("botId", userId.String()).Logger(),
	}
}

// Run consumes responses until the stream closes or ctx is canceled.
// Failed actions are logged and the loop continues; a dead mirror would be
// worse than a wasted move.
func (b *Bot) Run(ctx context.Context) error {
	changed := make(map[goat.GameId]struct{})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case response, ok := <-b.rx:
			if !ok {
				return nil
			}
			b.apply(response, changed)
		}
	drain:
		for {
			select {
			case response, ok := <-b.rx:
				if !ok {
					return nil
				}
				b.apply(response, changed)
			default:
				break drain
			}
		}
		for gameId := range changed {
			delete(changed, gameId)
			b.act(ctx, gameId)
		}
	}
}

// apply mirrors one response. Mirror failures are logged and dropped; a
// response for a game this bot already forgot must not kill the loop.
func (b *Bot) apply(response goat.Response, changed map[goat.GameId]struct{}) {
	switch r := response.(type) {
	case goat.ReplayResponse:
		changed[r.GameId] = struct{}{}
	case goat.GameResponse:
		changed[r.GameId] = struct{}{}
	}
	if err := b.client.Apply(response); err != nil {
		b.log.Warn().Err(err).Msg("dropped a response the mirror could not apply")
	}
}

func (b *Bot) act(ctx context.Context, gameId goat.GameId) {
	game, ok := b.client.Games[gameId]
	if !ok {
		return
	}
	action, ok := b.action(game)
	if !ok {
		if game.Phase == goat.PhaseGoat {
			delete(b.client.Games, gameId)
		}
		return
	}
	if b.delay != nil {
		if d := b.delay(action); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}
	if err := b.tx(b.userId, gameId, action); err != nil {
		b.log.Warn().Err(err).
			Str("gameId", gameId.String()).
			Str("action", actionName(action)).
			Msg("bot action rejected")
	}
}

func (b *Bot) action(game *goat.ClientGame) (goat.Action, bool) {
	idx := -1
	for i, id := range game.Players {
		if id == b.userId {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	player := goat.PlayerIdx(idx)
	switch game.Phase {
	case goat.PhaseWar:
		return b.strategy.War(player, game.War)
	case goat.PhaseRummy:
		if game.Rummy.Next == player {
			return b.strategy.Rummy(player, game.Rummy), true
		}
	}
	return nil, false
}

func actionName(action goat.Action) string {
	data, err := json.Marshal(action)
	if err != nil {
		return "?"
	}
	return string(data)
}
