package server

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/tjwilson90/goat/goat"
)

// Default lifetimes for the expiry sweep.
const (
	DefaultMaxGameAge      = 18 * time.Hour
	DefaultCompleteGameAge = 30 * time.Minute
	DefaultUserIdleAge     = 5 * time.Minute
)

// Server is the process-wide registry of games and users. Each game's
// event log is the single source of truth; subscribers receive per
// recipient redacted copies of every event plus a one-shot replay of each
// game when they connect.
//
// Locking: a readers/writer lock guards the games map and each game has
// its own mutex, so distinct games play in parallel while a single game's
// log is totally ordered. One mutex guards the users map; it is released
// before any queue work beyond an append can happen.
type Server struct {
	clock quartz.Clock
	log   zerolog.Logger

	mu    sync.RWMutex
	games map[goat.GameId]*gameEntry

	usersMu sync.Mutex
	users   map[goat.UserId]*userEntry
}

type gameEntry struct {
	mu         sync.Mutex
	game       *goat.ServerGame
	lastUpdate time.Time
}

type userEntry struct {
	name string
	subs []*Subscriber
	// lastSeen is when the subscriber list last became empty.
	lastSeen time.Time
}

func New(clock quartz.Clock, log zerolog.Logger) *Server {
	return &Server{
		clock: clock,
		log:   log,
		games: make(map[goat.GameId]*gameEntry),
		users: make(map[goat.UserId]*userEntry),
	}
}

// NewGame registers a fresh game and announces it to everyone as an empty
// replay.
func (s *Server) NewGame(seed int64) goat.GameId {
	gameId := goat.NewGameId()
	s.mu.Lock()
	s.games[gameId] = &gameEntry{
		game:       goat.NewServerGame(seed),
		lastUpdate: s.clock.Now(),
	}
	s.mu.Unlock()
	s.broadcast(goat.ReplayResponse{GameId: gameId})
	s.log.Info().Str("gameId", gameId.String()).Int64("seed", seed).Msg("new game")
	return gameId
}

// ChangeName updates a user's name, announcing the user if the name
// changed or the user was previously unknown.
func (s *Server) ChangeName(userId goat.UserId, name string) {
	s.usersMu.Lock()
	user, ok := s.users[userId]
	if !ok {
		user = &userEntry{lastSeen: s.clock.Now()}
		s.users[userId] = user
	}
	changed := !ok || user.name != name
	user.name = name
	online := len(user.subs) > 0
	subs := s.allSubsLocked()
	s.usersMu.Unlock()
	if changed {
		s.sendAll(subs, goat.UserResponse{UserId: userId, Name: name, Online: online})
	}
}

// ApplyAction routes an action to its game, appends the resulting events,
// and broadcasts them with per-recipient redaction. The game's mutex is
// held across the broadcast so every subscriber observes the log order.
func (s *Server) ApplyAction(userId goat.UserId, gameId goat.GameId, action goat.Action) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.games[gameId]
	if !ok {
		return goat.InvalidGameError{GameId: gameId}
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	index := len(entry.game.Events())
	if err := entry.game.Apply(userId, action); err != nil {
		return err
	}
	entry.lastUpdate = s.clock.Now()
	events := entry.game.Events()[index:]
	if len(events) == 0 {
		return nil
	}
	s.usersMu.Lock()
	subs := s.allSubsLocked()
	s.usersMu.Unlock()
	var failed []*Subscriber
	for _, sub := range subs {
		seat, err := entry.game.Player(sub.userId)
		seated := err == nil
		delivered := true
		for _, event := range events {
			redacted := goat.RedactEvent(event, seat, seated)
			if !sub.Send(goat.GameResponse{GameId: gameId, Event: redacted}) {
				delivered = false
				break
			}
		}
		if !delivered {
			failed = append(failed, sub)
		}
	}
	s.dropSubscribers(failed)
	return nil
}

// Subscribe connects one response stream for userId. The new subscriber
// receives the current user directory, then one redacted replay per game;
// until a game's replay has been sent, live events for it are withheld.
func (s *Server) Subscribe(userId goat.UserId, name string) *Subscriber {
	sub := newSubscriber(userId)
	s.usersMu.Lock()
	user, ok := s.users[userId]
	if !ok {
		user = &userEntry{lastSeen: s.clock.Now()}
		s.users[userId] = user
	}
	user.name = name
	user.subs = append(user.subs, sub)
	type userInfo struct {
		id   goat.UserId
		user goat.User
	}
	others := make([]userInfo, 0, len(s.users))
	for id, u := range s.users {
		if id != userId {
			others = append(others, userInfo{id, goat.User{Name: u.name, Online: len(u.subs) > 0}})
		}
	}
	subs := s.allSubsLocked()
	s.usersMu.Unlock()

	s.sendAll(subs, goat.UserResponse{UserId: userId, Name: name, Online: true})
	for _, other := range others {
		sub.Send(goat.UserResponse{UserId: other.id, Name: other.user.Name, Online: other.user.Online})
	}

	s.mu.RLock()
	for gameId, entry := range s.games {
		entry.mu.Lock()
		events := entry.game.Events()
		seat, err := entry.game.Player(userId)
		seated := err == nil
		redacted := make([]goat.Event, len(events))
		for i, event := range events {
			redacted[i] = goat.RedactEvent(event, seat, seated)
		}
		// The send must happen while the game's mutex is held: the
		// subscriber is already visible to ApplyAction broadcasts, and its
		// gate drops live events for games it has not been sent a replay
		// of. Holding the lock across the send serializes the replay with
		// those broadcasts, so no event falls between the snapshot and the
		// gate opening.
		sub.Send(goat.ReplayResponse{GameId: gameId, Events: redacted})
		entry.mu.Unlock()
	}
	s.mu.RUnlock()
	sub.finishReplay()
	s.log.Debug().Str("userId", userId.String()).Str("name", name).Msg("subscribed")
	return sub
}

// Unsubscribe disconnects one stream, announcing the user offline if it
// was their last.
func (s *Server) Unsubscribe(sub *Subscriber) {
	sub.Close()
	s.dropSubscribers([]*Subscriber{sub})
}

// Ping broadcasts a liveness heartbeat to every subscriber.
func (s *Server) Ping() {
	s.broadcast(goat.PingResponse{})
}

// ForgetOldState drops games that have been idle longer than maxAge, or
// longer than completeAge while not actively being played, then drops
// users with no subscribers who are not seated in any remaining game and
// have been idle for at least userIdleAge.
func (s *Server) ForgetOldState(maxAge, completeAge, userIdleAge time.Duration) {
	now := s.clock.Now()
	var dropped []goat.GameId
	seated := make(map[goat.UserId]struct{})
	s.mu.Lock()
	for gameId, entry := range s.games {
		entry.mu.Lock()
		elapsed := now.Sub(entry.lastUpdate)
		drop := elapsed > maxAge || (elapsed > completeAge && !entry.game.Active())
		if drop {
			dropped = append(dropped, gameId)
		} else {
			for _, player := range entry.game.Players() {
				seated[player] = struct{}{}
			}
		}
		entry.mu.Unlock()
		if drop {
			delete(s.games, gameId)
		}
	}
	s.mu.Unlock()
	for _, gameId := range dropped {
		s.broadcast(goat.ForgetGameResponse{GameId: gameId})
		s.log.Info().Str("gameId", gameId.String()).Msg("dropped idle game")
	}

	var forgotten []goat.UserId
	s.usersMu.Lock()
	for userId, user := range s.users {
		if len(user.subs) > 0 {
			continue
		}
		if _, ok := seated[userId]; ok {
			continue
		}
		if now.Sub(user.lastSeen) >= userIdleAge {
			delete(s.users, userId)
			forgotten = append(forgotten, userId)
		}
	}
	subs := s.allSubsLocked()
	s.usersMu.Unlock()
	for _, userId := range forgotten {
		s.sendAll(subs, goat.ForgetUserResponse{UserId: userId})
	}
}

// allSubsLocked snapshots every connected subscriber. Callers hold
// usersMu.
func (s *Server) allSubsLocked() []*Subscriber {
	var subs []*Subscriber
	for _, user := range s.users {
		subs = append(subs, user.subs...)
	}
	return subs
}

func (s *Server) broadcast(response goat.Response) {
	s.usersMu.Lock()
	subs := s.allSubsLocked()
	s.usersMu.Unlock()
	s.sendAll(subs, response)
}

func (s *Server) sendAll(subs []*Subscriber, response goat.Response) {
	var failed []*Subscriber
	for _, sub := range subs {
		if !sub.Send(response) {
			failed = append(failed, sub)
		}
	}
	s.dropSubscribers(failed)
}

// dropSubscribers removes dead streams from their users and, for each user
// that just went offline, broadcasts the updated presence.
func (s *Server) dropSubscribers(failed []*Subscriber) {
	if len(failed) == 0 {
		return
	}
	now := s.clock.Now()
	type offline struct {
		id   goat.UserId
		name string
	}
	var wentOffline []offline
	s.usersMu.Lock()
	for _, sub := range failed {
		user, ok := s.users[sub.userId]
		if !ok {
			continue
		}
		removed := false
		for i, existing := range user.subs {
			if existing.id == sub.id {
				user.subs[i] = user.subs[len(user.subs)-1]
				user.subs = user.subs[:len(user.subs)-1]
				removed = true
				break
			}
		}
		if removed && len(user.subs) == 0 {
			user.lastSeen = now
			wentOffline = append(wentOffline, offline{sub.userId, user.name})
		}
	}
	subs := s.allSubsLocked()
	s.usersMu.Unlock()
	for _, user := range wentOffline {
		s.sendAll(subs, goat.UserResponse{UserId: user.id, Name: user.name, Online: false})
	}
}
