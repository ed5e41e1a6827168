package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tjwilson90/goat/goat"
)

// Subscriber is one connected response stream. Sends append to an
// unbounded queue so broadcasters never block on a slow transport; a pump
// goroutine drains the queue into the channel handed to the transport.
//
// Until the initial replay completes, game events are only forwarded for
// games whose replay has already been sent; events for other games are
// dropped, because they will be included in the replay still in flight.
type Subscriber struct {
	id     uuid.UUID
	userId goat.UserId

	mu       sync.Mutex
	queue    []goat.Response
	closed   bool
	replayed map[goat.GameId]struct{}
	notify   chan struct{}

	closeOnce sync.Once
	done      chan struct{}
	out       chan goat.Response
}

func newSubscriber(userId goat.UserId) *Subscriber {
	s := &Subscriber{
		id:       uuid.New(),
		userId:   userId,
		replayed: make(map[goat.GameId]struct{}),
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		out:      make(chan goat.Response),
	}
	go s.pump()
	return s
}

func (s *Subscriber) UserId() goat.UserId {
	return s.userId
}

// Send enqueues a response. It reports false once the subscriber is
// closed, which tells the registry to drop it.
func (s *Subscriber) Send(response goat.Response) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.replayed != nil {
		switch r := response.(type) {
		case goat.GameResponse:
			if _, ok := s.replayed[r.GameId]; !ok {
				return true
			}
		case goat.ReplayResponse:
			s.replayed[r.GameId] = struct{}{}
		}
	}
	s.queue = append(s.queue, response)
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return true
}

// finishReplay ends the gating window opened at subscribe time.
func (s *Subscriber) finishReplay() {
	s.mu.Lock()
	s.replayed = nil
	s.mu.Unlock()
}

// Close stops the stream. Responses still queued are discarded; the
// transport is gone anyway.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
}

// Chan is the stream the transport reads. It is closed after Close.
func (s *Subscriber) Chan() <-chan goat.Response {
	return s.out
}

func (s *Subscriber) pump() {
	for {
		s.mu.Lock()
		var response goat.Response
		have := false
		if len(s.queue) > 0 {
			response = s.queue[0]
			s.queue = s.queue[1:]
			have = true
		}
		s.mu.Unlock()
		if have {
			select {
			case s.out <- response:
				continue
			case <-s.done:
				close(s.out)
				return
			}
		}
		select {
		case <-s.notify:
		case <-s.done:
			close(s.out)
			return
		}
	}
}
