package goat

// Client mirrors the full server view for one subscriber: every game it
// has been told about plus the user directory.
type Client struct {
	Games map[GameId]*ClientGame
	Users UserDb

	// NewGame builds the mirror for a freshly replayed game, letting the
	// embedder pick history and previous-trick behavior.
	NewGame func() *ClientGame
}

func NewClient(users UserDb) *Client {
	return &Client{
		Games:   make(map[GameId]*ClientGame),
		Users:   users,
		NewGame: NewClientGame,
	}
}

// Apply advances the mirror by one server response.
func (c *Client) Apply(response Response) error {
	switch r := response.(type) {
	case PingResponse:

	case ReplayResponse:
		game := c.NewGame()
		for _, event := range r.Events {
			if err := game.Apply(event); err != nil {
				return err
			}
		}
		c.Games[r.GameId] = game

	case GameResponse:
		game, ok := c.Games[r.GameId]
		if !ok {
			return InvalidGameError{GameId: r.GameId}
		}
		return game.Apply(r.Event)

	case ForgetGameResponse:
		delete(c.Games, r.GameId)

	case UserResponse:
		c.Users.Insert(r.UserId, User{Name: r.Name, Online: r.Online})

	case ForgetUserResponse:
		c.Users.Remove(r.UserId)
	}
	return nil
}
