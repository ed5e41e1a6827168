package server

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tjwilson90/goat/goat"
)

// Cookie names identifying the caller. The secret is hashed into the user
// id and never stored or echoed.
const (
	userSecretCookie = "USER_SECRET"
	userNameCookie   = "USER_NAME"
)

// HTTPHandler exposes the registry over HTTP: request/response endpoints
// with JSON bodies plus a server-sent-events stream of responses.
type HTTPHandler struct {
	server *Server
	log    zerolog.Logger
}

func NewHTTPHandler(server *Server, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{server: server, log: log}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /new_game", h.handleNewGame)
	mux.HandleFunc("POST /change_name", h.handleChangeName)
	mux.HandleFunc("POST /apply_action", h.handleApplyAction)
	mux.HandleFunc("GET /subscribe", h.handleSubscribe)
	mux.HandleFunc("GET /ws", h.handleWebSocket)
}

func (h *HTTPHandler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	gameId := h.server.NewGame(rand.Int63())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gameId)
}

func (h *HTTPHandler) handleChangeName(w http.ResponseWriter, r *http.Request) {
	userId, name, err := identity(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.server.ChangeName(userId, name)
}

func (h *HTTPHandler) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	userId, err := callerId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gameId, err := goat.ParseGameId(r.URL.Query().Get("gameId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	action, err := goat.DecodeAction(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.server.ApplyAction(userId, gameId, action); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
}

func (h *HTTPHandler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	userId, name, err := identity(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := h.server.Subscribe(userId, name)
	defer h.server.Unsubscribe(sub)
	for {
		select {
		case <-r.Context().Done():
			return
		case response, ok := <-sub.Chan():
			if !ok {
				return
			}
			data, err := json.Marshal(response)
			if err != nil {
				h.log.Error().Err(err).Msg("marshal response")
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// identity extracts the caller's id and name from cookies.
func identity(r *http.Request) (goat.UserId, string, error) {
	userId, err := callerId(r)
	if err != nil {
		return goat.UserId{}, "", err
	}
	name, err := r.Cookie(userNameCookie)
	if err != nil {
		return goat.UserId{}, "", fmt.Errorf("missing %s cookie", userNameCookie)
	}
	return userId, name.Value, nil
}

func callerId(r *http.Request) (goat.UserId, error) {
	secret, err := r.Cookie(userSecretCookie)
	if err != nil {
		return goat.UserId{}, fmt.Errorf("missing %s cookie", userSecretCookie)
	}
	return goat.UserIdFromSecret(secret.Value), nil
}
