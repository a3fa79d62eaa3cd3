// Package handlers wires the HTTP admission endpoints (create/list/join
// lobby) and the websocket upgrade endpoint onto the quiz engine.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"triviaduel-backend/api"
	"triviaduel-backend/internal/auth"
	"triviaduel-backend/internal/config"
	errs "triviaduel-backend/internal/errors"
	"triviaduel-backend/internal/quiz"
	"triviaduel-backend/internal/rate"
	"triviaduel-backend/internal/store"

	"github.com/coder/websocket"
)

// ContextHandler wraps a slog.Handler and projects a fixed set of
// context-carried slog.Attr values onto every record it handles, so a
// request's lobby/user identity is attached without threading it through
// every log call site.
type ContextHandler struct {
	slog.Handler
	Keys []any
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range h.Keys {
		if attr, ok := ctx.Value(key).(slog.Attr); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs), Keys: h.Keys}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name), Keys: h.Keys}
}

// identityFromRequest reads the caller's authenticated identity, set by the
// external auth middleware this service sits behind. User registration and
// login are out of scope here; the admission API only ever sees an already
// authenticated (id, username) pair.
func identityFromRequest(r *http.Request) (id, username string, ok bool) {
	id = r.Header.Get("X-User-Id")
	username = r.Header.Get("X-Username")
	return id, username, id != "" && username != ""
}

// CreateLobbyHandler creates a new, empty, WAITING lobby and returns a join
// token for its creator.
func CreateLobbyHandler(cfg config.Config, lobbies *store.LobbyStore[*quiz.Lobby], issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, username, ok := identityFromRequest(r)
		if !ok {
			errs.WriteHTTPError(ctx, w, errs.UnauthorizedError("missing caller identity"))
			return
		}
		if err := validateUsername(username); err != nil {
			errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"username": err.Error()}))
			return
		}

		req, err := decodeJSONBody[api.CreateLobbyRequest](r)
		if err != nil {
			errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"body": err.Error()}))
			return
		}

		if err := validateLobbyName(req.Name); err != nil {
			errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"name": err.Error()}))
			return
		}

		lobby := quiz.NewLobby(req.Name, req.Ranked)
		if err := lobbies.Create(ctx, req.Name, lobby, cfg.Lobby.ExpireTimeout); err != nil {
			errs.WriteHTTPError(ctx, w, errs.LobbyAlreadyExistsError(req.Name))
			return
		}

		token, err := issuer.Issue(auth.Claims{
			UserID:    userID,
			Username:  username,
			LobbyName: req.Name,
		})
		if err != nil {
			errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(ctx, w, api.TokenResponse{Token: token})
	}
}

// JoinLobbyHandler mints a join token for an existing, not-yet-full lobby
// the caller does not already occupy; the lobby's state is not checked. No
// lobby state is mutated here; occupancy is claimed when the socket
// attaches.
func JoinLobbyHandler(lobbies *store.LobbyStore[*quiz.Lobby], issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := r.PathValue("name")

		userID, username, ok := identityFromRequest(r)
		if !ok {
			errs.WriteHTTPError(ctx, w, errs.UnauthorizedError("missing caller identity"))
			return
		}
		if err := validateUsername(username); err != nil {
			errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"username": err.Error()}))
			return
		}

		lobby, err := lobbies.Get(ctx, name)
		if err != nil {
			errs.WriteHTTPError(ctx, w, errs.LobbyNotFoundError(name))
			return
		}
		if lobby.IsFull() {
			errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"lobby": "full"}))
			return
		}
		if lobby.HasUser(userID) {
			errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"lobby": "already occupied"}))
			return
		}

		token, err := issuer.Issue(auth.Claims{
			UserID:    userID,
			Username:  username,
			LobbyName: name,
		})
		if err != nil {
			errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
			return
		}

		writeJSON(ctx, w, api.TokenResponse{Token: token})
	}
}

// ListLobbiesHandler lists every WAITING, not-yet-full lobby available to
// join.
func ListLobbiesHandler(lobbies *store.LobbyStore[*quiz.Lobby]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rankedFilter, hasRankedFilter := parseBoolQuery(r, "ranked")

		all, err := lobbies.List(ctx, func(l *quiz.Lobby) bool {
			if l.State != quiz.LobbyStateWaiting || l.IsFull() {
				return false
			}
			return !hasRankedFilter || l.Ranked == rankedFilter
		})
		if err != nil {
			errs.WriteHTTPError(ctx, w, errs.StoreFailureHTTPError(err))
			return
		}

		items := make([]api.LobbyListItem, 0, len(all))
		for _, l := range all {
			items = append(items, api.LobbyListItem{
				Name:        l.Name,
				Ranked:      l.Ranked,
				PlayerCount: len(l.Users),
			})
		}

		writeJSON(ctx, w, items)
	}
}

// LobbyWebsocketHandler upgrades the connection and hands it to the quiz
// engine for the remainder of its lifetime. The join token is the raw
// query string of the request (no key=value encoding).
func LobbyWebsocketHandler(cfg config.Config, engine *quiz.Engine, acceptOpts websocket.AcceptOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := r.PathValue("name")
		token := r.URL.RawQuery

		if token == "" {
			errs.WriteHTTPError(ctx, w, errs.MissingURLQueryError("token"))
			return
		}

		conn, err := websocket.Accept(w, r, &acceptOpts)
		if err != nil {
			slog.ErrorContext(ctx, "ws accept", slog.Any("error", err))
			return
		}
		conn.SetReadLimit(cfg.Lobby.WebsocketReadLimit)

		engine.Handle(ctx, conn, name, token)
	}
}

// RateLimitMiddleware rejects requests once limiter's window is exhausted.
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				errs.WriteHTTPError(r.Context(), w, errs.UnauthorizedError("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	errTooShort = errors.New("too short")
	errTooLong  = errors.New("too long")
)

func decodeJSONBody[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "response encoding", slog.Any("error", err))
	}
}

func validateUsername(username string) error {
	count := utf8.RuneCountInString(username)
	if count < 3 {
		return errTooShort
	}
	if count > 25 {
		return errTooLong
	}
	return nil
}

func validateLobbyName(name string) error {
	count := utf8.RuneCountInString(name)
	if count < 3 {
		return errTooShort
	}
	if count > 100 {
		return errTooLong
	}
	return nil
}

// parseBoolQuery reports the parsed value of a boolean query parameter and
// whether it was present and well-formed at all.
func parseBoolQuery(r *http.Request, key string) (value, present bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
