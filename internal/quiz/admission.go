package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"triviaduel-backend/internal/auth"
	"triviaduel-backend/internal/store"
)

var (
	ErrLobbyFull          = errors.New("lobby is full")
	ErrTokenLobbyMismatch = errors.New("token lobby does not match connection lobby")
	ErrUserAlreadyInLobby = errors.New("user already occupies lobby")
)

// LockTTL bounds how long a single lobby mutation may hold the distributed
// lock: comfortably above a Redis round trip, well under the join token's
// own lifetime.
const LockTTL = 2 * time.Second

// AdmitResult reports the outcome of a successful connect handshake.
type AdmitResult struct {
	Lobby         *Lobby
	Claims        auth.Claims
	WasFirstUser  bool
	WasSecondUser bool
}

// Admit implements the connect handshake's validation and mutation steps:
// verify the token, check it against the lobby, and insert the user.
// Callers are responsible for the handshake's remaining side effects
// (clearing the lobby TTL, subscribing to the pub/sub fabric, broadcasting
// game.prepare).
func Admit(ctx context.Context, lobbies *store.LobbyStore[*Lobby], issuer *auth.Issuer, lobbyName, tokenStr string) (AdmitResult, error) {
	claims, err := issuer.Verify(tokenStr)
	if err != nil {
		return AdmitResult{}, fmt.Errorf("invalid join token: %w", err)
	}
	if claims.LobbyName != lobbyName {
		return AdmitResult{}, ErrTokenLobbyMismatch
	}

	var result AdmitResult

	updated, err := lobbies.WithLock(ctx, lobbyName, LockTTL, func(lobby *Lobby) (*Lobby, error) {
		if lobby.IsFull() {
			return nil, ErrLobbyFull
		}
		if lobby.HasUser(claims.UserID) {
			return nil, ErrUserAlreadyInLobby
		}

		result.WasFirstUser = len(lobby.Users) == 0
		lobby.AddUser(claims.UserID, claims.Username)
		result.WasSecondUser = len(lobby.Users) == 2

		return lobby, nil
	})
	if err != nil {
		return AdmitResult{}, err
	}

	result.Lobby = updated
	result.Claims = claims
	return result, nil
}
