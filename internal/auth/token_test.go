package auth_test

import (
	"testing"
	"time"

	"triviaduel-backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueVerify(t *testing.T) {
	t.Parallel()

	issuer := auth.NewIssuer([]byte("secret"))

	claims := auth.Claims{UserID: "u1", Username: "alice", LobbyName: "duel-1"}
	token, err := issuer.Issue(claims)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, claims, got)
}

func TestIssuer_Verify_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := auth.NewIssuer([]byte("secret"))
	token, err := issuer.Issue(auth.Claims{UserID: "u1", Username: "alice", LobbyName: "duel-1"})
	require.NoError(t, err)

	other := auth.NewIssuer([]byte("different"))
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestIssuer_Verify_RejectsExpired(t *testing.T) {
	t.Parallel()

	issuer := auth.NewIssuer([]byte("secret"))
	token, err := issuer.Issue(auth.Claims{UserID: "u1", Username: "alice", LobbyName: "duel-1"})
	require.NoError(t, err)

	// exp is stored in whole seconds and a token stays valid through its exp
	// second, so expiry is only guaranteed one second past TokenLifetime.
	time.Sleep(auth.TokenLifetime + 1500*time.Millisecond)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}
