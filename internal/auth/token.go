// Package auth mints and verifies the short-lived join tokens presented at
// websocket connect.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenLifetime is how long a minted join token remains valid; it is
// intended to be used immediately by the client that requested it.
const TokenLifetime = 5 * time.Second

// Claims is the decoded content of a join token.
type Claims struct {
	UserID    string
	Username  string
	LobbyName string
}

// Issuer mints and verifies join tokens under a single HMAC secret.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret}
}

// Issue mints a signed bearer token carrying claims, expiring after
// TokenLifetime.
func (i *Issuer) Issue(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":         claims.UserID,
		"username":   claims.Username,
		"lobby_name": claims.LobbyName,
		"exp":        time.Now().Add(TokenLifetime).Unix(),
	})
	return token.SignedString(i.secret)
}

// Verify validates a token's signature and expiry and returns its claims.
func (i *Issuer) Verify(tokenStr string) (Claims, error) {
	parsed, err := jwt.Parse(tokenStr, jwtKeyFunc(i.secret))
	if err != nil {
		return Claims{}, err
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token claims")
	}

	id, ok := stringClaim(claimsMap, "id")
	if !ok {
		return Claims{}, errors.New("token missing id claim")
	}
	username, ok := stringClaim(claimsMap, "username")
	if !ok {
		return Claims{}, errors.New("token missing username claim")
	}
	lobbyName, ok := stringClaim(claimsMap, "lobby_name")
	if !ok {
		return Claims{}, errors.New("token missing lobby_name claim")
	}

	return Claims{UserID: id, Username: username, LobbyName: lobbyName}, nil
}

func stringClaim(claims jwt.MapClaims, key string) (string, bool) {
	v, ok := claims[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func jwtKeyFunc(key []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}
}
