// Package triviaapi is the Question Source: it fetches session tokens and
// question batches from the external trivia provider, and formats the raw
// results for the wire (internal/triviaapi/format.go).
package triviaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"triviaduel-backend/api"
)

// Client talks to the external trivia provider over plain HTTP; no
// dedicated client library is warranted for two unauthenticated JSON GETs.
type Client struct {
	httpClient   *http.Client
	tokenURL     string
	questionsURL string
	amount       int
}

func NewClient(tokenURL, questionsURL string, amount int, timeout time.Duration) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		tokenURL:     tokenURL,
		questionsURL: questionsURL,
		amount:       amount,
	}
}

// Token requests a fresh session token, used across batches within one
// game to suppress repeated questions.
func (c *Client) Token(ctx context.Context) (string, error) {
	u := c.tokenURL + "?command=request"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("trivia token request: unexpected status %d", res.StatusCode)
	}

	var body api.TriviaAPITokenResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Token == "" {
		return "", errors.New("trivia token request: empty token")
	}

	return body.Token, nil
}

// Questions fetches one batch of questions using token for repeat
// suppression.
func (c *Client) Questions(ctx context.Context, token string) ([]api.TriviaAPIQuestion, error) {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(c.amount))
	q.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.questionsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia questions request: unexpected status %d", res.StatusCode)
	}

	var body api.TriviaAPIQuestionsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ResponseCode != 0 {
		return nil, fmt.Errorf("trivia questions request: response_code %d", body.ResponseCode)
	}

	return body.Results, nil
}
