package quiz_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"triviaduel-backend/api"
	"triviaduel-backend/internal/auth"
	"triviaduel-backend/internal/quiz"
	"triviaduel-backend/internal/store"
	"triviaduel-backend/internal/triviaapi"

	"github.com/alicebob/miniredis/v2"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// newFakeTriviaServer serves one fixed easy multiple-choice question on
// every batch request, enough to drive a full game without reaching the
// real trivia provider.
func newFakeTriviaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.TriviaAPITokenResponse{Token: "test-token"})
	})
	mux.HandleFunc("/questions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.TriviaAPIQuestionsResponse{
			ResponseCode: 0,
			Results: []api.TriviaAPIQuestion{{
				Category:         "Geography",
				Type:             api.QuestionTypeMultiple,
				Difficulty:       api.DifficultyEasy,
				Question:         "Capital of France?",
				CorrectAnswer:    "Paris",
				IncorrectAnswers: []string{"Berlin", "Rome", "Madrid"},
			}},
		})
	})
	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// testEngine bundles a fully wired Engine and its backing stores behind a
// test websocket server, mirroring the teacher's setupAndDialTestServer
// pattern but dialing with this module's own coder/websocket transport.
type testEngine struct {
	engine  *quiz.Engine
	lobbies *store.LobbyStore[*quiz.Lobby]
	issuer  *auth.Issuer
	server  *httptest.Server
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	lobbies := store.NewLobbyStore[*quiz.Lobby](rdb)
	pubsub := store.NewPubSub(rdb)

	sqlStore, err := store.OpenSQLStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() })
	require.NoError(t, sqlStore.Migrate(context.Background()))

	trivia := newFakeTriviaServer(t)
	client := triviaapi.NewClient(trivia.URL+"/token", trivia.URL+"/questions", 1, 5*time.Second)

	issuer := auth.NewIssuer([]byte("test-secret"))

	cfg := quiz.Config{
		GameMaxDuration:     time.Minute,
		QuestionMaxDuration: map[api.Difficulty]time.Duration{api.DifficultyEasy: 10 * time.Second},
		QuestionDamage:      map[api.Difficulty]int{api.DifficultyEasy: quiz.StartingHP},
		RankGain:            32,
		QuestionAmount:      1,
	}
	engine := quiz.NewEngine(cfg, lobbies, pubsub, sqlStore, client, issuer)

	te := &testEngine{engine: engine, lobbies: lobbies, issuer: issuer}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		token := r.URL.RawQuery
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		engine.Handle(r.Context(), conn, name, token)
	})
	te.server = httptest.NewServer(mux)
	t.Cleanup(te.server.Close)

	return te
}

// dial connects to lobbyName presenting token as the raw query string, the
// same contract LobbyWebsocketHandler enforces in production.
func (te *testEngine) dial(t *testing.T, lobbyName, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(te.server.URL, "http") + "/ws/" + lobbyName + "?" + token
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	return conn
}

// waitForOccupants polls the lobby record until it reports exactly n
// occupants, avoiding a race between a socket's client-side dial returning
// and its server-side admission actually completing.
func waitForOccupants(t *testing.T, lobbies *store.LobbyStore[*quiz.Lobby], name string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		l, err := lobbies.Get(context.Background(), name)
		return err == nil && len(l.Users) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func readResponse(t *testing.T, conn *websocket.Conn) api.Response[json.RawMessage] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var res api.Response[json.RawMessage]
	require.NoError(t, wsjson.Read(ctx, conn, &res))
	return res
}

func writeRequest[T any](t *testing.T, conn *websocket.Conn, typ api.RequestType, data T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, api.Request[T]{Type: typ, Data: data}))
}

func decodeData[T any](t *testing.T, res api.Response[json.RawMessage]) T {
	t.Helper()
	data, err := api.DecodeJSON[T](res.Data)
	require.NoError(t, err)
	return data
}

func TestEngine_TwoPlayersFullGame_EndsByHP(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t)
	ctx := context.Background()
	const lobbyName = "duel-hp"

	require.NoError(t, te.lobbies.Create(ctx, lobbyName, quiz.NewLobby(lobbyName, false), time.Minute))

	tokenA, err := te.issuer.Issue(auth.Claims{UserID: "user-a", Username: "alice", LobbyName: lobbyName})
	require.NoError(t, err)
	tokenB, err := te.issuer.Issue(auth.Claims{UserID: "user-b", Username: "bob", LobbyName: lobbyName})
	require.NoError(t, err)

	connA := te.dial(t, lobbyName, tokenA)
	defer connA.Close(websocket.StatusNormalClosure, "")
	waitForOccupants(t, te.lobbies, lobbyName, 1)

	connB := te.dial(t, lobbyName, tokenB)
	defer connB.Close(websocket.StatusNormalClosure, "")
	waitForOccupants(t, te.lobbies, lobbyName, 2)

	for _, c := range []*websocket.Conn{connA, connB} {
		res := readResponse(t, c)
		require.Equal(t, api.ResponseTypeGamePrepare, res.Type)
	}

	writeRequest[api.GameReadyRequestData](t, connA, api.RequestTypeGameReady, api.GameReadyRequestData{})
	writeRequest[api.GameReadyRequestData](t, connB, api.RequestTypeGameReady, api.GameReadyRequestData{})

	for _, c := range []*websocket.Conn{connA, connB} {
		res := readResponse(t, c)
		require.Equal(t, api.ResponseTypeGameStart, res.Type)
		data := decodeData[api.GameStartResponseData](t, res)
		require.NotEmpty(t, data.Opponent)

		res = readResponse(t, c)
		require.Equal(t, api.ResponseTypeQuestionData, res.Type)
		qdata := decodeData[api.QuestionDataResponseData](t, res)
		require.Len(t, qdata.Questions, 1)

		res = readResponse(t, c)
		require.Equal(t, api.ResponseTypeQuestionNext, res.Type)
	}

	// bob answers correctly first, dealing himself no damage.
	writeRequest(t, connB, api.RequestTypeQuestionAnswer, api.QuestionAnsweredRequestData{Answer: "Paris"})

	resA := readResponse(t, connA)
	require.Equal(t, api.ResponseTypeOpponentAnswer, resA.Type)
	oppA := decodeData[api.OpponentAnsweredResponseData](t, resA)
	require.True(t, oppA.Correctly)

	resB := readResponse(t, connB)
	require.Equal(t, api.ResponseTypeQuestionResult, resB.Type)
	ownB := decodeData[api.QuestionResultResponseData](t, resB)
	require.True(t, ownB.Correctly)

	// alice answers wrong, taking full starting hp in damage and ending the
	// game: the two-answer barrier only closes once both have answered.
	writeRequest(t, connA, api.RequestTypeQuestionAnswer, api.QuestionAnsweredRequestData{Answer: "Berlin"})

	resA = readResponse(t, connA)
	require.Equal(t, api.ResponseTypeQuestionResult, resA.Type)
	ownA := decodeData[api.QuestionResultResponseData](t, resA)
	require.False(t, ownA.Correctly)
	require.Equal(t, quiz.StartingHP, ownA.Damage)
	require.Equal(t, "Paris", ownA.CorrectAnswer)

	resB = readResponse(t, connB)
	require.Equal(t, api.ResponseTypeOpponentAnswer, resB.Type)
	oppB := decodeData[api.OpponentAnsweredResponseData](t, resB)
	require.False(t, oppB.Correctly)
	require.Equal(t, quiz.StartingHP, oppB.Damage)

	resA = readResponse(t, connA)
	require.Equal(t, api.ResponseTypeGameEnd, resA.Type)
	endA := decodeData[api.GameEndResponseData](t, resA)
	require.Equal(t, api.GameStatusLoss, endA.Status)
	require.Zero(t, endA.RankGain, "non-ranked lobby must not move rank")

	resB = readResponse(t, connB)
	require.Equal(t, api.ResponseTypeGameEnd, resB.Type)
	endB := decodeData[api.GameEndResponseData](t, resB)
	require.Equal(t, api.GameStatusWin, endB.Status)
	require.Zero(t, endB.RankGain)

	_, err = te.lobbies.Get(ctx, lobbyName)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEngine_Disconnect_DuringGame_EndsWithOpponentWin(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t)
	ctx := context.Background()
	const lobbyName = "duel-disconnect"

	require.NoError(t, te.lobbies.Create(ctx, lobbyName, quiz.NewLobby(lobbyName, true), time.Minute))

	tokenA, err := te.issuer.Issue(auth.Claims{UserID: "user-a", Username: "alice", LobbyName: lobbyName})
	require.NoError(t, err)
	tokenB, err := te.issuer.Issue(auth.Claims{UserID: "user-b", Username: "bob", LobbyName: lobbyName})
	require.NoError(t, err)

	connA := te.dial(t, lobbyName, tokenA)
	waitForOccupants(t, te.lobbies, lobbyName, 1)

	connB := te.dial(t, lobbyName, tokenB)
	defer connB.Close(websocket.StatusNormalClosure, "")
	waitForOccupants(t, te.lobbies, lobbyName, 2)

	require.Equal(t, api.ResponseTypeGamePrepare, readResponse(t, connA).Type)
	require.Equal(t, api.ResponseTypeGamePrepare, readResponse(t, connB).Type)

	writeRequest[api.GameReadyRequestData](t, connA, api.RequestTypeGameReady, api.GameReadyRequestData{})
	writeRequest[api.GameReadyRequestData](t, connB, api.RequestTypeGameReady, api.GameReadyRequestData{})

	require.Equal(t, api.ResponseTypeGameStart, readResponse(t, connA).Type)
	require.Equal(t, api.ResponseTypeQuestionData, readResponse(t, connA).Type)
	require.Equal(t, api.ResponseTypeQuestionNext, readResponse(t, connA).Type)

	require.Equal(t, api.ResponseTypeGameStart, readResponse(t, connB).Type)
	require.Equal(t, api.ResponseTypeQuestionData, readResponse(t, connB).Type)
	require.Equal(t, api.ResponseTypeQuestionNext, readResponse(t, connB).Type)

	// alice vanishes mid-question; bob should be awarded the win and a
	// positive rank gain without ever answering.
	require.NoError(t, connA.Close(websocket.StatusNormalClosure, "gone"))

	res := readResponse(t, connB)
	require.Equal(t, api.ResponseTypeGameEnd, res.Type)
	end := decodeData[api.GameEndResponseData](t, res)
	require.Equal(t, api.GameStatusWin, end.Status)
	require.Positive(t, end.RankGain)

	_, err = te.lobbies.Get(ctx, lobbyName)
	require.ErrorIs(t, err, store.ErrNotFound)
}
