package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"triviaduel-backend/api"
	"triviaduel-backend/internal/auth"
	errs "triviaduel-backend/internal/errors"
	"triviaduel-backend/internal/store"
	"triviaduel-backend/internal/triviaapi"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"
)

type ctxKey int

const (
	// LogLobbyKey and LogUserKey are the context keys the engine stamps onto
	// every connection's context with a ready-made slog.Attr value, so a
	// slog handler wrapping the default logger can project them onto every
	// log line emitted while handling that connection.
	LogLobbyKey ctxKey = iota
	LogUserKey
)

// Config holds the tunables of the per-lobby state machine, sourced from
// the service's enumerated configuration knobs.
type Config struct {
	GameMaxDuration     time.Duration
	QuestionMaxDuration map[api.Difficulty]time.Duration
	QuestionDamage      map[api.Difficulty]int
	RankGain            int
	QuestionAmount      int
}

func (c Config) questionDurationSeconds() map[api.Difficulty]int {
	out := make(map[api.Difficulty]int, len(c.QuestionMaxDuration))
	for d, dur := range c.QuestionMaxDuration {
		out[d] = int(dur.Seconds())
	}
	return out
}

// Engine runs the websocket endpoint for a single lobby socket: handshake,
// per-lobby state machine, answer synchronization, timing enforcement, and
// game resolution.
type Engine struct {
	cfg     Config
	lobbies *store.LobbyStore[*Lobby]
	pubsub  *store.PubSub
	sql     *store.SQLStore
	trivia  *triviaapi.Client
	issuer  *auth.Issuer
}

func NewEngine(cfg Config, lobbies *store.LobbyStore[*Lobby], pubsub *store.PubSub, sqlStore *store.SQLStore, trivia *triviaapi.Client, issuer *auth.Issuer) *Engine {
	return &Engine{cfg: cfg, lobbies: lobbies, pubsub: pubsub, sql: sqlStore, trivia: trivia, issuer: issuer}
}

// session is the per-connection local state mirroring the original game
// consumer's instance attributes: flags that must never be shared across
// the two sockets of a lobby, only across messages on the same socket.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	lobbyName string
	userID    string
	username  string

	mu               sync.Mutex
	readySent        bool
	questionAnswered bool
	questionGen      int
	fiftyUsed        bool
}

func (s *session) write(ctx context.Context, v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := wsjson.Write(ctx, s.conn, v); err != nil {
		slog.ErrorContext(ctx, "ws write", slog.Any("error", err))
	}
}

func (s *session) markReady() (already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	already = s.readySent
	s.readySent = true
	return already
}

func (s *session) markAnswered() (already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	already = s.questionAnswered
	s.questionAnswered = true
	return already
}

// nextGeneration starts a fresh question for this connection, clearing the
// answered flag and returning a token that ties a scheduled timeout to the
// question it was created for.
func (s *session) nextGeneration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionAnswered = false
	s.questionGen++
	return s.questionGen
}

func (s *session) currentGeneration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionGen
}

func (s *session) markFiftyUsed() (already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	already = s.fiftyUsed
	s.fiftyUsed = true
	return already
}

// Handle runs the full lifecycle of one websocket connection to lobbyName:
// the connect handshake, the message loop, and disconnect cleanup.
func (e *Engine) Handle(ctx context.Context, conn *websocket.Conn, lobbyName, token string) {
	admitted, err := Admit(ctx, e.lobbies, e.issuer, lobbyName, token)
	if err != nil {
		errs.WriteWebsocketError(ctx, conn, errs.UnauthorizedRequestError(api.RequestTypeUnknown, err.Error()))
		conn.Close(websocket.StatusPolicyViolation, "admission denied")
		return
	}

	sess := &session{
		conn:      conn,
		lobbyName: lobbyName,
		userID:    admitted.Claims.UserID,
		username:  admitted.Claims.Username,
	}

	ctx = context.WithValue(ctx, LogLobbyKey, slog.String("lobby", lobbyName))
	ctx = context.WithValue(ctx, LogUserKey, slog.String("user_id", sess.userID))

	if admitted.WasFirstUser {
		if err := e.lobbies.Persist(ctx, lobbyName); err != nil {
			slog.ErrorContext(ctx, "clear lobby ttl", slog.Any("error", err))
		}
	}

	// Subscribe before publishing anything triggered by this connection's
	// own admission, so the second user's socket is never missing from a
	// broadcast it is itself the cause of.
	sub := e.pubsub.Subscribe(ctx, lobbyName)

	if admitted.WasSecondUser {
		if err := e.pubsub.Publish(ctx, lobbyName, Event{Kind: EventGamePrepare}); err != nil {
			slog.ErrorContext(ctx, "publish game.prepare", slog.Any("error", err))
		}
	}

	forwarderDone := make(chan struct{})
	go func() {
		defer close(forwarderDone)
		e.forward(ctx, sess, sub)
	}()

	e.readLoop(ctx, sess)

	sub.Close()
	<-forwarderDone

	e.handleDisconnect(ctx, sess)
}

func (e *Engine) readLoop(ctx context.Context, sess *session) {
	for {
		req := api.Request[json.RawMessage]{}
		if err := wsjson.Read(ctx, sess.conn, &req); err != nil {
			return
		}

		switch req.Type {
		case api.RequestTypeGameReady:
			e.handleReady(ctx, sess)
		case api.RequestTypeQuestionAnswer:
			e.handleAnswer(ctx, sess, req.Data)
		case api.RequestTypeFiftyRequest:
			e.handleFifty(ctx, sess, req.Data)
		default:
			// Unexpected message type: protocol-violation, silently ignored.
		}
	}
}

func (e *Engine) forward(ctx context.Context, sess *session, sub *store.Subscription) {
	for msg := range sub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			slog.ErrorContext(ctx, "decode broadcast event", slog.Any("error", err))
			continue
		}
		e.project(ctx, sess, ev)
	}
}

// project turns one broadcast event into the wire message(s) this socket
// sends, splitting question.answered outcomes per recipient: the answerer
// gets question.result (with the correct answer), its opponent gets
// opponent.answered (without it).
func (e *Engine) project(ctx context.Context, sess *session, ev Event) {
	switch ev.Kind {
	case EventGamePrepare:
		sess.write(ctx, api.Response[api.EmptyData]{Type: api.ResponseTypeGamePrepare})

	case EventGameStart:
		sess.write(ctx, api.Response[api.GameStartResponseData]{
			Type: api.ResponseTypeGameStart,
			Data: api.GameStartResponseData{
				Opponent: ev.Opponents[sess.userID],
				Duration: ev.Duration,
			},
		})

	case EventQuestionData:
		sess.write(ctx, api.Response[api.QuestionDataResponseData]{
			Type: api.ResponseTypeQuestionData,
			Data: api.QuestionDataResponseData{Questions: ev.Questions},
		})
		sess.write(ctx, api.Response[api.EmptyData]{Type: api.ResponseTypeQuestionNext})
		gen := sess.nextGeneration()
		e.scheduleTimeout(sess, gen, ev.QuestionDuration)

	case EventQuestionNext:
		sess.write(ctx, api.Response[api.EmptyData]{Type: api.ResponseTypeQuestionNext})
		gen := sess.nextGeneration()
		e.scheduleTimeout(sess, gen, ev.QuestionDuration)

	case EventQuestionResult:
		if ev.AnsweringUserID == sess.userID {
			sess.write(ctx, api.Response[api.QuestionResultResponseData]{
				Type: api.ResponseTypeQuestionResult,
				Data: api.QuestionResultResponseData{
					Correctly:     ev.Correctly,
					CorrectAnswer: ev.CorrectAnswer,
					Damage:        ev.Damage,
				},
			})
		} else {
			sess.write(ctx, api.Response[api.OpponentAnsweredResponseData]{
				Type: api.ResponseTypeOpponentAnswer,
				Data: api.OpponentAnsweredResponseData{
					Correctly: ev.Correctly,
					Damage:    ev.Damage,
				},
			})
		}

	case EventGameEnd:
		result := ev.Results[sess.userID]
		sess.write(ctx, api.Response[api.GameEndResponseData]{
			Type: api.ResponseTypeGameEnd,
			Data: api.GameEndResponseData{Status: result.Status, RankGain: result.RankGain},
		})
		sess.conn.Close(websocket.StatusNormalClosure, "game ended")
	}
}

// scheduleTimeout arranges for this connection alone to self-submit an
// empty answer once the question's max duration elapses, so a silent peer
// cannot stall the game. gen ties the callback to the question it was
// scheduled for; if the question has since advanced the callback no-ops.
func (e *Engine) scheduleTimeout(sess *session, gen, durationSeconds int) {
	if durationSeconds <= 0 {
		return
	}
	time.AfterFunc(time.Duration(durationSeconds)*time.Second, func() {
		if sess.currentGeneration() != gen {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		e.handleAnswer(ctx, sess, json.RawMessage(`{"answer":""}`))
	})
}

func (e *Engine) handleReady(ctx context.Context, sess *session) {
	if already := sess.markReady(); already {
		return
	}

	var startGame bool
	lobby, err := e.lobbies.WithLock(ctx, sess.lobbyName, LockTTL, func(l *Lobby) (*Lobby, error) {
		if l.State != LobbyStateWaiting {
			return l, nil
		}
		l.ReadyCount++
		startGame = l.ReadyCount >= 2
		return l, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "handle ready", slog.Any("error", err))
		return
	}
	if !startGame {
		return
	}

	e.startGame(ctx, sess.lobbyName, lobby)
}

func (e *Engine) startGame(ctx context.Context, lobbyName string, lobby *Lobby) {
	token, err := e.trivia.Token(ctx)
	if err != nil {
		e.failGame(ctx, lobbyName, fmt.Errorf("fetch trivia token: %w", err))
		return
	}

	questions, correctAnswers, err := e.fetchBatch(ctx, token)
	if err != nil {
		e.failGame(ctx, lobbyName, fmt.Errorf("fetch question batch: %w", err))
		return
	}
	if len(correctAnswers) == 0 {
		e.failGame(ctx, lobbyName, errors.New("trivia provider returned no questions"))
		return
	}

	now := time.Now()
	opponents := map[string]string{}

	_, err = e.lobbies.WithLock(ctx, lobbyName, LockTTL, func(l *Lobby) (*Lobby, error) {
		l.State = LobbyStateInProgress
		l.TriviaToken = token
		l.CorrectAnswers = correctAnswers
		l.CurrentQuestionCount = 0
		l.CurrentAnswerCount = 0
		l.GameStartTime = now
		l.QuestionStartTime = now

		for id := range l.Users {
			if opponentID, opponent, ok := l.Opponent(id); ok {
				opponents[id] = opponent.Name
				_ = opponentID
			}
		}

		return l, nil
	})
	if err != nil {
		e.failGame(ctx, lobbyName, fmt.Errorf("persist game start: %w", err))
		return
	}

	duration := int(e.cfg.GameMaxDuration.Seconds())

	if err := e.pubsub.Publish(ctx, lobbyName, Event{Kind: EventGameStart, Opponents: opponents, Duration: duration}); err != nil {
		slog.ErrorContext(ctx, "publish game.start", slog.Any("error", err))
	}
	if err := e.pubsub.Publish(ctx, lobbyName, Event{
		Kind:             EventQuestionData,
		Questions:        questions,
		Difficulty:       correctAnswers[0].Difficulty,
		QuestionDuration: int(e.cfg.QuestionMaxDuration[correctAnswers[0].Difficulty].Seconds()),
	}); err != nil {
		slog.ErrorContext(ctx, "publish question.data", slog.Any("error", err))
	}
}

func (e *Engine) fetchBatch(ctx context.Context, token string) ([]api.FormattedQuestion, []api.CorrectAnswer, error) {
	raw, err := e.trivia.Questions(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	durations := e.cfg.questionDurationSeconds()
	formatted := make([]api.FormattedQuestion, 0, len(raw))
	correct := make([]api.CorrectAnswer, 0, len(raw))
	for _, q := range raw {
		f, c := triviaapi.Format(q, durations)
		formatted = append(formatted, f)
		correct = append(correct, c)
	}
	return formatted, correct, nil
}

type answerOutcome struct {
	correctAnswer  string
	correctly      bool
	hasOutcome     bool
	damage         int
	terminal       bool
	results        map[string]GameResult
	advance        bool
	newBatch       bool
	nextDifficulty api.Difficulty
	nextDuration   int
}

func (e *Engine) handleAnswer(ctx context.Context, sess *session, data json.RawMessage) {
	req, err := api.DecodeJSON[api.QuestionAnsweredRequestData](data)
	if err != nil {
		errs.WriteWebsocketError(ctx, sess.conn, errs.InvalidRequestError(err, api.RequestTypeQuestionAnswer, "invalid answer"))
		return
	}

	if already := sess.markAnswered(); already {
		return
	}

	var out answerOutcome

	_, err = e.lobbies.WithLock(ctx, sess.lobbyName, LockTTL, func(lobby *Lobby) (*Lobby, error) {
		if lobby.State != LobbyStateInProgress {
			return lobby, nil
		}

		correct, ok := lobby.CurrentCorrectAnswer()
		if !ok {
			return lobby, nil
		}

		out.hasOutcome = true
		out.correctAnswer = correct.Answer

		withinTime := time.Since(lobby.QuestionStartTime) <= e.cfg.QuestionMaxDuration[correct.Difficulty]
		out.correctly = withinTime && req.Answer == correct.Answer

		if !out.correctly {
			out.damage = e.cfg.QuestionDamage[correct.Difficulty]
			lobby.Damage(sess.userID, out.damage)
		}

		lobby.CurrentAnswerCount++
		if lobby.CurrentAnswerCount < 2 {
			return lobby, nil
		}
		lobby.CurrentAnswerCount = 0

		gameExpired := time.Since(lobby.GameStartTime) > e.cfg.GameMaxDuration
		if lobby.AnyDepleted() || gameExpired {
			out.terminal = true
			lobby.State = LobbyStateFinished
			out.results = resultsByHP(lobby)
			return lobby, nil
		}

		out.advance = true
		if lobby.CurrentQuestionCount == len(lobby.CorrectAnswers)-1 {
			out.newBatch = true
		} else {
			lobby.CurrentQuestionCount++
		}
		lobby.QuestionStartTime = time.Now()

		if !out.newBatch {
			if next, ok := lobby.CurrentCorrectAnswer(); ok {
				out.nextDifficulty = next.Difficulty
				out.nextDuration = int(e.cfg.QuestionMaxDuration[next.Difficulty].Seconds())
			}
		}

		return lobby, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "handle answer", slog.Any("error", err))
		return
	}
	if !out.hasOutcome {
		return
	}

	if err := e.pubsub.Publish(ctx, sess.lobbyName, Event{
		Kind:            EventQuestionResult,
		AnsweringUserID: sess.userID,
		Correctly:       out.correctly,
		CorrectAnswer:   out.correctAnswer,
		Damage:          out.damage,
	}); err != nil {
		slog.ErrorContext(ctx, "publish question.result", slog.Any("error", err))
	}

	switch {
	case out.terminal:
		e.finishGame(ctx, sess.lobbyName, out.results)
	case out.newBatch:
		e.fetchNextBatchAndPublish(ctx, sess.lobbyName)
	case out.advance:
		if err := e.pubsub.Publish(ctx, sess.lobbyName, Event{
			Kind:             EventQuestionNext,
			Difficulty:       out.nextDifficulty,
			QuestionDuration: out.nextDuration,
		}); err != nil {
			slog.ErrorContext(ctx, "publish question.next", slog.Any("error", err))
		}
	}
}

func resultsByHP(lobby *Lobby) map[string]GameResult {
	ids := make([]string, 0, len(lobby.Users))
	for id := range lobby.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) != 2 {
		return nil
	}

	statusA, statusB := StatusByHP(lobby.Users[ids[0]].HP, lobby.Users[ids[1]].HP)
	return map[string]GameResult{
		ids[0]: {Status: statusA},
		ids[1]: {Status: statusB},
	}
}

func (e *Engine) fetchNextBatchAndPublish(ctx context.Context, lobbyName string) {
	lobby, err := e.lobbies.Get(ctx, lobbyName)
	if err != nil {
		e.failGame(ctx, lobbyName, fmt.Errorf("load lobby for next batch: %w", err))
		return
	}

	questions, correctAnswers, err := e.fetchBatch(ctx, lobby.TriviaToken)
	if err != nil {
		e.failGame(ctx, lobbyName, fmt.Errorf("fetch next batch: %w", err))
		return
	}

	now := time.Now()
	_, err = e.lobbies.WithLock(ctx, lobbyName, LockTTL, func(l *Lobby) (*Lobby, error) {
		l.CorrectAnswers = correctAnswers
		l.CurrentQuestionCount = 0
		l.QuestionStartTime = now
		return l, nil
	})
	if err != nil {
		e.failGame(ctx, lobbyName, fmt.Errorf("persist next batch: %w", err))
		return
	}

	var (
		duration   int
		difficulty api.Difficulty
	)
	if len(correctAnswers) > 0 {
		difficulty = correctAnswers[0].Difficulty
		duration = int(e.cfg.QuestionMaxDuration[difficulty].Seconds())
	}

	if err := e.pubsub.Publish(ctx, lobbyName, Event{
		Kind: EventQuestionData, Questions: questions, Difficulty: difficulty, QuestionDuration: duration,
	}); err != nil {
		slog.ErrorContext(ctx, "publish question.data", slog.Any("error", err))
	}
}

// failGame resolves an upstream-failure (spec's Question Source unreachable
// or malformed) by ending the current game as a draw for every occupant,
// the consistent choice spec leaves to the implementation.
func (e *Engine) failGame(ctx context.Context, lobbyName string, cause error) {
	slog.ErrorContext(ctx, "game-fatal upstream failure", slog.Any("error", cause))

	lobby, err := e.lobbies.WithLock(ctx, lobbyName, LockTTL, func(l *Lobby) (*Lobby, error) {
		l.State = LobbyStateFinished
		return l, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "fail game: persist finished state", slog.Any("error", err))
		return
	}

	results := make(map[string]GameResult, len(lobby.Users))
	for id := range lobby.Users {
		results[id] = GameResult{Status: api.GameStatusDraw}
	}

	e.finishGame(ctx, lobbyName, results)
}

// finishGame applies rank deltas (ranked lobbies only), persists the Game
// and UserGame rows atomically, broadcasts game.end, and removes the
// lobby record.
func (e *Engine) finishGame(ctx context.Context, lobbyName string, results map[string]GameResult) {
	if len(results) == 0 {
		return
	}

	lobby, err := e.lobbies.Get(ctx, lobbyName)
	if err != nil {
		slog.ErrorContext(ctx, "finish game: load lobby", slog.Any("error", err))
		return
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Each occupant's rank resolution only touches its own row; resolve both
	// concurrently rather than serially round-tripping the relational store.
	sqlResults := make([]store.GameResult, len(ids))
	rankGains := make([]int, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		user := lobby.Users[id]
		if user == nil {
			continue
		}
		res := results[id]
		opponentID, _, _ := lobby.Opponent(id)

		g.Go(func() error {
			if err := e.sql.EnsureUser(ctx, id, user.Name); err != nil {
				slog.ErrorContext(ctx, "ensure user", slog.Any("error", err))
			}

			rank := store.StartingRank
			if u, err := e.sql.GetUser(ctx, id); err == nil {
				rank = u.Rank
			}
			rankAfter := rank
			if lobby.Ranked {
				delta := RankDelta(res.Status, e.cfg.RankGain)
				rankAfter = ApplyRankDelta(rank, delta)
				rankGains[i] = delta
				if err := e.sql.UpdateRank(ctx, id, rankAfter); err != nil {
					slog.ErrorContext(ctx, "update rank", slog.Any("error", err))
				}
			}

			sqlResults[i] = store.GameResult{
				UserID: id, OpponentID: opponentID, Status: res.Status, RankAfter: rankAfter,
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range ids {
		res := results[id]
		res.RankGain = rankGains[i]
		results[id] = res
	}

	validResults := sqlResults[:0]
	for _, r := range sqlResults {
		if r.UserID != "" {
			validResults = append(validResults, r)
		}
	}

	gameType := store.GameTypeNormal
	if lobby.Ranked {
		gameType = store.GameTypeRanked
	}
	if err := e.sql.SaveGame(ctx, gameType, validResults); err != nil {
		slog.ErrorContext(ctx, "save game", slog.Any("error", err))
	}

	if err := e.pubsub.Publish(ctx, lobbyName, Event{Kind: EventGameEnd, Results: results}); err != nil {
		slog.ErrorContext(ctx, "publish game.end", slog.Any("error", err))
	}

	if err := e.lobbies.Delete(ctx, lobbyName); err != nil {
		slog.ErrorContext(ctx, "delete finished lobby", slog.Any("error", err))
	}
}

func (e *Engine) handleFifty(ctx context.Context, sess *session, data json.RawMessage) {
	req, err := api.DecodeJSON[api.FiftyRequestData](data)
	if err != nil {
		return // malformed payload: protocol-violation, silently ignored.
	}

	if already := sess.markFiftyUsed(); already {
		return
	}

	if len(req.Answers) != 4 {
		return
	}

	lobby, err := e.lobbies.Get(ctx, sess.lobbyName)
	if err != nil {
		return
	}

	correct, ok := lobby.CurrentCorrectAnswer()
	if !ok || correct.Type == api.QuestionTypeBoolean {
		return
	}

	seen := make(map[string]bool, len(req.Answers))
	hasCorrect := false
	for _, a := range req.Answers {
		if seen[a] {
			return
		}
		seen[a] = true
		if a == correct.Answer {
			hasCorrect = true
		}
	}
	if !hasCorrect {
		return
	}

	incorrect := triviaapi.FiftyFifty(req.Answers, correct.Answer)

	sess.write(ctx, api.Response[api.FiftyResponseData]{
		Type: api.ResponseTypeFiftyResponse,
		Data: api.FiftyResponseData{IncorrectAnswers: incorrect},
	})
}

func (e *Engine) handleDisconnect(ctx context.Context, sess *session) {
	var (
		deleteLobby bool
		terminal    bool
		results     map[string]GameResult
	)

	_, err := e.lobbies.WithLock(ctx, sess.lobbyName, LockTTL, func(l *Lobby) (*Lobby, error) {
		switch l.State {
		case LobbyStateInProgress:
			opponentID, _, ok := l.Opponent(sess.userID)
			l.State = LobbyStateFinished
			if ok {
				results = map[string]GameResult{
					sess.userID: {Status: api.GameStatusLoss},
					opponentID:  {Status: api.GameStatusWin},
				}
			}
			terminal = true
		default: // WAITING or FINISHED
			l.RemoveUser(sess.userID)
			deleteLobby = len(l.Users) == 0
			// A departing occupant's readiness no longer counts: whoever
			// eventually fills the empty seat must confirm ready again.
			l.ReadyCount = 0
		}
		return l, nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.ErrorContext(ctx, "handle disconnect", slog.Any("error", err))
		}
		return
	}

	switch {
	case terminal:
		e.finishGame(ctx, sess.lobbyName, results)
	case deleteLobby:
		if err := e.lobbies.Delete(ctx, sess.lobbyName); err != nil {
			slog.ErrorContext(ctx, "delete abandoned lobby", slog.Any("error", err))
		}
	}
}
