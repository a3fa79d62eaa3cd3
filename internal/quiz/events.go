package quiz

import "triviaduel-backend/api"

// EventKind identifies a message broadcast on a lobby's pub/sub group.
type EventKind string

const (
	EventGamePrepare    EventKind = "game.prepare"
	EventGameStart      EventKind = "game.start"
	EventQuestionData   EventKind = "question.data"
	EventQuestionNext   EventKind = "question.next"
	EventQuestionResult EventKind = "question.result"
	EventGameEnd        EventKind = "game.end"
)

// Event is the envelope published on a lobby's pub/sub channel. Only the
// fields relevant to Kind are populated. Each subscriber's own handler
// projects it down to the wire message(s) it sends on its own socket,
// mirroring the original per-consumer event handler methods this engine is
// grounded on: the answerer and its opponent receive different payloads
// for the same question.answered outcome.
type Event struct {
	Kind EventKind `json:"kind"`

	// game.start
	Opponents map[string]string `json:"opponents,omitempty"` // user id -> opponent name
	Duration  int               `json:"duration,omitempty"`

	// question.data / question.next. Difficulty and QuestionDuration are
	// internal-only: each socket's own handler uses QuestionDuration to
	// schedule its own per-question timeout (see engine.go scheduleTimeout);
	// Difficulty is carried alongside it and not read by the handler. Neither
	// is projected onto the client-facing question.next payload.
	Questions        []api.FormattedQuestion `json:"questions,omitempty"`
	Difficulty       api.Difficulty          `json:"difficulty,omitempty"`
	QuestionDuration int                     `json:"question_duration,omitempty"`

	// question.result
	AnsweringUserID string `json:"answering_user_id,omitempty"`
	Correctly       bool   `json:"correctly,omitempty"`
	CorrectAnswer   string `json:"correct_answer,omitempty"`
	Damage          int    `json:"damage,omitempty"`

	// game.end
	Results map[string]GameResult `json:"results,omitempty"`
}

// GameResult is one user's projected outcome of a finished game.
type GameResult struct {
	Status   api.GameStatus `json:"status"`
	RankGain int            `json:"rank_gain"`
}
