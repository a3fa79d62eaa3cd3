package api

// GameReadyRequestData is the (empty) payload of a game.ready message.
type GameReadyRequestData struct{}

// QuestionAnsweredRequestData is the payload of a question.answered message.
type QuestionAnsweredRequestData struct {
	Answer string `json:"answer"`
}

// FiftyRequestData is the payload of a fifty.request message.
type FiftyRequestData struct {
	Answers []string `json:"answers"`
}

// GameStartResponseData is the payload of a game.start event.
type GameStartResponseData struct {
	Opponent string `json:"opponent"`
	Duration int    `json:"duration"`
}

// QuestionDataResponseData is the payload of a question.data event.
type QuestionDataResponseData struct {
	Questions []FormattedQuestion `json:"questions"`
}

// QuestionResultResponseData is sent only to the player who submitted the
// answer being scored.
type QuestionResultResponseData struct {
	Correctly     bool   `json:"correctly"`
	CorrectAnswer string `json:"correct_answer"`
	Damage        int    `json:"damage"`
}

// OpponentAnsweredResponseData is sent to the peer of the player who
// submitted the answer being scored; it omits the correct answer.
type OpponentAnsweredResponseData struct {
	Correctly bool `json:"correctly"`
	Damage    int  `json:"damage"`
}

// FiftyResponseData is the payload of a fifty.response event, sent only to
// the requesting socket.
type FiftyResponseData struct {
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// GameStatus is the terminal outcome of a game for a single user.
type GameStatus string

const (
	GameStatusWin  GameStatus = "win"
	GameStatusLoss GameStatus = "loss"
	GameStatusDraw GameStatus = "draw"
)

// GameEndResponseData is the payload of a game.end event, projected per
// recipient from the internal end-of-game resolution.
type GameEndResponseData struct {
	Status   GameStatus `json:"status"`
	RankGain int        `json:"rank_gain"`
}
