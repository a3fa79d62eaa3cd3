package api

// Difficulty is the external trivia provider's difficulty rating, which
// drives both the per-question timeout and the wrong-answer damage.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionType distinguishes true/false questions from 4-way multiple choice.
type QuestionType string

const (
	QuestionTypeBoolean  QuestionType = "boolean"
	QuestionTypeMultiple QuestionType = "multiple"
)

// TriviaAPIQuestion is a single question as returned by the external trivia
// provider, HTML-escaped and with the correct answer called out separately.
type TriviaAPIQuestion struct {
	Category         string       `json:"category"`
	Type             QuestionType `json:"type"`
	Difficulty       Difficulty   `json:"difficulty"`
	Question         string       `json:"question"`
	CorrectAnswer    string       `json:"correct_answer"`
	IncorrectAnswers []string     `json:"incorrect_answers"`
}

// TriviaAPITokenResponse is the response of the provider's session token
// endpoint.
type TriviaAPITokenResponse struct {
	Token string `json:"token"`
}

// TriviaAPIQuestionsResponse is the response of the provider's question
// batch endpoint.
type TriviaAPIQuestionsResponse struct {
	ResponseCode int                 `json:"response_code"`
	Results      []TriviaAPIQuestion `json:"results"`
}

// FormattedQuestion is the decoded, shuffled, client-facing representation
// of a question. The correct answer is never included.
type FormattedQuestion struct {
	Category   string       `json:"category"`
	Question   string       `json:"question"`
	Answers    []string     `json:"answers"`
	Difficulty Difficulty   `json:"difficulty"`
	Duration   int          `json:"duration"`
	Type       QuestionType `json:"type"`
}

// CorrectAnswer is the server-side-only record of a formatted question's
// correct answer, retained so the engine can score submissions without
// re-querying the provider.
type CorrectAnswer struct {
	Answer     string       `json:"answer"`
	Difficulty Difficulty   `json:"difficulty"`
	Type       QuestionType `json:"type"`
}
