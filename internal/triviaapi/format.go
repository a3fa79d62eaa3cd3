package triviaapi

import (
	"html"
	"math/rand"

	"triviaduel-backend/api"
)

// Format decodes a raw provider question into its wire representation and
// the server-only correct answer retained for scoring. Boolean questions
// keep the fixed ["True","False"] order; multiple-choice answers are
// shuffled.
func Format(q api.TriviaAPIQuestion, durations map[api.Difficulty]int) (api.FormattedQuestion, api.CorrectAnswer) {
	correct := html.UnescapeString(q.CorrectAnswer)

	var answers []string
	if q.Type == api.QuestionTypeBoolean {
		answers = []string{"True", "False"}
	} else {
		answers = make([]string, 0, len(q.IncorrectAnswers)+1)
		answers = append(answers, correct)
		for _, a := range q.IncorrectAnswers {
			answers = append(answers, html.UnescapeString(a))
		}
		rand.Shuffle(len(answers), func(i, j int) {
			answers[i], answers[j] = answers[j], answers[i]
		})
	}

	formatted := api.FormattedQuestion{
		Category:   html.UnescapeString(q.Category),
		Question:   html.UnescapeString(q.Question),
		Answers:    answers,
		Difficulty: q.Difficulty,
		Duration:   durations[q.Difficulty],
		Type:       q.Type,
	}

	return formatted, api.CorrectAnswer{Answer: correct, Difficulty: q.Difficulty, Type: q.Type}
}

// FiftyFifty samples 2 of the 3 incorrect answers uniformly at random.
func FiftyFifty(answers []string, correct string) []string {
	incorrect := make([]string, 0, 3)
	for _, a := range answers {
		if a != correct {
			incorrect = append(incorrect, a)
		}
	}
	rand.Shuffle(len(incorrect), func(i, j int) {
		incorrect[i], incorrect[j] = incorrect[j], incorrect[i]
	})
	if len(incorrect) > 2 {
		incorrect = incorrect[:2]
	}
	return incorrect
}
