package quiz_test

import (
	"testing"

	"triviaduel-backend/api"
	"triviaduel-backend/internal/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobby_AddUser(t *testing.T) {
	t.Parallel()

	l := quiz.NewLobby("duel-1", true)
	assert.False(t, l.IsFull())

	l.AddUser("u1", "alice")
	assert.True(t, l.HasUser("u1"))
	assert.False(t, l.IsFull())

	l.AddUser("u2", "bob")
	assert.True(t, l.IsFull())

	opponentID, opponent, ok := l.Opponent("u1")
	require.True(t, ok)
	assert.Equal(t, "u2", opponentID)
	assert.Equal(t, "bob", opponent.Name)
}

func TestLobby_Damage(t *testing.T) {
	t.Parallel()

	l := quiz.NewLobby("duel-1", false)
	l.AddUser("u1", "alice")

	l.Damage("u1", 30)
	assert.Equal(t, quiz.StartingHP-30, l.Users["u1"].HP)

	l.Damage("u1", 1000)
	assert.Equal(t, 0, l.Users["u1"].HP)
	assert.True(t, l.AnyDepleted())
}

func TestLobby_RemoveUser(t *testing.T) {
	t.Parallel()

	l := quiz.NewLobby("duel-1", false)
	l.AddUser("u1", "alice")
	l.RemoveUser("u1")
	assert.False(t, l.HasUser("u1"))
	assert.Len(t, l.Users, 0)
}

func TestLobby_CurrentCorrectAnswer(t *testing.T) {
	t.Parallel()

	l := quiz.NewLobby("duel-1", false)
	_, ok := l.CurrentCorrectAnswer()
	assert.False(t, ok)

	l.CorrectAnswers = []api.CorrectAnswer{{Answer: "Paris", Difficulty: api.DifficultyEasy}}
	l.CurrentQuestionCount = 0
	got, ok := l.CurrentCorrectAnswer()
	require.True(t, ok)
	assert.Equal(t, "Paris", got.Answer)

	l.CurrentQuestionCount = 1
	_, ok = l.CurrentCorrectAnswer()
	assert.False(t, ok)
}
