package quiz_test

import (
	"testing"

	"triviaduel-backend/api"
	"triviaduel-backend/internal/quiz"

	"github.com/stretchr/testify/assert"
)

func TestStatusByHP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		hpA, hpB           int
		wantA, wantB       api.GameStatus
	}{
		{"a wins", 40, 0, api.GameStatusWin, api.GameStatusLoss},
		{"b wins", 0, 40, api.GameStatusLoss, api.GameStatusWin},
		{"draw at zero", 0, 0, api.GameStatusDraw, api.GameStatusDraw},
		{"draw nonzero", 50, 50, api.GameStatusDraw, api.GameStatusDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotA, gotB := quiz.StatusByHP(tt.hpA, tt.hpB)
			assert.Equal(t, tt.wantA, gotA)
			assert.Equal(t, tt.wantB, gotB)
		})
	}
}

func TestRankDelta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 25, quiz.RankDelta(api.GameStatusWin, 25))
	assert.Equal(t, -25, quiz.RankDelta(api.GameStatusLoss, 25))
	assert.Equal(t, 0, quiz.RankDelta(api.GameStatusDraw, 25))
}

func TestApplyRankDelta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1025, quiz.ApplyRankDelta(1000, 25))
	assert.Equal(t, 0, quiz.ApplyRankDelta(10, -25))
	assert.Equal(t, 975, quiz.ApplyRankDelta(1000, -25))
}
