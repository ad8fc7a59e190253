package service

import (
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoringTest() *model.Test {
	test := &model.Test{Questions: []model.Question{
		{Type: model.QuestionMCQ, Options: []string{"A", "B"}, CorrectAnswer: "B", Points: 2},
		{Type: model.QuestionShortAnswer, CorrectAnswer: "paris", Points: 3},
		{Type: model.QuestionShortAnswer, CorrectAnswer: "42", Points: 1},
	}}
	test.Questions[0].ID = "q1"
	test.Questions[1].ID = "q2"
	test.Questions[2].ID = "q3"
	return test
}

func TestScore(t *testing.T) {
	cases := []struct {
		name    string
		answers []AnswerInput
		score   int
		correct []bool
	}{
		{
			name:    "B and Paris",
			answers: []AnswerInput{{"q1", "B"}, {"q2", "Paris"}},
			score:   2,
			correct: []bool{true, false},
		},
		{
			name:    "all correct",
			answers: []AnswerInput{{"q1", "B"}, {"q2", "paris"}, {"q3", "42"}},
			score:   6,
			correct: []bool{true, true, true},
		},
		{
			name:    "whitespace is not trimmed",
			answers: []AnswerInput{{"q3", " 42"}},
			score:   0,
			correct: []bool{false},
		},
		{
			name:  "no answers",
			score: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Score(scoringTest(), tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.score, res.Score)
			assert.Equal(t, 6, res.TotalPoints)
			require.Len(t, res.Answers, len(tc.correct))

			sum := 0
			for i, a := range res.Answers {
				assert.Equal(t, tc.correct[i], a.IsCorrect)
				if a.IsCorrect {
					assert.Positive(t, a.PointsAwarded)
				} else {
					assert.Zero(t, a.PointsAwarded)
				}
				sum += a.PointsAwarded
			}
			assert.Equal(t, res.Score, sum)
		})
	}
}

func TestScoreRejectsInvalidAnswers(t *testing.T) {
	_, err := Score(scoringTest(), []AnswerInput{{"q9", "B"}})
	assert.ErrorIs(t, err, util.ErrUnknownQuestion)
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = Score(scoringTest(), []AnswerInput{{"q1", "A"}, {"q1", "B"}})
	assert.ErrorIs(t, err, util.ErrDuplicateAnswer)
}
