package service

import (
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/util"
	"fmt"
)

// AnswerInput is one submitted answer.
type AnswerInput struct {
	QuestionID string
	AnswerText string
}

// ScoreResult is a graded submission, ready to persist.
type ScoreResult struct {
	Answers     []model.Answer
	Score       int
	TotalPoints int
}

// Score grades answers against test. An answer is correct only when its text equals the
// question's correct answer exactly. TotalPoints covers every question of the test, answered
// or not. Answers to questions outside the test, or a second answer to the same question,
// reject the whole submission.
func Score(test *model.Test, answers []AnswerInput) (*ScoreResult, error) {
	questions := make(map[string]*model.Question, len(test.Questions))
	for i := range test.Questions {
		questions[test.Questions[i].ID] = &test.Questions[i]
	}

	result := &ScoreResult{
		Answers:     make([]model.Answer, 0, len(answers)),
		TotalPoints: test.TotalPoints(),
	}
	seen := make(map[string]bool, len(answers))

	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s", util.ErrValidation, util.ErrUnknownQuestion, a.QuestionID)
		}
		if seen[a.QuestionID] {
			return nil, fmt.Errorf("%w: %w: %s", util.ErrValidation, util.ErrDuplicateAnswer, a.QuestionID)
		}
		seen[a.QuestionID] = true

		isCorrect := q.CorrectAnswer == a.AnswerText
		points := 0
		if isCorrect {
			points = q.Points
		}
		result.Score += points
		result.Answers = append(result.Answers, model.Answer{
			QuestionID:    q.ID,
			AnswerText:    a.AnswerText,
			IsCorrect:     isCorrect,
			PointsAwarded: points,
		})
	}
	return result, nil
}
