package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluationStatusAdvance(t *testing.T) {
	cases := []struct {
		from, next, want EvaluationStatus
	}{
		{Unevaluated, AIEvaluated, AIEvaluated},
		{Unevaluated, InstructorEvaluated, InstructorEvaluated},
		{AIEvaluated, InstructorEvaluated, InstructorEvaluated},
		{AIEvaluated, AIEvaluated, AIEvaluated},
		{InstructorEvaluated, AIEvaluated, InstructorEvaluated},
		{InstructorEvaluated, InstructorEvaluated, InstructorEvaluated},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.Advance(tc.next), "%s -> %s", tc.from, tc.next)
	}
}

func TestAttemptValidateOwner(t *testing.T) {
	id := "u1"
	assert.NoError(t, (&TestAttempt{StudentID: &id}).ValidateOwner())
	assert.NoError(t, (&TestAttempt{SelfStudyUserID: &id}).ValidateOwner())
	assert.ErrorIs(t, (&TestAttempt{}).ValidateOwner(), ErrAttemptOwner)
	assert.ErrorIs(t, (&TestAttempt{StudentID: &id, SelfStudyUserID: &id}).ValidateOwner(), ErrAttemptOwner)

	self := &TestAttempt{SelfStudyUserID: &id}
	assert.True(t, self.IsSelfStudy())
	assert.Equal(t, "u1", self.SubmitterID())
}

func TestTestTotalPointsAndRedaction(t *testing.T) {
	test := &Test{Questions: []Question{
		{Type: QuestionMCQ, Points: 2, CorrectAnswer: "B", Options: []string{"A", "B"}},
		{Type: QuestionShortAnswer, Points: 3, CorrectAnswer: "Paris"},
	}}
	assert.Equal(t, 5, test.TotalPoints())
	assert.True(t, test.Questions[0].HasOption("B"))
	assert.False(t, test.Questions[0].HasOption("b"))

	test.RedactAnswers()
	for _, q := range test.Questions {
		assert.Empty(t, q.CorrectAnswer)
	}
	assert.Equal(t, 5, test.TotalPoints())
}

func TestRoleAndQuestionTypeValid(t *testing.T) {
	assert.True(t, Student.Valid())
	assert.True(t, Instructor.Valid())
	assert.False(t, UserRole("admin").Valid())
	assert.True(t, QuestionMCQ.Valid())
	assert.True(t, QuestionShortAnswer.Valid())
	assert.False(t, QuestionType("ESSAY").Valid())
}
