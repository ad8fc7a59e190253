package model

import (
	"errors"

	"gorm.io/datatypes"
)

type EvaluationStatus string

const (
	Unevaluated         EvaluationStatus = "UNEVALUATED"
	AIEvaluated         EvaluationStatus = "AI_EVALUATED"
	InstructorEvaluated EvaluationStatus = "INSTRUCTOR_EVALUATED"
)

func (s EvaluationStatus) rank() int {
	switch s {
	case AIEvaluated:
		return 1
	case InstructorEvaluated:
		return 2
	}
	return 0
}

// Advance returns the later of the two states; evaluation never moves backwards.
func (s EvaluationStatus) Advance(next EvaluationStatus) EvaluationStatus {
	if next.rank() < s.rank() {
		return s
	}
	return next
}

var ErrAttemptOwner = errors.New("attempt must have exactly one of studentId or selfStudyUserId")

// swagger:model TestAttempt
type TestAttempt struct {
	UUIDBase
	TestID             string           `gorm:"type:varchar(36);not null;index" json:"testId"`
	Test               *Test            `gorm:"foreignKey:TestID" json:"test,omitempty"`
	StudentID          *string          `gorm:"type:varchar(36);index" json:"studentId"`
	Student            *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	SelfStudyUserID    *string          `gorm:"type:varchar(36);index" json:"selfStudyUserId"`
	TotalPoints        int              `gorm:"not null" json:"totalPoints"`
	Score              int              `gorm:"not null" json:"score"`
	Answers            []Answer         `gorm:"foreignKey:AttemptID" json:"answers"`
	AIEvaluation       datatypes.JSON   `json:"aiEvaluation,omitempty"`
	InstructorFeedback *string          `gorm:"type:text" json:"instructorFeedback"`
	EvaluationStatus   EvaluationStatus `gorm:"size:30;not null;default:'UNEVALUATED'" json:"evaluationStatus"`
	IdempotencyKey     *string          `gorm:"size:191;uniqueIndex" json:"-"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

// SubmitterID returns whichever of the two owner columns is set.
func (a *TestAttempt) SubmitterID() string {
	if a.StudentID != nil {
		return *a.StudentID
	}
	if a.SelfStudyUserID != nil {
		return *a.SelfStudyUserID
	}
	return ""
}

func (a *TestAttempt) IsSelfStudy() bool {
	return a.SelfStudyUserID != nil
}

// ValidateOwner enforces that exactly one owner column is set.
func (a *TestAttempt) ValidateOwner() error {
	if (a.StudentID == nil) == (a.SelfStudyUserID == nil) {
		return ErrAttemptOwner
	}
	return nil
}

// swagger:model Answer
type Answer struct {
	UUIDBase
	AttemptID     string    `gorm:"type:varchar(36);not null;index" json:"attemptId"`
	QuestionID    string    `gorm:"type:varchar(36);not null;index" json:"questionId"`
	Question      *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	AnswerText    string    `gorm:"type:text" json:"answerText"`
	IsCorrect     bool      `json:"isCorrect"`
	PointsAwarded int       `gorm:"not null" json:"pointsAwarded"`
}

func (Answer) TableName() string {
	return "answers"
}
