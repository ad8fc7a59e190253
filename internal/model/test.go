package model

import (
	"slices"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMCQ         QuestionType = "MCQ"
	QuestionShortAnswer QuestionType = "SHORT_ANSWER"
)

func (t QuestionType) Valid() bool {
	return t == QuestionMCQ || t == QuestionShortAnswer
}

// swagger:model Test
type Test struct {
	UUIDBase
	Title                   string     `gorm:"size:255;not null" json:"title"`
	Description             string     `gorm:"type:text" json:"description"`
	ShowAnswersAfterAttempt bool       `json:"showAnswersAfterAttempt"`
	InstructorID            string     `gorm:"type:varchar(36);not null;index" json:"instructorId"`
	Instructor              *User      `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	SourceDocumentURL       string     `gorm:"size:512" json:"sourceDocumentUrl,omitempty"`
	Questions               []Question `gorm:"foreignKey:TestID" json:"questions"`
}

func (Test) TableName() string {
	return "tests"
}

// TotalPoints sums the points of every question of the test.
func (t *Test) TotalPoints() int {
	total := 0
	for _, q := range t.Questions {
		total += q.Points
	}
	return total
}

// RedactAnswers clears the answer key of every question in place.
func (t *Test) RedactAnswers() {
	for i := range t.Questions {
		t.Questions[i].CorrectAnswer = ""
	}
}

// swagger:model Question
type Question struct {
	UUIDBase
	TestID        string                     `gorm:"type:varchar(36);not null;index" json:"testId"`
	Type          QuestionType               `gorm:"size:20;not null" json:"type"`
	QuestionText  string                     `gorm:"type:text;not null" json:"questionText"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                     `gorm:"type:text;not null" json:"correctAnswer,omitempty"`
	Points        int                        `gorm:"not null" json:"points"`
	Position      int                        `gorm:"not null;default:0" json:"position"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) HasOption(value string) bool {
	return slices.Contains(q.Options, value)
}
