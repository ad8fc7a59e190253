package model

import "time"

// swagger:model TestAssignment
type TestAssignment struct {
	UUIDBase
	TestID     string     `gorm:"type:varchar(36);not null;index" json:"testId"`
	Test       *Test      `gorm:"foreignKey:TestID" json:"test,omitempty"`
	StudentID  string     `gorm:"type:varchar(36);not null;index" json:"studentId"`
	AssignedBy string     `gorm:"type:varchar(36);not null;index" json:"assignedBy"`
	DueDate    *time.Time `json:"dueDate"`
}

func (TestAssignment) TableName() string {
	return "test_assignments"
}
