package model

import "gorm.io/datatypes"

// SelfStudyUser is a learner profile that studies without an instructor.
type SelfStudyUser struct {
	UUIDBase
	Name        string         `gorm:"size:100;not null" json:"name"`
	Email       string         `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Preferences datatypes.JSON `json:"preferences,omitempty"`
}

func (SelfStudyUser) TableName() string {
	return "self_study_users"
}
