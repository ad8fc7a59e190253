package model

type UserRole string

const (
	Student    UserRole = "STUDENT"
	Instructor UserRole = "INSTRUCTOR"
)

func (r UserRole) Valid() bool {
	return r == Student || r == Instructor
}

// swagger:model User
type User struct {
	UUIDBase
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;default:'STUDENT'" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// StudentTeacherRelation links a student to an instructor. Rows are never deleted.
type StudentTeacherRelation struct {
	UUIDBase
	StudentID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_relation_pair" json:"studentId"`
	InstructorID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_relation_pair;index" json:"instructorId"`
	Student      *User  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (StudentTeacherRelation) TableName() string {
	return "student_teacher_relations"
}
