package repository

import (
	"context"
	"edu_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// CreateBatch inserts all assignments or none of them.
func (r *AssignmentRepository) CreateBatch(ctx context.Context, assignments []model.TestAssignment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range assignments {
			if err := tx.Omit("Test").Create(&assignments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]model.TestAssignment, error) {
	var assignments []model.TestAssignment
	err := r.DB.WithContext(ctx).
		Preload("Test.Questions", orderedQuestions).
		Preload("Test.Instructor").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&assignments).Error
	return assignments, err
}
