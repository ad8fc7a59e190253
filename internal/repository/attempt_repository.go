package repository

import (
	"context"
	"edu_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Test").
		Preload("Student").
		Preload("Answers.Question")
}

// Create inserts the attempt and its answers in one transaction.
func (r *AttemptRepository) Create(ctx context.Context, attempt *model.TestAttempt) error {
	if err := attempt.ValidateOwner(); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Test", "Student", "Answers").Create(attempt).Error; err != nil {
			return err
		}
		if len(attempt.Answers) == 0 {
			return nil
		}
		for i := range attempt.Answers {
			attempt.Answers[i].AttemptID = attempt.ID
		}
		return tx.Omit("Question").Create(&attempt.Answers).Error
	})
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.withDetails(ctx).First(&attempt, "id = ?", id).Error
	return &attempt, err
}

func (r *AttemptRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.withDetails(ctx).First(&attempt, "idempotency_key = ?", key).Error
	return &attempt, err
}

// ListForInstructor returns every attempt on tests authored by the instructor.
func (r *AttemptRepository) ListForInstructor(ctx context.Context, instructorID string) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.withDetails(ctx).
		Joins("JOIN tests ON tests.id = test_attempts.test_id AND tests.deleted_at IS NULL").
		Where("tests.instructor_id = ?", instructorID).
		Order("test_attempts.created_at desc").
		Find(&attempts).Error
	return attempts, err
}

// ListForSubmitter returns the attempts a user submitted, assigned or self-study.
func (r *AttemptRepository) ListForSubmitter(ctx context.Context, userID string) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.withDetails(ctx).
		Where("test_attempts.student_id = ? OR test_attempts.self_study_user_id = ?", userID, userID).
		Order("test_attempts.created_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) UpdateEvaluation(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.DB.WithContext(ctx).Model(&model.TestAttempt{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
