package repository

import (
	"context"
	"edu_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

// FindStudentsByIDs returns the users among ids that have the STUDENT role.
func (r *UserRepository) FindStudentsByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).
		Where("id IN ? AND role = ?", ids, string(model.Student)).
		Find(&users).Error
	return users, err
}

// ListStudentsOfInstructor returns the students linked to the instructor through a
// student-teacher relation.
func (r *UserRepository) ListStudentsOfInstructor(ctx context.Context, instructorID string) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Joins("JOIN student_teacher_relations rel ON rel.student_id = users.id AND rel.deleted_at IS NULL").
		Where("rel.instructor_id = ?", instructorID).
		Order("users.name asc").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) CreateRelation(ctx context.Context, rel *model.StudentTeacherRelation) error {
	return r.DB.WithContext(ctx).Omit("Student").Create(rel).Error
}

type SelfStudyUserRepository struct {
	DB *gorm.DB
}

func NewSelfStudyUserRepository(db *gorm.DB) *SelfStudyUserRepository {
	return &SelfStudyUserRepository{DB: db}
}

func (r *SelfStudyUserRepository) Create(ctx context.Context, user *model.SelfStudyUser) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *SelfStudyUserRepository) FindByEmail(ctx context.Context, email string) (*model.SelfStudyUser, error) {
	var user model.SelfStudyUser
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}
