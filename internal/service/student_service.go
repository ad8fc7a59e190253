package service

import (
	"context"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/repository"
	"edu_quiz_backend/internal/util"
	"edu_quiz_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StudentService struct {
	UserRepo *repository.UserRepository
}

func NewStudentService(userRepo *repository.UserRepository) *StudentService {
	return &StudentService{UserRepo: userRepo}
}

// AddStudent links a student to the calling instructor.
func (s *StudentService) AddStudent(ctx context.Context, actor Actor, studentID string) (*model.StudentTeacherRelation, error) {
	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}

	student, err := s.UserRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	if student.Role != model.Student {
		return nil, util.ErrStudentNotFound
	}

	rel := &model.StudentTeacherRelation{StudentID: student.ID, InstructorID: actor.UserID}
	if err := s.UserRepo.CreateRelation(ctx, rel); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrRelationExists
		}
		return nil, err
	}
	rel.Student = student

	logger.Log.Info("Student linked", zap.String("studentId", student.ID), zap.String("instructorId", actor.UserID))
	return rel, nil
}

func (s *StudentService) ListMyStudents(ctx context.Context, actor Actor) ([]model.User, error) {
	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}
	return s.UserRepo.ListStudentsOfInstructor(ctx, actor.UserID)
}
