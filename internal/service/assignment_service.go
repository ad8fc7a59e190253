package service

import (
	"context"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/repository"
	"edu_quiz_backend/internal/util"
	"edu_quiz_backend/pkg/logger"
	"edu_quiz_backend/pkg/monitoring"
	"edu_quiz_backend/pkg/tracing"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	TestRepo       *repository.TestRepository
	UserRepo       *repository.UserRepository
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, testRepo *repository.TestRepository, userRepo *repository.UserRepository) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		TestRepo:       testRepo,
		UserRepo:       userRepo,
	}
}

// Assign creates one assignment row per entry of studentIDs, repeats included.
// Either every row is stored or none is.
func (s *AssignmentService) Assign(ctx context.Context, actor Actor, testID string, studentIDs []string, dueDate *time.Time) (assignments []model.TestAssignment, err error) {
	ctx, span := tracing.Start(ctx, "AssignmentService.Assign")
	defer func() { tracing.End(span, err) }()

	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}
	if len(studentIDs) == 0 {
		return nil, fmt.Errorf("%w: studentIds must not be empty", util.ErrValidation)
	}

	test, err := s.TestRepo.FindByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	if test.InstructorID != actor.UserID {
		return nil, fmt.Errorf("%w: only the author can assign this test", util.ErrPermissionDenied)
	}

	students, err := s.UserRepo.FindStudentsByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(students))
	for _, st := range students {
		known[st.ID] = true
	}
	for _, id := range studentIDs {
		if !known[id] {
			return nil, fmt.Errorf("%w: %s", util.ErrStudentNotFound, id)
		}
	}

	assignments = make([]model.TestAssignment, len(studentIDs))
	for i, id := range studentIDs {
		assignments[i] = model.TestAssignment{
			TestID:     test.ID,
			StudentID:  id,
			AssignedBy: actor.UserID,
			DueDate:    dueDate,
		}
	}
	if err := s.AssignmentRepo.CreateBatch(ctx, assignments); err != nil {
		return nil, err
	}

	monitoring.AssignmentsCreated.Add(float64(len(assignments)))
	span.SetAttributes(attribute.String("test.id", test.ID), attribute.Int("assignments", len(assignments)))
	logger.Log.Info("Test assigned",
		zap.String("testId", test.ID),
		zap.String("instructorId", actor.UserID),
		zap.Int("students", len(assignments)))
	return assignments, nil
}

// ListAssigned returns the calling student's assignments with their tests, answer keys hidden.
func (s *AssignmentService) ListAssigned(ctx context.Context, actor Actor) ([]model.TestAssignment, error) {
	if err := actor.Require(model.Student); err != nil {
		return nil, err
	}
	assignments, err := s.AssignmentRepo.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		assignments[i].Test = viewFor(actor, assignments[i].Test)
	}
	return assignments, nil
}
