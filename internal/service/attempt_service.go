package service

import (
	"context"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/repository"
	"edu_quiz_backend/internal/util"
	"edu_quiz_backend/pkg/logger"
	"edu_quiz_backend/pkg/monitoring"
	"edu_quiz_backend/pkg/tracing"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	Tests       *TestService
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, tests *TestService) *AttemptService {
	return &AttemptService{
		AttemptRepo: attemptRepo,
		Tests:       tests,
	}
}

type SubmitInput struct {
	TestID      string
	Answers     []AnswerInput
	IsSelfStudy bool
	// IdempotencyKey, when set, makes a retried submission return the first attempt.
	IdempotencyKey string
}

// Submit grades and stores an attempt. The returned bool is false when an earlier attempt
// with the same idempotency key was returned instead of creating one.
func (s *AttemptService) Submit(ctx context.Context, actor Actor, in SubmitInput) (attempt *model.TestAttempt, created bool, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.Submit")
	defer func() { tracing.End(span, err) }()

	if actor.UserID == "" {
		return nil, false, util.ErrAuthMissing
	}

	var key *string
	if k := strings.TrimSpace(in.IdempotencyKey); k != "" {
		scoped := actor.UserID + ":" + k
		key = &scoped
		existing, err := s.findReplay(ctx, scoped, in.TestID)
		if err != nil || existing != nil {
			return s.present(actor, existing), false, err
		}
	}

	test, err := s.Tests.Load(ctx, in.TestID)
	if err != nil {
		return nil, false, err
	}

	graded, err := Score(test, in.Answers)
	if err != nil {
		return nil, false, err
	}

	attempt = &model.TestAttempt{
		TestID:           test.ID,
		TotalPoints:      graded.TotalPoints,
		Score:            graded.Score,
		Answers:          graded.Answers,
		EvaluationStatus: model.Unevaluated,
		IdempotencyKey:   key,
	}
	submitter := actor.UserID
	if in.IsSelfStudy {
		attempt.SelfStudyUserID = &submitter
	} else {
		attempt.StudentID = &submitter
	}

	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		if key != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.findReplay(ctx, *key, in.TestID)
			if ferr == nil && existing != nil {
				return s.present(actor, existing), false, nil
			}
		}
		return nil, false, err
	}

	monitoring.ObserveAttempt(in.IsSelfStudy, attempt.Score, attempt.TotalPoints)
	span.SetAttributes(
		attribute.String("attempt.id", attempt.ID),
		attribute.Int("attempt.score", attempt.Score),
		attribute.Int("attempt.total_points", attempt.TotalPoints),
	)
	logger.Log.Info("Attempt scored",
		zap.String("attemptId", attempt.ID),
		zap.String("testId", test.ID),
		zap.String("submitterId", submitter),
		zap.Bool("selfStudy", in.IsSelfStudy),
		zap.Int("score", attempt.Score),
		zap.Int("totalPoints", attempt.TotalPoints))

	stored, err := s.AttemptRepo.FindByID(ctx, attempt.ID)
	if err != nil {
		return nil, false, err
	}
	return s.present(actor, stored), true, nil
}

// findReplay returns the attempt stored under key, or nil when there is none.
func (s *AttemptService) findReplay(ctx context.Context, key, testID string) (*model.TestAttempt, error) {
	existing, err := s.AttemptRepo.FindByIdempotencyKey(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if existing.TestID != testID {
		return nil, fmt.Errorf("%w: idempotency key already used for another test", util.ErrValidation)
	}
	return existing, nil
}

// List returns attempts on the caller's tests for instructors and the caller's own
// attempts for everyone else.
func (s *AttemptService) List(ctx context.Context, actor Actor) ([]model.TestAttempt, error) {
	if actor.UserID == "" {
		return nil, util.ErrAuthMissing
	}

	var (
		attempts []model.TestAttempt
		err      error
	)
	if actor.IsInstructor() {
		attempts, err = s.AttemptRepo.ListForInstructor(ctx, actor.UserID)
	} else {
		attempts, err = s.AttemptRepo.ListForSubmitter(ctx, actor.UserID)
	}
	if err != nil {
		return nil, err
	}
	for i := range attempts {
		s.present(actor, &attempts[i])
	}
	return attempts, nil
}

// RecordAIEvaluation stores an opaque AI evaluation payload. The score is untouched.
func (s *AttemptService) RecordAIEvaluation(ctx context.Context, actor Actor, attemptID string, payload json.RawMessage) (attempt *model.TestAttempt, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.RecordAIEvaluation")
	defer func() { tracing.End(span, err) }()

	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, fmt.Errorf("%w: aiEvaluation must be valid JSON", util.ErrValidation)
	}

	attempt, err = s.annotatable(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}

	status := attempt.EvaluationStatus.Advance(model.AIEvaluated)
	err = s.AttemptRepo.UpdateEvaluation(ctx, attempt.ID, map[string]interface{}{
		"ai_evaluation":     datatypes.JSON(payload),
		"evaluation_status": string(status),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("AI evaluation recorded",
		zap.String("attemptId", attempt.ID),
		zap.String("instructorId", actor.UserID),
		zap.String("status", string(status)))
	return s.reload(ctx, actor, attempt.ID)
}

// RecordInstructorFeedback replaces any earlier feedback on the attempt.
func (s *AttemptService) RecordInstructorFeedback(ctx context.Context, actor Actor, attemptID, feedback string) (attempt *model.TestAttempt, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.RecordInstructorFeedback")
	defer func() { tracing.End(span, err) }()

	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, fmt.Errorf("%w: feedback is required", util.ErrValidation)
	}

	attempt, err = s.annotatable(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}

	status := attempt.EvaluationStatus.Advance(model.InstructorEvaluated)
	err = s.AttemptRepo.UpdateEvaluation(ctx, attempt.ID, map[string]interface{}{
		"instructor_feedback": feedback,
		"evaluation_status":   string(status),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Instructor feedback recorded",
		zap.String("attemptId", attempt.ID),
		zap.String("instructorId", actor.UserID))
	return s.reload(ctx, actor, attempt.ID)
}

// annotatable loads an attempt the instructor may evaluate: one on a test they authored.
func (s *AttemptService) annotatable(ctx context.Context, actor Actor, attemptID string) (*model.TestAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.Test == nil {
		return nil, util.ErrTestNotFound
	}
	if attempt.Test.InstructorID != actor.UserID {
		return nil, fmt.Errorf("%w: attempt belongs to another instructor's test", util.ErrPermissionDenied)
	}
	return attempt, nil
}

func (s *AttemptService) reload(ctx context.Context, actor Actor, id string) (*model.TestAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(actor, attempt), nil
}

// present hides the answer key from submitters unless the test reveals answers after an attempt.
func (s *AttemptService) present(actor Actor, attempt *model.TestAttempt) *model.TestAttempt {
	if attempt == nil || attempt.Test == nil {
		return attempt
	}
	if attempt.Test.InstructorID == actor.UserID || attempt.Test.ShowAnswersAfterAttempt {
		return attempt
	}
	for i := range attempt.Answers {
		if q := attempt.Answers[i].Question; q != nil {
			q.CorrectAnswer = ""
		}
	}
	return attempt
}
