package service

import (
	"bytes"
	"context"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/repository"
	"edu_quiz_backend/internal/util"
	"edu_quiz_backend/pkg/logger"
	"edu_quiz_backend/pkg/tracing"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TestService struct {
	TestRepo       *repository.TestRepository
	Cache          repository.TestCache
	Storage        *StorageService
	MaxUploadBytes int64
}

func NewTestService(testRepo *repository.TestRepository, cache repository.TestCache, storage *StorageService, maxUploadMB int64) *TestService {
	if cache == nil {
		cache = repository.NewTestCache(nil, 0)
	}
	return &TestService{
		TestRepo:       testRepo,
		Cache:          cache,
		Storage:        storage,
		MaxUploadBytes: maxUploadMB << 20,
	}
}

// QuestionInput is one question of a new test. Question and LegacyCorrectAnswer carry the
// older client field names and are used only when the current ones are empty.
type QuestionInput struct {
	Type                model.QuestionType
	QuestionText        string
	LegacyQuestion      string
	Options             []string
	CorrectAnswer       string
	LegacyCorrectAnswer string
	Points              int
}

type CreateTestInput struct {
	Title                   string
	Description             string
	ShowAnswersAfterAttempt bool
	Questions               []QuestionInput
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func buildQuestion(i int, in QuestionInput) (model.Question, error) {
	q := model.Question{
		Type:          in.Type,
		QuestionText:  strings.TrimSpace(firstNonEmpty(in.QuestionText, in.LegacyQuestion)),
		CorrectAnswer: firstNonEmpty(in.CorrectAnswer, in.LegacyCorrectAnswer),
		Points:        in.Points,
		Options:       []string{},
	}

	invalid := func(msg string) error {
		return fmt.Errorf("%w: question %d: %s", util.ErrValidation, i+1, msg)
	}

	if !q.Type.Valid() {
		return q, invalid("type must be MCQ or SHORT_ANSWER")
	}
	if q.QuestionText == "" {
		return q, invalid("questionText is required")
	}
	if q.CorrectAnswer == "" {
		return q, invalid("correctAnswer is required")
	}
	if q.Points < 1 {
		return q, invalid("points must be at least 1")
	}

	switch q.Type {
	case model.QuestionMCQ:
		if len(in.Options) == 0 {
			return q, invalid("MCQ questions need options")
		}
		q.Options = append(q.Options, in.Options...)
		if !q.HasOption(q.CorrectAnswer) {
			return q, invalid("correctAnswer must be one of the options")
		}
	case model.QuestionShortAnswer:
		if len(in.Options) > 0 {
			return q, invalid("SHORT_ANSWER questions take no options")
		}
	}
	return q, nil
}

// Create validates and stores a test with its questions in submission order.
func (s *TestService) Create(ctx context.Context, actor Actor, in CreateTestInput) (test *model.Test, err error) {
	ctx, span := tracing.Start(ctx, "TestService.Create")
	defer func() { tracing.End(span, err) }()

	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if len(in.Questions) == 0 {
		return nil, fmt.Errorf("%w: a test needs at least one question", util.ErrValidation)
	}

	questions := make([]model.Question, 0, len(in.Questions))
	for i, qi := range in.Questions {
		q, err := buildQuestion(i, qi)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	test = &model.Test{
		Title:                   title,
		Description:             in.Description,
		ShowAnswersAfterAttempt: in.ShowAnswersAfterAttempt,
		InstructorID:            actor.UserID,
		Questions:               questions,
	}
	if err := s.TestRepo.CreateWithQuestions(ctx, test); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("test.id", test.ID), attribute.Int("test.questions", len(questions)))
	logger.Log.Info("Test created",
		zap.String("testId", test.ID),
		zap.String("instructorId", actor.UserID),
		zap.Int("questions", len(questions)),
		zap.Int("totalPoints", test.TotalPoints()))
	return test, nil
}

// List returns the caller's authored tests with attempt and assignment counts.
func (s *TestService) List(ctx context.Context, actor Actor) ([]repository.TestSummary, error) {
	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}
	return s.TestRepo.ListByInstructor(ctx, actor.UserID)
}

// Load returns the full test aggregate including the answer key.
func (s *TestService) Load(ctx context.Context, id string) (*model.Test, error) {
	if test, ok := s.Cache.Get(ctx, id); ok {
		return test, nil
	}

	test, err := s.TestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	s.Cache.Set(ctx, test)
	return test, nil
}

// Get returns a test for display. Only the author sees the answer key.
func (s *TestService) Get(ctx context.Context, actor Actor, id string) (*model.Test, error) {
	test, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewFor(actor, test), nil
}

// viewFor returns test as seen by actor, redacting a copy for anyone but the author.
func viewFor(actor Actor, test *model.Test) *model.Test {
	if test == nil || test.InstructorID == actor.UserID {
		return test
	}
	redacted := *test
	redacted.Questions = append([]model.Question(nil), test.Questions...)
	redacted.RedactAnswers()
	return &redacted
}

// AttachDocument stores a PDF as the test's source document.
func (s *TestService) AttachDocument(ctx context.Context, actor Actor, testID, filename string, reader io.Reader, size int64) (test *model.Test, err error) {
	ctx, span := tracing.Start(ctx, "TestService.AttachDocument")
	defer func() { tracing.End(span, err) }()

	if err := actor.Require(model.Instructor); err != nil {
		return nil, err
	}

	test, err = s.TestRepo.FindByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	if test.InstructorID != actor.UserID {
		return nil, fmt.Errorf("%w: only the author can attach documents", util.ErrPermissionDenied)
	}

	if s.MaxUploadBytes > 0 && size > s.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", util.ErrValidation, s.MaxUploadBytes)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if http.DetectContentType(head) != util.MimePDF {
		return nil, fmt.Errorf("%w: %s is not a PDF", util.ErrUnsupportedFile, filename)
	}

	key := fmt.Sprintf("tests/%s/%s.pdf", test.ID, model.GenerateUUID())
	url, err := s.Storage.Upload(ctx, key, io.MultiReader(bytes.NewReader(head), reader), size, util.MimePDF)
	if err != nil {
		return nil, err
	}

	if err := s.TestRepo.UpdateSourceDocument(ctx, test.ID, url); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, test.ID)

	test.SourceDocumentURL = url
	logger.Log.Info("Test document attached", zap.String("testId", test.ID), zap.String("url", url))
	return test, nil
}
