package repository

import (
	"context"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Name: email, Email: email, Password: "hash", Role: role}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedTest(t *testing.T, db *gorm.DB, instructorID string) *model.Test {
	t.Helper()
	test := &model.Test{
		Title:        "Geography",
		InstructorID: instructorID,
		Questions: []model.Question{
			{Type: model.QuestionMCQ, QuestionText: "Pick B", Options: []string{"A", "B", "C"}, CorrectAnswer: "B", Points: 2},
			{Type: model.QuestionShortAnswer, QuestionText: "Capital of France", Options: []string{}, CorrectAnswer: "paris", Points: 3},
		},
	}
	require.NoError(t, NewTestRepository(db).CreateWithQuestions(context.Background(), test))
	return test
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	teacher := seedUser(t, db, "teacher@example.com", model.Instructor)
	s1 := seedUser(t, db, "s1@example.com", model.Student)
	s2 := seedUser(t, db, "s2@example.com", model.Student)

	found, err := repo.FindByEmail(ctx, "s1@example.com")
	require.NoError(t, err)
	assert.Equal(t, s1.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	students, err := repo.FindStudentsByIDs(ctx, []string{s1.ID, s2.ID, teacher.ID})
	require.NoError(t, err)
	assert.Len(t, students, 2)

	require.NoError(t, repo.CreateRelation(ctx, &model.StudentTeacherRelation{StudentID: s1.ID, InstructorID: teacher.ID}))
	mine, err := repo.ListStudentsOfInstructor(ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, s1.ID, mine[0].ID)
}

func TestTestRepositoryKeepsQuestionOrder(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teacher := seedUser(t, db, "teacher@example.com", model.Instructor)
	created := seedTest(t, db, teacher.ID)

	repo := NewTestRepository(db)
	test, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, test.Questions, 2)
	assert.Equal(t, "Pick B", test.Questions[0].QuestionText)
	assert.Equal(t, []string{"A", "B", "C"}, []string(test.Questions[0].Options))
	assert.Equal(t, 5, test.TotalPoints())
	require.NotNil(t, test.Instructor)
	assert.Equal(t, teacher.ID, test.Instructor.ID)

	require.NoError(t, repo.UpdateSourceDocument(ctx, created.ID, "/uploads/doc.pdf"))
	assert.ErrorIs(t, repo.UpdateSourceDocument(ctx, "missing", "x"), gorm.ErrRecordNotFound)
}

func TestTestRepositoryListCounts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teacher := seedUser(t, db, "teacher@example.com", model.Instructor)
	other := seedUser(t, db, "other@example.com", model.Instructor)
	student := seedUser(t, db, "s1@example.com", model.Student)
	test := seedTest(t, db, teacher.ID)
	seedTest(t, db, other.ID)

	require.NoError(t, NewAssignmentRepository(db).CreateBatch(ctx, []model.TestAssignment{
		{TestID: test.ID, StudentID: student.ID, AssignedBy: teacher.ID},
		{TestID: test.ID, StudentID: student.ID, AssignedBy: teacher.ID},
	}))
	require.NoError(t, NewAttemptRepository(db).Create(ctx, &model.TestAttempt{
		TestID:      test.ID,
		StudentID:   &student.ID,
		TotalPoints: 5,
	}))

	summaries, err := NewTestRepository(db).ListByInstructor(ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].AssignmentCount)
	assert.Equal(t, int64(1), summaries[0].AttemptCount)
	assert.Len(t, summaries[0].Questions, 2)

	empty, err := NewTestRepository(db).ListByInstructor(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAssignmentRepositoryListByStudent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teacher := seedUser(t, db, "teacher@example.com", model.Instructor)
	s1 := seedUser(t, db, "s1@example.com", model.Student)
	s2 := seedUser(t, db, "s2@example.com", model.Student)
	test := seedTest(t, db, teacher.ID)

	repo := NewAssignmentRepository(db)
	require.NoError(t, repo.CreateBatch(ctx, []model.TestAssignment{
		{TestID: test.ID, StudentID: s1.ID, AssignedBy: teacher.ID},
		{TestID: test.ID, StudentID: s2.ID, AssignedBy: teacher.ID},
	}))

	list, err := repo.ListByStudent(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Test)
	assert.Len(t, list[0].Test.Questions, 2)
	require.NotNil(t, list[0].Test.Instructor)
	assert.Equal(t, teacher.ID, list[0].Test.Instructor.ID)
}

func TestAttemptRepository(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teacher := seedUser(t, db, "teacher@example.com", model.Instructor)
	student := seedUser(t, db, "s1@example.com", model.Student)
	test := seedTest(t, db, teacher.ID)
	repo := NewAttemptRepository(db)

	key := student.ID + ":retry-1"
	attempt := &model.TestAttempt{
		TestID:         test.ID,
		StudentID:      &student.ID,
		TotalPoints:    5,
		Score:          2,
		IdempotencyKey: &key,
		Answers: []model.Answer{
			{QuestionID: test.Questions[0].ID, AnswerText: "B", IsCorrect: true, PointsAwarded: 2},
			{QuestionID: test.Questions[1].ID, AnswerText: "Paris", PointsAwarded: 0},
		},
	}
	require.NoError(t, repo.Create(ctx, attempt))
	assert.NotEmpty(t, attempt.ID)

	byKey, err := repo.FindByIdempotencyKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, byKey.ID)
	assert.Len(t, byKey.Answers, 2)

	dup := &model.TestAttempt{TestID: test.ID, StudentID: &student.ID, IdempotencyKey: &key}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)

	assert.ErrorIs(t, repo.Create(ctx, &model.TestAttempt{TestID: test.ID}), model.ErrAttemptOwner)

	selfID := "self-study-1"
	require.NoError(t, repo.Create(ctx, &model.TestAttempt{TestID: test.ID, SelfStudyUserID: &selfID, TotalPoints: 5}))

	forTeacher, err := repo.ListForInstructor(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, forTeacher, 2)

	forStudent, err := repo.ListForSubmitter(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, forStudent, 1)
	require.NotNil(t, forStudent[0].Student)
	assert.Equal(t, student.Email, forStudent[0].Student.Email)

	forSelf, err := repo.ListForSubmitter(ctx, selfID)
	require.NoError(t, err)
	require.Len(t, forSelf, 1)
	assert.True(t, forSelf[0].IsSelfStudy())

	require.NoError(t, repo.UpdateEvaluation(ctx, attempt.ID, map[string]interface{}{
		"evaluation_status": model.AIEvaluated,
	}))
	updated, err := repo.FindByID(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AIEvaluated, updated.EvaluationStatus)

	assert.ErrorIs(t, repo.UpdateEvaluation(ctx, "missing", map[string]interface{}{"score": 1}), gorm.ErrRecordNotFound)
}

func TestNoopTestCache(t *testing.T) {
	cache := NewTestCache(nil, 0)
	ctx := context.Background()
	cache.Set(ctx, &model.Test{})
	_, ok := cache.Get(ctx, "x")
	assert.False(t, ok)
	cache.Delete(ctx, "x")
}
