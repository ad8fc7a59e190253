package app

import (
	"bytes"
	"edu_quiz_backend/internal/config"
	"edu_quiz_backend/internal/testutil"
	"edu_quiz_backend/internal/util"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode"`
	Data      json.RawMessage `json:"data"`
}

func newClient(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode},
		JWT:     config.JWTConfig{Secret: "router-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir(), MaxUploadMB: 5},
	}
	app := Build(cfg, testutil.NewDB(t), nil)
	t.Cleanup(app.cancel)
	return &apiClient{t: t, router: app.Router}
}

func (c *apiClient) do(method, path, token string, body interface{}, headers ...string) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return c.serve(req)
}

func (c *apiClient) serve(req *http.Request) (int, envelope) {
	c.t.Helper()
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (c *apiClient) register(email, role string) authData {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": email, "email": email, "password": "password123", "role": role,
	})
	require.Equal(c.t, http.StatusCreated, status, env.Message)
	var data authData
	require.NoError(c.t, json.Unmarshal(env.Data, &data))
	return data
}

type questionView struct {
	ID            string `json:"id"`
	CorrectAnswer string `json:"correctAnswer"`
}

type testView struct {
	ID              string         `json:"id"`
	Questions       []questionView `json:"questions"`
	AttemptCount    int            `json:"attemptCount"`
	AssignmentCount int            `json:"assignmentCount"`
}

type attemptView struct {
	ID               string  `json:"id"`
	Score            int     `json:"score"`
	TotalPoints      int     `json:"totalPoints"`
	StudentID        *string `json:"studentId"`
	EvaluationStatus string  `json:"evaluationStatus"`
	Student          *struct {
		Email string `json:"email"`
	} `json:"student"`
}

func createQuiz(t *testing.T, c *apiClient, token string) testView {
	t.Helper()
	status, env := c.do(http.MethodPost, "/api/tests", token, gin.H{
		"title":       "Basics",
		"description": "warm up",
		"questions": []gin.H{
			{"type": "MCQ", "questionText": "Pick B", "options": []string{"A", "B", "C"}, "correctAnswer": "B", "points": 2},
			{"type": "SHORT_ANSWER", "question": "Capital of France", "correct_answer": "paris", "points": 3},
		},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var test testView
	require.NoError(t, json.Unmarshal(env.Data, &test))
	require.Len(t, test.Questions, 2)
	return test
}

func TestAuthErrors(t *testing.T) {
	c := newClient(t)

	status, env := c.do(http.MethodGet, "/api/test-attempts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, util.CodeAuthMissing, env.ErrorCode)

	status, env = c.do(http.MethodGet, "/api/test-attempts", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, util.CodeAuthInvalid, env.ErrorCode)

	c.register("dup@example.com", "STUDENT")
	status, env = c.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "x", "email": "dup@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, util.CodeConflict, env.ErrorCode)

	status, env = c.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "x", "email": "admin@example.com", "password": "password123", "role": "ADMIN",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, util.CodeValidation, env.ErrorCode)

	status, env = c.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "dup@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, util.CodeInvalidCredentials, env.ErrorCode)

	status, env = c.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "dup@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, status, env.Message)
}

func TestStudentIsDeniedInstructorRoutes(t *testing.T) {
	c := newClient(t)
	student := c.register("s@example.com", "STUDENT")

	status, env := c.do(http.MethodPost, "/api/tests", student.Token, gin.H{
		"title":     "Nope",
		"questions": []gin.H{{"type": "SHORT_ANSWER", "questionText": "q", "correctAnswer": "a", "points": 1}},
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, util.CodeAuthorization, env.ErrorCode)

	status, _ = c.do(http.MethodPost, "/api/test-assignments", student.Token, gin.H{"testId": "x", "studentIds": []string{"y"}})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.do(http.MethodPost, "/api/test-attempts/x/ai-evaluate", student.Token, gin.H{"aiEvaluation": "ok"})
	assert.Equal(t, http.StatusForbidden, status)

	instructor := c.register("t@example.com", "INSTRUCTOR")
	status, _ = c.do(http.MethodGet, "/api/assigned-tests", instructor.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCreateTestValidation(t *testing.T) {
	c := newClient(t)
	instructor := c.register("t@example.com", "INSTRUCTOR")

	status, env := c.do(http.MethodPost, "/api/tests", instructor.Token, gin.H{"title": "Empty", "questions": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, util.CodeValidation, env.ErrorCode)

	status, env = c.do(http.MethodPost, "/api/tests", instructor.Token, gin.H{
		"title":     "Bad MCQ",
		"questions": []gin.H{{"type": "MCQ", "questionText": "q", "options": []string{"A"}, "correctAnswer": "B", "points": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, util.CodeValidation, env.ErrorCode)

	status, _ = c.do(http.MethodGet, "/api/tests", instructor.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestEndToEndTwoStudents(t *testing.T) {
	c := newClient(t)
	instructor := c.register("teacher@example.com", "INSTRUCTOR")
	s1 := c.register("s1@example.com", "STUDENT")
	s2 := c.register("s2@example.com", "")
	assert.Equal(t, "STUDENT", s2.User.Role)

	test := createQuiz(t, c, instructor.Token)
	assert.Equal(t, "B", test.Questions[0].CorrectAnswer)

	for _, s := range []authData{s1, s2} {
		status, env := c.do(http.MethodPost, "/api/student-teacher-relations", instructor.Token, gin.H{"studentId": s.User.ID})
		require.Equal(t, http.StatusCreated, status, env.Message)
	}
	status, env := c.do(http.MethodPost, "/api/student-teacher-relations", instructor.Token, gin.H{"studentId": s1.User.ID})
	assert.Equal(t, http.StatusConflict, status)

	status, env = c.do(http.MethodGet, "/api/my-students", instructor.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var students []struct{ ID string }
	require.NoError(t, json.Unmarshal(env.Data, &students))
	assert.Len(t, students, 2)

	status, env = c.do(http.MethodPost, "/api/test-assignments", instructor.Token, gin.H{
		"testId":     test.ID,
		"studentIds": []string{s1.User.ID, s2.User.ID},
		"dueDate":    "2030-01-31",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var assignments []struct{ ID string }
	require.NoError(t, json.Unmarshal(env.Data, &assignments))
	assert.Len(t, assignments, 2)

	status, env = c.do(http.MethodGet, "/api/assigned-tests", s1.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var assigned []struct {
		Test testView `json:"test"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &assigned))
	require.Len(t, assigned, 1)
	assert.Equal(t, test.ID, assigned[0].Test.ID)
	assert.Empty(t, assigned[0].Test.Questions[0].CorrectAnswer)

	status, env = c.do(http.MethodGet, "/api/tests/"+test.ID, s1.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var seen testView
	require.NoError(t, json.Unmarshal(env.Data, &seen))
	assert.Empty(t, seen.Questions[0].CorrectAnswer)

	status, env = c.do(http.MethodPost, "/api/test-attempts", s1.Token, gin.H{
		"testId": test.ID,
		"answers": []gin.H{
			{"questionId": test.Questions[0].ID, "answerText": "B"},
			{"questionId": test.Questions[1].ID, "answerText": "Paris"},
		},
	}, util.IdempotencyHeader, "s1-first")
	require.Equal(t, http.StatusCreated, status, env.Message)
	var first attemptView
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, 2, first.Score)
	assert.Equal(t, 5, first.TotalPoints)
	assert.Equal(t, "UNEVALUATED", first.EvaluationStatus)

	status, env = c.do(http.MethodPost, "/api/test-attempts", s1.Token, gin.H{
		"testId":  test.ID,
		"answers": []gin.H{{"questionId": test.Questions[0].ID, "answerText": "B"}},
	}, util.IdempotencyHeader, "s1-first")
	require.Equal(t, http.StatusOK, status, env.Message)
	var replay attemptView
	require.NoError(t, json.Unmarshal(env.Data, &replay))
	assert.Equal(t, first.ID, replay.ID)

	status, env = c.do(http.MethodPost, "/api/test-attempts", s2.Token, gin.H{
		"testId": test.ID,
		"answers": []gin.H{
			{"questionId": test.Questions[0].ID, "answerText": "B"},
			{"questionId": test.Questions[1].ID, "answerText": "paris"},
		},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = c.do(http.MethodPost, "/api/test-attempts", s2.Token, gin.H{
		"testId":  test.ID,
		"answers": []gin.H{{"questionId": "not-in-test", "answerText": "B"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, util.CodeUnknownQuestion, env.ErrorCode)

	status, env = c.do(http.MethodGet, "/api/test-attempts", instructor.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var forInstructor []attemptView
	require.NoError(t, json.Unmarshal(env.Data, &forInstructor))
	require.Len(t, forInstructor, 2)
	for _, a := range forInstructor {
		require.NotNil(t, a.Student)
		assert.NotEmpty(t, a.Student.Email)
	}

	for _, s := range []authData{s1, s2} {
		status, env = c.do(http.MethodGet, "/api/test-attempts", s.Token, nil)
		require.Equal(t, http.StatusOK, status)
		var mine []attemptView
		require.NoError(t, json.Unmarshal(env.Data, &mine))
		require.Len(t, mine, 1)
		require.NotNil(t, mine[0].StudentID)
		assert.Equal(t, s.User.ID, *mine[0].StudentID)
	}

	status, env = c.do(http.MethodPost, "/api/test-attempts/"+first.ID+"/ai-evaluate", instructor.Token, gin.H{
		"aiEvaluation": gin.H{"summary": "good"},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var evaluated attemptView
	require.NoError(t, json.Unmarshal(env.Data, &evaluated))
	assert.Equal(t, "AI_EVALUATED", evaluated.EvaluationStatus)
	assert.Equal(t, 2, evaluated.Score)

	status, env = c.do(http.MethodPost, "/api/test-attempts/"+first.ID+"/instructor-feedback", instructor.Token, gin.H{
		"feedback": "Check your capitals",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &evaluated))
	assert.Equal(t, "INSTRUCTOR_EVALUATED", evaluated.EvaluationStatus)

	status, env = c.do(http.MethodGet, "/api/tests", instructor.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine []testView
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, 2, mine[0].AttemptCount)
	assert.Equal(t, 2, mine[0].AssignmentCount)
}

func TestUploadDocument(t *testing.T) {
	c := newClient(t)
	instructor := c.register("teacher@example.com", "INSTRUCTOR")
	test := createQuiz(t, c, instructor.Token)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.pdf")
	require.NoError(t, err)
	part.Write([]byte("%PDF-1.4\n%%EOF\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tests/"+test.ID+"/document", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+instructor.Token)
	status, env := c.serve(req)
	require.Equal(t, http.StatusOK, status, env.Message)

	var updated struct {
		SourceDocumentURL string `json:"sourceDocumentUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Contains(t, updated.SourceDocumentURL, "/uploads/tests/"+test.ID)
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	status, env := c.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"redis":"disabled"`)
}
