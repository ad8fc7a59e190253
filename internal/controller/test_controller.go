package controller

import (
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/service"
	"edu_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// QuestionRequest is one question of a new test. "question" and "correct_answer" are
// accepted for older clients.
// swagger:model QuestionRequest
type QuestionRequest struct {
	Type                model.QuestionType `json:"type" binding:"required,question_type"`
	QuestionText        string             `json:"questionText"`
	Question            string             `json:"question"`
	Options             []string           `json:"options"`
	CorrectAnswer       string             `json:"correctAnswer"`
	LegacyCorrectAnswer string             `json:"correct_answer"`
	Points              int                `json:"points" binding:"required,min=1"`
}

// swagger:model CreateTestRequest
type CreateTestRequest struct {
	Title                   string            `json:"title" binding:"required,max=255"`
	Description             string            `json:"description"`
	ShowAnswersAfterAttempt bool              `json:"showAnswersAfterAttempt"`
	Questions               []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

func (r *CreateTestRequest) input() service.CreateTestInput {
	in := service.CreateTestInput{
		Title:                   r.Title,
		Description:             r.Description,
		ShowAnswersAfterAttempt: r.ShowAnswersAfterAttempt,
		Questions:               make([]service.QuestionInput, len(r.Questions)),
	}
	for i, q := range r.Questions {
		in.Questions[i] = service.QuestionInput{
			Type:                q.Type,
			QuestionText:        q.QuestionText,
			LegacyQuestion:      q.Question,
			Options:             q.Options,
			CorrectAnswer:       q.CorrectAnswer,
			LegacyCorrectAnswer: q.LegacyCorrectAnswer,
			Points:              q.Points,
		}
	}
	return in
}

// CreateTest godoc
// @Summary Create a test
// @Description Creates a test with its questions. Instructors only.
// @Tags tests
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateTestRequest true "Test with questions"
// @Success 201 {object} util.Response{data=model.Test} "Created"
// @Failure 400 {object} util.Response "Validation failed"
// @Failure 401 {object} util.Response "Token missing"
// @Failure 403 {object} util.Response "Not an instructor"
// @Router /tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req CreateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.Create(ctx.Request.Context(), currentActor(ctx), req.input())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, test)
}

// ListTests godoc
// @Summary List my tests
// @Description Tests authored by the caller, with attempt and assignment counts
// @Tags tests
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.TestSummary} "OK"
// @Failure 403 {object} util.Response "Not an instructor"
// @Router /tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	tests, err := c.TestService.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// GetTest godoc
// @Summary Get a test
// @Description Full test with questions and author. Correct answers are shown to the author only.
// @Tags tests
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Test ID"
// @Success 200 {object} util.Response{data=model.Test} "OK"
// @Failure 404 {object} util.Response "Test not found"
// @Router /tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	test, err := c.TestService.Get(ctx.Request.Context(), currentActor(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// UploadDocument godoc
// @Summary Attach a source PDF
// @Description Stores a PDF in the configured object store and records its URL on the test
// @Tags tests
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Test ID"
// @Param   file formData file true "PDF document"
// @Success 200 {object} util.Response{data=model.Test} "OK"
// @Failure 400 {object} util.Response "Not a PDF or too large"
// @Failure 403 {object} util.Response "Not the author"
// @Failure 404 {object} util.Response "Test not found"
// @Router /tests/{id}/document [post]
func (c *TestController) UploadDocument(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	defer file.Close()

	test, err := c.TestService.AttachDocument(ctx.Request.Context(), currentActor(ctx), ctx.Param("id"), header.Filename, file, header.Size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, test)
}
