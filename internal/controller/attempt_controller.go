package controller

import (
	"edu_quiz_backend/internal/service"
	"edu_quiz_backend/internal/util"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// swagger:model AnswerRequest
type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	AnswerText string `json:"answerText"`
}

// swagger:model SubmitAttemptRequest
type SubmitAttemptRequest struct {
	TestID      string          `json:"testId" binding:"required"`
	Answers     []AnswerRequest `json:"answers" binding:"dive"`
	IsSelfStudy bool            `json:"isSelfStudy"`
}

// SubmitAttempt godoc
// @Summary Submit an attempt
// @Description Grades the answers and stores the attempt. A repeated Idempotency-Key returns the first attempt with 200.
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   Idempotency-Key header string false "Client retry key"
// @Param   body body SubmitAttemptRequest true "Answers"
// @Success 201 {object} util.Response{data=model.TestAttempt} "Created"
// @Success 200 {object} util.Response{data=model.TestAttempt} "Replayed"
// @Failure 400 {object} util.Response "Unknown or duplicate question"
// @Failure 404 {object} util.Response "Test not found"
// @Router /test-attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answers := make([]service.AnswerInput, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = service.AnswerInput{QuestionID: a.QuestionID, AnswerText: a.AnswerText}
	}

	attempt, created, err := c.AttemptService.Submit(ctx.Request.Context(), currentActor(ctx), service.SubmitInput{
		TestID:         req.TestID,
		Answers:        answers,
		IsSelfStudy:    req.IsSelfStudy,
		IdempotencyKey: ctx.GetHeader(util.IdempotencyHeader),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if !created {
		util.Success(ctx, attempt)
		return
	}
	util.Created(ctx, attempt)
}

// ListAttempts godoc
// @Summary List attempts
// @Description Instructors see attempts on their tests; everyone else sees their own attempts
// @Tags attempts
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TestAttempt} "OK"
// @Router /test-attempts [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	attempts, err := c.AttemptService.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// swagger:model AIEvaluationRequest
type AIEvaluationRequest struct {
	AIEvaluation json.RawMessage `json:"aiEvaluation" binding:"required" swaggertype:"object"`
}

// AIEvaluate godoc
// @Summary Record an AI evaluation
// @Description Stores the payload as given and marks the attempt AI_EVALUATED. The score is not changed.
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Attempt ID"
// @Param   body body AIEvaluationRequest true "Evaluation payload"
// @Success 200 {object} util.Response{data=model.TestAttempt} "OK"
// @Failure 403 {object} util.Response "Not the test author"
// @Failure 404 {object} util.Response "Attempt not found"
// @Router /test-attempts/{id}/ai-evaluate [post]
func (c *AttemptController) AIEvaluate(ctx *gin.Context) {
	var req AIEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.RecordAIEvaluation(ctx.Request.Context(), currentActor(ctx), ctx.Param("id"), req.AIEvaluation)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// swagger:model FeedbackRequest
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// InstructorFeedback godoc
// @Summary Record instructor feedback
// @Description Replaces any earlier feedback and marks the attempt INSTRUCTOR_EVALUATED
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Attempt ID"
// @Param   body body FeedbackRequest true "Feedback"
// @Success 200 {object} util.Response{data=model.TestAttempt} "OK"
// @Failure 403 {object} util.Response "Not the test author"
// @Failure 404 {object} util.Response "Attempt not found"
// @Router /test-attempts/{id}/instructor-feedback [post]
func (c *AttemptController) InstructorFeedback(ctx *gin.Context) {
	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.RecordInstructorFeedback(ctx.Request.Context(), currentActor(ctx), ctx.Param("id"), req.Feedback)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}
