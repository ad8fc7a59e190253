package controller

import (
	"edu_quiz_backend/internal/service"
	"edu_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// swagger:model AssignTestRequest
type AssignTestRequest struct {
	TestID     string   `json:"testId" binding:"required"`
	StudentIDs []string `json:"studentIds" binding:"required,min=1,dive,required"`
	DueDate    string   `json:"dueDate"`
}

// AssignTest godoc
// @Summary Assign a test
// @Description Creates one assignment per student id. Either all rows are created or none.
// @Tags assignments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AssignTestRequest true "Assignment"
// @Success 201 {object} util.Response{data=[]model.TestAssignment} "Created"
// @Failure 400 {object} util.Response "Validation failed"
// @Failure 404 {object} util.Response "Test or student not found"
// @Router /test-assignments [post]
func (c *AssignmentController) AssignTest(ctx *gin.Context) {
	var req AssignTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	assignments, err := c.AssignmentService.Assign(ctx.Request.Context(), currentActor(ctx), req.TestID, req.StudentIDs, dueDate)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, assignments)
}

// AssignedTests godoc
// @Summary List my assigned tests
// @Tags assignments
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TestAssignment} "OK"
// @Router /assigned-tests [get]
func (c *AssignmentController) AssignedTests(ctx *gin.Context) {
	assignments, err := c.AssignmentService.ListAssigned(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}
