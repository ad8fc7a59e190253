package controller

import (
	"edu_quiz_backend/internal/service"
	"edu_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
}

func NewStudentController(studentService *service.StudentService) *StudentController {
	return &StudentController{StudentService: studentService}
}

// swagger:model AddStudentRequest
type AddStudentRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

// AddStudent godoc
// @Summary Link a student
// @Tags students
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddStudentRequest true "Student to link"
// @Success 201 {object} util.Response{data=model.StudentTeacherRelation} "Created"
// @Failure 404 {object} util.Response "Student not found"
// @Failure 409 {object} util.Response "Already linked"
// @Router /student-teacher-relations [post]
func (c *StudentController) AddStudent(ctx *gin.Context) {
	var req AddStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rel, err := c.StudentService.AddStudent(ctx.Request.Context(), currentActor(ctx), req.StudentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, rel)
}

// MyStudents godoc
// @Summary List my students
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User} "OK"
// @Router /my-students [get]
func (c *StudentController) MyStudents(ctx *gin.Context) {
	students, err := c.StudentService.ListMyStudents(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, students)
}
