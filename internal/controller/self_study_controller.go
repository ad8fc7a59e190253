package controller

import (
	"edu_quiz_backend/internal/service"
	"edu_quiz_backend/internal/util"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type SelfStudyController struct {
	SelfStudyService *service.SelfStudyService
}

func NewSelfStudyController(selfStudyService *service.SelfStudyService) *SelfStudyController {
	return &SelfStudyController{SelfStudyService: selfStudyService}
}

// swagger:model SelfStudyRegisterRequest
type SelfStudyRegisterRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Email       string          `json:"email" binding:"required,email,max=191"`
	Preferences json.RawMessage `json:"preferences" swaggertype:"object"`
}

// Register godoc
// @Summary Register a self-study learner
// @Tags self-study
// @Accept  json
// @Produce  json
// @Param   body body SelfStudyRegisterRequest true "Learner profile"
// @Success 201 {object} util.Response{data=model.SelfStudyUser} "Created"
// @Failure 400 {object} util.Response "Validation failed"
// @Failure 409 {object} util.Response "Email already registered"
// @Router /self-study/register [post]
func (c *SelfStudyController) Register(ctx *gin.Context) {
	var req SelfStudyRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.SelfStudyService.Register(ctx.Request.Context(), req.Name, req.Email, req.Preferences)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, user)
}
