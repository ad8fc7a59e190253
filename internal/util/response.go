package util

import (
	"edu_quiz_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	ErrorCode string      `json:"errorCode,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, errorCode, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		ErrorCode: errorCode,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, CodeAuthMissing, ErrAuthMissing.Error())
}

func InvalidToken(c *gin.Context) {
	Error(c, http.StatusForbidden, CodeAuthInvalid, ErrAuthInvalid.Error())
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, CodeAuthorization, ErrPermissionDenied.Error())
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeValidation, message)
}

// HandleError writes the response for an error returned by a service.
func HandleError(c *gin.Context, err error) {
	status, code, known := Classify(err)
	if !known {
		logger.Log.Error("Internal server error",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err))
		Error(c, status, code, "operation failed")
		return
	}
	Error(c, status, code, err.Error())
}
