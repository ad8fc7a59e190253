package util

import (
	"edu_quiz_backend/internal/model"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations adds the domain tags to gin's binding validator:
// question_type (MCQ, SHORT_ANSWER) and user_role (STUDENT, INSTRUCTOR).
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
			return model.QuestionType(fl.Field().String()).Valid()
		})
		v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
			return model.UserRole(fl.Field().String()).Valid()
		})
	})
}
