package controller

import (
	"edu_quiz_backend/internal/service"
	"edu_quiz_backend/internal/util"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func currentActor(ctx *gin.Context) service.Actor {
	return service.ActorFromClaims(util.GetUserFromContext(ctx))
}

// parseDueDate accepts RFC 3339 timestamps and plain dates. Empty means no due date.
func parseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, util.DateFormat} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: dueDate must be RFC 3339 or %s", util.ErrValidation, util.DateFormat)
}
