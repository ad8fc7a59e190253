package service

import (
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/util"
	"fmt"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Email  string
	Role   model.UserRole
}

func ActorFromClaims(claims *util.Claims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

// Require fails with ErrPermissionDenied unless the actor holds role.
func (a Actor) Require(role model.UserRole) error {
	if a.UserID == "" {
		return util.ErrAuthMissing
	}
	if a.Role != role {
		return fmt.Errorf("%w: %s role required", util.ErrPermissionDenied, role)
	}
	return nil
}

func (a Actor) IsInstructor() bool {
	return a.Role == model.Instructor
}
