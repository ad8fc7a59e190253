package service

import (
	"context"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/internal/repository"
	"edu_quiz_backend/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SelfStudyService struct {
	Repo *repository.SelfStudyUserRepository
}

func NewSelfStudyService(repo *repository.SelfStudyUserRepository) *SelfStudyService {
	return &SelfStudyService{Repo: repo}
}

// Register creates a self-study learner profile. Preferences are stored as given.
func (s *SelfStudyService) Register(ctx context.Context, name, email string, preferences json.RawMessage) (*model.SelfStudyUser, error) {
	email = strings.TrimSpace(email)
	if len(preferences) > 0 && !json.Valid(preferences) {
		return nil, fmt.Errorf("%w: preferences must be valid JSON", util.ErrValidation)
	}

	_, err := s.Repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.SelfStudyUser{
		Name:        strings.TrimSpace(name),
		Email:       email,
		Preferences: datatypes.JSON(preferences),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}
	return user, nil
}
