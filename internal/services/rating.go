package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlinkhq/creatorlink-backend/internal/data/repos"
	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/apierr"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

const maxFeedbackLen = 4000

type RatingService interface {
	// RateApplication records the single rating for an approved project.
	// Score must be 1..5; a second rating for the same application is a
	// conflict, never an overwrite.
	RateApplication(dbc dbctx.Context, applicationID uuid.UUID, score int, feedback string) (*types.Rating, error)
}

type ratingService struct {
	db  *gorm.DB
	log *logger.Logger

	ratings      repos.RatingRepo
	applications repos.ApplicationRepo
}

func NewRatingService(db *gorm.DB, baseLog *logger.Logger, ratingRepo repos.RatingRepo, applicationRepo repos.ApplicationRepo) RatingService {
	return &ratingService{
		db:           db,
		log:          baseLog.With("service", "RatingService"),
		ratings:      ratingRepo,
		applications: applicationRepo,
	}
}

func (s *ratingService) RateApplication(dbc dbctx.Context, applicationID uuid.UUID, score int, feedback string) (*types.Rating, error) {
	if applicationID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("missing application id"))
	}
	if score < 1 || score > 5 {
		return nil, apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("score %d outside 1..5", score))
	}
	feedback = strings.TrimSpace(feedback)
	if len(feedback) > maxFeedbackLen {
		return nil, apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("feedback exceeds %d characters", maxFeedbackLen))
	}

	rows, err := s.ratings.Create(dbc, []*types.Rating{{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Score:         score,
		Feedback:      feedback,
	}})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.New(http.StatusConflict, "rating_conflict", fmt.Errorf("application %s already rated", applicationID))
		}
		return nil, storeErr(err)
	}
	return rows[0], nil
}
