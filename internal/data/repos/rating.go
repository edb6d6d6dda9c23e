package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

type RatingRepo interface {
	// Create inserts ratings; a second rating for the same application hits
	// the unique index and comes back as gorm.ErrDuplicatedKey.
	Create(dbc dbctx.Context, rows []*types.Rating) ([]*types.Rating, error)
	GetByApplicationIDs(dbc dbctx.Context, applicationIDs []uuid.UUID) ([]*types.Rating, error)
}

type ratingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, log *logger.Logger) RatingRepo {
	return &ratingRepo{db: db, log: log.With("repo", "RatingRepo")}
}

func (r *ratingRepo) Create(dbc dbctx.Context, rows []*types.Rating) ([]*types.Rating, error) {
	if len(rows) == 0 {
		return []*types.Rating{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ratingRepo) GetByApplicationIDs(dbc dbctx.Context, applicationIDs []uuid.UUID) ([]*types.Rating, error) {
	if len(applicationIDs) == 0 {
		return []*types.Rating{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Rating
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Rating{}).
		Where("application_id IN ?", applicationIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
