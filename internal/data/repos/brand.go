package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

type BrandProfileRepo interface {
	Create(dbc dbctx.Context, rows []*types.BrandProfile) ([]*types.BrandProfile, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.BrandProfile, error)
}

type brandProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBrandProfileRepo(db *gorm.DB, log *logger.Logger) BrandProfileRepo {
	return &brandProfileRepo{db: db, log: log.With("repo", "BrandProfileRepo")}
}

func (r *brandProfileRepo) Create(dbc dbctx.Context, rows []*types.BrandProfile) ([]*types.BrandProfile, error) {
	if len(rows) == 0 {
		return []*types.BrandProfile{}, nil
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

func (r *brandProfileRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.BrandProfile, error) {
	if len(ids) == 0 {
		return []*types.BrandProfile{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.BrandProfile
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.BrandProfile{}).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
