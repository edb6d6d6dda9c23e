package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

type ApplicationRepo interface {
	Create(dbc dbctx.Context, rows []*types.Application) ([]*types.Application, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Application, error)
	ListByApplicantAndStatus(dbc dbctx.Context, applicantID uuid.UUID, status string) ([]*types.Application, error)
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, log *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: log.With("repo", "ApplicationRepo")}
}

func (r *applicationRepo) Create(dbc dbctx.Context, rows []*types.Application) ([]*types.Application, error) {
	if len(rows) == 0 {
		return []*types.Application{}, nil
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

func (r *applicationRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Application, error) {
	if len(ids) == 0 {
		return []*types.Application{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Application
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Application{}).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *applicationRepo) ListByApplicantAndStatus(dbc dbctx.Context, applicantID uuid.UUID, status string) ([]*types.Application, error) {
	if applicantID == uuid.Nil {
		return nil, fmt.Errorf("missing applicant_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Application
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Application{}).
		Where("applicant_id = ? AND status = ?", applicantID, status).
		Order("applied_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
