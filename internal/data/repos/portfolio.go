package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

// ImageOrder is one {id, display_order} pair of a batched reorder.
type ImageOrder struct {
	ID           uuid.UUID
	DisplayOrder int
}

type PortfolioImageRepo interface {
	Create(dbc dbctx.Context, rows []*types.PortfolioImage) ([]*types.PortfolioImage, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.PortfolioImage, error)

	// UpsertDisplayOrders applies every pair in one INSERT ... ON CONFLICT
	// statement, so the reorder is all-or-nothing. The conflict update is
	// owner-scoped; pairs referencing another owner's images leave those
	// rows untouched.
	UpsertDisplayOrders(dbc dbctx.Context, ownerID uuid.UUID, orders []ImageOrder) error
}

type portfolioImageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortfolioImageRepo(db *gorm.DB, log *logger.Logger) PortfolioImageRepo {
	return &portfolioImageRepo{db: db, log: log.With("repo", "PortfolioImageRepo")}
}

func (r *portfolioImageRepo) Create(dbc dbctx.Context, rows []*types.PortfolioImage) ([]*types.PortfolioImage, error) {
	if len(rows) == 0 {
		return []*types.PortfolioImage{}, nil
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

func (r *portfolioImageRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.PortfolioImage, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("missing owner_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.PortfolioImage
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.PortfolioImage{}).
		Where("owner_id = ?", ownerID).
		Order("display_order ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *portfolioImageRepo) UpsertDisplayOrders(dbc dbctx.Context, ownerID uuid.UUID, orders []ImageOrder) error {
	if ownerID == uuid.Nil {
		return fmt.Errorf("missing owner_id")
	}
	if len(orders) == 0 {
		return fmt.Errorf("empty order list")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	rows := make([]*types.PortfolioImage, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, &types.PortfolioImage{
			ID:           o.ID,
			OwnerID:      ownerID,
			DisplayOrder: o.DisplayOrder,
			UpdatedAt:    now,
		})
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_order", "updated_at"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Eq{Column: clause.Column{Table: "portfolio_images", Name: "owner_id"}, Value: ownerID},
			}},
		}).
		Create(&rows).Error
}
