package services

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlinkhq/creatorlink-backend/internal/data/repos"
	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/apierr"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

// PortfolioImageView is a PortfolioImage with its object key resolved to a
// loadable URL.
type PortfolioImageView struct {
	types.PortfolioImage
	URL string `json:"url"`
}

type PortfolioService interface {
	List(dbc dbctx.Context, ownerID uuid.UUID) ([]PortfolioImageView, error)

	// Reorder applies the supplied full ordering in a single batched upsert.
	// The write is all-or-nothing; on failure no display_order changes.
	Reorder(dbc dbctx.Context, ownerID uuid.UUID, orderedIDs []uuid.UUID) error
}

type portfolioService struct {
	db  *gorm.DB
	log *logger.Logger

	images repos.PortfolioImageRepo
	urls   ObjectURLResolver
}

func NewPortfolioService(db *gorm.DB, baseLog *logger.Logger, imageRepo repos.PortfolioImageRepo, urls ObjectURLResolver) PortfolioService {
	return &portfolioService{
		db:     db,
		log:    baseLog.With("service", "PortfolioService"),
		images: imageRepo,
		urls:   urls,
	}
}

func (s *portfolioService) List(dbc dbctx.Context, ownerID uuid.UUID) ([]PortfolioImageView, error) {
	if ownerID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("missing owner id"))
	}
	rows, err := s.images.ListByOwner(dbc, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]PortfolioImageView, 0, len(rows))
	for _, img := range rows {
		url := img.ObjectKey
		if s.urls != nil {
			url = s.urls.GetPublicURL(img.ObjectKey)
		}
		out = append(out, PortfolioImageView{PortfolioImage: *img, URL: url})
	}
	return out, nil
}

func (s *portfolioService) Reorder(dbc dbctx.Context, ownerID uuid.UUID, orderedIDs []uuid.UUID) error {
	if ownerID == uuid.Nil {
		return apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("missing owner id"))
	}
	if len(orderedIDs) == 0 {
		return apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("empty order list"))
	}
	seen := make(map[uuid.UUID]struct{}, len(orderedIDs))
	orders := make([]repos.ImageOrder, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		if id == uuid.Nil {
			return apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("order list contains empty id"))
		}
		if _, dup := seen[id]; dup {
			return apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("duplicate image id %s", id))
		}
		seen[id] = struct{}{}
		orders = append(orders, repos.ImageOrder{ID: id, DisplayOrder: i})
	}
	if err := s.images.UpsertDisplayOrders(dbc, ownerID, orders); err != nil {
		return storeErr(err)
	}
	return nil
}
