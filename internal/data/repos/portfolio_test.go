package repos

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/creatorlinkhq/creatorlink-backend/internal/data/repos/testutil"
	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
)

func seedImages(t *testing.T, dbc dbctx.Context, repo PortfolioImageRepo, ownerID uuid.UUID, n int) []*types.PortfolioImage {
	t.Helper()
	rows := make([]*types.PortfolioImage, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &types.PortfolioImage{
			OwnerID:      ownerID,
			ObjectKey:    fmt.Sprintf("portfolio/%s/%d.jpg", ownerID, i),
			DisplayOrder: i,
		})
	}
	created, err := repo.Create(dbc, rows)
	if err != nil {
		t.Fatalf("seed images: %v", err)
	}
	return created
}

func TestUpsertDisplayOrdersReorders(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPortfolioImageRepo(tx, testutil.Logger(t))

	owner := uuid.New()
	imgs := seedImages(t, dbc, repo, owner, 4)

	// Reverse the gallery in one statement.
	orders := make([]ImageOrder, 0, len(imgs))
	for i, img := range imgs {
		orders = append(orders, ImageOrder{ID: img.ID, DisplayOrder: len(imgs) - 1 - i})
	}
	if err := repo.UpsertDisplayOrders(dbc, owner, orders); err != nil {
		t.Fatalf("UpsertDisplayOrders: %v", err)
	}

	got, err := repo.ListByOwner(dbc, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != len(imgs) {
		t.Fatalf("expected %d images, got %d", len(imgs), len(got))
	}
	for i, img := range got {
		if img.DisplayOrder != i {
			t.Fatalf("position %d: got display_order %d", i, img.DisplayOrder)
		}
		if img.ID != imgs[len(imgs)-1-i].ID {
			t.Fatalf("position %d: got image %s, expected reversed order", i, img.ID)
		}
	}
}

func TestUpsertDisplayOrdersIsOwnerScoped(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPortfolioImageRepo(tx, testutil.Logger(t))

	owner := uuid.New()
	intruder := uuid.New()
	ownImgs := seedImages(t, dbc, repo, owner, 1)
	victim := seedImages(t, dbc, repo, intruder, 1)[0]

	// A reorder referencing someone else's image must not move that row.
	err := repo.UpsertDisplayOrders(dbc, owner, []ImageOrder{
		{ID: ownImgs[0].ID, DisplayOrder: 1},
		{ID: victim.ID, DisplayOrder: 99},
	})
	if err != nil {
		t.Fatalf("UpsertDisplayOrders: %v", err)
	}

	theirs, err := repo.ListByOwner(dbc, intruder)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(theirs) != 1 || theirs[0].DisplayOrder != 0 {
		t.Fatalf("expected intruder's image untouched, got %+v", theirs)
	}

	ours, err := repo.ListByOwner(dbc, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(ours) != 1 || ours[0].DisplayOrder != 1 {
		t.Fatalf("expected owner's image at display_order 1, got %+v", ours)
	}
}
