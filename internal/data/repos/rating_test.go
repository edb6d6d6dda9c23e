package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlinkhq/creatorlink-backend/internal/data/repos/testutil"
	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
)

func TestRatingCreateAndFetch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewRatingRepo(tx, testutil.Logger(t))

	appID := uuid.New()
	created, err := repo.Create(dbc, []*types.Rating{{
		ApplicationID: appID,
		Score:         4,
		Feedback:      "solid collaboration",
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("expected generated rating id")
	}

	got, err := repo.GetByApplicationIDs(dbc, []uuid.UUID{appID, uuid.New()})
	if err != nil {
		t.Fatalf("GetByApplicationIDs: %v", err)
	}
	if len(got) != 1 || got[0].ApplicationID != appID || got[0].Score != 4 {
		t.Fatalf("unexpected ratings: %+v", got)
	}
}

func TestRatingDuplicateTranslatesToDuplicatedKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewRatingRepo(tx, testutil.Logger(t))

	appID := uuid.New()
	if _, err := repo.Create(dbc, []*types.Rating{{ApplicationID: appID, Score: 5}}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := repo.Create(dbc, []*types.Rating{{ApplicationID: appID, Score: 1}})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}
