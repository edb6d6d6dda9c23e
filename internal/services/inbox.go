package services

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/creatorlinkhq/creatorlink-backend/internal/data/repos"
	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/observability"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/apierr"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/ctxutil"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

// ProjectThread is the consolidated inbox view: one entry per approved
// campaign with a brand the actor has conversations with. Messaging fields
// (canonical conversation, unread count, last message) are derived from the
// union of that brand's raw conversations, so entries for the same brand
// share them.
type ProjectThread struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	CampaignTitle string    `json:"campaign_title"`
	OrgName       string    `json:"org_name"`

	BrandID        uuid.UUID `json:"brand_id"`
	BrandName      string    `json:"brand_name"`
	BrandContact   string    `json:"brand_contact,omitempty"`
	BrandAvatarURL string    `json:"brand_avatar_url,omitempty"`

	ConversationID uuid.UUID      `json:"conversation_id"`
	Title          string         `json:"title,omitempty"`
	Tags           datatypes.JSON `json:"tags,omitempty"`
	UnreadCount    int64          `json:"unread_count"`
	LastMessage    *types.Message `json:"last_message,omitempty"`
	LastActivityAt time.Time      `json:"last_activity_at"`
}

type InboxService interface {
	// ListProjectThreads builds the consolidated inbox for the actor. The
	// whole aggregation costs a bounded constant number of bulk queries
	// (at most 7) no matter how many conversations or applications exist.
	ListProjectThreads(dbc dbctx.Context, actorID uuid.UUID, role string) ([]ProjectThread, error)

	// MarkConversationRead flips the actor's unread incoming messages in
	// one bulk update.
	MarkConversationRead(dbc dbctx.Context, actorID uuid.UUID, conversationID uuid.UUID) error
}

type inboxService struct {
	db  *gorm.DB
	log *logger.Logger

	conversations repos.ConversationRepo
	messages      repos.MessageRepo
	brands        repos.BrandProfileRepo
	users         repos.UserRepo
	applications  repos.ApplicationRepo
	campaigns     repos.CampaignRepo

	urls ObjectURLResolver
}

func NewInboxService(
	db *gorm.DB,
	baseLog *logger.Logger,
	conversationRepo repos.ConversationRepo,
	messageRepo repos.MessageRepo,
	brandRepo repos.BrandProfileRepo,
	userRepo repos.UserRepo,
	applicationRepo repos.ApplicationRepo,
	campaignRepo repos.CampaignRepo,
	urls ObjectURLResolver,
) InboxService {
	return &inboxService{
		db:            db,
		log:           baseLog.With("service", "InboxService"),
		conversations: conversationRepo,
		messages:      messageRepo,
		brands:        brandRepo,
		users:         userRepo,
		applications:  applicationRepo,
		campaigns:     campaignRepo,
		urls:          urls,
	}
}

// brandIdentity is the resolved display identity of a counterpart brand.
type brandIdentity struct {
	Name      string
	Contact   string
	AvatarKey string
}

var unknownBrandIdentity = brandIdentity{Name: "Unknown"}

// fallbackIdentityRoles lists actor roles whose counterparts may live only
// in the users table (analysts converse with teammate accounts that never
// created a brand profile).
var fallbackIdentityRoles = map[string]struct{}{
	"analyst": {},
}

// conversationGroup is one logical thread: every raw conversation with the
// same brand, plus the canonical metadata of whichever member was most
// recently active.
type conversationGroup struct {
	brandID uuid.UUID

	canonicalID        uuid.UUID
	canonicalCreatedAt time.Time
	lastActivityAt     time.Time
	title              string
	tags               datatypes.JSON

	conversationIDs []uuid.UUID
}

// groupConversations collapses raw conversations into one group per brand in
// a single pass. The canonical member is the one with the newest
// last_activity_at; ties fall back to newest created_at, then lowest id, so
// the choice is stable across runs.
func groupConversations(rows []*types.Conversation) map[uuid.UUID]*conversationGroup {
	groups := make(map[uuid.UUID]*conversationGroup)
	for _, c := range rows {
		g, ok := groups[c.BrandID]
		if !ok {
			groups[c.BrandID] = &conversationGroup{
				brandID:            c.BrandID,
				canonicalID:        c.ID,
				canonicalCreatedAt: c.CreatedAt,
				lastActivityAt:     c.LastActivityAt,
				title:              c.Title,
				tags:               c.Tags,
				conversationIDs:    []uuid.UUID{c.ID},
			}
			continue
		}
		g.conversationIDs = append(g.conversationIDs, c.ID)
		if supersedesCanonical(c, g) {
			g.canonicalID = c.ID
			g.canonicalCreatedAt = c.CreatedAt
			g.lastActivityAt = c.LastActivityAt
			g.title = c.Title
			g.tags = c.Tags
		}
	}
	return groups
}

func supersedesCanonical(c *types.Conversation, g *conversationGroup) bool {
	if c.LastActivityAt.After(g.lastActivityAt) {
		return true
	}
	if g.lastActivityAt.After(c.LastActivityAt) {
		return false
	}
	if c.CreatedAt.After(g.canonicalCreatedAt) {
		return true
	}
	if g.canonicalCreatedAt.After(c.CreatedAt) {
		return false
	}
	return bytes.Compare(c.ID[:], g.canonicalID[:]) < 0
}

func (s *inboxService) ListProjectThreads(dbc dbctx.Context, actorID uuid.UUID, role string) ([]ProjectThread, error) {
	if actorID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("missing actor id"))
	}
	ctx, span := observability.Tracer().Start(ctxutil.Default(dbc.Ctx), "inbox.list_project_threads")
	defer span.End()

	convs, err := s.conversations.ListByOwner(dbc.WithCtx(ctx), actorID)
	if err != nil {
		return nil, storeErr(err)
	}
	groups := groupConversations(convs)

	brandIDs := make([]uuid.UUID, 0, len(groups))
	conversationIDs := make([]uuid.UUID, 0, len(convs))
	for _, g := range groups {
		brandIDs = append(brandIDs, g.brandID)
		conversationIDs = append(conversationIDs, g.conversationIDs...)
	}

	// Fan out the four independent resolvers. Each writes only its own
	// variable; the projector runs after the join barrier. The resolvers
	// must not share dbc.Tx, which is why they get a bare context-only
	// handle.
	eg, gctx := errgroup.WithContext(ctx)
	gdbc := dbc.WithCtx(gctx)

	var (
		identities map[uuid.UUID]brandIdentity
		apps       []*types.Application
		campaigns  map[uuid.UUID]*types.Campaign
		unread     map[uuid.UUID]int64
		latest     map[uuid.UUID]*types.Message
	)

	eg.Go(func() error {
		var err error
		identities, err = s.resolveBrands(gdbc, brandIDs, role)
		return err
	})
	eg.Go(func() error {
		var err error
		apps, campaigns, err = s.resolveProjects(gdbc, actorID)
		return err
	})
	eg.Go(func() error {
		var err error
		unread, err = s.messages.CountUnreadByConversations(gdbc, conversationIDs, actorID)
		if err != nil {
			return storeErr(err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		latest, err = s.messages.LatestByConversations(gdbc, conversationIDs)
		if err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return s.projectThreads(groups, identities, apps, campaigns, unread, latest), nil
}

// resolveBrands batch-resolves display identities: one fetch against brand
// profiles, and for fallback roles a second fetch against users covering the
// same id set. Profiles win over user rows; ids in neither source get the
// sentinel identity at projection time.
func (s *inboxService) resolveBrands(dbc dbctx.Context, brandIDs []uuid.UUID, role string) (map[uuid.UUID]brandIdentity, error) {
	out := make(map[uuid.UUID]brandIdentity, len(brandIDs))
	if len(brandIDs) == 0 {
		return out, nil
	}

	if _, ok := fallbackIdentityRoles[role]; ok {
		users, err := s.users.GetByIDs(dbc, brandIDs)
		if err != nil {
			return nil, storeErr(err)
		}
		for _, u := range users {
			out[u.ID] = brandIdentity{Name: u.DisplayName, Contact: u.Email, AvatarKey: u.AvatarKey}
		}
	}

	profiles, err := s.brands.GetByIDs(dbc, brandIDs)
	if err != nil {
		return nil, storeErr(err)
	}
	for _, p := range profiles {
		out[p.ID] = brandIdentity{Name: p.Name, Contact: p.ContactEmail, AvatarKey: p.AvatarKey}
	}
	return out, nil
}

// resolveProjects batch-resolves the actor's approved applications and their
// campaigns in exactly two bulk fetches (the second keyed by the campaign
// ids collected from the first).
func (s *inboxService) resolveProjects(dbc dbctx.Context, actorID uuid.UUID) ([]*types.Application, map[uuid.UUID]*types.Campaign, error) {
	apps, err := s.applications.ListByApplicantAndStatus(dbc, actorID, types.ApplicationStatusApproved)
	if err != nil {
		return nil, nil, storeErr(err)
	}

	campaignIDs := make([]uuid.UUID, 0, len(apps))
	seen := make(map[uuid.UUID]struct{}, len(apps))
	for _, a := range apps {
		if _, dup := seen[a.CampaignID]; dup {
			continue
		}
		seen[a.CampaignID] = struct{}{}
		campaignIDs = append(campaignIDs, a.CampaignID)
	}

	rows, err := s.campaigns.GetByIDs(dbc, campaignIDs)
	if err != nil {
		return nil, nil, storeErr(err)
	}
	campaigns := make(map[uuid.UUID]*types.Campaign, len(rows))
	for _, c := range rows {
		campaigns[c.ID] = c
	}
	return apps, campaigns, nil
}

// projectThreads is the single in-memory merge pass. Results never depend on
// store row order: every cross-fetch match is an explicit lookup by id.
func (s *inboxService) projectThreads(
	groups map[uuid.UUID]*conversationGroup,
	identities map[uuid.UUID]brandIdentity,
	apps []*types.Application,
	campaigns map[uuid.UUID]*types.Campaign,
	unread map[uuid.UUID]int64,
	latest map[uuid.UUID]*types.Message,
) []ProjectThread {
	ordered := make([]*conversationGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].lastActivityAt.Equal(ordered[j].lastActivityAt) {
			return ordered[i].lastActivityAt.After(ordered[j].lastActivityAt)
		}
		return bytes.Compare(ordered[i].brandID[:], ordered[j].brandID[:]) < 0
	})

	out := make([]ProjectThread, 0, len(apps))
	for _, g := range ordered {
		var unreadTotal int64
		var last *types.Message
		for _, id := range g.conversationIDs {
			unreadTotal += unread[id]
			m := bestLatest(last, latest[id])
			last = m
		}

		ident, ok := identities[g.brandID]
		if !ok {
			ident = unknownBrandIdentity
		}

		for _, app := range apps {
			campaign := campaigns[app.CampaignID]
			if campaign == nil {
				// Orphaned application; the campaign row is gone.
				continue
			}
			if campaign.BrandID != g.brandID {
				continue
			}
			out = append(out, ProjectThread{
				ApplicationID:  app.ID,
				CampaignID:     campaign.ID,
				CampaignTitle:  campaign.Title,
				OrgName:        campaign.OrgName,
				BrandID:        g.brandID,
				BrandName:      ident.Name,
				BrandContact:   ident.Contact,
				BrandAvatarURL: s.objectURL(ident.AvatarKey),
				ConversationID: g.canonicalID,
				Title:          g.title,
				Tags:           g.tags,
				UnreadCount:    unreadTotal,
				LastMessage:    last,
				LastActivityAt: g.lastActivityAt,
			})
		}
	}
	return out
}

// bestLatest picks the newer of two candidate messages, breaking created_at
// ties by lowest id so repeated runs agree.
func bestLatest(current, candidate *types.Message) *types.Message {
	if candidate == nil {
		return current
	}
	if current == nil {
		return candidate
	}
	if candidate.CreatedAt.After(current.CreatedAt) {
		return candidate
	}
	if candidate.CreatedAt.Equal(current.CreatedAt) && bytes.Compare(candidate.ID[:], current.ID[:]) < 0 {
		return candidate
	}
	return current
}

func (s *inboxService) MarkConversationRead(dbc dbctx.Context, actorID uuid.UUID, conversationID uuid.UUID) error {
	if actorID == uuid.Nil || conversationID == uuid.Nil {
		return apierr.New(http.StatusBadRequest, "validation_failed", fmt.Errorf("missing actor or conversation id"))
	}
	rows, err := s.conversations.GetByIDs(dbc, []uuid.UUID{conversationID})
	if err != nil {
		return storeErr(err)
	}
	if len(rows) == 0 || rows[0].OwnerID != actorID {
		return apierr.New(http.StatusNotFound, "conversation_not_found", fmt.Errorf("conversation %s not found", conversationID))
	}
	if err := s.messages.MarkConversationRead(dbc, conversationID, actorID); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *inboxService) objectURL(key string) string {
	if key == "" {
		return ""
	}
	if s.urls == nil {
		return key
	}
	return s.urls.GetPublicURL(key)
}

func storeErr(err error) error {
	return apierr.New(http.StatusBadGateway, "store_unavailable", err)
}
