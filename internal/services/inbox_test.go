package services

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/apierr"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

var fixedBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time { return fixedBase.Add(offset) }

func seqUUID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

// inboxFixture backs fake repos with in-memory rows and counts every call
// that would hit the store. The resolvers run concurrently, hence the
// atomic counter.
type inboxFixture struct {
	calls atomic.Int64

	conversations []*types.Conversation
	messages      []*types.Message
	brands        map[uuid.UUID]*types.BrandProfile
	users         map[uuid.UUID]*types.User
	applications  []*types.Application
	campaigns     map[uuid.UUID]*types.Campaign

	failUnread bool
	failBrands bool
}

func newInboxFixture() *inboxFixture {
	return &inboxFixture{
		brands:    map[uuid.UUID]*types.BrandProfile{},
		users:     map[uuid.UUID]*types.User{},
		campaigns: map[uuid.UUID]*types.Campaign{},
	}
}

func (f *inboxFixture) service(t *testing.T) InboxService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewInboxService(nil, log,
		&fakeConversationRepo{f: f},
		&fakeMessageRepo{f: f},
		&fakeBrandRepo{f: f},
		&fakeUserRepo{f: f},
		&fakeApplicationRepo{f: f},
		&fakeCampaignRepo{f: f},
		nil,
	)
}

type fakeConversationRepo struct{ f *inboxFixture }

func (r *fakeConversationRepo) Create(dbc dbctx.Context, rows []*types.Conversation) ([]*types.Conversation, error) {
	panic("not used")
}

func (r *fakeConversationRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Conversation, error) {
	if len(ids) == 0 {
		return []*types.Conversation{}, nil
	}
	r.f.calls.Add(1)
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*types.Conversation
	for _, c := range r.f.conversations {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Conversation, error) {
	r.f.calls.Add(1)
	var out []*types.Conversation
	for _, c := range r.f.conversations {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMessageRepo struct{ f *inboxFixture }

func (r *fakeMessageRepo) Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error) {
	panic("not used")
}

func (r *fakeMessageRepo) ListByConversation(dbc dbctx.Context, conversationID uuid.UUID, limit int) ([]*types.Message, error) {
	panic("not used")
}

func (r *fakeMessageRepo) CountUnreadByConversations(dbc dbctx.Context, conversationIDs []uuid.UUID, recipientID uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	if len(conversationIDs) == 0 {
		return out, nil
	}
	r.f.calls.Add(1)
	if r.f.failUnread {
		return nil, errors.New("connection refused")
	}
	want := map[uuid.UUID]struct{}{}
	for _, id := range conversationIDs {
		want[id] = struct{}{}
	}
	for _, m := range r.f.messages {
		if _, ok := want[m.ConversationID]; !ok {
			continue
		}
		if m.Read || m.SenderID == recipientID {
			continue
		}
		out[m.ConversationID]++
	}
	return out, nil
}

func (r *fakeMessageRepo) LatestByConversations(dbc dbctx.Context, conversationIDs []uuid.UUID) (map[uuid.UUID]*types.Message, error) {
	out := map[uuid.UUID]*types.Message{}
	if len(conversationIDs) == 0 {
		return out, nil
	}
	r.f.calls.Add(1)
	want := map[uuid.UUID]struct{}{}
	for _, id := range conversationIDs {
		want[id] = struct{}{}
	}
	for _, m := range r.f.messages {
		if _, ok := want[m.ConversationID]; !ok {
			continue
		}
		out[m.ConversationID] = bestLatest(out[m.ConversationID], m)
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkConversationRead(dbc dbctx.Context, conversationID uuid.UUID, recipientID uuid.UUID) error {
	r.f.calls.Add(1)
	for _, m := range r.f.messages {
		if m.ConversationID == conversationID && m.SenderID != recipientID {
			m.Read = true
		}
	}
	return nil
}

type fakeBrandRepo struct{ f *inboxFixture }

func (r *fakeBrandRepo) Create(dbc dbctx.Context, rows []*types.BrandProfile) ([]*types.BrandProfile, error) {
	panic("not used")
}

func (r *fakeBrandRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.BrandProfile, error) {
	if len(ids) == 0 {
		return []*types.BrandProfile{}, nil
	}
	r.f.calls.Add(1)
	if r.f.failBrands {
		return nil, errors.New("connection refused")
	}
	var out []*types.BrandProfile
	for _, id := range ids {
		if b, ok := r.f.brands[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeUserRepo struct{ f *inboxFixture }

func (r *fakeUserRepo) Create(dbc dbctx.Context, rows []*types.User) ([]*types.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	if len(ids) == 0 {
		return []*types.User{}, nil
	}
	r.f.calls.Add(1)
	var out []*types.User
	for _, id := range ids {
		if u, ok := r.f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeApplicationRepo struct{ f *inboxFixture }

func (r *fakeApplicationRepo) Create(dbc dbctx.Context, rows []*types.Application) ([]*types.Application, error) {
	panic("not used")
}

func (r *fakeApplicationRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Application, error) {
	panic("not used")
}

func (r *fakeApplicationRepo) ListByApplicantAndStatus(dbc dbctx.Context, applicantID uuid.UUID, status string) ([]*types.Application, error) {
	r.f.calls.Add(1)
	var out []*types.Application
	for _, a := range r.f.applications {
		if a.ApplicantID == applicantID && a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeCampaignRepo struct{ f *inboxFixture }

func (r *fakeCampaignRepo) Create(dbc dbctx.Context, rows []*types.Campaign) ([]*types.Campaign, error) {
	panic("not used")
}

func (r *fakeCampaignRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Campaign, error) {
	if len(ids) == 0 {
		return []*types.Campaign{}, nil
	}
	r.f.calls.Add(1)
	var out []*types.Campaign
	for _, id := range ids {
		if c, ok := r.f.campaigns[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *inboxFixture) addConversation(id int, owner, brand uuid.UUID, lastActivity, created time.Time) *types.Conversation {
	c := &types.Conversation{
		ID:             seqUUID(id),
		OwnerID:        owner,
		BrandID:        brand,
		LastActivityAt: lastActivity,
		CreatedAt:      created,
	}
	f.conversations = append(f.conversations, c)
	return c
}

func (f *inboxFixture) addMessage(id int, conv, sender uuid.UUID, read bool, created time.Time) *types.Message {
	m := &types.Message{
		ID:             seqUUID(id),
		ConversationID: conv,
		SenderID:       sender,
		Read:           read,
		CreatedAt:      created,
	}
	f.messages = append(f.messages, m)
	return m
}

func (f *inboxFixture) addProject(appID, campaignID int, applicant, brand uuid.UUID, title string) (*types.Application, *types.Campaign) {
	campaign := &types.Campaign{ID: seqUUID(campaignID), BrandID: brand, Title: title, OrgName: title + " org"}
	f.campaigns[campaign.ID] = campaign
	app := &types.Application{
		ID:          seqUUID(appID),
		ApplicantID: applicant,
		CampaignID:  campaign.ID,
		Status:      types.ApplicationStatusApproved,
		AppliedAt:   fixedBase,
	}
	f.applications = append(f.applications, app)
	return app, campaign
}

func TestGroupConversations(t *testing.T) {
	owner := seqUUID(900)
	brandA := seqUUID(901)
	brandB := seqUUID(902)

	f := newInboxFixture()
	f.addConversation(1, owner, brandA, at(10*time.Minute), at(-2*time.Hour))
	f.addConversation(2, owner, brandA, at(5*time.Minute), at(-1*time.Hour))
	f.addConversation(3, owner, brandA, at(7*time.Minute), at(-30*time.Minute))
	f.addConversation(4, owner, brandB, at(1*time.Minute), at(0))

	groups := groupConversations(f.conversations)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	ga := groups[brandA]
	if ga == nil {
		t.Fatalf("missing group for brand A")
	}
	if len(ga.conversationIDs) != 3 {
		t.Fatalf("brand A group: expected 3 members, got %d", len(ga.conversationIDs))
	}
	if ga.canonicalID != seqUUID(1) {
		t.Fatalf("brand A canonical: expected %s, got %s", seqUUID(1), ga.canonicalID)
	}
	if !ga.lastActivityAt.Equal(at(10 * time.Minute)) {
		t.Fatalf("brand A last activity: got %v", ga.lastActivityAt)
	}

	gb := groups[brandB]
	if gb == nil || len(gb.conversationIDs) != 1 || gb.canonicalID != seqUUID(4) {
		t.Fatalf("brand B group unexpected: %+v", gb)
	}
}

func TestGroupConversationsTieBreaks(t *testing.T) {
	owner := seqUUID(900)
	brand := seqUUID(901)

	t.Run("equal_activity_newer_created_wins", func(t *testing.T) {
		f := newInboxFixture()
		f.addConversation(1, owner, brand, at(0), at(-2*time.Hour))
		f.addConversation(2, owner, brand, at(0), at(-1*time.Hour))
		groups := groupConversations(f.conversations)
		if got := groups[brand].canonicalID; got != seqUUID(2) {
			t.Fatalf("expected canonical %s, got %s", seqUUID(2), got)
		}
	})

	t.Run("full_tie_lowest_id_wins", func(t *testing.T) {
		f := newInboxFixture()
		// Inserted in descending id order to prove the pick is not
		// first-seen.
		f.addConversation(2, owner, brand, at(0), at(0))
		f.addConversation(1, owner, brand, at(0), at(0))
		groups := groupConversations(f.conversations)
		if got := groups[brand].canonicalID; got != seqUUID(1) {
			t.Fatalf("expected canonical %s, got %s", seqUUID(1), got)
		}
	})
}

// The end-to-end shape: brand A has two raw conversations and one approved
// campaign; brand B has a conversation but no approved application and must
// not appear.
func TestListProjectThreadsEndToEnd(t *testing.T) {
	actor := seqUUID(900)
	brandA := seqUUID(901)
	brandB := seqUUID(902)

	f := newInboxFixture()
	f.brands[brandA] = &types.BrandProfile{ID: brandA, Name: "Acme", ContactEmail: "hello@acme.test"}
	f.brands[brandB] = &types.BrandProfile{ID: brandB, Name: "Blip"}

	a1 := f.addConversation(1, actor, brandA, at(10*time.Minute), at(-2*time.Hour))
	a2 := f.addConversation(2, actor, brandA, at(5*time.Minute), at(-1*time.Hour))
	f.addConversation(3, actor, brandB, at(1*time.Minute), at(0))

	f.addMessage(10, a1.ID, brandA, false, at(9*time.Minute))
	f.addMessage(11, a2.ID, brandA, false, at(4*time.Minute))
	f.addMessage(12, a2.ID, brandA, false, at(11*time.Minute)) // newest overall
	f.addMessage(13, a2.ID, actor, false, at(2*time.Minute))   // actor's own, not unread

	app, campaign := f.addProject(20, 21, actor, brandA, "Summer launch")

	got, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "creator")
	if err != nil {
		t.Fatalf("ListProjectThreads: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 project thread, got %d", len(got))
	}
	pt := got[0]
	if pt.ApplicationID != app.ID || pt.CampaignID != campaign.ID {
		t.Fatalf("unexpected project pairing: %+v", pt)
	}
	if pt.BrandID != brandA || pt.BrandName != "Acme" {
		t.Fatalf("unexpected brand identity: %+v", pt)
	}
	if pt.ConversationID != a1.ID {
		t.Fatalf("canonical conversation: expected %s, got %s", a1.ID, pt.ConversationID)
	}
	if pt.UnreadCount != 3 {
		t.Fatalf("unread count: expected 3, got %d", pt.UnreadCount)
	}
	if pt.LastMessage == nil || pt.LastMessage.ID != seqUUID(12) {
		t.Fatalf("last message: expected %s, got %+v", seqUUID(12), pt.LastMessage)
	}
	if !pt.LastActivityAt.Equal(at(10 * time.Minute)) {
		t.Fatalf("last activity: got %v", pt.LastActivityAt)
	}
}

func TestListProjectThreadsUnreadSums(t *testing.T) {
	actor := seqUUID(900)

	cases := []struct {
		name          string
		conversations int
		unreadSplit   []int
		want          int64
	}{
		{name: "single_conversation", conversations: 1, unreadSplit: []int{4}, want: 4},
		{name: "five_conversations_split", conversations: 5, unreadSplit: []int{1, 0, 2, 0, 3}, want: 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			brand := seqUUID(800)
			f := newInboxFixture()
			f.brands[brand] = &types.BrandProfile{ID: brand, Name: "Acme"}
			f.addProject(700, 701, actor, brand, "Launch")

			msgID := 100
			for i := 0; i < tc.conversations; i++ {
				c := f.addConversation(i+1, actor, brand, at(time.Duration(i)*time.Minute), at(0))
				for j := 0; j < tc.unreadSplit[i]; j++ {
					f.addMessage(msgID, c.ID, brand, false, at(time.Duration(msgID)*time.Second))
					msgID++
				}
			}

			got, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "creator")
			if err != nil {
				t.Fatalf("ListProjectThreads: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 project thread, got %d", len(got))
			}
			if got[0].UnreadCount != tc.want {
				t.Fatalf("unread count: expected %d, got %d", tc.want, got[0].UnreadCount)
			}
		})
	}
}

// The aggregation must cost a bounded constant number of bulk calls no
// matter how many raw rows exist.
func TestListProjectThreadsBulkCallBound(t *testing.T) {
	for _, n := range []int{10, 100, 1000} {
		t.Run(fmt.Sprintf("n_%d", n), func(t *testing.T) {
			actor := seqUUID(999900)
			f := newInboxFixture()

			brandCount := n/10 + 1
			for b := 0; b < brandCount; b++ {
				brand := seqUUID(500000 + b)
				f.brands[brand] = &types.BrandProfile{ID: brand, Name: fmt.Sprintf("Brand %d", b)}
				f.addProject(600000+b, 700000+b, actor, brand, fmt.Sprintf("Campaign %d", b))
			}
			for i := 0; i < n; i++ {
				brand := seqUUID(500000 + i%brandCount)
				c := f.addConversation(i+1, actor, brand, at(time.Duration(i)*time.Second), at(0))
				f.addMessage(100000+i, c.ID, brand, i%3 == 0, at(time.Duration(i)*time.Second))
			}

			if _, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "analyst"); err != nil {
				t.Fatalf("ListProjectThreads: %v", err)
			}
			if calls := f.calls.Load(); calls > 7 {
				t.Fatalf("expected at most 7 bulk calls for n=%d, got %d", n, calls)
			}
		})
	}
}

func TestListProjectThreadsIdempotent(t *testing.T) {
	actor := seqUUID(900)
	f := newInboxFixture()
	for b := 0; b < 4; b++ {
		brand := seqUUID(500 + b)
		f.brands[brand] = &types.BrandProfile{ID: brand, Name: fmt.Sprintf("Brand %d", b)}
		f.addProject(600+b, 700+b, actor, brand, fmt.Sprintf("Campaign %d", b))
		c := f.addConversation(b+1, actor, brand, at(time.Duration(b)*time.Minute), at(0))
		f.addMessage(100+b, c.ID, brand, false, at(time.Duration(b)*time.Minute))
	}
	svc := f.service(t)

	first, err := svc.ListProjectThreads(dbctx.Context{}, actor, "creator")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.ListProjectThreads(dbctx.Context{}, actor, "creator")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("runs differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// Ordering: newest group activity first.
	for i := 1; i < len(first); i++ {
		if first[i].LastActivityAt.After(first[i-1].LastActivityAt) {
			t.Fatalf("output not ordered by last activity desc at index %d", i)
		}
	}
}

func TestListProjectThreadsOrphanApplication(t *testing.T) {
	actor := seqUUID(900)
	brand := seqUUID(901)

	f := newInboxFixture()
	f.brands[brand] = &types.BrandProfile{ID: brand, Name: "Acme"}
	f.addConversation(1, actor, brand, at(0), at(0))
	f.addProject(20, 21, actor, brand, "Launch")

	// Application whose campaign row is gone.
	f.applications = append(f.applications, &types.Application{
		ID:          seqUUID(30),
		ApplicantID: actor,
		CampaignID:  seqUUID(31),
		Status:      types.ApplicationStatusApproved,
	})

	got, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "creator")
	if err != nil {
		t.Fatalf("ListProjectThreads: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("orphaned application should be dropped, got %d threads", len(got))
	}
	if got[0].ApplicationID != seqUUID(20) {
		t.Fatalf("unexpected surviving application: %s", got[0].ApplicationID)
	}
}

func TestListProjectThreadsIdentityFallback(t *testing.T) {
	actor := seqUUID(900)
	brand := seqUUID(901)

	build := func() *inboxFixture {
		f := newInboxFixture()
		f.addConversation(1, actor, brand, at(0), at(0))
		f.addProject(20, 21, actor, brand, "Launch")
		return f
	}

	t.Run("unresolvable_is_unknown_not_error", func(t *testing.T) {
		f := build()
		got, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "creator")
		if err != nil {
			t.Fatalf("ListProjectThreads: %v", err)
		}
		if len(got) != 1 || got[0].BrandName != "Unknown" {
			t.Fatalf("expected sentinel identity, got %+v", got)
		}
	})

	t.Run("analyst_falls_back_to_user_row", func(t *testing.T) {
		f := build()
		f.users[brand] = &types.User{ID: brand, Email: "ops@acme.test", DisplayName: "Acme Ops"}
		got, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "analyst")
		if err != nil {
			t.Fatalf("ListProjectThreads: %v", err)
		}
		if len(got) != 1 || got[0].BrandName != "Acme Ops" || got[0].BrandContact != "ops@acme.test" {
			t.Fatalf("expected user fallback identity, got %+v", got)
		}
	})

	t.Run("profile_wins_over_user_row", func(t *testing.T) {
		f := build()
		f.users[brand] = &types.User{ID: brand, Email: "ops@acme.test", DisplayName: "Acme Ops"}
		f.brands[brand] = &types.BrandProfile{ID: brand, Name: "Acme", ContactEmail: "hello@acme.test"}
		got, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "analyst")
		if err != nil {
			t.Fatalf("ListProjectThreads: %v", err)
		}
		if len(got) != 1 || got[0].BrandName != "Acme" {
			t.Fatalf("expected profile identity to win, got %+v", got)
		}
	})
}

func TestListProjectThreadsStoreFailure(t *testing.T) {
	actor := seqUUID(900)
	brand := seqUUID(901)

	f := newInboxFixture()
	f.brands[brand] = &types.BrandProfile{ID: brand, Name: "Acme"}
	c := f.addConversation(1, actor, brand, at(0), at(0))
	f.addMessage(10, c.ID, brand, false, at(0))
	f.addProject(20, 21, actor, brand, "Launch")
	f.failUnread = true

	got, err := f.service(t).ListProjectThreads(dbctx.Context{}, actor, "creator")
	if err == nil {
		t.Fatalf("expected aggregation failure, got %d threads", len(got))
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "store_unavailable" || ae.Status != http.StatusBadGateway {
		t.Fatalf("expected store_unavailable apierr, got %#v", err)
	}
}

func TestMarkConversationRead(t *testing.T) {
	actor := seqUUID(900)
	other := seqUUID(901)
	brand := seqUUID(902)

	f := newInboxFixture()
	mine := f.addConversation(1, actor, brand, at(0), at(0))
	theirs := f.addConversation(2, other, brand, at(0), at(0))
	f.addMessage(10, mine.ID, brand, false, at(0))

	svc := f.service(t)

	if err := svc.MarkConversationRead(dbctx.Context{}, actor, mine.ID); err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	for _, m := range f.messages {
		if m.ConversationID == mine.ID && !m.Read {
			t.Fatalf("message %s still unread", m.ID)
		}
	}

	err := svc.MarkConversationRead(dbctx.Context{}, actor, theirs.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusNotFound {
		t.Fatalf("expected not found for someone else's conversation, got %#v", err)
	}
}
