package vip

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hrygo/vipsense/ai/llm"
	"github.com/hrygo/vipsense/store"
)

// ============================================================================
// Mock Gateway
// ============================================================================

type mockGateway struct {
	mu sync.Mutex

	identities map[string]*Identity // by user ID
	byName     map[string]*Identity
	dmChannels map[string]string // "userA|userB" -> channel ID
	pages      map[string][]*MessagePage
	pageIndex  map[string]int

	lookupErr    error
	openErr      error
	fetchErr     error
	fetchErrPage int // fail on this page index (0-based); -1 disables
	lookupCalls  int
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		identities:   make(map[string]*Identity),
		byName:       make(map[string]*Identity),
		dmChannels:   make(map[string]string),
		pages:        make(map[string][]*MessagePage),
		pageIndex:    make(map[string]int),
		fetchErrPage: -1,
	}
}

func (g *mockGateway) addUser(id, username, displayName string) *Identity {
	identity := &Identity{ID: id, Username: username, DisplayName: displayName}
	g.identities[id] = identity
	g.byName[username] = identity
	return identity
}

func (g *mockGateway) LookupIdentity(_ context.Context, userID string) (*Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookupCalls++
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	identity, ok := g.identities[userID]
	if !ok {
		return nil, ErrGatewayNotFound
	}
	return identity, nil
}

func (g *mockGateway) LookupIdentityByName(_ context.Context, username string) (*Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookupCalls++
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	identity, ok := g.byName[username]
	if !ok {
		return nil, ErrGatewayNotFound
	}
	return identity, nil
}

func (g *mockGateway) OpenDirectChannel(_ context.Context, userA, userB string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.openErr != nil {
		return "", g.openErr
	}
	if channelID, ok := g.dmChannels[userA+"|"+userB]; ok {
		return channelID, nil
	}
	return "", ErrGatewayNotFound
}

func (g *mockGateway) FetchMessagePage(_ context.Context, channelID, cursor string, _ time.Time) (*MessagePage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	index := g.pageIndex[channelID]
	if g.fetchErr != nil && (g.fetchErrPage < 0 || g.fetchErrPage == index) {
		return nil, g.fetchErr
	}
	pages := g.pages[channelID]
	if index >= len(pages) {
		return &MessagePage{}, nil
	}
	g.pageIndex[channelID] = index + 1
	return pages[index], nil
}

// ============================================================================
// Mock LLM
// ============================================================================

type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	prompts  []string
}

func (m *mockLLM) Chat(_ context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, msg := range messages {
		m.prompts = append(m.prompts, msg.Content)
	}
	if m.err != nil {
		return "", nil, m.err
	}
	return m.response, &llm.CallStats{TotalTokens: 42}, nil
}

func (m *mockLLM) Warmup(context.Context) {}

// ============================================================================
// Mock Driver (in-memory Store backend)
// ============================================================================

type mockDriver struct {
	mu sync.Mutex

	relationships []*store.VIPRelationship
	records       []*store.SummaryRecord
	nextID        int64

	createRelErr   error
	createRecErr   error
	listRecCallErr error
}

func newMockDriver() *mockDriver {
	return &mockDriver{nextID: 1}
}

func newTestStore(driver *mockDriver) *store.Store {
	return store.New(driver, nil)
}

func (d *mockDriver) GetDB() any { return nil }

func (d *mockDriver) Close() error { return nil }

func (d *mockDriver) Migrate(context.Context) error { return nil }

func (d *mockDriver) CreateVIPRelationship(_ context.Context, create *store.CreateVIPRelationship) (*store.VIPRelationship, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.createRelErr != nil {
		return nil, d.createRelErr
	}
	for _, relationship := range d.relationships {
		if relationship.VIPUserID == create.VIPUserID && relationship.AddedBy == create.AddedBy {
			return nil, store.ErrAlreadyExists
		}
	}
	relationship := &store.VIPRelationship{
		ID:          d.nextID,
		VIPUserID:   create.VIPUserID,
		Username:    create.Username,
		DisplayName: create.DisplayName,
		AddedBy:     create.AddedBy,
		AddedAt:     create.AddedAt,
		Active:      true,
	}
	d.nextID++
	d.relationships = append(d.relationships, relationship)
	return relationship, nil
}

func (d *mockDriver) ReactivateVIPRelationship(_ context.Context, update *store.CreateVIPRelationship) (*store.VIPRelationship, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, relationship := range d.relationships {
		if relationship.VIPUserID == update.VIPUserID && relationship.AddedBy == update.AddedBy && !relationship.Active {
			relationship.Active = true
			relationship.AddedAt = update.AddedAt
			relationship.Username = update.Username
			relationship.DisplayName = update.DisplayName
			return relationship, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *mockDriver) DeactivateVIPRelationship(_ context.Context, vipUserID, addedBy string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, relationship := range d.relationships {
		if relationship.VIPUserID == vipUserID && relationship.AddedBy == addedBy && relationship.Active {
			relationship.Active = false
			return nil
		}
	}
	return store.ErrNotFound
}

func (d *mockDriver) ListVIPRelationships(_ context.Context, find *store.FindVIPRelationship) ([]*store.VIPRelationship, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.VIPRelationship
	for _, relationship := range d.relationships {
		if find.VIPUserID != nil && relationship.VIPUserID != *find.VIPUserID {
			continue
		}
		if find.Username != nil && relationship.Username != *find.Username {
			continue
		}
		if find.AddedBy != nil && relationship.AddedBy != *find.AddedBy {
			continue
		}
		if find.Active != nil && relationship.Active != *find.Active {
			continue
		}
		list = append(list, relationship)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].AddedAt != list[j].AddedAt {
			return list[i].AddedAt < list[j].AddedAt
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (d *mockDriver) CreateSummaryRecord(_ context.Context, create *store.CreateSummaryRecord) (*store.SummaryRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.createRecErr != nil {
		return nil, d.createRecErr
	}
	record := &store.SummaryRecord{
		ID:             d.nextID,
		UID:            create.UID,
		VIPUserID:      create.VIPUserID,
		VIPUsername:    create.VIPUsername,
		VIPDisplayName: create.VIPDisplayName,
		RequestedBy:    create.RequestedBy,
		Scope:          create.Scope,
		ChannelID:      create.ChannelID,
		ChannelName:    create.ChannelName,
		TimeframeHours: create.TimeframeHours,
		MessageCount:   create.MessageCount,
		MentionCount:   create.MentionCount,
		ReplyCount:     create.ReplyCount,
		Content:        create.Content,
		ContentLength:  create.ContentLength,
		CreatedTs:      create.CreatedTs,
	}
	d.nextID++
	d.records = append(d.records, record)
	return record, nil
}

func (d *mockDriver) ListSummaryRecords(_ context.Context, find *store.FindSummaryRecord) ([]*store.SummaryRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listRecCallErr != nil {
		return nil, d.listRecCallErr
	}
	var list []*store.SummaryRecord
	for _, record := range d.records {
		if find.UID != nil && record.UID != *find.UID {
			continue
		}
		if find.VIPUserID != nil && record.VIPUserID != *find.VIPUserID {
			continue
		}
		if find.RequestedBy != nil && record.RequestedBy != *find.RequestedBy {
			continue
		}
		if find.Scope != nil && record.Scope != *find.Scope {
			continue
		}
		list = append(list, record)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedTs > list[j].CreatedTs
	})
	if find.Limit != nil && len(list) > *find.Limit {
		list = list[:*find.Limit]
	}
	return list, nil
}
