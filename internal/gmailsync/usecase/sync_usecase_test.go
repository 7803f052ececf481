package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"emailbudget-backend/internal/categorizer"
	"emailbudget-backend/internal/gmailsync/domain"
	txdomain "emailbudget-backend/internal/transaction/domain"
	"emailbudget-backend/pkg/oauth"
)

// ---- in-memory repositories ----

type memTokens struct {
	token *domain.TokenSet
}

func (m *memTokens) Get(userID string) (*domain.TokenSet, error) { return m.token, nil }
func (m *memTokens) Save(t *domain.TokenSet) error               { m.token = t; return nil }
func (m *memTokens) UpdateAccess(userID, accessToken string, expiresAt time.Time) error {
	m.token.AccessToken = accessToken
	m.token.ExpiresAt = expiresAt
	return nil
}
func (m *memTokens) Delete(userID string) error { m.token = nil; return nil }

type memCredentials struct{}

func (m *memCredentials) Get(userID string) (*domain.OAuthCredentials, error) { return nil, nil }
func (m *memCredentials) Save(c *domain.OAuthCredentials) error               { return nil }
func (m *memCredentials) Delete(userID string) error                          { return nil }

type memSyncState struct {
	state *domain.SyncState
}

func (m *memSyncState) Get(userID string) (*domain.SyncState, error) { return m.state, nil }
func (m *memSyncState) SaveCursor(userID string, historyID uint64, initialComplete bool) error {
	if m.state == nil {
		m.state = &domain.SyncState{UserID: userID}
	}
	m.state.HistoryID = &historyID
	m.state.InitialSyncComplete = initialComplete
	return nil
}
func (m *memSyncState) TouchLastSync(userID string, at time.Time) error {
	if m.state == nil {
		m.state = &domain.SyncState{UserID: userID}
	}
	m.state.LastSyncAt = &at
	return nil
}
func (m *memSyncState) Reset(userID string) error { m.state = nil; return nil }

type memProcessed struct {
	ids map[string]bool
}

func newMemProcessed() *memProcessed { return &memProcessed{ids: make(map[string]bool)} }

func (m *memProcessed) Contains(userID, messageID string) (bool, error) {
	return m.ids[messageID], nil
}
func (m *memProcessed) Add(userID, messageID string) error {
	m.ids[messageID] = true
	return nil
}
func (m *memProcessed) Clear(userID string) error {
	m.ids = make(map[string]bool)
	return nil
}

type memFilters struct {
	addresses []string
}

func (m *memFilters) List(userID string) ([]domain.SenderFilter, error)  { return nil, nil }
func (m *memFilters) EnabledAddresses(userID string) ([]string, error)   { return m.addresses, nil }
func (m *memFilters) Create(f *domain.SenderFilter) error                { return nil }
func (m *memFilters) SetEnabled(userID, id string, enabled bool) error   { return nil }
func (m *memFilters) Delete(userID, id string) error                     { return nil }
func (m *memFilters) SeedDefaults(userID string) error                   { return nil }

type memTransactions struct {
	byHash map[string]*txdomain.Transaction
}

func newMemTransactions() *memTransactions {
	return &memTransactions{byHash: make(map[string]*txdomain.Transaction)}
}

func (m *memTransactions) Create(tx *txdomain.Transaction) error {
	m.byHash[tx.SourceHash] = tx
	return nil
}
func (m *memTransactions) ExistsBySourceHash(userID, hash string) (bool, error) {
	_, ok := m.byHash[hash]
	return ok, nil
}
func (m *memTransactions) FindByID(userID, id string) (*txdomain.Transaction, error) {
	return nil, nil
}
func (m *memTransactions) List(userID string, startDate, endDate, categoryID string, limit, offset int) ([]txdomain.Transaction, error) {
	return nil, nil
}
func (m *memTransactions) UpdateCategory(userID, id string, categoryID *string) error { return nil }
func (m *memTransactions) Delete(userID, id string) error                             { return nil }
func (m *memTransactions) LatestCategoryForMerchant(userID, merchant string) (*string, error) {
	return nil, nil
}
func (m *memTransactions) MonthlySummary(userID, month string) ([]txdomain.CategorySummary, error) {
	return nil, nil
}
func (m *memTransactions) SumForCategory(userID, categoryID, startDate, endDate string) (int64, error) {
	return 0, nil
}

type memRules struct{}

func (m *memRules) FindExact(userID, merchant string) (*txdomain.MerchantCategoryRule, error) {
	return nil, nil
}
func (m *memRules) FindLongestPattern(userID, merchant string) (*txdomain.MerchantCategoryRule, error) {
	return nil, nil
}
func (m *memRules) Upsert(r *txdomain.MerchantCategoryRule) error            { return nil }
func (m *memRules) List(userID string) ([]txdomain.MerchantCategoryRule, error) { return nil, nil }
func (m *memRules) Delete(userID, id string) error                           { return nil }

type memCategories struct{}

func (m *memCategories) Create(c *txdomain.Category) error                      { return nil }
func (m *memCategories) FindByID(userID, id string) (*txdomain.Category, error) { return nil, nil }
func (m *memCategories) FindByName(userID, name string) (*txdomain.Category, error) {
	return &txdomain.Category{ID: "cat-" + name, Name: name}, nil
}
func (m *memCategories) List(userID string) ([]txdomain.Category, error) { return nil, nil }
func (m *memCategories) Update(c *txdomain.Category) error               { return nil }
func (m *memCategories) Delete(userID, id string) error                  { return nil }
func (m *memCategories) SeedDefaults(userID string) error                { return nil }

// ---- fake mail provider ----

type fakeMail struct {
	profile      domain.Profile
	messages     map[string]*domain.Message
	listPages    []domain.MessagePage
	history      []domain.HistoryPage
	historyErr   error
	listCalls    int
	getCalls     int
	historyCalls int
}

func (f *fakeMail) Profile() (*domain.Profile, error) { return &f.profile, nil }

func (f *fakeMail) ListMessages(query, pageToken string, pageSize int64) (*domain.MessagePage, error) {
	idx := f.listCalls
	f.listCalls++
	if idx >= len(f.listPages) {
		return &domain.MessagePage{}, nil
	}
	return &f.listPages[idx], nil
}

func (f *fakeMail) GetMessage(id string) (*domain.Message, error) {
	f.getCalls++
	msg, ok := f.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return msg, nil
}

func (f *fakeMail) ListHistory(startHistoryID uint64, pageToken string) (*domain.HistoryPage, error) {
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	idx := f.historyCalls - 1
	if idx >= len(f.history) {
		return &domain.HistoryPage{HistoryID: startHistoryID}, nil
	}
	return &f.history[idx], nil
}

// ---- harness ----

const uberBody = `<html><body>
<p>Thanks for riding with uber.com</p>
<p>Trip Total: $23.45</p>
<p>January 15, 2024</p>
</body></html>`

func uberMessage(id string) *domain.Message {
	return &domain.Message{
		ID:       id,
		From:     "Uber Receipts <uber.us@uber.com>",
		HTMLBody: uberBody,
	}
}

type harness struct {
	usecase   *SyncUsecase
	mail      *fakeMail
	state     *memSyncState
	processed *memProcessed
	txs       *memTransactions
}

func newHarness(mail *fakeMail) *harness {
	tokens := &memTokens{token: &domain.TokenSet{
		UserID:       domain.LocalUserID,
		AccessToken:  "valid-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}}
	manager := NewTokenManager(tokens, &memCredentials{}, oauth.NewService(0), "client", "secret")

	state := &memSyncState{}
	processed := newMemProcessed()
	txs := newMemTransactions()
	resolver := categorizer.NewResolver(&memRules{}, txs, &memCategories{})

	factory := func(ctx context.Context, accessToken string) (domain.MailAPI, error) {
		return mail, nil
	}

	u := NewSyncUsecase(manager, state, processed, &memFilters{
		addresses: []string{"uber.us@uber.com"},
	}, txs, resolver, factory, 90)

	return &harness{usecase: u, mail: mail, state: state, processed: processed, txs: txs}
}

// ---- tests ----

func TestInitialSyncImportsAndCapturesCursor(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{EmailAddress: "me@gmail.com", HistoryID: 500},
		messages: map[string]*domain.Message{
			"m1": uberMessage("m1"),
		},
		listPages: []domain.MessagePage{
			{Messages: []domain.MessageRef{{ID: "m1"}}},
		},
	}
	h := newHarness(mail)

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.NewTransactions != 1 {
		t.Errorf("NewTransactions = %d, want 1", result.NewTransactions)
	}
	if h.state.state == nil || h.state.state.HistoryID == nil || *h.state.state.HistoryID != 500 {
		t.Errorf("cursor not captured: %+v", h.state.state)
	}
	if !h.state.state.InitialSyncComplete {
		t.Error("initial sync not marked complete")
	}
	if !h.processed.ids["m1"] {
		t.Error("message not marked processed")
	}
	if h.usecase.Status().Status != domain.StatusIdle {
		t.Errorf("status = %v, want idle", h.usecase.Status().Status)
	}
}

func TestInitialSyncPaginates(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{HistoryID: 500},
		messages: map[string]*domain.Message{
			"m1": uberMessage("m1"),
			"m2": uberMessage("m2"),
		},
		listPages: []domain.MessagePage{
			{Messages: []domain.MessageRef{{ID: "m1"}}, NextPageToken: "page2"},
			{Messages: []domain.MessageRef{{ID: "m2"}}},
		},
	}
	h := newHarness(mail)

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mail.listCalls != 2 {
		t.Errorf("listCalls = %d, want 2", mail.listCalls)
	}
	// Both bodies fingerprint identically, so the second import is a dup.
	if result.NewTransactions != 1 || result.DuplicatesSkipped != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestIncrementalSyncAdvancesCursor(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{HistoryID: 900},
		messages: map[string]*domain.Message{
			"m9": uberMessage("m9"),
		},
		history: []domain.HistoryPage{
			{AddedMessages: []domain.MessageRef{{ID: "m9"}}, HistoryID: 800},
		},
	}
	h := newHarness(mail)
	start := uint64(700)
	h.state.state = &domain.SyncState{
		UserID:              domain.LocalUserID,
		HistoryID:           &start,
		InitialSyncComplete: true,
	}

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mail.listCalls != 0 {
		t.Error("incremental cycle ran a full listing")
	}
	if result.NewTransactions != 1 {
		t.Errorf("NewTransactions = %d, want 1", result.NewTransactions)
	}
	if *h.state.state.HistoryID != 800 {
		t.Errorf("cursor = %d, want 800", *h.state.state.HistoryID)
	}
}

func TestExpiredCursorFallsBackToInitialSameCycle(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{HistoryID: 1000},
		messages: map[string]*domain.Message{
			"m1": uberMessage("m1"),
		},
		listPages: []domain.MessagePage{
			{Messages: []domain.MessageRef{{ID: "m1"}}},
		},
		historyErr: domain.ErrHistoryExpired,
	}
	h := newHarness(mail)
	start := uint64(1)
	h.state.state = &domain.SyncState{
		UserID:              domain.LocalUserID,
		HistoryID:           &start,
		InitialSyncComplete: true,
	}

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.NewTransactions != 1 {
		t.Errorf("NewTransactions = %d, want 1 from fallback backfill", result.NewTransactions)
	}
	if h.state.state == nil || *h.state.state.HistoryID != 1000 {
		t.Errorf("cursor after fallback = %+v, want fresh 1000", h.state.state)
	}
}

func TestProcessedMessagesAreNeverRefetched(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{HistoryID: 500},
		messages: map[string]*domain.Message{
			"m1": uberMessage("m1"),
		},
		listPages: []domain.MessagePage{
			{Messages: []domain.MessageRef{{ID: "m1"}}},
		},
	}
	h := newHarness(mail)
	h.processed.ids["m1"] = true

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mail.getCalls != 0 {
		t.Errorf("getCalls = %d, want 0 for a processed message", mail.getCalls)
	}
	if result.EmailsProcessed != 0 || result.NewTransactions != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestDisabledSenderIsMarkedProcessedAndSkipped(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{HistoryID: 500},
		messages: map[string]*domain.Message{
			"m1": {ID: "m1", From: "Spam <promo@example.com>", HTMLBody: uberBody},
		},
		listPages: []domain.MessagePage{
			{Messages: []domain.MessageRef{{ID: "m1"}}},
		},
	}
	h := newHarness(mail)

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.NewTransactions != 0 {
		t.Errorf("imported from disabled sender: %+v", result)
	}
	if !h.processed.ids["m1"] {
		t.Error("filtered message not marked processed")
	}
}

func TestUnparseableBodyIsPermanentlySkipped(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{HistoryID: 500},
		messages: map[string]*domain.Message{
			"m1": {ID: "m1", From: "uber.us@uber.com", HTMLBody: "<p>see you soon</p>"},
		},
		listPages: []domain.MessagePage{
			{Messages: []domain.MessageRef{{ID: "m1"}}},
		},
	}
	h := newHarness(mail)

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.NewTransactions != 0 {
		t.Errorf("result = %+v", result)
	}
	if !h.processed.ids["m1"] {
		t.Error("unrecognized message should still be marked processed")
	}
}

func TestRateLimitSurfacesAsStatusNotError(t *testing.T) {
	mail := &fakeMail{
		profile:    domain.Profile{HistoryID: 500},
		historyErr: domain.ErrRateLimited,
	}
	h := newHarness(mail)
	start := uint64(700)
	h.state.state = &domain.SyncState{
		UserID:              domain.LocalUserID,
		HistoryID:           &start,
		InitialSyncComplete: true,
	}

	_, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("rate limit should not be an error: %v", err)
	}
	if h.usecase.Status().Status != domain.StatusRateLimited {
		t.Errorf("status = %v, want rate_limited", h.usecase.Status().Status)
	}
	if *h.state.state.HistoryID != 700 {
		t.Error("cursor must not advance on a rate-limited cycle")
	}
}

func TestNotConnectedSurfacesAuthRequired(t *testing.T) {
	h := newHarness(&fakeMail{})
	h.usecase.tokens.tokens.(*memTokens).token = nil

	_, err := h.usecase.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected error when no account is connected")
	}
	if h.usecase.Status().Status != domain.StatusAuthRequired {
		t.Errorf("status = %v, want auth_required", h.usecase.Status().Status)
	}
}

func TestSecondCycleDeduplicatesByFingerprint(t *testing.T) {
	mail := &fakeMail{
		profile: domain.Profile{HistoryID: 500},
		messages: map[string]*domain.Message{
			"m1": uberMessage("m1"),
			"m2": uberMessage("m2"), // same receipt delivered twice
		},
		listPages: []domain.MessagePage{
			{Messages: []domain.MessageRef{{ID: "m1"}}},
			{Messages: []domain.MessageRef{{ID: "m2"}}},
		},
	}
	h := newHarness(mail)

	if _, err := h.usecase.RunCycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Force a second initial cycle for the second copy.
	h.state.state = nil

	result, err := h.usecase.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.NewTransactions != 0 || result.DuplicatesSkipped != 1 {
		t.Errorf("second cycle = %+v, want one duplicate and no imports", result)
	}
	if len(h.txs.byHash) != 1 {
		t.Errorf("stored transactions = %d, want 1", len(h.txs.byHash))
	}
}
