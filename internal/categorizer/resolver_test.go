package categorizer

import (
	"testing"

	"emailbudget-backend/internal/transaction/domain"
)

type fakeRuleRepo struct {
	exact   map[string]*domain.MerchantCategoryRule
	pattern []*domain.MerchantCategoryRule
	saved   []*domain.MerchantCategoryRule
}

func (f *fakeRuleRepo) FindExact(userID, merchant string) (*domain.MerchantCategoryRule, error) {
	return f.exact[merchant], nil
}

func (f *fakeRuleRepo) FindLongestPattern(userID, merchant string) (*domain.MerchantCategoryRule, error) {
	var best *domain.MerchantCategoryRule
	for _, r := range f.pattern {
		if containsPattern(merchant, r.MerchantPattern) {
			if best == nil || len(r.MerchantPattern) > len(best.MerchantPattern) {
				best = r
			}
		}
	}
	return best, nil
}

func (f *fakeRuleRepo) Upsert(rule *domain.MerchantCategoryRule) error {
	f.saved = append(f.saved, rule)
	return nil
}

func (f *fakeRuleRepo) List(userID string) ([]domain.MerchantCategoryRule, error) { return nil, nil }
func (f *fakeRuleRepo) Delete(userID, id string) error                            { return nil }

type fakeTxRepo struct {
	latest map[string]string
}

func (f *fakeTxRepo) LatestCategoryForMerchant(userID, merchant string) (*string, error) {
	if id, ok := f.latest[merchant]; ok {
		return &id, nil
	}
	return nil, nil
}

func (f *fakeTxRepo) Create(tx *domain.Transaction) error { return nil }
func (f *fakeTxRepo) ExistsBySourceHash(userID, hash string) (bool, error) {
	return false, nil
}
func (f *fakeTxRepo) FindByID(userID, id string) (*domain.Transaction, error) { return nil, nil }
func (f *fakeTxRepo) List(userID string, startDate, endDate, categoryID string, limit, offset int) ([]domain.Transaction, error) {
	return nil, nil
}
func (f *fakeTxRepo) UpdateCategory(userID, id string, categoryID *string) error { return nil }
func (f *fakeTxRepo) Delete(userID, id string) error                             { return nil }
func (f *fakeTxRepo) MonthlySummary(userID, month string) ([]domain.CategorySummary, error) {
	return nil, nil
}
func (f *fakeTxRepo) SumForCategory(userID, categoryID, startDate, endDate string) (int64, error) {
	return 0, nil
}

type fakeCategoryRepo struct {
	byName map[string]string // name -> id
}

func (f *fakeCategoryRepo) FindByName(userID, name string) (*domain.Category, error) {
	if id, ok := f.byName[name]; ok {
		return &domain.Category{ID: id, Name: name}, nil
	}
	return nil, nil
}

func (f *fakeCategoryRepo) Create(c *domain.Category) error                     { return nil }
func (f *fakeCategoryRepo) FindByID(userID, id string) (*domain.Category, error) { return nil, nil }
func (f *fakeCategoryRepo) List(userID string) ([]domain.Category, error)       { return nil, nil }
func (f *fakeCategoryRepo) Update(c *domain.Category) error                     { return nil }
func (f *fakeCategoryRepo) Delete(userID, id string) error                      { return nil }
func (f *fakeCategoryRepo) SeedDefaults(userID string) error                    { return nil }

func allCategories() *fakeCategoryRepo {
	byName := make(map[string]string)
	for _, name := range domain.DefaultCategories {
		byName[name] = "cat-" + name
	}
	return &fakeCategoryRepo{byName: byName}
}

func newTestResolver(rules *fakeRuleRepo, txs *fakeTxRepo, cats *fakeCategoryRepo) *Resolver {
	if rules == nil {
		rules = &fakeRuleRepo{}
	}
	if txs == nil {
		txs = &fakeTxRepo{}
	}
	if cats == nil {
		cats = allCategories()
	}
	return NewResolver(rules, txs, cats)
}

func TestResolveExactRuleBeatsEverything(t *testing.T) {
	rules := &fakeRuleRepo{
		exact: map[string]*domain.MerchantCategoryRule{
			"starbucks": {CategoryID: "user-choice"},
		},
	}
	txs := &fakeTxRepo{latest: map[string]string{"starbucks": "prior-cat"}}

	got, err := newTestResolver(rules, txs, nil).Resolve(domain.LocalUserID, "starbucks", "generic")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "user-choice" {
		t.Errorf("Resolve = %v, want user-choice", got)
	}
}

func TestResolveLongestPatternWins(t *testing.T) {
	rules := &fakeRuleRepo{
		pattern: []*domain.MerchantCategoryRule{
			{MerchantPattern: "uber", CategoryID: "short"},
			{MerchantPattern: "uber eats", CategoryID: "long"},
		},
	}

	got, err := newTestResolver(rules, nil, nil).Resolve(domain.LocalUserID, "uber eats pizza palace", "uber_eats")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "long" {
		t.Errorf("Resolve = %v, want long", got)
	}
}

func TestResolvePriorTransactionBeatsBuiltins(t *testing.T) {
	// "starbucks" is in the built-in table, but history wins.
	txs := &fakeTxRepo{latest: map[string]string{"starbucks reserve": "prior-cat"}}

	got, err := newTestResolver(nil, txs, nil).Resolve(domain.LocalUserID, "starbucks reserve", "generic")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "prior-cat" {
		t.Errorf("Resolve = %v, want prior-cat", got)
	}
}

func TestResolveBuiltinPatternTable(t *testing.T) {
	got, err := newTestResolver(nil, nil, nil).Resolve(domain.LocalUserID, "blue bottle coffee", "generic")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "cat-Food & Dining" {
		t.Errorf("Resolve = %v, want Food & Dining", got)
	}
}

func TestResolveProviderDefault(t *testing.T) {
	got, err := newTestResolver(nil, nil, nil).Resolve(domain.LocalUserID, "zzyzx holdings", "doordash")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "cat-Food Delivery" {
		t.Errorf("Resolve = %v, want Food Delivery", got)
	}
}

func TestResolveFallsBackToUncategorized(t *testing.T) {
	got, err := newTestResolver(nil, nil, nil).Resolve(domain.LocalUserID, "zzyzx holdings", "generic")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "cat-"+domain.UncategorizedName {
		t.Errorf("Resolve = %v, want Uncategorized", got)
	}
}

func TestResolveNothingWhenUncategorizedMissing(t *testing.T) {
	got, err := newTestResolver(nil, nil, &fakeCategoryRepo{byName: map[string]string{}}).
		Resolve(domain.LocalUserID, "zzyzx holdings", "generic")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("Resolve = %v, want nil", got)
	}
}

func TestLearnFromAssignmentCreatesExactRule(t *testing.T) {
	rules := &fakeRuleRepo{}
	resolver := newTestResolver(rules, nil, nil)

	if err := resolver.LearnFromAssignment(domain.LocalUserID, "starbucks", "cat-1", true); err != nil {
		t.Fatal(err)
	}
	if len(rules.saved) != 1 || !rules.saved[0].IsExactMatch {
		t.Fatalf("saved = %+v, want one exact rule", rules.saved)
	}

	if err := resolver.LearnFromAssignment(domain.LocalUserID, "starbucks", "cat-1", false); err != nil {
		t.Fatal(err)
	}
	if len(rules.saved) != 1 {
		t.Error("rule created despite createRule=false")
	}
}
