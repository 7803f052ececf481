package usecase

import (
	"testing"
	"time"

	"emailbudget-backend/internal/categorizer"
	"emailbudget-backend/internal/transaction/domain"
)

type memBudgets struct {
	stored []*domain.Budget
}

func (m *memBudgets) Upsert(b *domain.Budget) error {
	for _, existing := range m.stored {
		if existing.CategoryID == b.CategoryID && existing.Period == b.Period {
			b.ID = existing.ID
			*existing = *b
			return nil
		}
	}
	if b.ID == "" {
		b.ID = "budget-" + b.CategoryID + "-" + b.Period
	}
	m.stored = append(m.stored, b)
	return nil
}

func (m *memBudgets) FindByID(userID, id string) (*domain.Budget, error) {
	for _, b := range m.stored {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (m *memBudgets) List(userID string) ([]domain.Budget, error) {
	out := make([]domain.Budget, 0, len(m.stored))
	for _, b := range m.stored {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBudgets) Delete(userID, id string) error {
	for i, b := range m.stored {
		if b.ID == id {
			m.stored = append(m.stored[:i], m.stored[i+1:]...)
			return nil
		}
	}
	return nil
}

func newBudgetTestUsecase() (TransactionUsecase, *memBudgets, *memTransactions, *memCategories) {
	txs := newMemTransactions()
	rules := &memRules{}
	cats := &memCategories{missing: make(map[string]bool)}
	budgets := &memBudgets{}
	resolver := categorizer.NewResolver(rules, txs, cats)
	return NewTransactionUsecase(txs, cats, rules, budgets, resolver), budgets, txs, cats
}

func TestSetBudgetRejectsInvalidPeriod(t *testing.T) {
	u, budgets, _, _ := newBudgetTestUsecase()

	if _, err := u.SetBudget("cat-food", 10000, "daily"); err == nil {
		t.Fatal("expected error for invalid period")
	}
	if _, err := u.SetBudget("cat-food", 0, domain.PeriodMonthly); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
	if len(budgets.stored) != 0 {
		t.Errorf("stored = %d, want 0", len(budgets.stored))
	}
}

func TestSetBudgetRejectsUnknownCategory(t *testing.T) {
	u, budgets, _, cats := newBudgetTestUsecase()
	cats.missing["cat-ghost"] = true

	if _, err := u.SetBudget("cat-ghost", 10000, domain.PeriodMonthly); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if len(budgets.stored) != 0 {
		t.Errorf("stored = %d, want 0", len(budgets.stored))
	}
}

func TestSetBudgetReplacesExistingScope(t *testing.T) {
	u, budgets, _, _ := newBudgetTestUsecase()

	first, err := u.SetBudget("cat-food", 10000, domain.PeriodMonthly)
	if err != nil {
		t.Fatal(err)
	}
	second, err := u.SetBudget("cat-food", 25000, domain.PeriodMonthly)
	if err != nil {
		t.Fatal(err)
	}

	if len(budgets.stored) != 1 {
		t.Fatalf("stored = %d, want 1 after replacing same scope", len(budgets.stored))
	}
	if second.ID != first.ID {
		t.Errorf("replacement changed identity: %s -> %s", first.ID, second.ID)
	}
	if budgets.stored[0].AmountCents != 25000 {
		t.Errorf("AmountCents = %d, want 25000", budgets.stored[0].AmountCents)
	}

	// A different period for the same category is its own budget.
	if _, err := u.SetBudget("cat-food", 5000, domain.PeriodWeekly); err != nil {
		t.Fatal(err)
	}
	if len(budgets.stored) != 2 {
		t.Errorf("stored = %d, want 2", len(budgets.stored))
	}
}

func TestListBudgetsComputesProgress(t *testing.T) {
	u, _, txs, _ := newBudgetTestUsecase()

	if _, err := u.SetBudget("cat-food", 10000, domain.PeriodMonthly); err != nil {
		t.Fatal(err)
	}
	if _, err := u.SetBudget("cat-travel", 20000, domain.PeriodYearly); err != nil {
		t.Fatal(err)
	}
	txs.spentByCategory["cat-food"] = 7500
	txs.spentByCategory["cat-travel"] = 26000

	progress, err := u.ListBudgets()
	if err != nil {
		t.Fatal(err)
	}
	if len(progress) != 2 {
		t.Fatalf("progress rows = %d, want 2", len(progress))
	}

	food := progress[0]
	if food.SpentCents != 7500 || food.RemainingCents != 2500 {
		t.Errorf("food spent/remaining = %d/%d, want 7500/2500", food.SpentCents, food.RemainingCents)
	}
	if food.Percentage != 0.75 {
		t.Errorf("food Percentage = %v, want 0.75", food.Percentage)
	}
	if food.OverBudget {
		t.Error("food flagged over budget at 75%")
	}

	travel := progress[1]
	if !travel.OverBudget {
		t.Error("travel not flagged over budget")
	}
	if travel.RemainingCents != -6000 {
		t.Errorf("travel RemainingCents = %d, want -6000", travel.RemainingCents)
	}
	if travel.CategoryName == "" {
		t.Error("CategoryName not populated")
	}
}

func TestListBudgetsSkipsDeletedCategory(t *testing.T) {
	u, _, _, cats := newBudgetTestUsecase()

	if _, err := u.SetBudget("cat-food", 10000, domain.PeriodMonthly); err != nil {
		t.Fatal(err)
	}
	cats.missing["cat-food"] = true

	progress, err := u.ListBudgets()
	if err != nil {
		t.Fatal(err)
	}
	if len(progress) != 0 {
		t.Errorf("progress rows = %d, want 0 with category gone", len(progress))
	}
}

func TestDeleteBudget(t *testing.T) {
	u, budgets, _, _ := newBudgetTestUsecase()

	b, err := u.SetBudget("cat-food", 10000, domain.PeriodMonthly)
	if err != nil {
		t.Fatal(err)
	}
	if err := u.DeleteBudget(b.ID); err != nil {
		t.Fatal(err)
	}
	if len(budgets.stored) != 0 {
		t.Errorf("stored = %d, want 0 after delete", len(budgets.stored))
	}
}

func TestPeriodRange(t *testing.T) {
	cases := []struct {
		period string
		now    string
		start  string
		end    string
	}{
		{domain.PeriodMonthly, "2024-02-15", "2024-02-01", "2024-02-29"},
		{domain.PeriodMonthly, "2024-12-31", "2024-12-01", "2024-12-31"},
		{domain.PeriodWeekly, "2024-01-17", "2024-01-15", "2024-01-21"}, // Wednesday
		{domain.PeriodWeekly, "2024-01-15", "2024-01-15", "2024-01-21"}, // Monday
		{domain.PeriodWeekly, "2024-01-21", "2024-01-15", "2024-01-21"}, // Sunday
		{domain.PeriodYearly, "2024-06-01", "2024-01-01", "2024-12-31"},
	}
	for _, c := range cases {
		now, err := time.Parse("2006-01-02", c.now)
		if err != nil {
			t.Fatal(err)
		}
		start, end := periodRange(c.period, now)
		if start != c.start || end != c.end {
			t.Errorf("periodRange(%s, %s) = %s..%s, want %s..%s",
				c.period, c.now, start, end, c.start, c.end)
		}
	}
}
