package core

import (
	"testing"
	"time"
)

func reportFixture() ([]Transaction, []Category) {
	categories := []Category{
		{ID: 1, Name: "Food"},
		{ID: 2, Name: "Transport"},
		{ID: 3, Name: "Salary"},
	}
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		{ID: 1, Amount: Money{Cents: 300000}, Type: Income, CategoryID: 3, Date: NewDate(2025, 3, 1), CreatedAt: base},
		{ID: 2, Amount: Money{Cents: 4500}, Type: Expense, CategoryID: 1, Date: NewDate(2025, 3, 3), CreatedAt: base.Add(1 * time.Hour)},
		{ID: 3, Amount: Money{Cents: 2000}, Type: Expense, CategoryID: 2, Date: NewDate(2025, 3, 3), CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Amount: Money{Cents: 7000}, Type: Expense, CategoryID: 1, Date: NewDate(2025, 3, 10), CreatedAt: base.Add(3 * time.Hour)},
		// Outside the period: must not affect summary, series or breakdown.
		{ID: 5, Amount: Money{Cents: 9900}, Type: Expense, CategoryID: 1, Date: NewDate(2025, 4, 2), CreatedAt: base.Add(4 * time.Hour)},
	}
	return transactions, categories
}

func TestBuildReportSummary(t *testing.T) {
	transactions, categories := reportFixture()
	report := BuildReport(transactions, categories, Period{Year: 2025, Month: 3}, 5)

	if report.Summary.Income.Cents != 300000 {
		t.Fatalf("income = %d, want 300000", report.Summary.Income.Cents)
	}
	if report.Summary.Expense.Cents != 13500 {
		t.Fatalf("expense = %d, want 13500", report.Summary.Expense.Cents)
	}
	want := report.Summary.Income.Sub(report.Summary.Expense)
	if report.Summary.Balance != want {
		t.Fatalf("balance = %d, want income-expense = %d", report.Summary.Balance.Cents, want.Cents)
	}
}

func TestBuildReportTimeSeries(t *testing.T) {
	transactions, categories := reportFixture()
	report := BuildReport(transactions, categories, Period{Year: 2025, Month: 3}, 5)

	// Sparse: only days with activity, ascending.
	if len(report.TimeSeries) != 3 {
		t.Fatalf("series length = %d, want 3", len(report.TimeSeries))
	}
	wantDates := []string{"2025-03-01", "2025-03-03", "2025-03-10"}
	for i, p := range report.TimeSeries {
		if p.Date.String() != wantDates[i] {
			t.Fatalf("series[%d].Date = %s, want %s", i, p.Date, wantDates[i])
		}
	}

	// Two expenses on the same day land in one bucket.
	if report.TimeSeries[1].Expense.Cents != 6500 {
		t.Fatalf("series[1].Expense = %d, want 6500", report.TimeSeries[1].Expense.Cents)
	}

	// Series totals reconcile with the summary.
	var income, expense int64
	for _, p := range report.TimeSeries {
		income += p.Income.Cents
		expense += p.Expense.Cents
	}
	if income != report.Summary.Income.Cents || expense != report.Summary.Expense.Cents {
		t.Fatalf("series totals (%d, %d) do not match summary (%d, %d)",
			income, expense, report.Summary.Income.Cents, report.Summary.Expense.Cents)
	}
}

func TestBuildReportCategoryBreakdown(t *testing.T) {
	transactions, categories := reportFixture()
	report := BuildReport(transactions, categories, Period{Year: 2025, Month: 3}, 5)

	// Expense categories only, largest first. Income never appears.
	if len(report.CategoryBreakdown) != 2 {
		t.Fatalf("breakdown length = %d, want 2", len(report.CategoryBreakdown))
	}
	if report.CategoryBreakdown[0].CategoryName != "Food" || report.CategoryBreakdown[0].Total.Cents != 11500 {
		t.Fatalf("breakdown[0] = %+v", report.CategoryBreakdown[0])
	}
	if report.CategoryBreakdown[1].CategoryName != "Transport" || report.CategoryBreakdown[1].Total.Cents != 2000 {
		t.Fatalf("breakdown[1] = %+v", report.CategoryBreakdown[1])
	}

	var total int64
	for _, c := range report.CategoryBreakdown {
		total += c.Total.Cents
	}
	if total != report.Summary.Expense.Cents {
		t.Fatalf("breakdown total %d does not match expense %d", total, report.Summary.Expense.Cents)
	}
}

func TestBuildReportBreakdownTieOrder(t *testing.T) {
	categories := []Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	transactions := []Transaction{
		{ID: 1, Amount: Money{Cents: 500}, Type: Expense, CategoryID: 2, Date: NewDate(2025, 1, 1)},
		{ID: 2, Amount: Money{Cents: 500}, Type: Expense, CategoryID: 1, Date: NewDate(2025, 1, 2)},
	}
	report := BuildReport(transactions, categories, Period{Year: 2025, Month: 1}, 5)

	// Equal totals order by category id for a stable result.
	if report.CategoryBreakdown[0].CategoryID != 1 || report.CategoryBreakdown[1].CategoryID != 2 {
		t.Fatalf("tie order = [%d, %d], want [1, 2]",
			report.CategoryBreakdown[0].CategoryID, report.CategoryBreakdown[1].CategoryID)
	}
}

func TestBuildReportDanglingCategory(t *testing.T) {
	transactions := []Transaction{
		{ID: 1, Amount: Money{Cents: 900}, Type: Expense, CategoryID: 42, Date: NewDate(2025, 1, 5)},
	}
	report := BuildReport(transactions, nil, Period{Year: 2025, Month: 1}, 5)

	if len(report.CategoryBreakdown) != 1 {
		t.Fatalf("breakdown length = %d, want 1", len(report.CategoryBreakdown))
	}
	if report.CategoryBreakdown[0].CategoryName != UncategorizedLabel {
		t.Fatalf("dangling category resolved to %q", report.CategoryBreakdown[0].CategoryName)
	}
}

func TestBuildReportRecentIsGlobal(t *testing.T) {
	transactions, categories := reportFixture()
	report := BuildReport(transactions, categories, Period{Year: 2025, Month: 3}, 2)

	// Recents ignore the period: the April transaction is the newest.
	if len(report.RecentTransactions) != 2 {
		t.Fatalf("recent length = %d, want 2", len(report.RecentTransactions))
	}
	if report.RecentTransactions[0].ID != 5 {
		t.Fatalf("recent[0].ID = %d, want 5", report.RecentTransactions[0].ID)
	}
	if report.RecentTransactions[1].ID != 4 {
		t.Fatalf("recent[1].ID = %d, want 4", report.RecentTransactions[1].ID)
	}
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := BuildReport(nil, nil, Period{Year: 2025, Month: 3}, 5)

	if report.Summary.Income.Cents != 0 || report.Summary.Expense.Cents != 0 || report.Summary.Balance.Cents != 0 {
		t.Fatalf("empty summary = %+v", report.Summary)
	}
	// Empty slices, not nil, so JSON renders [] instead of null.
	if report.TimeSeries == nil || report.CategoryBreakdown == nil || report.RecentTransactions == nil {
		t.Fatal("report slices must be non-nil")
	}
}

func TestBuildReportDoesNotMutateInput(t *testing.T) {
	transactions, categories := reportFixture()
	firstID := transactions[0].ID

	BuildReport(transactions, categories, Period{Year: 2025, Month: 3}, 1)

	if transactions[0].ID != firstID {
		t.Fatal("input order changed")
	}
}

func TestRecentTransactionsTieBreak(t *testing.T) {
	day := NewDate(2025, 2, 10)
	base := time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		{ID: 1, Date: day, CreatedAt: base},
		{ID: 2, Date: day, CreatedAt: base.Add(time.Minute)},
	}

	recent := RecentTransactions(transactions, 5)
	if recent[0].ID != 2 {
		t.Fatalf("recent[0].ID = %d, want the later-created 2", recent[0].ID)
	}
}

func TestBuildReportDefaultRecentLimit(t *testing.T) {
	var transactions []Transaction
	for i := 1; i <= 10; i++ {
		transactions = append(transactions, Transaction{
			ID:   int64(i),
			Date: NewDate(2025, 1, i),
		})
	}
	report := BuildReport(transactions, nil, Period{Year: 2025, Month: 1}, 0)

	if len(report.RecentTransactions) != DefaultRecentLimit {
		t.Fatalf("recent length = %d, want %d", len(report.RecentTransactions), DefaultRecentLimit)
	}
}
