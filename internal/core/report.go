package core

import "sort"

// DefaultRecentLimit is the number of recent transactions a dashboard
// report carries unless configured otherwise.
const DefaultRecentLimit = 5

type (
	Summary struct {
		Income  Money `json:"income"`
		Expense Money `json:"expense"`
		Balance Money `json:"balance"`
	}

	TimeSeriesPoint struct {
		Date    Date  `json:"date"`
		Income  Money `json:"income"`
		Expense Money `json:"expense"`
	}

	CategoryTotal struct {
		CategoryID   int64  `json:"category_id"`
		CategoryName string `json:"category_name"`
		Total        Money  `json:"total"`
	}

	Report struct {
		Period             Period            `json:"-"`
		Summary            Summary           `json:"summary"`
		TimeSeries         []TimeSeriesPoint `json:"time_series"`
		CategoryBreakdown  []CategoryTotal   `json:"category_breakdown"`
		RecentTransactions []Transaction     `json:"recent_transactions"`
	}
)

// BuildReport computes the dashboard report for a reporting period.
//
// Summary totals, the per-day time series and the category breakdown cover
// only transactions dated inside the period. Recent transactions are global:
// the most recent by date (ties broken by creation time) across the whole
// set. Inputs are never mutated; all sums are exact cents.
func BuildReport(transactions []Transaction, categories []Category, period Period, recentLimit int) Report {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	report := Report{
		Period:             period,
		TimeSeries:         []TimeSeriesPoint{},
		CategoryBreakdown:  []CategoryTotal{},
		RecentTransactions: []Transaction{},
	}

	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	days := make(map[Date]*TimeSeriesPoint)
	byCategory := make(map[int64]Money)

	for _, t := range transactions {
		if !t.Date.In(period) {
			continue
		}

		day := days[t.Date]
		if day == nil {
			day = &TimeSeriesPoint{Date: t.Date}
			days[t.Date] = day
		}

		switch t.Type {
		case Income:
			report.Summary.Income = report.Summary.Income.Add(t.Amount)
			day.Income = day.Income.Add(t.Amount)
		case Expense:
			report.Summary.Expense = report.Summary.Expense.Add(t.Amount)
			day.Expense = day.Expense.Add(t.Amount)
			byCategory[t.CategoryID] = byCategory[t.CategoryID].Add(t.Amount)
		}
	}
	report.Summary.Balance = report.Summary.Income.Sub(report.Summary.Expense)

	// Sparse series: only days that saw at least one transaction, ascending.
	for _, p := range days {
		report.TimeSeries = append(report.TimeSeries, *p)
	}
	sort.Slice(report.TimeSeries, func(i, j int) bool {
		return report.TimeSeries[i].Date.Before(report.TimeSeries[j].Date.Time)
	})

	for id, total := range byCategory {
		name, ok := names[id]
		if !ok {
			name = UncategorizedLabel
		}
		report.CategoryBreakdown = append(report.CategoryBreakdown, CategoryTotal{
			CategoryID:   id,
			CategoryName: name,
			Total:        total,
		})
	}
	sort.Slice(report.CategoryBreakdown, func(i, j int) bool {
		a, b := report.CategoryBreakdown[i], report.CategoryBreakdown[j]
		if a.Total.Cents != b.Total.Cents {
			return a.Total.Cents > b.Total.Cents
		}
		return a.CategoryID < b.CategoryID
	})

	report.RecentTransactions = RecentTransactions(transactions, recentLimit)
	return report
}

// RecentTransactions returns the n most recent transactions by date
// descending, creation time descending on ties. The input is not reordered.
func RecentTransactions(transactions []Transaction, n int) []Transaction {
	recent := make([]Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		if !recent[i].Date.Equal(recent[j].Date.Time) {
			return recent[i].Date.After(recent[j].Date.Time)
		}
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if n < len(recent) {
		recent = recent[:n]
	}
	return recent
}
