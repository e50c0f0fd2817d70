package core

import "sort"

type (
	// Summary aggregates the totals for a set of transactions.
	Summary struct {
		Income        Money
		Expenses      Money
		Balance       Money
		MarginPercent float64
	}

	// CategoryShare is one slice of the expense breakdown.
	CategoryShare struct {
		Category Category
		Amount   Money
		Percent  float64
	}

	// BalancePoint is the cumulative balance at the end of a day.
	BalancePoint struct {
		Date    Date
		Balance Money
	}

	// FlowBucket groups income and expense totals for a chart bucket.
	FlowBucket struct {
		Label    string
		Income   Money
		Expenses Money
	}
)

// Summarize computes income, expense and balance totals.
// MarginPercent is balance over income; zero income yields a zero margin
// rather than a division error.
func Summarize(txs []Transaction) Summary {
	var income, expenses int64
	for _, tx := range txs {
		if tx.Type == Income {
			income += tx.Amount.Cents
		} else {
			expenses += tx.Amount.Cents
		}
	}
	s := Summary{
		Income:   Money{Cents: income},
		Expenses: Money{Cents: expenses},
		Balance:  Money{Cents: income - expenses},
	}
	if income > 0 {
		s.MarginPercent = float64(s.Balance.Cents) / float64(income) * 100
	}
	return s
}

// BreakdownByCategory totals expenses per category, largest first.
// Income transactions are ignored. Percentages are relative to the
// expense total. Categories tie-break alphabetically for a stable order.
func BreakdownByCategory(txs []Transaction) []CategoryShare {
	totals := make(map[Category]int64)
	var totalExpenses int64
	for _, tx := range txs {
		if tx.Type != Expense {
			continue
		}
		totals[tx.Category] += tx.Amount.Cents
		totalExpenses += tx.Amount.Cents
	}
	shares := make([]CategoryShare, 0, len(totals))
	for cat, cents := range totals {
		share := CategoryShare{Category: cat, Amount: Money{Cents: cents}}
		if totalExpenses > 0 {
			share.Percent = float64(cents) / float64(totalExpenses) * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount.Cents != shares[j].Amount.Cents {
			return shares[i].Amount.Cents > shares[j].Amount.Cents
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// TopExpenses returns at most the three largest category shares.
func TopExpenses(txs []Transaction) []CategoryShare {
	shares := BreakdownByCategory(txs)
	if len(shares) > 3 {
		shares = shares[:3]
	}
	return shares
}

// BalanceSeries returns the running balance per day, oldest first,
// with one point per distinct day.
func BalanceSeries(txs []Transaction) []BalancePoint {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	var points []BalancePoint
	var running int64
	for _, tx := range sorted {
		running += tx.Signed()
		day := NewDate(tx.Date.Year(), tx.Date.Month(), tx.Date.Day())
		if n := len(points); n > 0 && points[n-1].Date.Equal(day.Time) {
			points[n-1].Balance = Money{Cents: running}
			continue
		}
		points = append(points, BalancePoint{Date: day, Balance: Money{Cents: running}})
	}
	return points
}

// FlowBuckets groups income and expenses for the flow chart. A monthly
// period buckets by day, every other period buckets by month. Buckets
// come out in calendar order regardless of insertion order.
func FlowBuckets(txs []Transaction, p Period) []FlowBucket {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	layout := "01/2006"
	if p == PeriodMonthly {
		layout = "02/01"
	}

	var buckets []FlowBucket
	index := make(map[string]int)
	for _, tx := range sorted {
		label := tx.Date.Format(layout)
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, FlowBucket{Label: label})
		}
		if tx.Type == Income {
			buckets[i].Income.Cents += tx.Amount.Cents
		} else {
			buckets[i].Expenses.Cents += tx.Amount.Cents
		}
	}
	return buckets
}
