package core

import "testing"

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2026, 8, 1), Income, 100000),
		tx(NewDate(2026, 8, 2), Expense, 20000),
	}
	s := Summarize(txs)
	if s.Income.Cents != 100000 {
		t.Errorf("income = %d, want 100000", s.Income.Cents)
	}
	if s.Expenses.Cents != 20000 {
		t.Errorf("expenses = %d, want 20000", s.Expenses.Cents)
	}
	if s.Balance.Cents != 80000 {
		t.Errorf("balance = %d, want 80000", s.Balance.Cents)
	}
	if s.MarginPercent != 80 {
		t.Errorf("margin = %v, want 80", s.MarginPercent)
	}
}

func TestSummarizeZeroIncome(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2026, 8, 2), Expense, 5000),
	}
	s := Summarize(txs)
	if s.MarginPercent != 0 {
		t.Fatalf("margin with zero income = %v, want 0", s.MarginPercent)
	}
	if s.Balance.Cents != -5000 {
		t.Fatalf("balance = %d, want -5000", s.Balance.Cents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Income.Cents != 0 || s.Expenses.Cents != 0 || s.Balance.Cents != 0 || s.MarginPercent != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestBreakdownByCategory(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2026, 8, 1), Income, 100000), // ignored
		{Date: NewDate(2026, 8, 2), Type: Expense, Category: CategoryCleaning, Amount: Money{Cents: 3000}},
		{Date: NewDate(2026, 8, 3), Type: Expense, Category: CategoryUtilities, Amount: Money{Cents: 6000}},
		{Date: NewDate(2026, 8, 4), Type: Expense, Category: CategoryCleaning, Amount: Money{Cents: 1000}},
	}
	shares := BreakdownByCategory(txs)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	if shares[0].Category != CategoryUtilities || shares[0].Amount.Cents != 6000 {
		t.Errorf("first share = %+v, want utilities 6000", shares[0])
	}
	if shares[1].Category != CategoryCleaning || shares[1].Amount.Cents != 4000 {
		t.Errorf("second share = %+v, want cleaning 4000", shares[1])
	}
	if shares[0].Percent != 60 || shares[1].Percent != 40 {
		t.Errorf("percents = %v/%v, want 60/40", shares[0].Percent, shares[1].Percent)
	}
}

func TestBreakdownNoExpenses(t *testing.T) {
	txs := []Transaction{tx(NewDate(2026, 8, 1), Income, 100)}
	if shares := BreakdownByCategory(txs); len(shares) != 0 {
		t.Fatalf("expected no shares, got %d", len(shares))
	}
}

func TestTopExpenses(t *testing.T) {
	txs := []Transaction{
		{Date: NewDate(2026, 8, 1), Type: Expense, Category: CategoryCleaning, Amount: Money{Cents: 100}},
		{Date: NewDate(2026, 8, 1), Type: Expense, Category: CategoryUtilities, Amount: Money{Cents: 200}},
		{Date: NewDate(2026, 8, 1), Type: Expense, Category: CategoryTaxes, Amount: Money{Cents: 300}},
		{Date: NewDate(2026, 8, 1), Type: Expense, Category: CategoryOthers, Amount: Money{Cents: 400}},
	}
	top := TopExpenses(txs)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Category != CategoryOthers || top[2].Category != CategoryUtilities {
		t.Fatalf("unexpected ordering: %+v", top)
	}
}

func TestBalanceSeries(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2026, 8, 3), Expense, 200),
		tx(NewDate(2026, 8, 1), Income, 1000),
		tx(NewDate(2026, 8, 1), Expense, 300), // same day as the first income
	}
	points := BalanceSeries(txs)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Balance.Cents != 700 {
		t.Errorf("day 1 balance = %d, want 700", points[0].Balance.Cents)
	}
	if points[1].Balance.Cents != 500 {
		t.Errorf("day 2 balance = %d, want 500", points[1].Balance.Cents)
	}
	if !points[0].Date.Before(points[1].Date.Time) {
		t.Errorf("points not in ascending date order")
	}
}

func TestFlowBucketsMonthly(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2026, 8, 10), Expense, 50),
		tx(NewDate(2026, 8, 2), Income, 100),
		tx(NewDate(2026, 8, 2), Expense, 30),
	}
	buckets := FlowBuckets(txs, PeriodMonthly)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "02/08" {
		t.Errorf("first label = %q, want 02/08", buckets[0].Label)
	}
	if buckets[0].Income.Cents != 100 || buckets[0].Expenses.Cents != 30 {
		t.Errorf("first bucket = %+v", buckets[0])
	}
	if buckets[1].Label != "10/08" || buckets[1].Expenses.Cents != 50 {
		t.Errorf("second bucket = %+v", buckets[1])
	}
}

func TestFlowBucketsCalendarOrder(t *testing.T) {
	// Entered out of order: buckets must still come out by calendar.
	txs := []Transaction{
		tx(NewDate(2026, 5, 1), Income, 100),
		tx(NewDate(2026, 2, 1), Income, 200),
		tx(NewDate(2026, 2, 15), Expense, 80),
	}
	buckets := FlowBuckets(txs, PeriodAnnual)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "02/2026" || buckets[1].Label != "05/2026" {
		t.Fatalf("labels = %q,%q, want 02/2026,05/2026", buckets[0].Label, buckets[1].Label)
	}
	if buckets[0].Income.Cents != 200 || buckets[0].Expenses.Cents != 80 {
		t.Fatalf("february bucket = %+v", buckets[0])
	}
}
