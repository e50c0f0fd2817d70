package core

import "testing"

func tx(d Date, typ TransactionType, cents int64) Transaction {
	cat := CategoryRental
	if typ == Expense {
		cat = CategoryCleaning
	}
	return Transaction{Date: d, Type: typ, Category: cat, Amount: Money{Cents: cents}}
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"monthly", "semiannual", "annual", "all"} {
		if _, ok := ParsePeriod(s); !ok {
			t.Errorf("ParsePeriod(%q) not ok", s)
		}
	}
	if _, ok := ParsePeriod("weekly"); ok {
		t.Errorf("ParsePeriod(weekly) should not be ok")
	}
	if _, ok := ParsePeriod(""); ok {
		t.Errorf("ParsePeriod(empty) should not be ok")
	}
}

func TestFilterByPeriod(t *testing.T) {
	now := NewDate(2026, 8, 15)
	txs := []Transaction{
		tx(NewDate(2026, 8, 3), Income, 100),
		tx(NewDate(2026, 8, 20), Expense, 50),
		tx(NewDate(2026, 3, 1), Income, 200),  // same year, first semester
		tx(NewDate(2026, 7, 1), Expense, 75),  // same semester
		tx(NewDate(2025, 8, 10), Income, 300), // previous year
	}

	cases := []struct {
		period Period
		want   int
	}{
		{PeriodMonthly, 2},
		{PeriodSemiannual, 3},
		{PeriodAnnual, 4},
		{PeriodAll, 5},
	}
	for _, tc := range cases {
		got := FilterByPeriod(txs, now, tc.period)
		if len(got) != tc.want {
			t.Errorf("period %s: expected %d transactions, got %d", tc.period, tc.want, len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Date.After(got[i-1].Date.Time) {
				t.Errorf("period %s: results not in descending date order", tc.period)
			}
		}
	}
}

func TestFilterByPeriodIdempotent(t *testing.T) {
	now := NewDate(2026, 8, 15)
	txs := []Transaction{
		tx(NewDate(2026, 8, 3), Income, 100),
		tx(NewDate(2026, 2, 1), Expense, 50),
	}
	once := FilterByPeriod(txs, now, PeriodMonthly)
	twice := FilterByPeriod(once, now, PeriodMonthly)
	if len(once) != len(twice) {
		t.Fatalf("expected idempotent filter, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Date.Equal(twice[i].Date.Time) {
			t.Fatalf("order changed between filter passes")
		}
	}
}

func TestFilterByPeriodDoesNotMutateInput(t *testing.T) {
	now := NewDate(2026, 8, 15)
	txs := []Transaction{
		tx(NewDate(2026, 8, 3), Income, 100),
		tx(NewDate(2026, 8, 20), Expense, 50),
	}
	first := txs[0].Date
	FilterByPeriod(txs, now, PeriodMonthly)
	if !txs[0].Date.Equal(first.Time) {
		t.Fatalf("input slice was reordered")
	}
}

func TestSemesterBoundaries(t *testing.T) {
	if semester(NewDate(2026, 6, 30)) != 0 {
		t.Fatalf("June belongs to first semester")
	}
	if semester(NewDate(2026, 7, 1)) != 1 {
		t.Fatalf("July belongs to second semester")
	}
}
