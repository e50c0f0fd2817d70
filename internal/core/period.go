package core

import "sort"

const (
	PeriodMonthly    Period = "monthly"
	PeriodSemiannual Period = "semiannual"
	PeriodAnnual     Period = "annual"
	PeriodAll        Period = "all"
)

type Period string

// ParsePeriod maps a request parameter to a Period. Unknown values
// report ok=false so callers can fall back to a default.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodMonthly, PeriodSemiannual, PeriodAnnual, PeriodAll:
		return Period(s), true
	default:
		return "", false
	}
}

// FilterByPeriod returns the transactions that fall inside the period
// containing now, most recent first. The input slice is not modified
// and filtering the result again with the same period is a no-op.
func FilterByPeriod(txs []Transaction, now Date, p Period) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if inPeriod(tx.Date, now, p) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

func inPeriod(d, now Date, p Period) bool {
	switch p {
	case PeriodMonthly:
		return d.Year() == now.Year() && d.Month() == now.Month()
	case PeriodSemiannual:
		return d.Year() == now.Year() && semester(d) == semester(now)
	case PeriodAnnual:
		return d.Year() == now.Year()
	default:
		return true
	}
}

// semester is 0 for January-June, 1 for July-December.
func semester(d Date) int {
	return (d.Month() - 1) / 6
}
