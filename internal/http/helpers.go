package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"affitti/internal/core"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1 // remove character
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// parseDateParam parses a YYYY-MM-DD form value, defaulting to today.
func parseDateParam(v string) (core.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		now := time.Now()
		return core.NewDate(now.Year(), int(now.Month()), now.Day()), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

// periodFromRequest reads the period query parameter, defaulting to
// monthly for unknown or missing values.
func periodFromRequest(r *http.Request) core.Period {
	if p, ok := core.ParsePeriod(strings.TrimSpace(r.URL.Query().Get("period"))); ok {
		return p
	}
	return core.PeriodMonthly
}

var monthNames = [...]string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

// periodLabel is the human-readable label for a period, used in the
// header and in the insight prompt.
func periodLabel(p core.Period, now time.Time) string {
	switch p {
	case core.PeriodMonthly:
		return monthNames[now.Month()-1] + " " + strconv.Itoa(now.Year())
	case core.PeriodSemiannual:
		if int(now.Month()) <= 6 {
			return "Primo semestre " + strconv.Itoa(now.Year())
		}
		return "Secondo semestre " + strconv.Itoa(now.Year())
	case core.PeriodAnnual:
		return strconv.Itoa(now.Year())
	default:
		return "Tutto lo storico"
	}
}

func formatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	euros := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(euros, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-€" + s
	}
	return "€" + s
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func today() core.Date {
	now := time.Now()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}
