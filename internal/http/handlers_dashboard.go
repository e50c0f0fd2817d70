package http

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"affitti/internal/core"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	period := periodFromRequest(r)
	data := struct {
		Today       string
		Period      string
		PeriodLabel string
		Categories  []core.Category
	}{
		Today:       time.Now().Format("2006-01-02"),
		Period:      string(period),
		PeriodLabel: periodLabel(period, time.Now()),
		Categories:  core.Categories(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// filteredTransactions applies the requested period to the ledger.
func (s *Server) filteredTransactions(r *http.Request) ([]core.Transaction, core.Period, error) {
	period := periodFromRequest(r)
	txs, err := s.listTransactions(r.Context())
	if err != nil {
		return nil, period, err
	}
	return core.FilterByPeriod(txs, today(), period), period, nil
}

// handleSummary renders the income/expenses/balance/margin partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	txs, period, err := s.filteredTransactions(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary list error", "error", err)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Errore caricando il riepilogo</div></section>`))
		return
	}

	summary := core.Summarize(txs)
	data := struct {
		PeriodLabel   string
		Income        string
		Expenses      string
		Balance       string
		Negative      bool
		MarginPercent string
	}{
		PeriodLabel:   periodLabel(period, time.Now()),
		Income:        formatEuros(summary.Income.Cents),
		Expenses:      formatEuros(summary.Expenses.Cents),
		Balance:       formatEuros(summary.Balance.Cents),
		Negative:      summary.Balance.Cents < 0,
		MarginPercent: formatPercent(summary.MarginPercent),
	}

	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Errore rendering riepilogo</div></section>`))
	}
}

// handleBreakdown renders the expense-by-category partial with the
// top three categories highlighted.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	txs, period, err := s.filteredTransactions(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Breakdown list error", "error", err)
		_, _ = w.Write([]byte(`<section id="breakdown" class="breakdown"><div class="placeholder">Errore caricando le categorie</div></section>`))
		return
	}

	shares := core.BreakdownByCategory(txs)

	// Scale progress bars against the largest category.
	var maxCents int64
	for _, share := range shares {
		if share.Amount.Cents > maxCents {
			maxCents = share.Amount.Cents
		}
	}

	type row struct {
		Name    string
		Amount  string
		Percent string
		Width   int
		Top     bool
	}
	data := struct {
		PeriodLabel string
		Rows        []row
	}{PeriodLabel: periodLabel(period, time.Now())}

	for i, share := range shares {
		width := 0
		if maxCents > 0 && share.Amount.Cents > 0 {
			width = int((share.Amount.Cents*100 + maxCents/2) / maxCents) // rounded percent
			if width > 0 && width < 2 {                                   // ensure visibility for very small values
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, row{
			Name:    string(share.Category),
			Amount:  formatEuros(share.Amount.Cents),
			Percent: formatPercent(share.Percent),
			Width:   width,
			Top:     i < 3,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "breakdown.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "breakdown.html")
		_, _ = w.Write([]byte(`<section id="breakdown" class="breakdown"><div class="placeholder">Errore rendering categorie</div></section>`))
	}
}

// handleTransactionList renders the filtered transaction table.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	txs, period, err := s.filteredTransactions(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err)
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">Errore caricando le transazioni</div></section>`))
		return
	}

	type row struct {
		ID          string
		Date        string
		Income      bool
		Category    string
		Description string
		Guest       string
		Amount      string
		Paid        bool
	}
	data := struct {
		PeriodLabel string
		Count       int
		Rows        []row
	}{PeriodLabel: periodLabel(period, time.Now()), Count: len(txs)}

	for _, tx := range txs {
		data.Rows = append(data.Rows, row{
			ID:          tx.ID,
			Date:        tx.Date.Format("02/01/2006"),
			Income:      tx.Type == core.Income,
			Category:    string(tx.Category),
			Description: template.HTMLEscapeString(tx.Description),
			Guest:       template.HTMLEscapeString(tx.GuestName),
			Amount:      formatEuros(tx.Amount.Cents),
			Paid:        tx.IsPaid,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transactions.html")
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">Errore rendering transazioni</div></section>`))
	}
}

// handleBalanceSeries returns the cumulative balance chart data.
func (s *Server) handleBalanceSeries(w http.ResponseWriter, r *http.Request) {
	txs, _, err := s.filteredTransactions(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance series error", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	type point struct {
		Date    string  `json:"date"`
		Balance float64 `json:"balance"`
	}
	points := make([]point, 0)
	for _, p := range core.BalanceSeries(txs) {
		points = append(points, point{
			Date:    p.Date.Format("2006-01-02"),
			Balance: p.Balance.Euros(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(points)
}

// handleFlow returns the income/expense bucket chart data.
func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	txs, period, err := s.filteredTransactions(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Flow buckets error", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	type bucket struct {
		Label    string  `json:"label"`
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
	}
	buckets := make([]bucket, 0)
	for _, b := range core.FlowBuckets(txs, period) {
		buckets = append(buckets, bucket{
			Label:    b.Label,
			Income:   b.Income.Euros(),
			Expenses: b.Expenses.Euros(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(buckets)
}
