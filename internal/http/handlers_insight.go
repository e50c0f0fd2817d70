package http

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

// handleInsight generates the commentary partial. Only one request is
// in flight at a time: a newer one cancels the older, and the cancelled
// handler answers 204 so HTMX leaves the target untouched for the
// winning response.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.insight == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<section id="insight" class="insight"><div class="placeholder">Analisi non configurata</div></section>`))
		return
	}

	txs, period, err := s.filteredTransactions(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Insight list error", "error", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<section id="insight" class="insight"><div class="placeholder">Errore caricando i dati</div></section>`))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	s.insightMu.Lock()
	if s.cancelInsight != nil {
		s.cancelInsight()
	}
	s.cancelInsight = cancel
	s.insightMu.Unlock()

	// Cancel funcs are idempotent, so a stale entry left in
	// cancelInsight is harmless.
	defer cancel()

	text := s.insight.Generate(ctx, txs, periodLabel(period, time.Now()))

	// Superseded by a newer request while the client is still alive:
	// let the newer response win.
	if errors.Is(ctx.Err(), context.Canceled) && r.Context().Err() == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<section id="insight" class="insight"><p>` +
		template.HTMLEscapeString(text) + `</p></section>`))
}
