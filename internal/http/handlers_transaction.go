package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"affitti/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato richiesta non valido</div>`))
		return
	}

	date, err := parseDateParam(r.Form.Get("date"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Data non valida</div>`))
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Importo non valido</div>`))
		return
	}

	tx := core.Transaction{
		Date:        date,
		Type:        core.TransactionType(sanitizeInput(r.Form.Get("type"))),
		Category:    core.Category(sanitizeInput(r.Form.Get("category"))),
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(r.Form.Get("description")),
		GuestName:   sanitizeInput(r.Form.Get("guestName")),
		IsPaid:      r.Form.Get("isPaid") == "on" || r.Form.Get("isPaid") == "true",
	}
	if err := tx.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Dati non validi: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	id, err := s.store.Append(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction append error", "error", err, "amount", tx.Amount.Cents)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Errore nel salvataggio</div>`))
		return
	}

	s.invalidateList()
	w.Header().Set("HX-Trigger", `{"transaction:created": {"id": "`+template.JSEscapeString(id)+`"}}`)
	w.WriteHeader(http.StatusOK)

	kind := "Spesa"
	if tx.Type == core.Income {
		kind = "Entrata"
	}
	_, _ = w.Write([]byte(`<div class="success">` + kind + ` registrata: ` +
		template.HTMLEscapeString(tx.Description) +
		` — €` + template.HTMLEscapeString(amountStr) +
		` (` + template.HTMLEscapeString(string(tx.Category)) + `)</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato richiesta non valido</div>`))
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		id = sanitizeInput(r.URL.Query().Get("id"))
	}
	if id == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Identificativo mancante</div>`))
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		if isNotFound(err) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<div class="error">Transazione non trovata</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Errore nella cancellazione</div>`))
		return
	}

	s.invalidateList()
	w.Header().Set("HX-Trigger", `{"transaction:deleted": {"id": "`+template.JSEscapeString(id)+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transazione eliminata</div>`))
}

// isNotFound matches the not-found sentinels of every backend without
// importing them all here.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}
