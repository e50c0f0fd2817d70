package insight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"affitti/internal/core"
)

func sampleTxs() []core.Transaction {
	return []core.Transaction{
		{
			Date:     core.NewDate(2026, 8, 1),
			Type:     core.Income,
			Category: core.CategoryRental,
			Amount:   core.Money{Cents: 100000},
		},
		{
			Date:     core.NewDate(2026, 8, 5),
			Type:     core.Expense,
			Category: core.CategoryCleaning,
			Amount:   core.Money{Cents: 20000},
		},
	}
}

func newTestRequester(handler http.HandlerFunc) (*Requester, *httptest.Server) {
	ts := httptest.NewServer(handler)
	r := New(Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: ts.URL + "/v1",
		Timeout: 5 * time.Second,
	})
	return r, ts
}

func TestGenerateSuccess(t *testing.T) {
	r, ts := newTestRequester(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Ottimo margine questo mese."}}]}`))
	})
	defer ts.Close()

	got := r.Generate(context.Background(), sampleTxs(), "Agosto 2026")
	if got != "Ottimo margine questo mese." {
		t.Fatalf("Generate = %q", got)
	}
}

func TestGenerateEmptyTransactionsSkipsRequest(t *testing.T) {
	calls := 0
	r, ts := newTestRequester(func(w http.ResponseWriter, req *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	})
	defer ts.Close()

	got := r.Generate(context.Background(), nil, "Agosto 2026")
	if got != MsgInsufficientData {
		t.Fatalf("Generate = %q, want insufficient data message", got)
	}
	if calls != 0 {
		t.Fatalf("expected no API calls, got %d", calls)
	}
}

func TestGenerateRateLimited(t *testing.T) {
	r, ts := newTestRequester(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"requests"}}`))
	})
	defer ts.Close()

	got := r.Generate(context.Background(), sampleTxs(), "Agosto 2026")
	if got != MsgServiceOverloaded {
		t.Fatalf("Generate = %q, want overloaded message", got)
	}
}

func TestGenerateServerError(t *testing.T) {
	r, ts := newTestRequester(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})
	defer ts.Close()

	got := r.Generate(context.Background(), sampleTxs(), "Agosto 2026")
	if !strings.Contains(got, "Non è stato possibile generare l'analisi") {
		t.Fatalf("Generate = %q, want generic failure message", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := buildPrompt(sampleTxs(), "Agosto 2026")
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}
	if !strings.Contains(prompt, "Agosto 2026") {
		t.Errorf("prompt missing period label")
	}
	if !strings.Contains(prompt, `"2026-08-01"`) || !strings.Contains(prompt, `"Affitto"`) {
		t.Errorf("prompt missing transaction data: %s", prompt)
	}
	// Guest names stay out of the prompt.
	if strings.Contains(prompt, "guestName") {
		t.Errorf("prompt should not include guest names")
	}
}
