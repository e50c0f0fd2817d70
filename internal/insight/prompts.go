package insight

import (
	"encoding/json"
	"fmt"

	"affitti/internal/core"
)

const promptTemplate = `Sei il consulente finanziario di un piccolo affittacamere.
Analizza le transazioni del periodo "%s" e scrivi un breve commento in italiano:
entrate e uscite principali, margine, e un suggerimento concreto.
Massimo 120 parole, niente elenchi puntati.

Transazioni (JSON):
%s`

// promptTransaction is the compact view sent to the model.
type promptTransaction struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

func buildPrompt(txs []core.Transaction, periodLabel string) (string, error) {
	view := make([]promptTransaction, 0, len(txs))
	for _, tx := range txs {
		view = append(view, promptTransaction{
			Date:        tx.Date.Format("2006-01-02"),
			Type:        string(tx.Type),
			Category:    string(tx.Category),
			Amount:      tx.Amount.Euros(),
			Description: tx.Description,
		})
	}
	data, err := json.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("marshal transactions: %w", err)
	}
	return fmt.Sprintf(promptTemplate, periodLabel, data), nil
}
