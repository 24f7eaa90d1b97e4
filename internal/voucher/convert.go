package voucher

import "github.com/insightdelivered/tally-statement-converter/internal/models"

// FromTransactions adapts parsed statement rows to builder input.
func FromTransactions(txns []models.Transaction) []TransactionInput {
	out := make([]TransactionInput, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionInput{
			Date:      t.Date,
			Narration: t.Narration,
			Amount:    AmountFromFloat(t.Amount),
			Type:      string(t.Type),
		})
	}
	return out
}
