package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

type pair struct {
	creditor string
	debtor   string
}

// Aggregate sums allocated shares per (creditor, debtor) pair.
// The result is sorted by creditor, then debtor, and does not depend on the
// order of rows.
func Aggregate(rows []models.AllocatedRow) []models.DebtCell {
	totals := make(map[pair]decimal.Decimal)
	for _, row := range rows {
		key := pair{creditor: row.Creditor, debtor: row.Debtor}
		totals[key] = totals[key].Add(row.Share)
	}

	cells := make([]models.DebtCell, 0, len(totals))
	for key, total := range totals {
		cells = append(cells, models.DebtCell{
			Creditor: key.creditor,
			Debtor:   key.debtor,
			Total:    total,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Creditor != cells[j].Creditor {
			return cells[i].Creditor < cells[j].Creditor
		}
		return cells[i].Debtor < cells[j].Debtor
	})
	return cells
}
