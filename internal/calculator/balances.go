package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ComputeBalances reduces the debt cells to one balance per person.
//
// Algorithm:
//   - Paid: sum of every cell where the person is the creditor
//   - Received: sum of every cell where the person is the debtor
//   - Balance: Paid - Received (positive = owed money)
//
// People without any cell are omitted. No rounding is applied.
func ComputeBalances(cells []models.DebtCell) []models.PersonBalance {
	balances := make(map[string]*models.PersonBalance)
	get := func(person string) *models.PersonBalance {
		b, ok := balances[person]
		if !ok {
			b = &models.PersonBalance{Person: person}
			balances[person] = b
		}
		return b
	}

	for _, cell := range cells {
		creditor := get(cell.Creditor)
		creditor.Paid = creditor.Paid.Add(cell.Total)
		debtor := get(cell.Debtor)
		debtor.Received = debtor.Received.Add(cell.Total)
	}

	out := make([]models.PersonBalance, 0, len(balances))
	for _, b := range balances {
		b.Balance = b.Paid.Sub(b.Received)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Person < out[j].Person })
	return out
}

// BalanceMap returns the balances keyed by person.
func BalanceMap(balances []models.PersonBalance) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		m[b.Person] = b.Balance
	}
	return m
}

// ExpenseMatrix pivots the debt cells into a creditor x debtor matrix.
func ExpenseMatrix(cells []models.DebtCell) models.ExpenseMatrix {
	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	var m models.ExpenseMatrix
	for _, cell := range cells {
		if _, ok := rowIdx[cell.Creditor]; !ok {
			rowIdx[cell.Creditor] = 0
			m.Creditors = append(m.Creditors, cell.Creditor)
		}
		if _, ok := colIdx[cell.Debtor]; !ok {
			colIdx[cell.Debtor] = 0
			m.Debtors = append(m.Debtors, cell.Debtor)
		}
	}
	sort.Strings(m.Creditors)
	sort.Strings(m.Debtors)
	for i, name := range m.Creditors {
		rowIdx[name] = i
	}
	for j, name := range m.Debtors {
		colIdx[name] = j
	}

	m.Cells = make([][]decimal.Decimal, len(m.Creditors))
	for i := range m.Cells {
		m.Cells[i] = make([]decimal.Decimal, len(m.Debtors))
	}
	m.Paid = make([]decimal.Decimal, len(m.Creditors))
	m.Received = make([]decimal.Decimal, len(m.Debtors))

	for _, cell := range cells {
		i, j := rowIdx[cell.Creditor], colIdx[cell.Debtor]
		m.Cells[i][j] = m.Cells[i][j].Add(cell.Total)
		m.Paid[i] = m.Paid[i].Add(cell.Total)
		m.Received[j] = m.Received[j].Add(cell.Total)
	}
	return m
}
