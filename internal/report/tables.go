package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Kind tags the stage a table was taken from.
type Kind string

const (
	KindPayments    Kind = "payments"
	KindExpanded    Kind = "expanded"
	KindAllocations Kind = "allocations"
	KindDebts       Kind = "debts"
	KindMatrix      Kind = "matrix"
	KindBalances    Kind = "balances"
	KindTransfers   Kind = "transfers"
)

// Table is a display snapshot of one pipeline stage.
// Money is rounded to cents and name lists are joined with " + ".
type Table interface {
	Kind() Kind
	Columns() []string
	Rows() [][]string
}

// NameSeparator joins lists of names for display.
const NameSeparator = " + "

// round2 is the only place money is rounded.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// PaymentTable snapshots raw ledger rows.
type PaymentTable struct {
	records []models.PaymentRecord
}

// NewPaymentTable copies and trims the records. Amounts that parse are
// rounded to cents; anything else is shown as entered.
func NewPaymentTable(records []models.PaymentRecord) *PaymentTable {
	t := &PaymentTable{records: make([]models.PaymentRecord, len(records))}
	for i, r := range records {
		t.records[i] = models.PaymentRecord{
			Date:     strings.TrimSpace(r.Date),
			Item:     strings.TrimSpace(r.Item),
			Creditor: strings.TrimSpace(r.Creditor),
			Debtors:  strings.TrimSpace(r.Debtors),
			Amount:   displayAmount(r.Amount),
		}
	}
	sort.SliceStable(t.records, func(i, j int) bool {
		a, b := t.records[i], t.records[j]
		return less(a.Creditor, b.Creditor, a.Debtors, b.Debtors, a.Item, b.Item)
	})
	return t
}

func (t *PaymentTable) Kind() Kind { return KindPayments }

func (t *PaymentTable) Columns() []string {
	return []string{"Creditor", "Debtor", "Item", "Amount"}
}

func (t *PaymentTable) Rows() [][]string {
	rows := make([][]string, len(t.records))
	for i, r := range t.records {
		rows[i] = []string{r.Creditor, r.Debtors, r.Item, r.Amount}
	}
	return rows
}

func displayAmount(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "eE") {
		return s
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return s
	}
	return money(round2(d))
}

// ExpandedTable snapshots records with resolved recipients.
type ExpandedTable struct {
	records []models.ExpandedRecord
}

func NewExpandedTable(records []models.ExpandedRecord) *ExpandedTable {
	t := &ExpandedTable{records: make([]models.ExpandedRecord, len(records))}
	for i, r := range records {
		t.records[i] = models.ExpandedRecord{
			Creditor: r.Creditor,
			Debtors:  append([]string{}, r.Debtors...),
			Item:     r.Item,
			Amount:   round2(r.Amount),
		}
	}
	sort.SliceStable(t.records, func(i, j int) bool {
		a, b := t.records[i], t.records[j]
		return less(a.Creditor, b.Creditor, strings.Join(a.Debtors, NameSeparator), strings.Join(b.Debtors, NameSeparator), a.Item, b.Item)
	})
	return t
}

func (t *ExpandedTable) Kind() Kind { return KindExpanded }

func (t *ExpandedTable) Columns() []string {
	return []string{"Creditor", "Debtor", "Item", "Amount"}
}

func (t *ExpandedTable) Rows() [][]string {
	rows := make([][]string, len(t.records))
	for i, r := range t.records {
		rows[i] = []string{r.Creditor, strings.Join(r.Debtors, NameSeparator), r.Item, money(r.Amount)}
	}
	return rows
}

// AllocationTable snapshots the per-person shares.
type AllocationTable struct {
	rows []models.AllocatedRow
}

func NewAllocationTable(rows []models.AllocatedRow) *AllocationTable {
	t := &AllocationTable{rows: make([]models.AllocatedRow, len(rows))}
	for i, r := range rows {
		r.Share = round2(r.Share)
		t.rows[i] = r
	}
	sort.SliceStable(t.rows, func(i, j int) bool {
		a, b := t.rows[i], t.rows[j]
		return less(a.Creditor, b.Creditor, a.Debtor, b.Debtor, a.Item, b.Item)
	})
	return t
}

func (t *AllocationTable) Kind() Kind { return KindAllocations }

func (t *AllocationTable) Columns() []string {
	return []string{"Creditor", "Debtor", "Item", "Amount"}
}

func (t *AllocationTable) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = []string{r.Creditor, r.Debtor, r.Item, money(r.Share)}
	}
	return rows
}

// DebtTable snapshots the pairwise sums.
type DebtTable struct {
	cells []models.DebtCell
}

func NewDebtTable(cells []models.DebtCell) *DebtTable {
	t := &DebtTable{cells: make([]models.DebtCell, len(cells))}
	for i, c := range cells {
		c.Total = round2(c.Total)
		t.cells[i] = c
	}
	return t
}

func (t *DebtTable) Kind() Kind { return KindDebts }

func (t *DebtTable) Columns() []string {
	return []string{"Creditor", "Debtor", "Amount"}
}

func (t *DebtTable) Rows() [][]string {
	rows := make([][]string, len(t.cells))
	for i, c := range t.cells {
		rows[i] = []string{c.Creditor, c.Debtor, money(c.Total)}
	}
	return rows
}

// Labels used by MatrixTable for its total row and column.
const (
	TotalPaidLabel     = "Total (paid)"
	TotalReceivedLabel = "Total (received)"
)

// MatrixTable snapshots the creditor x debtor expense matrix.
type MatrixTable struct {
	m models.ExpenseMatrix
}

func NewMatrixTable(m models.ExpenseMatrix) *MatrixTable {
	c := models.ExpenseMatrix{
		Creditors: append([]string{}, m.Creditors...),
		Debtors:   append([]string{}, m.Debtors...),
		Cells:     make([][]decimal.Decimal, len(m.Cells)),
		Paid:      roundAll(m.Paid),
		Received:  roundAll(m.Received),
	}
	for i, row := range m.Cells {
		c.Cells[i] = roundAll(row)
	}
	return &MatrixTable{m: c}
}

func roundAll(in []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(in))
	for i, d := range in {
		out[i] = round2(d)
	}
	return out
}

func (t *MatrixTable) Kind() Kind { return KindMatrix }

func (t *MatrixTable) Columns() []string {
	cols := append([]string{"Creditor"}, t.m.Debtors...)
	return append(cols, TotalPaidLabel)
}

func (t *MatrixTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.m.Creditors)+1)
	total := decimal.Zero
	for i, creditor := range t.m.Creditors {
		row := []string{creditor}
		for _, cell := range t.m.Cells[i] {
			row = append(row, money(cell))
		}
		rows = append(rows, append(row, money(t.m.Paid[i])))
		total = total.Add(t.m.Paid[i])
	}
	last := []string{TotalReceivedLabel}
	for _, r := range t.m.Received {
		last = append(last, money(r))
	}
	return append(rows, append(last, money(total)))
}

// BalanceTable snapshots the per-person balances.
type BalanceTable struct {
	balances []models.PersonBalance
}

func NewBalanceTable(balances []models.PersonBalance) *BalanceTable {
	t := &BalanceTable{balances: make([]models.PersonBalance, len(balances))}
	for i, b := range balances {
		t.balances[i] = models.PersonBalance{
			Person:   b.Person,
			Paid:     round2(b.Paid),
			Received: round2(b.Received),
			Balance:  round2(b.Balance),
		}
	}
	return t
}

func (t *BalanceTable) Kind() Kind { return KindBalances }

func (t *BalanceTable) Columns() []string {
	return []string{"Person", "Paid", "Received", "Balance"}
}

func (t *BalanceTable) Rows() [][]string {
	rows := make([][]string, len(t.balances))
	for i, b := range t.balances {
		rows[i] = []string{b.Person, money(b.Paid), money(b.Received), money(b.Balance)}
	}
	return rows
}

// TransferTable snapshots the clearing, sorted by payer then payee.
type TransferTable struct {
	transfers []models.Transfer
}

func NewTransferTable(transfers []models.Transfer) *TransferTable {
	t := &TransferTable{transfers: make([]models.Transfer, len(transfers))}
	for i, tr := range transfers {
		tr.Amount = round2(tr.Amount)
		t.transfers[i] = tr
	}
	sort.SliceStable(t.transfers, func(i, j int) bool {
		a, b := t.transfers[i], t.transfers[j]
		return less(a.Payer, b.Payer, a.Payee, b.Payee)
	})
	return t
}

func (t *TransferTable) Kind() Kind { return KindTransfers }

func (t *TransferTable) Columns() []string {
	return []string{"Payer", "Payee", "Amount"}
}

func (t *TransferTable) Rows() [][]string {
	rows := make([][]string, len(t.transfers))
	for i, tr := range t.transfers {
		rows[i] = []string{tr.Payer, tr.Payee, money(tr.Amount)}
	}
	return rows
}

// less compares pairs of keys (a1, b1, a2, b2, ...) lexicographically.
func less(keys ...string) bool {
	for i := 0; i+1 < len(keys); i += 2 {
		if keys[i] != keys[i+1] {
			return keys[i] < keys[i+1]
		}
	}
	return false
}
