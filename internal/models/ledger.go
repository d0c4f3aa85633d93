package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one raw ledger row.
type PaymentRecord struct {
	// ID is the unique identifier for the record (UUID format).
	// Empty for records that were never persisted.
	ID string

	// Period names the accounting period the record belongs to (e.g. "2026-10").
	Period string

	// Date is the date of the payment as entered.
	Date string

	// Item is a free-text description of what was paid for.
	Item string

	// Creditor is the person who paid.
	Creditor string

	// Debtors is the raw recipient expression, e.g. "Alice + Pizza - Bob".
	Debtors string

	// Amount is the raw amount text. A decimal comma is accepted.
	// A negative amount swaps creditor and debtor.
	Amount string

	// CreatedAt is the Unix timestamp when the record was stored.
	CreatedAt int64
}

// GroupTable maps a group name to its members.
// A nil table means no groups exist. A group mapped to an empty slice is a
// known group with no members.
type GroupTable map[string][]string

// Has reports whether name is a known group.
func (g GroupTable) Has(name string) bool {
	if g == nil {
		return false
	}
	_, ok := g[name]
	return ok
}

// Members returns the members of the named group.
func (g GroupTable) Members(name string) []string {
	if g == nil {
		return nil
	}
	return g[name]
}

// Names returns the group names in alphabetical order.
func (g GroupTable) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the table.
func (g GroupTable) Clone() GroupTable {
	if g == nil {
		return nil
	}
	out := make(GroupTable, len(g))
	for name, members := range g {
		out[name] = append([]string{}, members...)
	}
	return out
}

// ExpandedRecord is a payment whose recipient expression has been resolved to
// concrete people. Debtors is never empty and is sorted.
type ExpandedRecord struct {
	Creditor string
	Debtors  []string
	Item     string
	Amount   decimal.Decimal
}

// AllocatedRow is one debtor's even share of an ExpandedRecord.
type AllocatedRow struct {
	Creditor string
	Debtor   string
	Item     string
	Share    decimal.Decimal
}

// DebtCell is the sum of all shares for one (creditor, debtor) pair.
type DebtCell struct {
	Creditor string
	Debtor   string
	Total    decimal.Decimal
}

// PersonBalance is the net position of one person.
type PersonBalance struct {
	Person string

	// Paid is the total this person laid out for others (and themselves).
	Paid decimal.Decimal

	// Received is the total value this person consumed.
	Received decimal.Decimal

	// Balance is Paid - Received. Positive = owed money, negative = owes money.
	Balance decimal.Decimal
}

// Transfer is one payment of the clearing: Payer sends Amount to Payee.
type Transfer struct {
	Payer  string
	Payee  string
	Amount decimal.Decimal
}

// ExpenseMatrix is the creditor x debtor view of the debt cells with row and
// column totals.
type ExpenseMatrix struct {
	// Creditors label the rows, Debtors label the columns. Both sorted.
	Creditors []string
	Debtors   []string

	// Cells[i][j] is what Creditors[i] laid out for Debtors[j].
	Cells [][]decimal.Decimal

	// Paid[i] is the row total of Creditors[i].
	Paid []decimal.Decimal

	// Received[j] is the column total of Debtors[j].
	Received []decimal.Decimal
}
