package calculator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// amountPattern is a plain signed decimal. Exponents and thousands
// separators are not amounts.
var amountPattern = regexp.MustCompile(`^[+-]?\d+([.,]\d+)?$`)

// ParseAmount parses an amount cell. Either "." or "," is accepted as the
// decimal separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// ExpandRecord normalizes a single record and resolves its recipients.
// A negative amount with a single debtor swaps creditor and debtor.
func ExpandRecord(record models.PaymentRecord, groups models.GroupTable) (models.ExpandedRecord, error) {
	creditor := strings.TrimSpace(record.Creditor)
	item := strings.TrimSpace(record.Item)
	if creditor == "" {
		return models.ExpandedRecord{}, ErrNoCreditor
	}

	amount, err := ParseAmount(record.Amount)
	if err != nil {
		return models.ExpandedRecord{}, err
	}

	debtors, err := ResolveRecipients(record.Debtors, groups)
	if err != nil {
		return models.ExpandedRecord{}, err
	}

	if amount.IsNegative() {
		if len(debtors) != 1 {
			return models.ExpandedRecord{}, ErrNegativeSplit
		}
		creditor, debtors = debtors[0], []string{creditor}
		amount = amount.Neg()
	}

	return models.ExpandedRecord{
		Creditor: creditor,
		Debtors:  debtors,
		Item:     item,
		Amount:   amount,
	}, nil
}

// Expand resolves every record, stopping at the first bad row.
func Expand(records []models.PaymentRecord, groups models.GroupTable) ([]models.ExpandedRecord, error) {
	expanded := make([]models.ExpandedRecord, 0, len(records))
	for i, record := range records {
		e, err := ExpandRecord(record, groups)
		if err != nil {
			return nil, &RowError{Row: i, Record: record, Err: err}
		}
		expanded = append(expanded, e)
	}
	return expanded, nil
}

// ExpandLenient resolves every record it can. Bad rows are skipped and
// reported together as a joined error of *RowError values.
func ExpandLenient(records []models.PaymentRecord, groups models.GroupTable) ([]models.ExpandedRecord, error) {
	expanded := make([]models.ExpandedRecord, 0, len(records))
	var errs []error
	for i, record := range records {
		e, err := ExpandRecord(record, groups)
		if err != nil {
			errs = append(errs, &RowError{Row: i, Record: record, Err: err})
			continue
		}
		expanded = append(expanded, e)
	}
	return expanded, errors.Join(errs...)
}

// Allocate splits each expanded record evenly across its debtors.
func Allocate(expanded []models.ExpandedRecord) []models.AllocatedRow {
	var rows []models.AllocatedRow
	for _, e := range expanded {
		if len(e.Debtors) == 0 {
			continue
		}
		share := e.Amount.Div(decimal.NewFromInt(int64(len(e.Debtors))))
		for _, debtor := range e.Debtors {
			rows = append(rows, models.AllocatedRow{
				Creditor: e.Creditor,
				Debtor:   debtor,
				Item:     e.Item,
				Share:    share,
			})
		}
	}
	return rows
}

// AllocateRecords expands and allocates in one step.
func AllocateRecords(records []models.PaymentRecord, groups models.GroupTable) ([]models.AllocatedRow, error) {
	expanded, err := Expand(records, groups)
	if err != nil {
		return nil, err
	}
	return Allocate(expanded), nil
}
