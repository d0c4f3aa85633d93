package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrInvalidAmount is returned when an amount cell does not parse as a number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrRecipientExpressionInvalid is returned for a malformed recipient expression.
	ErrRecipientExpressionInvalid = errors.New("invalid recipient expression")

	// ErrNoCreditor is returned when a row does not name who paid.
	ErrNoCreditor = errors.New("creditor is required")

	// ErrNoRecipients is returned when an expression resolves to nobody.
	ErrNoRecipients = errors.New("no recipients")

	// ErrNegativeSplit is returned when a negative amount names more than one debtor.
	ErrNegativeSplit = errors.New("a negative amount must refer to a single person")

	// ErrUnsettledResidual marks a clearing that left a non-zero balance behind.
	ErrUnsettledResidual = errors.New("unsettled residual balance")
)

// RowError scopes an error to one ledger row.
type RowError struct {
	// Row is the zero-based index of the record in the input.
	Row    int
	Record models.PaymentRecord
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%s paid %q for %q): %v",
		e.Row, e.Record.Creditor, e.Record.Amount, e.Record.Debtors, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ExpressionError scopes an error to a recipient expression.
type ExpressionError struct {
	Expression string
	Err        error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Expression)
}

func (e *ExpressionError) Unwrap() error { return e.Err }

// UnsettledResidualError lists the balances a clearing could not resolve.
// It is a warning: the transfers computed alongside it are still valid.
type UnsettledResidualError struct {
	Residuals []models.PersonBalance
}

func (e *UnsettledResidualError) Error() string {
	parts := make([]string, len(e.Residuals))
	for i, r := range e.Residuals {
		parts[i] = fmt.Sprintf("%s=%s", r.Person, r.Balance.String())
	}
	return fmt.Sprintf("%v: %s", ErrUnsettledResidual, strings.Join(parts, ", "))
}

func (e *UnsettledResidualError) Is(target error) bool {
	return target == ErrUnsettledResidual
}
