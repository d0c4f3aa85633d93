package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Tolerance is the absolute amount below which a balance counts as settled.
var Tolerance = decimal.New(1, -9)

// Settlement is the result of clearing a set of balances.
type Settlement struct {
	// Transfers, in the order the greedy matching produced them.
	Transfers []models.Transfer

	// Residuals holds balances left non-zero when matching stopped. Empty for
	// a conserving ledger.
	Residuals []models.PersonBalance
}

// Err returns an *UnsettledResidualError if any residual remains.
func (s Settlement) Err() error {
	if len(s.Residuals) == 0 {
		return nil
	}
	return &UnsettledResidualError{Residuals: s.Residuals}
}

// Settle converts balances into transfers that bring every balance to zero.
//
// Algorithm (greedy largest-pair matching):
//   - creditor = person with the largest balance, debtor = person with the
//     smallest; ties go to the alphabetically first name
//   - the debtor pays the creditor min(creditor balance, -debtor balance)
//   - whoever reaches zero leaves the pool
//
// Each round removes at least one person, so N people need at most N-1
// transfers. The result is not guaranteed to be globally minimal.
func Settle(balances []models.PersonBalance) Settlement {
	open := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		if !settled(b.Balance) {
			open[b.Person] = open[b.Person].Add(b.Balance)
		}
	}

	var result Settlement
	for len(open) > 1 {
		names := sortedNames(open)
		creditor, debtor := names[0], names[0]
		for _, name := range names[1:] {
			if open[name].GreaterThan(open[creditor]) {
				creditor = name
			}
			if open[name].LessThan(open[debtor]) {
				debtor = name
			}
		}

		owed, owes := open[creditor], open[debtor].Neg()
		if !owed.IsPositive() || !owes.IsPositive() {
			// Everyone left is on the same side; nothing can be matched.
			break
		}

		amount := decimal.Min(owed, owes)
		result.Transfers = append(result.Transfers, models.Transfer{
			Payer:  debtor,
			Payee:  creditor,
			Amount: amount,
		})

		open[creditor] = owed.Sub(amount)
		open[debtor] = open[debtor].Add(amount)
		for _, name := range []string{creditor, debtor} {
			if settled(open[name]) {
				delete(open, name)
			}
		}
	}

	for _, name := range sortedNames(open) {
		result.Residuals = append(result.Residuals, models.PersonBalance{
			Person:  name,
			Balance: open[name],
		})
	}
	return result
}

func settled(amount decimal.Decimal) bool {
	return amount.Abs().LessThanOrEqual(Tolerance)
}

func sortedNames(m map[string]decimal.Decimal) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
