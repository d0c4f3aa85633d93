package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertNearly(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.True(t, diff.LessThanOrEqual(Tolerance), "want %s, got %s", want.String(), got.String())
}

func record(creditor, debtors, amount string) models.PaymentRecord {
	return models.PaymentRecord{
		Date:     "01.10.2026",
		Item:     "Groceries",
		Creditor: creditor,
		Debtors:  debtors,
		Amount:   amount,
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "10", want: "10"},
		{raw: "12.50", want: "12.5"},
		{raw: "12,50", want: "12.5"},
		{raw: "  3.5 ", want: "3.5"},
		{raw: "-5", want: "-5"},
		{raw: "-7,25", want: "-7.25"},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.234,56", wantErr: true},
		{raw: "1,2,3", wantErr: true},
		{raw: "12 EUR", wantErr: true},
		{raw: "1e3", wantErr: true},
		{raw: "1e999999999", wantErr: true},
		{raw: "1.5E2", wantErr: true},
		{raw: ".5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestExpandRecord(t *testing.T) {
	t.Run("trims fields and resolves groups", func(t *testing.T) {
		got, err := ExpandRecord(models.PaymentRecord{
			Item:     "  Gelato ",
			Creditor: " Doris ",
			Debtors:  " Ice Cream ",
			Amount:   " 9,00 ",
		}, testGroups())
		require.NoError(t, err)

		assert.Equal(t, "Doris", got.Creditor)
		assert.Equal(t, "Gelato", got.Item)
		assert.Equal(t, []string{"Alice", "Bob"}, got.Debtors)
		assertDecimal(t, "9", got.Amount)
	})

	t.Run("negative amount swaps creditor and debtor", func(t *testing.T) {
		got, err := ExpandRecord(record("Alice", "Bob", "-5"), nil)
		require.NoError(t, err)

		assert.Equal(t, "Bob", got.Creditor)
		assert.Equal(t, []string{"Alice"}, got.Debtors)
		assertDecimal(t, "5", got.Amount)
	})

	t.Run("negative amount for a group that resolves to one person", func(t *testing.T) {
		got, err := ExpandRecord(record("Bob", "Pizza", "-4"), testGroups())
		require.NoError(t, err)

		assert.Equal(t, "Alice", got.Creditor)
		assert.Equal(t, []string{"Bob"}, got.Debtors)
	})

	t.Run("negative amount for several people", func(t *testing.T) {
		_, err := ExpandRecord(record("Alice", "Bob + Charlie", "-5"), nil)
		require.ErrorIs(t, err, ErrNegativeSplit)
	})

	t.Run("blank creditor", func(t *testing.T) {
		_, err := ExpandRecord(record("   ", "Bob", "10"), nil)
		require.ErrorIs(t, err, ErrNoCreditor)
	})
}

func TestExpand(t *testing.T) {
	records := []models.PaymentRecord{
		record("Alice", "Bob", "10"),
		record("Bob", "Alice", "ten"),
		record("Charlie", "Alice - Alice", "3"),
	}

	t.Run("stops at the first bad row", func(t *testing.T) {
		_, err := Expand(records, nil)
		require.ErrorIs(t, err, ErrInvalidAmount)

		var rowErr *RowError
		require.True(t, errors.As(err, &rowErr))
		assert.Equal(t, 1, rowErr.Row)
		assert.Equal(t, "ten", rowErr.Record.Amount)
	})

	t.Run("lenient mode keeps the good rows", func(t *testing.T) {
		expanded, err := ExpandLenient(records, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.ErrorIs(t, err, ErrNoRecipients)

		require.Len(t, expanded, 1)
		assert.Equal(t, "Alice", expanded[0].Creditor)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []models.PaymentRecord{record(" Alice ", "Bob", "-5")}
		before := append([]models.PaymentRecord{}, in...)

		_, err := Expand(in, nil)
		require.NoError(t, err)
		assert.Equal(t, before, in)
	})
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		expanded models.ExpandedRecord
		shares   int
	}{
		{
			name:     "single debtor gets everything",
			expanded: models.ExpandedRecord{Creditor: "Alice", Debtors: []string{"Bob"}, Amount: dec("10")},
			shares:   1,
		},
		{
			name:     "two debtors split evenly",
			expanded: models.ExpandedRecord{Creditor: "Alice", Debtors: []string{"Alice", "Bob"}, Amount: dec("33")},
			shares:   2,
		},
		{
			name:     "three debtors do not divide evenly",
			expanded: models.ExpandedRecord{Creditor: "Alice", Debtors: []string{"Alice", "Bob", "Charlie"}, Amount: dec("10")},
			shares:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Allocate([]models.ExpandedRecord{tt.expanded})
			require.Len(t, rows, tt.shares)

			sum := decimal.Zero
			for i, row := range rows {
				assert.Equal(t, tt.expanded.Creditor, row.Creditor)
				assert.Equal(t, tt.expanded.Debtors[i], row.Debtor)
				assert.True(t, row.Share.Equal(rows[0].Share), "shares must be even")
				sum = sum.Add(row.Share)
			}
			assertNearly(t, tt.expanded.Amount, sum)
		})
	}
}

func TestAllocateRecords(t *testing.T) {
	rows, err := AllocateRecords([]models.PaymentRecord{
		record("Alice", "Ice Cream + Doris", "30"),
	}, testGroups())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, row := range rows {
		assertDecimal(t, "10", row.Share)
	}
	assert.Equal(t, "Alice", rows[0].Debtor)
	assert.Equal(t, "Bob", rows[1].Debtor)
	assert.Equal(t, "Doris", rows[2].Debtor)

	_, err = AllocateRecords([]models.PaymentRecord{record("Alice", "", "3")}, nil)
	assert.ErrorIs(t, err, ErrRecipientExpressionInvalid)
}
