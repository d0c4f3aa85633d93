package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStagedReport(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("Balances", NewBalanceTable(nil)))
	require.NoError(t, r.Add("Clearing", NewTransferTable(nil)))
	assert.False(t, r.Sealed())

	r.Seal()
	assert.True(t, r.Sealed())
	assert.ErrorIs(t, r.Add("Late", NewTransferTable(nil)), ErrSealed)

	steps := r.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "Balances", steps[0].Label)
	assert.Equal(t, "Clearing", steps[1].Label)

	steps[0].Label = "changed"
	assert.Equal(t, "Balances", r.Steps()[0].Label)

	step, ok := r.Step("Clearing")
	require.True(t, ok)
	assert.Equal(t, KindTransfers, step.Table.Kind())

	_, ok = r.Step("Late")
	assert.False(t, ok)
}

func TestPaymentTable(t *testing.T) {
	records := []models.PaymentRecord{
		{Item: " pizza ", Creditor: "Bob", Debtors: "Alice", Amount: "10,005"},
		{Item: "tip", Creditor: "Alice", Debtors: "Bob + Carol", Amount: "lots"},
		{Item: "huge", Creditor: "Alice", Debtors: "Carol", Amount: "1e999999999"},
	}
	table := NewPaymentTable(records)

	assert.Equal(t, [][]string{
		{"Alice", "Bob + Carol", "tip", "lots"},
		{"Alice", "Carol", "huge", "1e999999999"},
		{"Bob", "Alice", "pizza", "10.01"},
	}, table.Rows())

	records[0].Creditor = "Zed"
	assert.Equal(t, "Bob", table.Rows()[2][0], "table must not alias its input")
}

func TestExpandedTable(t *testing.T) {
	debtors := []string{"Alice", "Bob"}
	table := NewExpandedTable([]models.ExpandedRecord{
		{Creditor: "Carol", Debtors: debtors, Item: "pizza", Amount: dec("30")},
	})
	debtors[0] = "Mallory"

	assert.Equal(t, []string{"Creditor", "Debtor", "Item", "Amount"}, table.Columns())
	assert.Equal(t, [][]string{{"Carol", "Alice + Bob", "pizza", "30.00"}}, table.Rows())
}

func TestAllocationTableRoundsForDisplayOnly(t *testing.T) {
	third := dec("10").Div(dec("3"))
	rows := []models.AllocatedRow{
		{Creditor: "Carol", Debtor: "Bob", Item: "pizza", Share: third},
		{Creditor: "Carol", Debtor: "Alice", Item: "pizza", Share: third},
	}
	table := NewAllocationTable(rows)

	assert.Equal(t, [][]string{
		{"Carol", "Alice", "pizza", "3.33"},
		{"Carol", "Bob", "pizza", "3.33"},
	}, table.Rows())
	assert.True(t, rows[0].Share.Equal(third))
}

func TestMatrixTable(t *testing.T) {
	table := NewMatrixTable(models.ExpenseMatrix{
		Creditors: []string{"Alice", "Bob"},
		Debtors:   []string{"Alice", "Carol"},
		Cells: [][]decimal.Decimal{
			{dec("5"), dec("5")},
			{decimal.Zero, dec("12.499")},
		},
		Paid:     []decimal.Decimal{dec("10"), dec("12.499")},
		Received: []decimal.Decimal{dec("5"), dec("17.499")},
	})

	assert.Equal(t, []string{"Creditor", "Alice", "Carol", TotalPaidLabel}, table.Columns())
	assert.Equal(t, [][]string{
		{"Alice", "5.00", "5.00", "10.00"},
		{"Bob", "0.00", "12.50", "12.50"},
		{TotalReceivedLabel, "5.00", "17.50", "22.50"},
	}, table.Rows())
}

func TestTransferTableSortsByPayer(t *testing.T) {
	table := NewTransferTable([]models.Transfer{
		{Payer: "Carol", Payee: "Bob", Amount: dec("2")},
		{Payer: "Carol", Payee: "Alice", Amount: dec("20")},
		{Payer: "Bob", Payee: "Alice", Amount: dec("0.125")},
	})

	assert.Equal(t, [][]string{
		{"Bob", "Alice", "0.13"},
		{"Carol", "Alice", "20.00"},
		{"Carol", "Bob", "2.00"},
	}, table.Rows())
}

func testSteps() []Step {
	return []Step{
		{Label: "Balances", Table: NewBalanceTable([]models.PersonBalance{
			{Person: "Alice", Paid: dec("30"), Received: dec("10"), Balance: dec("20")},
			{Person: "<Bob>", Paid: dec("0"), Received: dec("20"), Balance: dec("-20")},
		})},
		{Label: "Clearing", Table: NewTransferTable([]models.Transfer{
			{Payer: "<Bob>", Payee: "Alice", Amount: dec("20")},
		})},
	}
}

func TestRender(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, "October", testSteps()))
	html := buf.String()

	assert.Contains(t, html, "<title>October</title>")
	assert.Contains(t, html, "<h2>Balances</h2>")
	assert.Contains(t, html, "<h2>Clearing</h2>")
	assert.Contains(t, html, "<td>-20.00</td>")
	assert.Contains(t, html, "&lt;Bob&gt;")
	assert.NotContains(t, html, "<Bob>")
	assert.Less(t, strings.Index(html, "Balances"), strings.Index(html, "Clearing"))
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, "October", testSteps()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "October\n"))
	assert.Contains(t, out, "Clearing")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "Payer")
}
