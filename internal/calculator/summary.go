package calculator

import (
	"log/slog"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/report"
)

// Step labels of the expense summary, in pipeline order.
const (
	StepOutlay   = "Outlay"
	StepExpanded = "Outlay (expanded)"
	StepStacked  = "Outlay (stacked)"
	StepSummed   = "Outlay (summed)"
	StepExpenses = "Expenses"
	StepBalances = "Balances"
	StepClearing = "Clearing"
)

// Summary is the outcome of running the whole pipeline over a ledger.
type Summary struct {
	Title      string
	Report     *report.StagedReport
	Cells      []models.DebtCell
	Balances   []models.PersonBalance
	Settlement Settlement
}

// Summarize runs every stage of the settlement pipeline and snapshots each
// stage into a sealed report. It fails on the first bad row; residual
// balances after clearing are logged and kept on the Summary, not returned as
// an error.
func Summarize(title string, records []models.PaymentRecord, groups models.GroupTable) (*Summary, error) {
	rep := report.New()
	add := func(label string, table report.Table) {
		_ = rep.Add(label, table)
	}

	add(StepOutlay, report.NewPaymentTable(records))

	expanded, err := Expand(records, groups)
	if err != nil {
		return nil, err
	}
	add(StepExpanded, report.NewExpandedTable(expanded))

	rows := Allocate(expanded)
	add(StepStacked, report.NewAllocationTable(rows))

	cells := Aggregate(rows)
	add(StepSummed, report.NewDebtTable(cells))
	add(StepExpenses, report.NewMatrixTable(ExpenseMatrix(cells)))

	balances := ComputeBalances(cells)
	add(StepBalances, report.NewBalanceTable(balances))

	settlement := Settle(balances)
	add(StepClearing, report.NewTransferTable(settlement.Transfers))
	rep.Seal()

	if err := settlement.Err(); err != nil {
		slog.Warn("Clearing left residual balances",
			"title", title,
			"residuals", len(settlement.Residuals),
			"error", err,
		)
	}

	slog.Debug("Summary computed",
		"title", title,
		"records", len(records),
		"persons", len(balances),
		"transfers", len(settlement.Transfers),
	)

	return &Summary{
		Title:      title,
		Report:     rep,
		Cells:      cells,
		Balances:   balances,
		Settlement: settlement,
	}, nil
}
