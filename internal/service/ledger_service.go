package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/report"
	"github.com/mmynk/splitledger/internal/storage"
)

// ErrPeriodNotEmpty is returned when opening a period that already has records.
var ErrPeriodNotEmpty = errors.New("period already has records")

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	store    storage.Store
	renderer *report.Renderer
	cfg      *config.Config
	metrics  *middleware.Metrics
	now      func() time.Time
}

// NewLedgerService creates a new LedgerService. metrics may be nil.
func NewLedgerService(store storage.Store, renderer *report.Renderer, cfg *config.Config, metrics *middleware.Metrics) *LedgerService {
	return &LedgerService{
		store:    store,
		renderer: renderer,
		cfg:      cfg,
		metrics:  metrics,
		now:      time.Now,
	}
}

// AddRecord validates and stores one ledger row.
func (s *LedgerService) AddRecord(ctx context.Context, req *connect.Request[AddRecordRequest]) (*connect.Response[AddRecordResponse], error) {
	msg := req.Msg
	slog.Info("AddRecord request received",
		"period", msg.Period,
		"item", msg.Item,
		"debtors", msg.Debtors,
	)

	creditor := msg.Creditor
	if creditor == "" {
		creditor = middleware.GetMember(ctx)
	}
	creditor = strings.TrimSpace(creditor)
	if creditor == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, calculator.ErrNoCreditor)
	}

	record := &models.PaymentRecord{
		Period:   s.periodOrCurrent(msg.Period),
		Date:     msg.Date,
		Item:     msg.Item,
		Creditor: creditor,
		Debtors:  msg.Debtors,
		Amount:   msg.Amount,
	}
	if record.Date == "" {
		record.Date = s.now().Format(s.cfg.DateFormat)
	}

	groups, err := s.groupTable(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	// Reject rows the pipeline would fail on later.
	if _, err := calculator.ExpandRecord(*record, groups); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.AppendRecords(ctx, []*models.PaymentRecord{record}); err != nil {
		slog.Error("AddRecord failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Record added", "record_id", record.ID, "period", record.Period)

	return connect.NewResponse(&AddRecordResponse{Record: recordToAPI(record)}), nil
}

// ListRecords returns the records of a period in entry order.
func (s *LedgerService) ListRecords(ctx context.Context, req *connect.Request[ListRecordsRequest]) (*connect.Response[ListRecordsResponse], error) {
	period := s.periodOrCurrent(req.Msg.Period)

	records, err := s.store.ListRecords(ctx, period)
	if err != nil {
		slog.Error("ListRecords failed", "period", period, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]Record, len(records))
	for i := range records {
		out[i] = recordToAPI(&records[i])
	}

	return connect.NewResponse(&ListRecordsResponse{Period: period, Records: out}), nil
}

// DeleteRecord removes a record and returns it.
func (s *LedgerService) DeleteRecord(ctx context.Context, req *connect.Request[DeleteRecordRequest]) (*connect.Response[DeleteRecordResponse], error) {
	slog.Info("DeleteRecord request received", "record_id", req.Msg.ID)

	record, err := s.store.GetRecord(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteRecord(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteRecord failed", "record_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&DeleteRecordResponse{Record: recordToAPI(record)}), nil
}

// ListPeriods returns every period that has records.
func (s *LedgerService) ListPeriods(ctx context.Context, _ *connect.Request[ListPeriodsRequest]) (*connect.Response[ListPeriodsResponse], error) {
	periods, err := s.store.ListPeriods(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if periods == nil {
		periods = []string{}
	}
	return connect.NewResponse(&ListPeriodsResponse{Periods: periods}), nil
}

// PutGroup creates a group or replaces its members.
func (s *LedgerService) PutGroup(ctx context.Context, req *connect.Request[PutGroupRequest]) (*connect.Response[PutGroupResponse], error) {
	slog.Info("PutGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group name is required"))
	}

	group := &models.Group{Name: req.Msg.Name, Members: req.Msg.Members}
	if err := s.store.PutGroup(ctx, group); err != nil {
		slog.Error("PutGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&PutGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups returns all groups sorted by name.
func (s *LedgerService) ListGroups(ctx context.Context, _ *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}

	return connect.NewResponse(&ListGroupsResponse{Groups: out}), nil
}

// DeleteGroup removes a group by name.
func (s *LedgerService) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "name", req.Msg.Name)

	if err := s.store.DeleteGroup(ctx, req.Msg.Name); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteGroupResponse{}), nil
}

// GetSummary runs the settlement pipeline over one period.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	period := s.periodOrCurrent(req.Msg.Period)
	slog.Info("GetSummary request received", "period", period)

	summary, err := s.summarize(ctx, period)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &GetSummaryResponse{
		Title:     summary.Title,
		Steps:     stepsToAPI(summary.Report.Steps()),
		Balances:  balancesToAPI(summary.Balances),
		Transfers: transfersToAPI(summary.Settlement.Transfers),
	}
	resp.Residuals, resp.Warning = residualsToAPI(summary.Settlement)

	if req.Msg.IncludeHTML {
		var buf bytes.Buffer
		if err := s.renderer.Render(&buf, summary.Title, summary.Report.Steps()); err != nil {
			slog.Error("GetSummary render failed", "period", period, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		resp.HTML = buf.String()
	}

	return connect.NewResponse(resp), nil
}

// OpenPeriod carries the clearing of one period over into the next.
func (s *LedgerService) OpenPeriod(ctx context.Context, req *connect.Request[OpenPeriodRequest]) (*connect.Response[OpenPeriodResponse], error) {
	from := s.periodOrCurrent(req.Msg.From)
	to := req.Msg.To
	if to == "" {
		next, err := s.nextPeriod(from)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		to = next
	}
	slog.Info("OpenPeriod request received", "from", from, "to", to)

	if from == to {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("cannot carry period %q over into itself", from))
	}

	existing, err := s.store.ListRecords(ctx, to)
	if err != nil {
		return nil, toConnectError(err)
	}
	if len(existing) > 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("%w: %s", ErrPeriodNotEmpty, to))
	}

	summary, err := s.summarize(ctx, from)
	if err != nil {
		return nil, toConnectError(err)
	}

	date := req.Msg.Date
	if date == "" {
		date = s.now().Format(s.cfg.DateFormat)
	}
	records := CarryOver(summary.Settlement.Transfers, from, to, date, s.cfg)

	if len(records) > 0 {
		if err := s.store.AppendRecords(ctx, records); err != nil {
			slog.Error("OpenPeriod failed", "to", to, "error", err)
			return nil, toConnectError(err)
		}
	}

	slog.Info("Period opened", "from", from, "to", to, "records", len(records))

	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = recordToAPI(r)
	}
	resp := &OpenPeriodResponse{Period: to, Records: out}
	resp.Residuals, resp.Warning = residualsToAPI(summary.Settlement)
	if resp.Warning != "" {
		slog.Warn("Residual balances were not carried over", "from", from, "residuals", len(resp.Residuals))
	}
	return connect.NewResponse(resp), nil
}

// CarryOver builds the opening records of period to: one record per transfer
// owed at the end of period from, in which the payee lends the amount to the
// payer, followed by the recurring records of cfg. Transfers that round to
// zero cents are dropped.
func CarryOver(transfers []models.Transfer, from, to, date string, cfg *config.Config) []*models.PaymentRecord {
	label := strings.Replace(cfg.CarryOverLabel, "%s", from, 1)

	var records []*models.PaymentRecord
	for _, t := range transfers {
		amount := t.Amount.Round(2)
		if amount.IsZero() {
			continue
		}
		records = append(records, &models.PaymentRecord{
			Period:   to,
			Date:     date,
			Item:     label,
			Creditor: t.Payee,
			Debtors:  t.Payer,
			Amount:   amount.StringFixed(2),
		})
	}
	for _, r := range cfg.Recurring {
		records = append(records, &models.PaymentRecord{
			Period:   to,
			Date:     date,
			Item:     r.Item,
			Creditor: r.Creditor,
			Debtors:  r.Debtors,
			Amount:   r.Amount,
		})
	}
	return records
}

func (s *LedgerService) summarize(ctx context.Context, period string) (*calculator.Summary, error) {
	records, err := s.store.ListRecords(ctx, period)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupTable(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := calculator.Summarize(period, records, groups)
	if err != nil {
		slog.Warn("Summary failed", "period", period, "error", err)
		return nil, err
	}
	s.metrics.ObserveSummary(len(summary.Settlement.Transfers), len(summary.Settlement.Residuals) > 0)
	return summary, nil
}

func (s *LedgerService) groupTable(ctx context.Context) (models.GroupTable, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	return models.GroupTableOf(groups), nil
}

func (s *LedgerService) periodOrCurrent(period string) string {
	if period != "" {
		return period
	}
	return s.now().Format(s.cfg.PeriodFormat)
}

// nextPeriod returns the period one month after period.
func (s *LedgerService) nextPeriod(period string) (string, error) {
	t, err := time.Parse(s.cfg.PeriodFormat, period)
	if err != nil {
		return "", fmt.Errorf("cannot derive the period after %q, set it explicitly: %w", period, err)
	}
	return t.AddDate(0, 1, 0).Format(s.cfg.PeriodFormat), nil
}

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrNoCreditor),
		errors.Is(err, calculator.ErrRecipientExpressionInvalid),
		errors.Is(err, calculator.ErrNoRecipients),
		errors.Is(err, calculator.ErrNegativeSplit):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// residualsToAPI reports what the clearing could not settle, with the warning
// text to show next to it. Both are empty for a conserving ledger.
func residualsToAPI(s calculator.Settlement) ([]Balance, string) {
	err := s.Err()
	if err == nil {
		return nil, ""
	}
	return balancesToAPI(s.Residuals), err.Error()
}

func recordToAPI(r *models.PaymentRecord) Record {
	return Record{
		ID:        r.ID,
		Period:    r.Period,
		Date:      r.Date,
		Item:      r.Item,
		Creditor:  r.Creditor,
		Debtors:   r.Debtors,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}

func groupToAPI(g *models.Group) Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return Group{Name: g.Name, Members: members, CreatedAt: g.CreatedAt}
}

func stepsToAPI(steps []report.Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{
			Label:   s.Label,
			Kind:    string(s.Table.Kind()),
			Columns: s.Table.Columns(),
			Rows:    s.Table.Rows(),
		}
	}
	return out
}

func balancesToAPI(balances []models.PersonBalance) []Balance {
	out := make([]Balance, len(balances))
	for i, b := range balances {
		out[i] = Balance{Person: b.Person, Paid: b.Paid, Received: b.Received, Balance: b.Balance}
	}
	return out
}

func transfersToAPI(transfers []models.Transfer) []Transfer {
	out := make([]Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = Transfer{Payer: t.Payer, Payee: t.Payee, Amount: t.Amount}
	}
	return out
}
