package service

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ServiceName is the fully-qualified name of the ledger service.
const ServiceName = "splitledger.v1.LedgerService"

// Procedure paths, one per RPC.
const (
	AddRecordProcedure    = "/" + ServiceName + "/AddRecord"
	ListRecordsProcedure  = "/" + ServiceName + "/ListRecords"
	DeleteRecordProcedure = "/" + ServiceName + "/DeleteRecord"
	ListPeriodsProcedure  = "/" + ServiceName + "/ListPeriods"
	PutGroupProcedure     = "/" + ServiceName + "/PutGroup"
	ListGroupsProcedure   = "/" + ServiceName + "/ListGroups"
	DeleteGroupProcedure  = "/" + ServiceName + "/DeleteGroup"
	GetSummaryProcedure   = "/" + ServiceName + "/GetSummary"
	OpenPeriodProcedure   = "/" + ServiceName + "/OpenPeriod"
)

// jsonCodec lets Connect carry plain Go structs as JSON.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type Record struct {
	ID        string `json:"id"`
	Period    string `json:"period"`
	Date      string `json:"date"`
	Item      string `json:"item"`
	Creditor  string `json:"creditor"`
	Debtors   string `json:"debtors"`
	Amount    string `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}

type Group struct {
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type Step struct {
	Label   string     `json:"label"`
	Kind    string     `json:"kind"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type Balance struct {
	Person   string          `json:"person"`
	Paid     decimal.Decimal `json:"paid"`
	Received decimal.Decimal `json:"received"`
	Balance  decimal.Decimal `json:"balance"`
}

type Transfer struct {
	Payer  string          `json:"payer"`
	Payee  string          `json:"payee"`
	Amount decimal.Decimal `json:"amount"`
}

// AddRecordRequest adds one ledger row. Period and Date default to the
// current period and day; Creditor defaults to the authenticated member.
type AddRecordRequest struct {
	Period   string `json:"period,omitempty"`
	Date     string `json:"date,omitempty"`
	Item     string `json:"item"`
	Creditor string `json:"creditor,omitempty"`
	Debtors  string `json:"debtors"`
	Amount   string `json:"amount"`
}

type AddRecordResponse struct {
	Record Record `json:"record"`
}

type ListRecordsRequest struct {
	Period string `json:"period,omitempty"`
}

type ListRecordsResponse struct {
	Period  string   `json:"period"`
	Records []Record `json:"records"`
}

type DeleteRecordRequest struct {
	ID string `json:"id"`
}

type DeleteRecordResponse struct {
	Record Record `json:"record"`
}

type ListPeriodsRequest struct{}

type ListPeriodsResponse struct {
	Periods []string `json:"periods"`
}

type PutGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type PutGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type DeleteGroupRequest struct {
	Name string `json:"name"`
}

type DeleteGroupResponse struct{}

type GetSummaryRequest struct {
	Period      string `json:"period,omitempty"`
	IncludeHTML bool   `json:"include_html,omitempty"`
}

// GetSummaryResponse carries every pipeline stage plus the clearing.
// Warning is set when the clearing left a residual balance.
type GetSummaryResponse struct {
	Title     string     `json:"title"`
	Steps     []Step     `json:"steps"`
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
	Residuals []Balance  `json:"residuals,omitempty"`
	Warning   string     `json:"warning,omitempty"`
	HTML      string     `json:"html,omitempty"`
}

// OpenPeriodRequest closes From by carrying its clearing over into To.
// From defaults to the current period, To to the one after it.
type OpenPeriodRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Date string `json:"date,omitempty"`
}

type OpenPeriodResponse struct {
	Period    string    `json:"period"`
	Records   []Record  `json:"records"`
	Residuals []Balance `json:"residuals,omitempty"`
	Warning   string    `json:"warning,omitempty"`
}
