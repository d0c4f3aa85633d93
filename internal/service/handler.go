package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// NewLedgerServiceHandler builds an HTTP handler serving every procedure of
// svc. It returns the path on which to mount the handler and the handler
// itself.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AddRecordProcedure, connect.NewUnaryHandler(AddRecordProcedure, svc.AddRecord, opts...))
	mux.Handle(ListRecordsProcedure, connect.NewUnaryHandler(ListRecordsProcedure, svc.ListRecords, opts...))
	mux.Handle(DeleteRecordProcedure, connect.NewUnaryHandler(DeleteRecordProcedure, svc.DeleteRecord, opts...))
	mux.Handle(ListPeriodsProcedure, connect.NewUnaryHandler(ListPeriodsProcedure, svc.ListPeriods, opts...))
	mux.Handle(PutGroupProcedure, connect.NewUnaryHandler(PutGroupProcedure, svc.PutGroup, opts...))
	mux.Handle(ListGroupsProcedure, connect.NewUnaryHandler(ListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(DeleteGroupProcedure, connect.NewUnaryHandler(DeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, svc.GetSummary, opts...))
	mux.Handle(OpenPeriodProcedure, connect.NewUnaryHandler(OpenPeriodProcedure, svc.OpenPeriod, opts...))

	return "/" + ServiceName + "/", mux
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient struct {
	addRecord    *connect.Client[AddRecordRequest, AddRecordResponse]
	listRecords  *connect.Client[ListRecordsRequest, ListRecordsResponse]
	deleteRecord *connect.Client[DeleteRecordRequest, DeleteRecordResponse]
	listPeriods  *connect.Client[ListPeriodsRequest, ListPeriodsResponse]
	putGroup     *connect.Client[PutGroupRequest, PutGroupResponse]
	listGroups   *connect.Client[ListGroupsRequest, ListGroupsResponse]
	deleteGroup  *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	getSummary   *connect.Client[GetSummaryRequest, GetSummaryResponse]
	openPeriod   *connect.Client[OpenPeriodRequest, OpenPeriodResponse]
}

// NewLedgerServiceClient constructs a client for the service at baseURL
// (e.g. "http://localhost:8080").
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &LedgerServiceClient{
		addRecord:    connect.NewClient[AddRecordRequest, AddRecordResponse](httpClient, baseURL+AddRecordProcedure, opts...),
		listRecords:  connect.NewClient[ListRecordsRequest, ListRecordsResponse](httpClient, baseURL+ListRecordsProcedure, opts...),
		deleteRecord: connect.NewClient[DeleteRecordRequest, DeleteRecordResponse](httpClient, baseURL+DeleteRecordProcedure, opts...),
		listPeriods:  connect.NewClient[ListPeriodsRequest, ListPeriodsResponse](httpClient, baseURL+ListPeriodsProcedure, opts...),
		putGroup:     connect.NewClient[PutGroupRequest, PutGroupResponse](httpClient, baseURL+PutGroupProcedure, opts...),
		listGroups:   connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+ListGroupsProcedure, opts...),
		deleteGroup:  connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+DeleteGroupProcedure, opts...),
		getSummary:   connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+GetSummaryProcedure, opts...),
		openPeriod:   connect.NewClient[OpenPeriodRequest, OpenPeriodResponse](httpClient, baseURL+OpenPeriodProcedure, opts...),
	}
}

func (c *LedgerServiceClient) AddRecord(ctx context.Context, req *connect.Request[AddRecordRequest]) (*connect.Response[AddRecordResponse], error) {
	return c.addRecord.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListRecords(ctx context.Context, req *connect.Request[ListRecordsRequest]) (*connect.Response[ListRecordsResponse], error) {
	return c.listRecords.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteRecord(ctx context.Context, req *connect.Request[DeleteRecordRequest]) (*connect.Response[DeleteRecordResponse], error) {
	return c.deleteRecord.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListPeriods(ctx context.Context, req *connect.Request[ListPeriodsRequest]) (*connect.Response[ListPeriodsResponse], error) {
	return c.listPeriods.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) PutGroup(ctx context.Context, req *connect.Request[PutGroupRequest]) (*connect.Response[PutGroupResponse], error) {
	return c.putGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) OpenPeriod(ctx context.Context, req *connect.Request[OpenPeriodRequest]) (*connect.Response[OpenPeriodResponse], error) {
	return c.openPeriod.CallUnary(ctx, req)
}
