package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/pkg/api"
)

// BudgetServiceName is the fully-qualified name of the budgetwiser.v1.BudgetService service.
const BudgetServiceName = "budgetwiser.v1.BudgetService"

// Procedure paths, usable in interceptors and HTTP routing.
const (
	BudgetServiceGetBudgetProcedure         = "/" + BudgetServiceName + "/GetBudget"
	BudgetServiceSetBudgetProcedure         = "/" + BudgetServiceName + "/SetBudget"
	BudgetServiceResetBudgetProcedure       = "/" + BudgetServiceName + "/ResetBudget"
	BudgetServiceGetBudgetSummaryProcedure  = "/" + BudgetServiceName + "/GetBudgetSummary"
	BudgetServiceGetPeriodExpensesProcedure = "/" + BudgetServiceName + "/GetPeriodExpenses"
)

// BudgetServiceHandler is implemented by the server.
// BudgetService manages the user's budget and reports the dynamic daily limit.
type BudgetServiceHandler interface {
	GetBudget(context.Context, *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.BudgetResponse], error)
	SetBudget(context.Context, *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.BudgetResponse], error)
	ResetBudget(context.Context, *connect.Request[api.ResetBudgetRequest]) (*connect.Response[api.BudgetResponse], error)
	GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.BudgetSummaryResponse], error)
	GetPeriodExpenses(context.Context, *connect.Request[api.GetPeriodExpensesRequest]) (*connect.Response[api.PeriodExpensesResponse], error)
}

// NewBudgetServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBudgetServiceHandler(svc BudgetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
	getBudgetHandler := connect.NewUnaryHandler(BudgetServiceGetBudgetProcedure, svc.GetBudget, opts...)
	setBudgetHandler := connect.NewUnaryHandler(BudgetServiceSetBudgetProcedure, svc.SetBudget, opts...)
	resetBudgetHandler := connect.NewUnaryHandler(BudgetServiceResetBudgetProcedure, svc.ResetBudget, opts...)
	getBudgetSummaryHandler := connect.NewUnaryHandler(BudgetServiceGetBudgetSummaryProcedure, svc.GetBudgetSummary, opts...)
	getPeriodExpensesHandler := connect.NewUnaryHandler(BudgetServiceGetPeriodExpensesProcedure, svc.GetPeriodExpenses, opts...)
	return "/" + BudgetServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BudgetServiceGetBudgetProcedure:
			getBudgetHandler.ServeHTTP(w, r)
		case BudgetServiceSetBudgetProcedure:
			setBudgetHandler.ServeHTTP(w, r)
		case BudgetServiceResetBudgetProcedure:
			resetBudgetHandler.ServeHTTP(w, r)
		case BudgetServiceGetBudgetSummaryProcedure:
			getBudgetSummaryHandler.ServeHTTP(w, r)
		case BudgetServiceGetPeriodExpensesProcedure:
			getPeriodExpensesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BudgetServiceClient is a client for the budgetwiser.v1.BudgetService service.
type BudgetServiceClient interface {
	GetBudget(context.Context, *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.BudgetResponse], error)
	SetBudget(context.Context, *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.BudgetResponse], error)
	ResetBudget(context.Context, *connect.Request[api.ResetBudgetRequest]) (*connect.Response[api.BudgetResponse], error)
	GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.BudgetSummaryResponse], error)
	GetPeriodExpenses(context.Context, *connect.Request[api.GetPeriodExpensesRequest]) (*connect.Response[api.PeriodExpensesResponse], error)
}

// NewBudgetServiceClient constructs a client for the budgetwiser.v1.BudgetService service.
// baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewBudgetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BudgetServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)
	return &budgetServiceClient{
		getBudget:         connect.NewClient[api.GetBudgetRequest, api.BudgetResponse](httpClient, baseURL+BudgetServiceGetBudgetProcedure, opts...),
		setBudget:         connect.NewClient[api.SetBudgetRequest, api.BudgetResponse](httpClient, baseURL+BudgetServiceSetBudgetProcedure, opts...),
		resetBudget:       connect.NewClient[api.ResetBudgetRequest, api.BudgetResponse](httpClient, baseURL+BudgetServiceResetBudgetProcedure, opts...),
		getBudgetSummary:  connect.NewClient[api.GetBudgetSummaryRequest, api.BudgetSummaryResponse](httpClient, baseURL+BudgetServiceGetBudgetSummaryProcedure, opts...),
		getPeriodExpenses: connect.NewClient[api.GetPeriodExpensesRequest, api.PeriodExpensesResponse](httpClient, baseURL+BudgetServiceGetPeriodExpensesProcedure, opts...),
	}
}

type budgetServiceClient struct {
	getBudget         *connect.Client[api.GetBudgetRequest, api.BudgetResponse]
	setBudget         *connect.Client[api.SetBudgetRequest, api.BudgetResponse]
	resetBudget       *connect.Client[api.ResetBudgetRequest, api.BudgetResponse]
	getBudgetSummary  *connect.Client[api.GetBudgetSummaryRequest, api.BudgetSummaryResponse]
	getPeriodExpenses *connect.Client[api.GetPeriodExpensesRequest, api.PeriodExpensesResponse]
}

func (c *budgetServiceClient) GetBudget(ctx context.Context, req *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	return c.getBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) SetBudget(ctx context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	return c.setBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) ResetBudget(ctx context.Context, req *connect.Request[api.ResetBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	return c.resetBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) GetBudgetSummary(ctx context.Context, req *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.BudgetSummaryResponse], error) {
	return c.getBudgetSummary.CallUnary(ctx, req)
}

func (c *budgetServiceClient) GetPeriodExpenses(ctx context.Context, req *connect.Request[api.GetPeriodExpensesRequest]) (*connect.Response[api.PeriodExpensesResponse], error) {
	return c.getPeriodExpenses.CallUnary(ctx, req)
}
