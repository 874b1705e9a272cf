package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/pkg/api"
)

// TransactionServiceName is the fully-qualified name of the budgetwiser.v1.TransactionService service.
const TransactionServiceName = "budgetwiser.v1.TransactionService"

// Procedure paths, usable in interceptors and HTTP routing.
const (
	TransactionServiceListTransactionsProcedure      = "/" + TransactionServiceName + "/ListTransactions"
	TransactionServiceGetTransactionProcedure        = "/" + TransactionServiceName + "/GetTransaction"
	TransactionServiceCreateTransactionProcedure     = "/" + TransactionServiceName + "/CreateTransaction"
	TransactionServiceUpdateTransactionProcedure     = "/" + TransactionServiceName + "/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure     = "/" + TransactionServiceName + "/DeleteTransaction"
	TransactionServiceSummarizeTransactionsProcedure = "/" + TransactionServiceName + "/SummarizeTransactions"
)

// TransactionServiceHandler is implemented by the server.
// TransactionService records income and expenses.
type TransactionServiceHandler interface {
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	SummarizeTransactions(context.Context, *connect.Request[api.SummarizeTransactionsRequest]) (*connect.Response[api.SummarizeTransactionsResponse], error)
}

// NewTransactionServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
	listTransactionsHandler := connect.NewUnaryHandler(TransactionServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	getTransactionHandler := connect.NewUnaryHandler(TransactionServiceGetTransactionProcedure, svc.GetTransaction, opts...)
	createTransactionHandler := connect.NewUnaryHandler(TransactionServiceCreateTransactionProcedure, svc.CreateTransaction, opts...)
	updateTransactionHandler := connect.NewUnaryHandler(TransactionServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...)
	deleteTransactionHandler := connect.NewUnaryHandler(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	summarizeTransactionsHandler := connect.NewUnaryHandler(TransactionServiceSummarizeTransactionsProcedure, svc.SummarizeTransactions, opts...)
	return "/" + TransactionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TransactionServiceListTransactionsProcedure:
			listTransactionsHandler.ServeHTTP(w, r)
		case TransactionServiceGetTransactionProcedure:
			getTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceCreateTransactionProcedure:
			createTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceUpdateTransactionProcedure:
			updateTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceDeleteTransactionProcedure:
			deleteTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceSummarizeTransactionsProcedure:
			summarizeTransactionsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// TransactionServiceClient is a client for the budgetwiser.v1.TransactionService service.
type TransactionServiceClient interface {
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	SummarizeTransactions(context.Context, *connect.Request[api.SummarizeTransactionsRequest]) (*connect.Response[api.SummarizeTransactionsResponse], error)
}

// NewTransactionServiceClient constructs a client for the budgetwiser.v1.TransactionService service.
// baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransactionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)
	return &transactionServiceClient{
		listTransactions:      connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+TransactionServiceListTransactionsProcedure, opts...),
		getTransaction:        connect.NewClient[api.GetTransactionRequest, api.TransactionResponse](httpClient, baseURL+TransactionServiceGetTransactionProcedure, opts...),
		createTransaction:     connect.NewClient[api.CreateTransactionRequest, api.TransactionResponse](httpClient, baseURL+TransactionServiceCreateTransactionProcedure, opts...),
		updateTransaction:     connect.NewClient[api.UpdateTransactionRequest, api.TransactionResponse](httpClient, baseURL+TransactionServiceUpdateTransactionProcedure, opts...),
		deleteTransaction:     connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+TransactionServiceDeleteTransactionProcedure, opts...),
		summarizeTransactions: connect.NewClient[api.SummarizeTransactionsRequest, api.SummarizeTransactionsResponse](httpClient, baseURL+TransactionServiceSummarizeTransactionsProcedure, opts...),
	}
}

type transactionServiceClient struct {
	listTransactions      *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	getTransaction        *connect.Client[api.GetTransactionRequest, api.TransactionResponse]
	createTransaction     *connect.Client[api.CreateTransactionRequest, api.TransactionResponse]
	updateTransaction     *connect.Client[api.UpdateTransactionRequest, api.TransactionResponse]
	deleteTransaction     *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	summarizeTransactions *connect.Client[api.SummarizeTransactionsRequest, api.SummarizeTransactionsResponse]
}

func (c *transactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) SummarizeTransactions(ctx context.Context, req *connect.Request[api.SummarizeTransactionsRequest]) (*connect.Response[api.SummarizeTransactionsResponse], error) {
	return c.summarizeTransactions.CallUnary(ctx, req)
}
