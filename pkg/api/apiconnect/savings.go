package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/pkg/api"
)

// SavingsServiceName is the fully-qualified name of the budgetwiser.v1.SavingsService service.
const SavingsServiceName = "budgetwiser.v1.SavingsService"

// Procedure paths, usable in interceptors and HTTP routing.
const (
	SavingsServiceListGoalsProcedure  = "/" + SavingsServiceName + "/ListGoals"
	SavingsServiceCreateGoalProcedure = "/" + SavingsServiceName + "/CreateGoal"
	SavingsServiceUpdateGoalProcedure = "/" + SavingsServiceName + "/UpdateGoal"
	SavingsServiceDeleteGoalProcedure = "/" + SavingsServiceName + "/DeleteGoal"
	SavingsServiceContributeProcedure = "/" + SavingsServiceName + "/Contribute"
)

// SavingsServiceHandler is implemented by the server.
// SavingsService tracks savings goals and contributions.
type SavingsServiceHandler interface {
	ListGoals(context.Context, *connect.Request[api.ListGoalsRequest]) (*connect.Response[api.ListGoalsResponse], error)
	CreateGoal(context.Context, *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error)
	UpdateGoal(context.Context, *connect.Request[api.UpdateGoalRequest]) (*connect.Response[api.GoalResponse], error)
	DeleteGoal(context.Context, *connect.Request[api.DeleteGoalRequest]) (*connect.Response[api.DeleteGoalResponse], error)
	Contribute(context.Context, *connect.Request[api.ContributeRequest]) (*connect.Response[api.GoalResponse], error)
}

// NewSavingsServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSavingsServiceHandler(svc SavingsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
	listGoalsHandler := connect.NewUnaryHandler(SavingsServiceListGoalsProcedure, svc.ListGoals, opts...)
	createGoalHandler := connect.NewUnaryHandler(SavingsServiceCreateGoalProcedure, svc.CreateGoal, opts...)
	updateGoalHandler := connect.NewUnaryHandler(SavingsServiceUpdateGoalProcedure, svc.UpdateGoal, opts...)
	deleteGoalHandler := connect.NewUnaryHandler(SavingsServiceDeleteGoalProcedure, svc.DeleteGoal, opts...)
	contributeHandler := connect.NewUnaryHandler(SavingsServiceContributeProcedure, svc.Contribute, opts...)
	return "/" + SavingsServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SavingsServiceListGoalsProcedure:
			listGoalsHandler.ServeHTTP(w, r)
		case SavingsServiceCreateGoalProcedure:
			createGoalHandler.ServeHTTP(w, r)
		case SavingsServiceUpdateGoalProcedure:
			updateGoalHandler.ServeHTTP(w, r)
		case SavingsServiceDeleteGoalProcedure:
			deleteGoalHandler.ServeHTTP(w, r)
		case SavingsServiceContributeProcedure:
			contributeHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SavingsServiceClient is a client for the budgetwiser.v1.SavingsService service.
type SavingsServiceClient interface {
	ListGoals(context.Context, *connect.Request[api.ListGoalsRequest]) (*connect.Response[api.ListGoalsResponse], error)
	CreateGoal(context.Context, *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error)
	UpdateGoal(context.Context, *connect.Request[api.UpdateGoalRequest]) (*connect.Response[api.GoalResponse], error)
	DeleteGoal(context.Context, *connect.Request[api.DeleteGoalRequest]) (*connect.Response[api.DeleteGoalResponse], error)
	Contribute(context.Context, *connect.Request[api.ContributeRequest]) (*connect.Response[api.GoalResponse], error)
}

// NewSavingsServiceClient constructs a client for the budgetwiser.v1.SavingsService service.
// baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewSavingsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SavingsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)
	return &savingsServiceClient{
		listGoals:  connect.NewClient[api.ListGoalsRequest, api.ListGoalsResponse](httpClient, baseURL+SavingsServiceListGoalsProcedure, opts...),
		createGoal: connect.NewClient[api.CreateGoalRequest, api.GoalResponse](httpClient, baseURL+SavingsServiceCreateGoalProcedure, opts...),
		updateGoal: connect.NewClient[api.UpdateGoalRequest, api.GoalResponse](httpClient, baseURL+SavingsServiceUpdateGoalProcedure, opts...),
		deleteGoal: connect.NewClient[api.DeleteGoalRequest, api.DeleteGoalResponse](httpClient, baseURL+SavingsServiceDeleteGoalProcedure, opts...),
		contribute: connect.NewClient[api.ContributeRequest, api.GoalResponse](httpClient, baseURL+SavingsServiceContributeProcedure, opts...),
	}
}

type savingsServiceClient struct {
	listGoals  *connect.Client[api.ListGoalsRequest, api.ListGoalsResponse]
	createGoal *connect.Client[api.CreateGoalRequest, api.GoalResponse]
	updateGoal *connect.Client[api.UpdateGoalRequest, api.GoalResponse]
	deleteGoal *connect.Client[api.DeleteGoalRequest, api.DeleteGoalResponse]
	contribute *connect.Client[api.ContributeRequest, api.GoalResponse]
}

func (c *savingsServiceClient) ListGoals(ctx context.Context, req *connect.Request[api.ListGoalsRequest]) (*connect.Response[api.ListGoalsResponse], error) {
	return c.listGoals.CallUnary(ctx, req)
}

func (c *savingsServiceClient) CreateGoal(ctx context.Context, req *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.createGoal.CallUnary(ctx, req)
}

func (c *savingsServiceClient) UpdateGoal(ctx context.Context, req *connect.Request[api.UpdateGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.updateGoal.CallUnary(ctx, req)
}

func (c *savingsServiceClient) DeleteGoal(ctx context.Context, req *connect.Request[api.DeleteGoalRequest]) (*connect.Response[api.DeleteGoalResponse], error) {
	return c.deleteGoal.CallUnary(ctx, req)
}

func (c *savingsServiceClient) Contribute(ctx context.Context, req *connect.Request[api.ContributeRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.contribute.CallUnary(ctx, req)
}
