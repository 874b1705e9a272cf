package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/budgetwiser/internal/auth"
	"github.com/mmynk/budgetwiser/internal/cache"
	"github.com/mmynk/budgetwiser/internal/clock"
	"github.com/mmynk/budgetwiser/internal/middleware"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage/sqlite"
	"github.com/mmynk/budgetwiser/pkg/api"
	"github.com/mmynk/budgetwiser/pkg/api/apiconnect"
)

var (
	day1 = models.MustParseDate("2024-03-01")
	day2 = models.MustParseDate("2024-03-02")
	day3 = models.MustParseDate("2024-03-03")
	day4 = models.MustParseDate("2024-03-04")
)

// testEnv is a full server over a temp database, with the server's
// "today" pinned to day2.
type testEnv struct {
	store   *sqlite.SQLiteStore
	auth    apiconnect.AuthServiceClient
	txns    apiconnect.TransactionServiceClient
	budget  apiconnect.BudgetServiceClient
	savings apiconnect.SavingsServiceClient
	backup  apiconnect.BackupServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	memory := cache.NewMemory(time.Minute)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, memory)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	calendar := clock.NewCalendar(clock.FixedDay(day2), time.UTC)

	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures...))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, slog.Default()), interceptors))
	mux.Handle(apiconnect.NewTransactionServiceHandler(NewTransactionService(store, memory), interceptors))
	mux.Handle(apiconnect.NewBudgetServiceHandler(NewBudgetService(store, memory, calendar), interceptors))
	mux.Handle(apiconnect.NewSavingsServiceHandler(NewSavingsService(store, memory, calendar), interceptors))
	mux.Handle(apiconnect.NewBackupServiceHandler(NewBackupService(store, memory), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:   store,
		auth:    apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		txns:    apiconnect.NewTransactionServiceClient(http.DefaultClient, server.URL),
		budget:  apiconnect.NewBudgetServiceClient(http.DefaultClient, server.URL),
		savings: apiconnect.NewSavingsServiceClient(http.DefaultClient, server.URL),
		backup:  apiconnect.NewBackupServiceClient(http.DefaultClient, server.URL),
	}
}

// register creates an account and returns its bearer token and user ID.
func (e *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:          email,
		FullName:       "Test User",
		Password:       "correct horse",
		SecurityAnswer: "Rex",
	}))
	require.NoError(t, err, "Register failed")
	require.NotEmpty(t, resp.Msg.Token)
	return resp.Msg.Token, resp.Msg.User.ID
}

// withToken wraps msg in a request carrying the bearer token.
func withToken[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func (e *testEnv) addTxn(t *testing.T, token string, typ models.TransactionType, amount string, date models.Date) *models.Transaction {
	t.Helper()
	resp, err := e.txns.CreateTransaction(context.Background(), withToken(token, &api.CreateTransactionRequest{
		TransactionInput: api.TransactionInput{
			Type:     string(typ),
			Amount:   dec(amount),
			Category: "Food",
			Date:     date,
		},
	}))
	require.NoError(t, err, "CreateTransaction failed")
	return resp.Msg.Transaction
}
