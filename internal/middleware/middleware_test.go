package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetwiser/internal/auth"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/pkg/api"
)

const (
	whoAmIProcedure = "/test.v1.TestService/WhoAmI"
	failProcedure   = "/test.v1.TestService/Fail"
)

// setupTestServer serves two procedures behind the given interceptors.
// WhoAmI echoes the caller's user ID back as the profile ID.
func setupTestServer(t *testing.T, interceptors ...connect.Interceptor) (whoAmI, fail *connect.Client[api.GetProfileRequest, api.ProfileResponse]) {
	t.Helper()
	opts := []connect.HandlerOption{connect.WithCodec(api.Codec()), connect.WithInterceptors(interceptors...)}

	mux := http.NewServeMux()
	mux.Handle(whoAmIProcedure, connect.NewUnaryHandler(whoAmIProcedure,
		func(ctx context.Context, _ *connect.Request[api.GetProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
			return connect.NewResponse(&api.ProfileResponse{User: &api.UserProfile{ID: GetUserID(ctx), Email: GetEmail(ctx)}}), nil
		}, opts...))
	mux.Handle(failProcedure, connect.NewUnaryHandler(failProcedure,
		func(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
			return nil, connect.NewError(connect.CodeNotFound, errors.New("nothing here"))
		}, opts...))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	clientOpts := connect.WithCodec(api.Codec())
	whoAmI = connect.NewClient[api.GetProfileRequest, api.ProfileResponse](http.DefaultClient, server.URL+whoAmIProcedure, clientOpts)
	fail = connect.NewClient[api.GetProfileRequest, api.ProfileResponse](http.DefaultClient, server.URL+failProcedure, clientOpts)
	return whoAmI, fail
}

func bearer(token string) *connect.Request[api.GetProfileRequest] {
	req := connect.NewRequest(&api.GetProfileRequest{})
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		err    error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"", "", auth.ErrMissingToken},
		{"Basic abc", "", auth.ErrInvalidToken},
		{"Bearer", "", auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := bearerToken(tt.header)
			assert.Equal(t, tt.token, token)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	ctx := context.Background()
	jwtManager := auth.NewJWTManager("secret", time.Hour, nil)
	token, _, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "a@b.c"})
	require.NoError(t, err)

	t.Run("protected", func(t *testing.T) {
		whoAmI, _ := setupTestServer(t, RequireAuth(jwtManager))

		_, err := whoAmI.CallUnary(ctx, bearer(""))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		_, err = whoAmI.CallUnary(ctx, bearer("garbage"))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		resp, err := whoAmI.CallUnary(ctx, bearer(token))
		require.NoError(t, err)
		assert.Equal(t, "user-1", resp.Msg.User.ID)
		assert.Equal(t, "a@b.c", resp.Msg.User.Email)
	})

	t.Run("public", func(t *testing.T) {
		whoAmI, _ := setupTestServer(t, RequireAuth(jwtManager, whoAmIProcedure))

		resp, err := whoAmI.CallUnary(ctx, bearer(""))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.User.ID)

		resp, err = whoAmI.CallUnary(ctx, bearer("garbage"))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.User.ID)

		resp, err = whoAmI.CallUnary(ctx, bearer(token))
		require.NoError(t, err)
		assert.Equal(t, "user-1", resp.Msg.User.ID, "valid tokens are still attached")
	})
}

func TestMetricsInterceptor(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := NewRPCMetrics(reg)
	whoAmI, fail := setupTestServer(t, metrics.Interceptor())

	for range 2 {
		_, err := whoAmI.CallUnary(ctx, bearer(""))
		require.NoError(t, err)
	}
	_, err := fail.CallUnary(ctx, bearer(""))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues(whoAmIProcedure, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(failProcedure, "not_found")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.duration))
}

func TestLoggingInterceptor(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	whoAmI, fail := setupTestServer(t, LoggingInterceptor(logger))

	_, err := whoAmI.CallUnary(ctx, bearer(""))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"RPC ok"`)
	assert.Contains(t, buf.String(), whoAmIProcedure)

	buf.Reset()
	_, err = fail.CallUnary(ctx, bearer(""))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"code":"not_found"`)
}
