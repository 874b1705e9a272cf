package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/pkg/api"
)

// AuthServiceName is the fully-qualified name of the budgetwiser.v1.AuthService service.
const AuthServiceName = "budgetwiser.v1.AuthService"

// Procedure paths, usable in interceptors and HTTP routing.
const (
	AuthServiceRegisterProcedure      = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure         = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure        = "/" + AuthServiceName + "/Logout"
	AuthServiceGetProfileProcedure    = "/" + AuthServiceName + "/GetProfile"
	AuthServiceUpdateProfileProcedure = "/" + AuthServiceName + "/UpdateProfile"
	AuthServiceResetPasswordProcedure = "/" + AuthServiceName + "/ResetPassword"
)

// AuthServiceHandler is implemented by the server.
// AuthService is account registration, login and profile management.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.ProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.ProfileResponse], error)
	ResetPassword(context.Context, *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
	registerHandler := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	logoutHandler := connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...)
	getProfileHandler := connect.NewUnaryHandler(AuthServiceGetProfileProcedure, svc.GetProfile, opts...)
	updateProfileHandler := connect.NewUnaryHandler(AuthServiceUpdateProfileProcedure, svc.UpdateProfile, opts...)
	resetPasswordHandler := connect.NewUnaryHandler(AuthServiceResetPasswordProcedure, svc.ResetPassword, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			registerHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceLogoutProcedure:
			logoutHandler.ServeHTTP(w, r)
		case AuthServiceGetProfileProcedure:
			getProfileHandler.ServeHTTP(w, r)
		case AuthServiceUpdateProfileProcedure:
			updateProfileHandler.ServeHTTP(w, r)
		case AuthServiceResetPasswordProcedure:
			resetPasswordHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for the budgetwiser.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.ProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.ProfileResponse], error)
	ResetPassword(context.Context, *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error)
}

// NewAuthServiceClient constructs a client for the budgetwiser.v1.AuthService service.
// baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)
	return &authServiceClient{
		register:      connect.NewClient[api.RegisterRequest, api.AuthResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:         connect.NewClient[api.LoginRequest, api.AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:        connect.NewClient[api.LogoutRequest, api.LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getProfile:    connect.NewClient[api.GetProfileRequest, api.ProfileResponse](httpClient, baseURL+AuthServiceGetProfileProcedure, opts...),
		updateProfile: connect.NewClient[api.UpdateProfileRequest, api.ProfileResponse](httpClient, baseURL+AuthServiceUpdateProfileProcedure, opts...),
		resetPassword: connect.NewClient[api.ResetPasswordRequest, api.ResetPasswordResponse](httpClient, baseURL+AuthServiceResetPasswordProcedure, opts...),
	}
}

type authServiceClient struct {
	register      *connect.Client[api.RegisterRequest, api.AuthResponse]
	login         *connect.Client[api.LoginRequest, api.AuthResponse]
	logout        *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getProfile    *connect.Client[api.GetProfileRequest, api.ProfileResponse]
	updateProfile *connect.Client[api.UpdateProfileRequest, api.ProfileResponse]
	resetPassword *connect.Client[api.ResetPasswordRequest, api.ResetPasswordResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *authServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *authServiceClient) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error) {
	return c.resetPassword.CallUnary(ctx, req)
}
