package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/internal/auth"
	"github.com/mmynk/budgetwiser/internal/middleware"
	"github.com/mmynk/budgetwiser/internal/models"
	"github.com/mmynk/budgetwiser/internal/storage"
	"github.com/mmynk/budgetwiser/pkg/api"
	"github.com/mmynk/budgetwiser/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

func toProfile(user *models.User) *api.UserProfile {
	return &api.UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// issueToken builds the response shared by Register and Login.
func (s *AuthService) issueToken(user *models.User) (*api.AuthResponse, error) {
	token, expiresAt, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return &api.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      toProfile(user),
	}, nil
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Email:          req.Msg.Email,
		FullName:       req.Msg.FullName,
		Password:       req.Msg.Password,
		SecurityAnswer: req.Msg.SecurityAnswer,
	})
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(resp), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	// Validate input
	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(resp), nil
}

// Logout revokes the caller's token so it stops working before it expires.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Logout request", "user_id", userID)

	if err := s.jwtManager.Revoke(ctx, middleware.GetClaims(ctx)); err != nil {
		s.logger.Error("Failed to revoke token", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetProfile returns the currently authenticated user's account.
func (s *AuthService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("GetProfile request", "user_id", userID)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ProfileResponse{User: toProfile(user)}), nil
}

// UpdateProfile changes the caller's display name and avatar.
func (s *AuthService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateProfile request", "user_id", userID)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Msg.FullName != nil {
		name := strings.TrimSpace(*req.Msg.FullName)
		if name == "" {
			return nil, invalidArgument("full name cannot be empty")
		}
		user.FullName = name
	}
	if req.Msg.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.Msg.AvatarURL)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		s.logger.Error("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ProfileResponse{User: toProfile(user)}), nil
}

// ResetPassword sets a new password for a user who answers their security question.
func (s *AuthService) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error) {
	s.logger.Info("ResetPassword request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.SecurityAnswer == "" {
		return nil, invalidArgument("email and security answer are required")
	}

	if err := s.authenticator.ResetCredential(ctx, req.Msg.Email, req.Msg.SecurityAnswer, req.Msg.NewPassword); err != nil {
		s.logger.Warn("ResetPassword failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Password reset", "email", req.Msg.Email)
	return connect.NewResponse(&api.ResetPasswordResponse{}), nil
}

func (s *AuthService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load user", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	return user, nil
}
