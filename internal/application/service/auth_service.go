package service

import (
	"context"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/garyjia/default-desk/pkg/utils"
)

// AuthService signs users in and out
type AuthService interface {
	Login(ctx context.Context, creds entity.Credentials) (*entity.UserProfile, error)
	Register(ctx context.Context, in entity.RegisterInput) (entity.Ack, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) *entity.UserProfile
}

type authServiceImpl struct {
	api     port.AuthAPI
	session port.SessionStore
	logger  Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(api port.AuthAPI, session port.SessionStore, logger Logger) AuthService {
	return &authServiceImpl{api: api, session: session, logger: logger}
}

// Login authenticates against the backend and stores the returned profile
func (s *authServiceImpl) Login(ctx context.Context, creds entity.Credentials) (*entity.UserProfile, error) {
	if creds.Username == "" {
		return nil, apperr.NewValidation("username", "请输入用户名")
	}
	if creds.Password == "" {
		return nil, apperr.NewValidation("password", "请输入密码")
	}

	profile, err := s.api.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("Login failed", "username", creds.Username, "error", err)
		return nil, err
	}

	if err := s.session.SaveCurrentUser(ctx, *profile); err != nil {
		s.logger.Error("Failed to persist session", "user_id", profile.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("User signed in", "user_id", profile.UserID)
	return profile, nil
}

// Register creates a backend account
func (s *authServiceImpl) Register(ctx context.Context, in entity.RegisterInput) (entity.Ack, error) {
	in.Username = utils.SanitizeString(in.Username)
	in.RealName = utils.SanitizeString(in.RealName)
	in.Department = utils.SanitizeString(in.Department)

	if in.Username == "" {
		return entity.Ack{}, apperr.NewValidation("username", "请输入用户名")
	}
	if in.Password == "" {
		return entity.Ack{}, apperr.NewValidation("password", "请输入密码")
	}
	if in.Email != "" && utils.ValidateEmail(in.Email) != nil {
		return entity.Ack{}, apperr.NewValidation("email", "邮箱格式不正确")
	}
	if in.Phone != "" && utils.ValidatePhone(in.Phone) != nil {
		return entity.Ack{}, apperr.NewValidation("phone", "手机号格式不正确")
	}

	ack, err := s.api.Register(ctx, in)
	if err != nil {
		s.logger.Warn("Registration failed", "username", in.Username, "error", err)
		return entity.Ack{}, err
	}

	s.logger.Info("User registered", "username", in.Username)
	return ack, nil
}

// Logout clears the stored profile
func (s *authServiceImpl) Logout(ctx context.Context) error {
	return s.session.ClearCurrentUser(ctx)
}

// CurrentUser returns the signed-in profile or nil
func (s *authServiceImpl) CurrentUser(ctx context.Context) *entity.UserProfile {
	return s.session.CurrentUser(ctx)
}
