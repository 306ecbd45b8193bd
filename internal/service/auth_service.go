package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/parentchild/account-service/internal/auth"
	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/events"
	"github.com/parentchild/account-service/internal/repository"
	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

// Messages returned by the account flows.
const (
	MsgInvalidCredentials = "invalid credentials"
	MsgAccountDeactivated = "your account has been deactivated, please contact support"
	MsgAccountNotActive   = "your account is not active, please activate your account"
	MsgAlreadyActive      = "your account is already active, please login"
	MsgUnknownEmail       = "user with this email does not exist"
)

// AuthService coordinates login, token refresh and account activation.
type AuthService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     *auth.PasswordHasher
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger.Named("auth"),
	}
}

// Login checks credentials and mints an access and refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, domain.TokenPair{}, apperrors.NewInvalidCredentials(MsgInvalidCredentials)
		}
		return nil, domain.TokenPair{}, apperrors.MapError(err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.TokenPair{}, apperrors.NewInvalidCredentials(MsgInvalidCredentials)
	}
	if user.IsDeleted {
		return nil, domain.TokenPair{}, apperrors.NewInvalidCredentials(MsgAccountDeactivated)
	}
	if !user.IsActive {
		return nil, domain.TokenPair{}, apperrors.NewInvalidCredentials(MsgAccountNotActive)
	}

	subject := strconv.FormatInt(user.ID, 10)
	access, _, err := s.tokens.IssueAccess(subject, 0)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.NewInternalError(err)
	}
	refresh, _, err := s.tokens.IssueRefresh(subject, 0)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.NewInternalError(err)
	}
	return user, domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.Error(err))
		return "", apperrors.NewUnauthorized(auth.MsgInvalidCredentials)
	}
	access, _, err := s.tokens.IssueAccess(claims.Subject, 0)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return access, nil
}

// Activate marks the account named by an activation token as active.
func (s *AuthService) Activate(ctx context.Context, activationToken string) error {
	claims, err := s.tokens.Verify(activationToken, domain.TokenTypeActivation)
	if err != nil {
		s.logger.Debug("activation token rejected", zap.Error(err))
		return apperrors.NewUnauthorized(auth.MsgInvalidCredentials)
	}
	userID, err := claims.UserID()
	if err != nil {
		return apperrors.NewUnauthorized(auth.MsgInvalidCredentials)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewUnauthorized(auth.MsgInvalidCredentials)
		}
		return apperrors.MapError(err)
	}
	if err := activationAllowed(user); err != nil {
		return err
	}
	if err := s.users.Activate(ctx, user.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("account activated", zap.Int64("user_id", user.ID))
	return nil
}

// ResendActivation issues a fresh activation token and hands it to the mailer.
func (s *AuthService) ResendActivation(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewBadRequest(MsgUnknownEmail)
		}
		return apperrors.MapError(err)
	}
	if err := activationAllowed(user); err != nil {
		return err
	}
	return publishActivation(ctx, s.tokens, s.dispatcher, events.EventActivationRequested, user)
}

func activationAllowed(user *domain.User) error {
	if user.IsDeleted {
		return apperrors.NewAccountDeactivated(MsgAccountDeactivated)
	}
	if user.IsActive {
		return apperrors.NewAlreadyActive(MsgAlreadyActive)
	}
	return nil
}

func publishActivation(ctx context.Context, tokens *auth.TokenManager, dispatcher events.Dispatcher, eventType events.EventType, user *domain.User) error {
	token, _, err := tokens.IssueActivation(strconv.FormatInt(user.ID, 10), 0)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if dispatcher == nil {
		return nil
	}
	err = dispatcher.Publish(ctx, events.Event{
		Type:   eventType,
		UserID: user.ID,
		Payload: events.ActivationPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			Token:     token,
		},
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
