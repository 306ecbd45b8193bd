package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/parentchild/account-service/internal/auth"
	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/events"
	"github.com/parentchild/account-service/internal/repository"
	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

// Registration messages for an email that is already taken, by account state.
const (
	MsgExistingDeactivated = "you already have an account with us, your account has been deactivated, please contact support"
	MsgExistingNotActive   = "you already have an account with us, your account is not active, please activate your account"
	MsgExistingNotParent   = "you already have an account with us, you are not a parent user, please contact support"
	MsgEmailTaken          = "user with this email already exists"
)

const uniqueViolation = "23505"

// RegisterParentInput is the payload for parent sign-up.
type RegisterParentInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ParentService manages parent accounts.
type ParentService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewParentService constructs the service. It shares collaborators with AuthService.
func NewParentService(deps AuthDependencies) *ParentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger.Named("parent"),
	}
}

// Register creates an inactive parent account and triggers the activation email.
func (s *ParentService) Register(ctx context.Context, in RegisterParentInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, existingAccountError(existing)
	case !apperrors.IsNotFound(err):
		return nil, apperrors.MapError(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		IsParent:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.NewBadRequest(MsgEmailTaken)
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("parent registered", zap.Int64("user_id", user.ID))

	if err := publishActivation(ctx, s.tokens, s.dispatcher, events.EventParentRegistered, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a profile update to the caller's own account.
func (s *ParentService) UpdateProfile(ctx context.Context, actor *domain.User, update domain.ProfileUpdate) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized(auth.MsgInvalidCredentials)
	}
	user, err := s.users.ApplyProfileUpdate(ctx, actor.ID, update)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func existingAccountError(user *domain.User) error {
	switch {
	case user.IsDeleted:
		return apperrors.NewBadRequest(MsgExistingDeactivated)
	case !user.IsActive:
		return apperrors.NewBadRequest(MsgExistingNotActive)
	case !user.IsParent:
		return apperrors.NewBadRequest(MsgExistingNotParent)
	default:
		return apperrors.NewBadRequest(MsgEmailTaken)
	}
}
