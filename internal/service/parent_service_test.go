package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/events"
	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

func parentFixture(users ...*domain.User) (*ParentService, *fakeUsers, events.Dispatcher) {
	repo := newFakeUsers(users...)
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewParentService(AuthDependencies{
		UserRepo:   repo,
		Hasher:     testHasher(),
		Tokens:     testTokens(),
		Dispatcher: dispatcher,
	})
	return svc, repo, dispatcher
}

func TestRegister(t *testing.T) {
	svc, repo, dispatcher := parentFixture()
	var published []events.Event
	dispatcher.Subscribe(events.EventParentRegistered, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	user, err := svc.Register(context.Background(), RegisterParentInput{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "Secret@123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsParent)
	assert.False(t, user.IsActive)
	assert.True(t, testHasher().Verify("Secret@123", user.PasswordHash))

	stored, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	require.Len(t, published, 1)
	assert.Equal(t, user.ID, published[0].UserID)
	assert.NotEmpty(t, published[0].Payload.(events.ActivationPayload).Token)
}

func TestRegister_ExistingEmail(t *testing.T) {
	svc, _, _ := parentFixture(
		&domain.User{ID: 1, Email: "deleted@example.com", IsDeleted: true},
		&domain.User{ID: 2, Email: "pending@example.com", IsParent: true},
		&domain.User{ID: 3, Email: "admin@example.com", IsActive: true, IsSuperuser: true},
		&domain.User{ID: 4, Email: "parent@example.com", IsActive: true, IsParent: true},
	)

	cases := map[string]string{
		"deleted@example.com": MsgExistingDeactivated,
		"pending@example.com": MsgExistingNotActive,
		"admin@example.com":   MsgExistingNotParent,
		"parent@example.com":  MsgEmailTaken,
	}
	for email, message := range cases {
		t.Run(email, func(t *testing.T) {
			_, err := svc.Register(context.Background(), RegisterParentInput{Email: email, Password: "Secret@123"})
			de := requireDomainError(t, err, http.StatusBadRequest, apperrors.CodeBadRequest)
			assert.Equal(t, message, de.Message)
		})
	}
}

func TestRegister_UniqueViolationRace(t *testing.T) {
	svc, repo, _ := parentFixture()

	racing := &racingUsers{fakeUsers: repo}
	svc.users = racing

	_, err := svc.Register(context.Background(), RegisterParentInput{Email: "ada@example.com", Password: "Secret@123"})
	de := requireDomainError(t, err, http.StatusBadRequest, apperrors.CodeBadRequest)
	assert.Equal(t, MsgEmailTaken, de.Message)
}

type racingUsers struct {
	*fakeUsers
}

func (r *racingUsers) Create(context.Context, *domain.User) error {
	return &pgconn.PgError{Code: uniqueViolation}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := parentFixture(&domain.User{ID: 9, FirstName: "Ada", City: "London", IsActive: true, IsParent: true})
	city := "Paris"
	age := 37

	updated, err := svc.UpdateProfile(context.Background(), &domain.User{ID: 9}, domain.ProfileUpdate{City: &city, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Paris", updated.City)
	assert.Equal(t, 37, updated.Age)
	assert.Equal(t, "Ada", updated.FirstName)

	_, err = svc.UpdateProfile(context.Background(), nil, domain.ProfileUpdate{})
	requireDomainError(t, err, http.StatusUnauthorized, apperrors.CodeUnauthorized)
}
