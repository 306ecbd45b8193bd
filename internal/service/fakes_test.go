package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/parentchild/account-service/internal/auth"
	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/notify"
	"github.com/parentchild/account-service/internal/scheduler"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]*domain.User
	nextID int64
	err    error
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*domain.User{}, nextID: 100}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) ApplyProfileUpdate(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	f.mu.Lock()
	u, ok := f.byID[id]
	if ok {
		if update.FirstName != nil {
			u.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			u.LastName = *update.LastName
		}
		if update.Age != nil {
			u.Age = *update.Age
		}
		if update.City != nil {
			u.City = *update.City
		}
	}
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) Activate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.IsDeleted {
		return pgx.ErrNoRows
	}
	u.IsActive = true
	return nil
}

func (f *fakeUsers) ListActiveAdmins(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var admins []domain.User
	for _, u := range f.byID {
		if u.IsSuperuser && u.IsActive && !u.IsDeleted {
			admins = append(admins, *u)
		}
	}
	return admins, nil
}

type fakeChildren struct {
	children map[int64]*domain.Child
	nextID   int64
	filters  []domain.ChildFilter
}

func newFakeChildren(children ...*domain.Child) *fakeChildren {
	f := &fakeChildren{children: map[int64]*domain.Child{}, nextID: 500}
	for _, c := range children {
		f.children[c.ID] = c
	}
	return f
}

func (f *fakeChildren) Create(_ context.Context, child *domain.Child) error {
	f.nextID++
	child.ID = f.nextID
	cp := *child
	f.children[child.ID] = &cp
	return nil
}

func (f *fakeChildren) GetOwned(_ context.Context, parentID, childID int64) (*domain.Child, error) {
	c, ok := f.children[childID]
	if !ok || c.ParentID != parentID || c.IsDeleted {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChildren) ListByParent(_ context.Context, parentID int64, filter domain.ChildFilter) ([]domain.Child, error) {
	f.filters = append(f.filters, filter)
	out := []domain.Child{}
	for _, c := range f.children {
		if c.ParentID == parentID && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChildren) ApplyUpdate(ctx context.Context, parentID, childID int64, update domain.ChildUpdate) (*domain.Child, error) {
	c, err := f.GetOwned(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	stored := f.children[c.ID]
	if update.Name != nil {
		stored.Name = *update.Name
	}
	if update.Age != nil {
		stored.Age = *update.Age
	}
	if update.AdditionalInfo != nil {
		stored.AdditionalInfo = *update.AdditionalInfo
	}
	return f.GetOwned(ctx, parentID, childID)
}

type scheduledJob struct {
	delay  time.Duration
	name   string
	action scheduler.Action
}

type fakeJobs struct {
	jobs []scheduledJob
}

func (f *fakeJobs) Schedule(delay time.Duration, name string, action scheduler.Action) string {
	f.jobs = append(f.jobs, scheduledJob{delay: delay, name: name, action: action})
	return name
}

type fakeSender struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret")
}

func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(4)
}
