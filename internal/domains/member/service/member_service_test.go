package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
	"library-backend/pkg/jwt"
)

// fakeMemberRepo keeps accounts in memory with a unique email index
type fakeMemberRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.Member
	byEmail map[string]uuid.UUID
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{
		byID:    make(map[uuid.UUID]*model.Member),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (f *fakeMemberRepo) Create(_ context.Context, member *model.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byEmail[member.Email]; exists {
		return model.ErrEmailAlreadyExists
	}
	copied := *member
	f.byID[member.ID] = &copied
	f.byEmail[member.Email] = member.ID
	return nil
}

func (f *fakeMemberRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	member, ok := f.byID[id]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	copied := *member
	return &copied, nil
}

func (f *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byEmail[email]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	copied := *f.byID[id]
	return &copied, nil
}

func (f *fakeMemberRepo) Update(_ context.Context, member *model.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[member.ID]; !ok {
		return model.ErrMemberNotFound
	}
	copied := *member
	f.byID[member.ID] = &copied
	return nil
}

func (f *fakeMemberRepo) List(_ context.Context, _ shared.PageRequest) ([]*model.Member, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var members []*model.Member
	for _, member := range f.byID {
		copied := *member
		members = append(members, &copied)
	}
	return members, len(members), nil
}

func newTestService() Service {
	return NewMemberService(newFakeMemberRepo(), jwt.NewManager("test-secret"), nil)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()

	auth, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, shared.RoleUser, auth.Member.Role)
	assert.Equal(t, "ada@example.com", auth.Member.Email, "email is normalized")
	assert.Empty(t, auth.Member.PasswordHash, "hash never leaves the service")

	// Login is case-insensitive on the email
	login, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ADA@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.Member.ID, login.Member.ID)
}

func TestLoginWithWrongPassword(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong password",
	})
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginWithUnknownEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever else",
	})
	// Unknown email and wrong password are indistinguishable
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()

	req := model.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc := newTestService()

	auth, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), model.RefreshRequest{
		RefreshToken: auth.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, auth.Member.ID, refreshed.Member.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = svc.Refresh(context.Background(), model.RefreshRequest{
		RefreshToken: auth.AccessToken,
	})
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService()

	auth, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), auth.Member.ID, model.UpdateProfileRequest{
		FullName: "Ada King",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", updated.FullName)

	profile, err := svc.GetProfile(context.Background(), auth.Member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", profile.FullName)
}
