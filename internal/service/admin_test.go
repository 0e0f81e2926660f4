package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/omega-events/omega-backend/internal/domain"
	apperrors "github.com/omega-events/omega-backend/pkg/errors"
	"github.com/omega-events/omega-backend/pkg/logger"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) UpsertRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) List(ctx context.Context, page, perPage int) ([]domain.Profile, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Profile), args.Int(1), args.Error(2)
}

func newAdminService(profiles *mockProfileRepo, allowed []string) *AdminService {
	return NewAdminService(profiles, nil, allowed, logger.New("test", "error"))
}

func TestAuthorizeAllowList(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, []string{"Owner@Omega.example"})

	// Allow-list matches are case-insensitive and short-circuit the
	// profile lookup entirely.
	err := svc.Authorize(context.Background(), "user-1", "owner@omega.example")
	require.NoError(t, err)
	profiles.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestAuthorizeProfileRole(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, nil)

	profiles.On("GetByUserID", mock.Anything, "user-1").
		Return(&domain.Profile{UserID: "user-1", Role: domain.RoleAdmin}, nil)

	require.NoError(t, svc.Authorize(context.Background(), "user-1", "someone@example.com"))
}

func TestAuthorizeDenied(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, []string{"owner@omega.example"})

	profiles.On("GetByUserID", mock.Anything, "user-2").
		Return(&domain.Profile{UserID: "user-2", Role: domain.RoleCustomer}, nil)

	err := svc.Authorize(context.Background(), "user-2", "customer@example.com")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthorizeNoProfile(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, nil)

	profiles.On("GetByUserID", mock.Anything, "user-3").
		Return(nil, apperrors.NotFound("profile", "user-3"))

	err := svc.Authorize(context.Background(), "user-3", "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListUsersClampsPagination(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, nil)

	now := time.Now()
	profiles.On("List", mock.Anything, 1, 20).
		Return([]domain.Profile{{UserID: "user-1", CreatedAt: now}}, 1, nil)

	users, total, err := svc.ListUsers(context.Background(), 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, users, 1)
}

func TestSetUserRole(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, nil)

	profiles.On("UpsertRole", mock.Anything, "user-1", domain.RoleStaff).
		Return(&domain.Profile{UserID: "user-1", Role: domain.RoleStaff}, nil)

	p, err := svc.SetUserRole(context.Background(), "user-1", domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, p.Role)
}

func TestSetUserRoleInvalid(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, nil)

	_, err := svc.SetUserRole(context.Background(), "user-1", domain.Role("superuser"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	profiles.AssertNotCalled(t, "UpsertRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetUserRoleStoreFailure(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := newAdminService(profiles, nil)

	profiles.On("UpsertRole", mock.Anything, "user-1", domain.RoleAdmin).
		Return(nil, errors.New("connection refused"))

	_, err := svc.SetUserRole(context.Background(), "user-1", domain.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
