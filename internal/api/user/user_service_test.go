package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

// MockUserRepo is a mock implementation of the UserRepo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateUser(ctx context.Context, user types.UserAccount) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAccount, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAccount), args.Error(1)
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAccount), args.Error(1)
}

func (m *MockUserRepo) UpdateRole(ctx context.Context, userID uuid.UUID, role types.Role) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) ListUsers(ctx context.Context, limit, offset int) ([]types.UserAccount, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserAccount), args.Error(1)
}

func (m *MockUserRepo) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, repo UserRepo) *UserServiceImpl {
	t.Helper()
	svc, err := NewUserService(repo, bcrypt.MinCost, discardLogger())
	require.NoError(t, err)
	return svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	account := &types.UserAccount{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: hashed(t, "correct-horse"),
		Role:         types.RoleContributor,
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetUserByUsername", mock.Anything, "alice").Return(account, nil).Once()

		user, ok, err := newTestService(t, repo).Authenticate(ctx, "alice", "correct-horse")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, account.ID, user.ID)
		repo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetUserByUsername", mock.Anything, "alice").Return(account, nil).Once()

		user, ok, err := newTestService(t, repo).Authenticate(ctx, "alice", "battery-staple")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, user)
	})

	t.Run("UnknownUserIsIndistinguishable", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetUserByUsername", mock.Anything, "mallory").Return(nil, types.ErrNotFound).Once()

		user, ok, err := newTestService(t, repo).Authenticate(ctx, "mallory", "anything")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, user)
	})

	t.Run("StorageFault", func(t *testing.T) {
		repo := new(MockUserRepo)
		fault := errors.New("connection refused")
		repo.On("GetUserByUsername", mock.Anything, "alice").Return(nil, fault).Once()

		_, ok, err := newTestService(t, repo).Authenticate(ctx, "alice", "correct-horse")

		assert.ErrorIs(t, err, fault)
		assert.False(t, ok)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesReaderWithHashedPassword", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetUserByUsername", mock.Anything, "bob").Return(nil, types.ErrNotFound).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u types.UserAccount) bool {
			return u.Username == "bob" &&
				u.Role == types.RoleReader &&
				u.ID != uuid.Nil &&
				u.PasswordHash != "s3cret" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")) == nil
		})).Return(nil).Once()

		// A caller-supplied role is ignored.
		user, err := newTestService(t, repo).Register(ctx, types.UserAccount{Username: " bob ", Email: "bob@example.com", Role: types.RoleAdmin}, "s3cret")

		require.NoError(t, err)
		assert.Equal(t, types.RoleReader, user.Role)
		assert.Equal(t, "bob@example.com", user.Email)
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetUserByUsername", mock.Anything, "bob").Return(&types.UserAccount{Username: "bob"}, nil).Once()

		_, err := newTestService(t, repo).Register(ctx, types.UserAccount{Username: "bob"}, "pw")

		assert.ErrorIs(t, err, types.ErrConflict)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("ConcurrentDuplicateCaughtByIndex", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetUserByUsername", mock.Anything, "bob").Return(nil, types.ErrNotFound).Once()
		repo.On("CreateUser", mock.Anything, mock.Anything).Return(types.ErrConflict).Once()

		_, err := newTestService(t, repo).Register(ctx, types.UserAccount{Username: "bob"}, "pw")

		assert.ErrorIs(t, err, types.ErrConflict)
	})

	t.Run("MissingFields", func(t *testing.T) {
		repo := new(MockUserRepo)

		_, err := newTestService(t, repo).Register(ctx, types.UserAccount{}, "")

		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 2)
		repo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Updated", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("UpdateRole", mock.Anything, id, types.RoleContributor).Return(true, nil).Once()

		ok, err := newTestService(t, repo).SetRole(ctx, id, "contributor")

		require.NoError(t, err)
		assert.True(t, ok)
		repo.AssertExpectations(t)
	})

	t.Run("NoSuchUser", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("UpdateRole", mock.Anything, id, types.RoleAdmin).Return(false, nil).Once()

		ok, err := newTestService(t, repo).SetRole(ctx, id, "Admin")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		repo := new(MockUserRepo)

		ok, err := newTestService(t, repo).SetRole(ctx, id, "Owner")

		assert.ErrorIs(t, err, types.ErrValidation)
		assert.False(t, ok)
		repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockUserRepo)
	repo.On("GetUserByID", mock.Anything, id).Return(nil, types.ErrNotFound).Once()

	user, ok, err := newTestService(t, repo).GetUserByID(ctx, id)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, user)
}

func TestListUsers(t *testing.T) {
	repo := new(MockUserRepo)
	page := []types.UserAccount{{Username: "a"}, {Username: "b"}}
	repo.On("ListUsers", mock.Anything, 2, 2).Return(page, nil).Once()
	repo.On("CountUsers", mock.Anything).Return(int64(5), nil).Once()

	users, total, err := newTestService(t, repo).ListUsers(context.Background(), 2, 2)

	require.NoError(t, err)
	assert.Equal(t, page, users)
	assert.EqualValues(t, 5, total)
	repo.AssertExpectations(t)
}

func TestListUsers_CountFails(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("ListUsers", mock.Anything, 10, 0).Return([]types.UserAccount{}, nil).Maybe()
	repo.On("CountUsers", mock.Anything).Return(int64(0), errors.New("timeout")).Once()

	_, _, err := newTestService(t, repo).ListUsers(context.Background(), 1, 10)
	assert.Error(t, err)
}

func TestListUsers_PageNumberTooLarge(t *testing.T) {
	repo := new(MockUserRepo)

	_, _, err := newTestService(t, repo).ListUsers(context.Background(), math.MaxInt, 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrValidation)
	repo.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CountUsers", mock.Anything)
}

func TestNewUserService_InvalidCost(t *testing.T) {
	_, err := NewUserService(new(MockUserRepo), 99, discardLogger())
	assert.Error(t, err)
}
