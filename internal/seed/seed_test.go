package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-medpoint-api/config"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) Authenticate(ctx context.Context, username, password string) (*types.UserAccount, bool, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*types.UserAccount), args.Bool(1), args.Error(2)
}

func (m *MockAccounts) Register(ctx context.Context, candidate types.UserAccount, password string) (*types.UserAccount, error) {
	args := m.Called(ctx, candidate, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAccount), args.Error(1)
}

func (m *MockAccounts) SetRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListDrugs(ctx context.Context, limit, offset int) ([]types.Drug, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Drug), args.Error(1)
}

func (m *MockCatalog) CreateDrug(ctx context.Context, drug types.Drug) (*types.Drug, error) {
	args := m.Called(ctx, drug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Drug), args.Error(1)
}

func testSeedConfig() config.SeedConfig {
	return config.SeedConfig{
		Enabled:       true,
		AdminUsername: "admin",
		AdminPassword: "admin",
		AdminEmail:    "admin@medpoint.local",
		DemoDrugs:     true,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeeder_FreshDatabase(t *testing.T) {
	accounts, catalog := new(MockAccounts), new(MockCatalog)
	adminID := uuid.New()

	accounts.On("Register", mock.Anything, mock.MatchedBy(func(u types.UserAccount) bool {
		return u.Username == "admin"
	}), "admin").Return(&types.UserAccount{ID: adminID, Username: "admin"}, nil).Once()
	accounts.On("SetRole", mock.Anything, adminID, "Admin").Return(true, nil).Once()
	catalog.On("ListDrugs", mock.Anything, 1, 0).Return([]types.Drug{}, nil).Once()
	catalog.On("CreateDrug", mock.Anything, mock.MatchedBy(func(d types.Drug) bool {
		return d.ID != uuid.Nil
	})).Return(&types.Drug{}, nil).Times(len(DemoDrugs))

	require.NoError(t, NewSeeder(testSeedConfig(), accounts, catalog, discardLogger()).Run(context.Background()))
	accounts.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestSeeder_AlreadySeeded(t *testing.T) {
	accounts, catalog := new(MockAccounts), new(MockCatalog)

	accounts.On("Register", mock.Anything, mock.Anything, "admin").Return(nil, types.ErrConflict).Once()
	accounts.On("Authenticate", mock.Anything, "admin", "admin").
		Return(&types.UserAccount{ID: uuid.New(), Username: "admin", Role: types.RoleAdmin}, true, nil).Once()
	catalog.On("ListDrugs", mock.Anything, 1, 0).Return([]types.Drug{{Name: "Nexium"}}, nil).Once()

	require.NoError(t, NewSeeder(testSeedConfig(), accounts, catalog, discardLogger()).Run(context.Background()))
	accounts.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
	catalog.AssertNotCalled(t, "CreateDrug", mock.Anything, mock.Anything)
}

func TestSeeder_Disabled(t *testing.T) {
	accounts, catalog := new(MockAccounts), new(MockCatalog)
	cfg := testSeedConfig()
	cfg.Enabled = false

	require.NoError(t, NewSeeder(cfg, accounts, catalog, discardLogger()).Run(context.Background()))
	accounts.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	catalog.AssertNotCalled(t, "ListDrugs", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeeder_StorageFault(t *testing.T) {
	accounts, catalog := new(MockAccounts), new(MockCatalog)
	accounts.On("Register", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	err := NewSeeder(testSeedConfig(), accounts, catalog, discardLogger()).Run(context.Background())
	assert.Error(t, err)
}

func TestSeeder_PromotesAdminLeftAsReader(t *testing.T) {
	accounts, catalog := new(MockAccounts), new(MockCatalog)
	adminID := uuid.New()
	cfg := testSeedConfig()
	cfg.DemoDrugs = false

	// A previous run registered the account and stopped before the promotion.
	accounts.On("Register", mock.Anything, mock.Anything, "admin").Return(nil, types.ErrConflict).Once()
	accounts.On("Authenticate", mock.Anything, "admin", "admin").
		Return(&types.UserAccount{ID: adminID, Username: "admin", Role: types.RoleReader}, true, nil).Once()
	accounts.On("SetRole", mock.Anything, adminID, "Admin").Return(true, nil).Once()

	require.NoError(t, NewSeeder(cfg, accounts, catalog, discardLogger()).Run(context.Background()))
	accounts.AssertExpectations(t)
}

func TestSeeder_LeavesForeignAdminUsername(t *testing.T) {
	accounts, catalog := new(MockAccounts), new(MockCatalog)
	cfg := testSeedConfig()
	cfg.DemoDrugs = false

	accounts.On("Register", mock.Anything, mock.Anything, "admin").Return(nil, types.ErrConflict).Once()
	accounts.On("Authenticate", mock.Anything, "admin", "admin").Return(nil, false, nil).Once()

	require.NoError(t, NewSeeder(cfg, accounts, catalog, discardLogger()).Run(context.Background()))
	accounts.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}
