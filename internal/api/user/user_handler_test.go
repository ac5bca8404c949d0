package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*types.UserAccount, bool, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*types.UserAccount), args.Bool(1), args.Error(2)
}

func (m *MockUserService) Register(ctx context.Context, candidate types.UserAccount, password string) (*types.UserAccount, error) {
	args := m.Called(ctx, candidate, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAccount), args.Error(1)
}

func (m *MockUserService) SetRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAccount, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*types.UserAccount), args.Bool(1), args.Error(2)
}

func (m *MockUserService) ListUsers(ctx context.Context, pageNumber, pageSize int) ([]types.UserAccount, int64, error) {
	args := m.Called(ctx, pageNumber, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.UserAccount), args.Get(1).(int64), args.Error(2)
}

func routed(h *HandlerImpl) http.Handler {
	r := chi.NewRouter()
	r.Post("/users/set-role/{userId}", h.SetRole)
	r.Get("/users", h.ListUsers)
	return r
}

func TestHandler_SetRole(t *testing.T) {
	id := uuid.New()

	t.Run("Updated", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("SetRole", mock.Anything, id, "Contributor").Return(true, nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/set-role/"+id.String(), strings.NewReader(`{"role":"Contributor"}`))
		routed(NewHandlerImpl(svc, discardLogger())).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("SetRole", mock.Anything, id, "Admin").Return(false, nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/set-role/"+id.String(), strings.NewReader(`{"role":"Admin"}`))
		routed(NewHandlerImpl(svc, discardLogger())).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("SetRole", mock.Anything, id, "Owner").Return(false, types.NewValidationError("role", "unknown role")).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/set-role/"+id.String(), strings.NewReader(`{"role":"Owner"}`))
		routed(NewHandlerImpl(svc, discardLogger())).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MalformedID", func(t *testing.T) {
		svc := new(MockUserService)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/set-role/not-a-uuid", strings.NewReader(`{"role":"Admin"}`))
		routed(NewHandlerImpl(svc, discardLogger())).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandler_ListUsers(t *testing.T) {
	svc := new(MockUserService)
	users := []types.UserAccount{{ID: uuid.New(), Username: "a", PasswordHash: "secret-hash"}}
	svc.On("ListUsers", mock.Anything, 2, 5).Return(users, int64(6), nil).Once()

	rec := httptest.NewRecorder()
	routed(NewHandlerImpl(svc, discardLogger())).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?pageNumber=2&pageSize=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")

	var body types.UserListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 6, body.TotalItems)
	assert.Len(t, body.Users, 1)
	assert.Equal(t, 2, body.PageNumber)
}
