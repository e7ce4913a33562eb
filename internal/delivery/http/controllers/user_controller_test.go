package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoevent/internal/delivery/http/helpers"
	"innoevent/internal/delivery/http/middleware"
	"innoevent/internal/domain"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	createUser *domain.User
	createErr  error
	getUser    *domain.User
	getErr     error
	listUsers  []*domain.User
	listTotal  int
	listErr    error
	updateUser *domain.User
	updateErr  error
	lastUpdate domain.UserUpdate
	deleteErr  error
	loginToken string
	loginUser  *domain.User
	loginErr   error
}

func (f *fakeUserService) Create(ctx context.Context, surname, name string, phone, email *string, password string) (*domain.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createUser, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getUser, nil
}

func (f *fakeUserService) List(ctx context.Context, p domain.PaginationParams) ([]*domain.User, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listUsers, f.listTotal, nil
}

func (f *fakeUserService) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	f.lastUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateUser, nil
}

func (f *fakeUserService) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

func TestUserController_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakeUserService
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"surname":"Ivanov","name":"Ivan","email":"ivan@example.com","password":"s3cretpass"}`,
			fake: &fakeUserService{
				createUser: &domain.User{ID: testUserID, Surname: "Ivanov", Name: "Ivan"},
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing surname",
			body:       `{"name":"Ivan","password":"s3cretpass"}`,
			fake:       &fakeUserService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "short password",
			body:       `{"surname":"Ivanov","name":"Ivan","password":"short"}`,
			fake:       &fakeUserService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "invalid email",
			body:       `{"surname":"Ivanov","name":"Ivan","email":"nope","password":"s3cretpass"}`,
			fake:       &fakeUserService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "duplicate email",
			body:       `{"surname":"Ivanov","name":"Ivan","email":"ivan@example.com","password":"s3cretpass"}`,
			fake:       &fakeUserService{createErr: domain.ErrDuplicateEmail},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeDuplicateEmail,
		},
		{
			name:       "service error",
			body:       `{"surname":"Ivanov","name":"Ivan","password":"s3cretpass"}`,
			fake:       &fakeUserService{createErr: assert.AnError},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewUserController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			c.Create(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeEnvelope(t, rec.Body)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			} else {
				require.Nil(t, resp.Error)
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, testUserID, data["id"])
				// Credentials never leave the service layer.
				assert.NotContains(t, data, "password_hash")
				assert.NotContains(t, data, "salt")
			}
		})
	}
}

func TestUserController_Get(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		fake       *fakeUserService
		wantStatus int
	}{
		{name: "success", userID: testUserID, fake: &fakeUserService{getUser: &domain.User{ID: testUserID}}, wantStatus: http.StatusOK},
		{name: "invalid id", userID: "nope", fake: &fakeUserService{}, wantStatus: http.StatusBadRequest},
		{name: "not found", userID: testUserID, fake: &fakeUserService{getErr: domain.ErrUserNotFound}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewUserController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodGet, "/api/users/"+tt.userID, nil)
			req.SetPathValue("userID", tt.userID)
			rec := httptest.NewRecorder()

			c.Get(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserController_List(t *testing.T) {
	fake := &fakeUserService{
		listUsers: []*domain.User{{ID: testUserID, Surname: "Ivanov", Name: "Ivan"}},
		listTotal: 57,
	}
	c := NewUserController(testLogger, fake)

	req := httptest.NewRequest(http.MethodGet, "/api/users?page=2&page_size=10", nil)
	rec := httptest.NewRecorder()

	c.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec.Body)
	require.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	items, ok := data["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
	pg, ok := data["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(57), pg["total"])
	assert.Equal(t, float64(2), pg["page"])
}

func TestUserController_Update(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		fake := &fakeUserService{updateUser: &domain.User{ID: testUserID, Name: "Pyotr"}}
		c := NewUserController(testLogger, fake)

		req := httptest.NewRequest(http.MethodPut, "/api/users/"+testUserID,
			bytes.NewBufferString(`{"name":"Pyotr"}`))
		req.SetPathValue("userID", testUserID)
		rec := httptest.NewRecorder()

		c.Update(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, fake.lastUpdate.Name)
		assert.Equal(t, "Pyotr", *fake.lastUpdate.Name)
		assert.Nil(t, fake.lastUpdate.Surname)
		assert.Nil(t, fake.lastUpdate.Email)
		assert.Nil(t, fake.lastUpdate.Password)
	})

	t.Run("not found", func(t *testing.T) {
		fake := &fakeUserService{updateErr: domain.ErrUserNotFound}
		c := NewUserController(testLogger, fake)

		req := httptest.NewRequest(http.MethodPut, "/api/users/"+testUserID,
			bytes.NewBufferString(`{"name":"Pyotr"}`))
		req.SetPathValue("userID", testUserID)
		rec := httptest.NewRecorder()

		c.Update(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		c := NewUserController(testLogger, &fakeUserService{})

		req := httptest.NewRequest(http.MethodPut, "/api/users/"+testUserID,
			bytes.NewBufferString(`{"password":"short"}`))
		req.SetPathValue("userID", testUserID)
		rec := httptest.NewRecorder()

		c.Update(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserController_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := NewUserController(testLogger, &fakeUserService{})

		req := httptest.NewRequest(http.MethodDelete, "/api/users/"+testUserID, nil)
		req.SetPathValue("userID", testUserID)
		rec := httptest.NewRecorder()

		c.Delete(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		c := NewUserController(testLogger, &fakeUserService{deleteErr: domain.ErrUserNotFound})

		req := httptest.NewRequest(http.MethodDelete, "/api/users/"+testUserID, nil)
		req.SetPathValue("userID", testUserID)
		rec := httptest.NewRecorder()

		c.Delete(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserController_GetMe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeUserService{getUser: &domain.User{ID: testUserID}}
		c := NewUserController(testLogger, fake)

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), testUserID))
		rec := httptest.NewRecorder()

		c.GetMe(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		c := NewUserController(testLogger, &fakeUserService{})

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		rec := httptest.NewRecorder()

		c.GetMe(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		resp := decodeEnvelope(t, rec.Body)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeUnauthorized, resp.Error.Code)
	})
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakeUserService
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":"ivan@example.com","password":"s3cretpass"}`,
			fake: &fakeUserService{
				loginToken: "jwt-token",
				loginUser:  &domain.User{ID: testUserID},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing password",
			body:       `{"email":"ivan@example.com"}`,
			fake:       &fakeUserService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unknown email gives generic unauthorized",
			body:       `{"email":"ivan@example.com","password":"s3cretpass"}`,
			fake:       &fakeUserService{loginErr: domain.ErrUserNotFound},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "wrong password gives generic unauthorized",
			body:       `{"email":"ivan@example.com","password":"s3cretpass"}`,
			fake:       &fakeUserService{loginErr: domain.ErrInvalidInput},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "service error",
			body:       `{"email":"ivan@example.com","password":"s3cretpass"}`,
			fake:       &fakeUserService{loginErr: assert.AnError},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAuthController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			c.Login(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeEnvelope(t, rec.Body)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			} else {
				require.Nil(t, resp.Error)
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "jwt-token", data["token"])
				assert.Equal(t, "Bearer", data["token_type"])
			}
		})
	}
}
