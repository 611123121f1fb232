package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-be/internal/auth"
	"storefront-be/internal/user"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, firstName, lastName, email, password string) (*user.User, error) {
	args := m.Called(ctx, firstName, lastName, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserService) FindAll(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]user.User)
	return users, args.Error(1)
}

func (m *MockUserService) FindWithRecentPurchases(ctx context.Context, id uint) (*user.UserWithPurchases, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.UserWithPurchases)
	return u, args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uint, firstName, lastName string) (*user.User, error) {
	args := m.Called(ctx, id, firstName, lastName)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// stubTokens issues a fixed token and accepts only that token back.
type stubTokens struct {
	issueErr error
}

func (s *stubTokens) Issue(userID uint, email string) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	return "test-token", nil
}

func (s *stubTokens) Parse(token string) (*auth.Claims, error) {
	if token != "test-token" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: 7, Email: "ada@example.com"}, nil
}

func jsonRequest(method, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParam attaches a chi route parameter the way the router would.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		svc.On("Register", mock.Anything, "Ada", "Lovelace", "ada@example.com", "s3cret").
			Return(&user.User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, nil)

		rec := httptest.NewRecorder()
		h.Register(rec, jsonRequest(http.MethodPost, "/users/register",
			`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"s3cret"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "test-token", body["token"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "ada@example.com", data["email"])
		// The password hash never leaves the server.
		assert.NotContains(t, rec.Body.String(), "s3cret")
		svc.AssertExpectations(t)
	})

	t.Run("Missing field", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		rec := httptest.NewRecorder()
		h.Register(rec, jsonRequest(http.MethodPost, "/users/register",
			`{"firstName":"Ada","email":"ada@example.com","password":"s3cret"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Register")
	})

	t.Run("Malformed body", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		rec := httptest.NewRecorder()
		h.Register(rec, jsonRequest(http.MethodPost, "/users/register", `{not json`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		svc.On("Register", mock.Anything, "Ada", "Lovelace", "ada@example.com", "s3cret").
			Return(nil, user.ErrEmailExists)

		rec := httptest.NewRecorder()
		h.Register(rec, jsonRequest(http.MethodPost, "/users/register",
			`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"s3cret"}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
	})
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		svc.On("Authenticate", mock.Anything, "ada@example.com", "s3cret").
			Return(&user.User{ID: 1, Email: "ada@example.com"}, nil)

		rec := httptest.NewRecorder()
		h.Login(rec, jsonRequest(http.MethodPost, "/users/login",
			`{"email":"ada@example.com","password":"s3cret"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "test-token", body["token"])
	})

	t.Run("Bad credentials", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		svc.On("Authenticate", mock.Anything, "ada@example.com", "wrong").
			Return(nil, nil)

		rec := httptest.NewRecorder()
		h.Login(rec, jsonRequest(http.MethodPost, "/users/login",
			`{"email":"ada@example.com","password":"wrong"}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("Missing fields", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		rec := httptest.NewRecorder()
		h.Login(rec, jsonRequest(http.MethodPost, "/users/login", `{"email":"ada@example.com"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Authenticate")
	})

	t.Run("Store failure", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		svc.On("Authenticate", mock.Anything, "ada@example.com", "s3cret").
			Return(nil, errors.New("db error"))

		rec := httptest.NewRecorder()
		h.Login(rec, jsonRequest(http.MethodPost, "/users/login",
			`{"email":"ada@example.com","password":"s3cret"}`))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUserHandler_GetWithPurchases(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		svc.On("FindWithRecentPurchases", mock.Anything, uint(1)).
			Return(&user.UserWithPurchases{
				User: user.User{ID: 1, FirstName: "Ada", Email: "ada@example.com"},
				Purchases: []user.Purchase{
					{ID: 42, Status: "complete", TotalAmount: 29.97,
						Products: []user.PurchaseProduct{{ID: 1, Name: "Hammer", Quantity: 2, UnitPrice: 9.99}}},
				},
			}, nil)

		rec := httptest.NewRecorder()
		req := withURLParam(jsonRequest(http.MethodGet, "/users/1", ""), "id", "1")
		h.GetWithPurchases(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]any)
		purchases := data["purchases"].([]any)
		require.Len(t, purchases, 1)
		assert.True(t, strings.Contains(rec.Body.String(), `"Hammer"`))
	})

	t.Run("Invalid id", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		rec := httptest.NewRecorder()
		req := withURLParam(jsonRequest(http.MethodGet, "/users/abc", ""), "id", "abc")
		h.GetWithPurchases(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "FindWithRecentPurchases")
	})

	t.Run("Not found", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, &stubTokens{})

		svc.On("FindWithRecentPurchases", mock.Anything, uint(404)).Return(nil, nil)

		rec := httptest.NewRecorder()
		req := withURLParam(jsonRequest(http.MethodGet, "/users/404", ""), "id", "404")
		h.GetWithPurchases(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserHandler_List(t *testing.T) {
	svc := new(MockUserService)
	h := NewUserHandler(svc, &stubTokens{})

	svc.On("FindAll", mock.Anything).Return([]user.User{
		{ID: 1, Email: "ada@example.com"},
		{ID: 2, Email: "grace@example.com"},
	}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, jsonRequest(http.MethodGet, "/users", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].([]any)
	assert.Len(t, data, 2)
}
