package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"horizons/config"
	"horizons/internal/delivery/api/router"
	"horizons/internal/delivery/api/router/handler"
	deliverycontext "horizons/internal/delivery/context"
	domainerrors "horizons/internal/domain/errors"
	"horizons/internal/errors"
	mockUC "horizons/internal/mocks/usecase"
	"horizons/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type serverFixtures struct {
	echo           *echo.Echo
	registration   *mockUC.MockRegistrationUsecase
	authentication *mockUC.MockAuthenticationUsecase
	accounts       *mockUC.MockAccountUsecase
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.HTTP.CORS.AllowOrigins = []string{"*"}

	return cfg
}

func createTestServer(t *testing.T) serverFixtures {
	registration := mockUC.NewMockRegistrationUsecase(t)
	authentication := mockUC.NewMockAuthenticationUsecase(t)
	accounts := mockUC.NewMockAccountUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	accountHandler := handler.NewAccountHandler(handler.AccountHandlerParams{
		RegistrationUC:   registration,
		AuthenticationUC: authentication,
		AccountUC:        accounts,
		Logger:           logger,
	})

	return serverFixtures{
		echo:           newEcho(newTestConfig(), logger, router.RouterParams{AccountHandler: accountHandler}),
		registration:   registration,
		authentication: authentication,
		accounts:       accounts,
	}
}

func (tf serverFixtures) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	tf.echo.ServeHTTP(rec, req)

	return rec
}

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

var aliceOutput = &usecase.AccountOutput{
	ID:        1,
	Username:  "alice",
	Email:     "alice@example.com",
	CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
}

func TestServer_Signup_Created(t *testing.T) {
	tf := createTestServer(t)

	tf.registration.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cret"}).
		Return(aliceOutput, nil)

	rec := tf.do(http.MethodPost, "/signup", `{"username":"alice","email":"alice@example.com","password":"s3cret"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Nil(t, body.Error)
	assert.Equal(t, map[string]any{
		"id":         float64(1),
		"username":   "alice",
		"email":      "alice@example.com",
		"created_at": "2024-05-01T12:00:00Z",
	}, body.Data)
	assert.Equal(t, rec.Header().Get(deliverycontext.HeaderXRequestID), body.Meta.RequestID)
	assert.NotContains(t, rec.Body.String(), "s3cret")
}

func TestServer_Signup_TrimsBeforeValidating(t *testing.T) {
	tf := createTestServer(t)
	username := strings.Repeat("u", 50)

	tf.registration.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{Username: username, Email: "alice@example.com", Password: " s3cret "}).
		Return(aliceOutput, nil)

	rec := tf.do(http.MethodPost, "/signup", `{"username":"  `+username+`  ","email":" alice@example.com ","password":" s3cret "}`)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestServer_Signup_RequestValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "malformed json", body: `{"username":`, wantCode: "INVALID_INPUT"},
		{name: "missing password", body: `{"username":"alice","email":"alice@example.com"}`, wantCode: "VALIDATION_FAILED"},
		{name: "blank username", body: `{"username":"   ","email":"alice@example.com","password":"pw"}`, wantCode: "VALIDATION_FAILED"},
		{name: "invalid email", body: `{"username":"alice","email":"not-an-email","password":"pw"}`, wantCode: "VALIDATION_FAILED"},
		{name: "username too long", body: `{"username":"` + strings.Repeat("u", 51) + `","email":"a@example.com","password":"pw"}`, wantCode: "VALIDATION_FAILED"},
		{name: "password too long", body: `{"username":"alice","email":"a@example.com","password":"` + strings.Repeat("p", 73) + `"}`, wantCode: "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := createTestServer(t)

			rec := tf.do(http.MethodPost, "/signup", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantCode == "VALIDATION_FAILED" {
				assert.NotEmpty(t, body.Error.Details)
			}
		})
	}
}

func TestServer_Signup_UsecaseErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails bool
	}{
		{
			name:        "core validation",
			err:         errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("username is required")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: true,
		},
		{name: "duplicate", err: errors.WithStack(domainerrors.ErrAccountAlreadyExists), wantStatus: http.StatusConflict, wantCode: "ACCOUNT_ALREADY_EXISTS"},
		{name: "hash failure", err: errors.WithStack(domainerrors.ErrPasswordHashFailed), wantStatus: http.StatusInternalServerError, wantCode: "PASSWORD_HASH_FAILED"},
		{name: "store unavailable", err: errors.Wrap(domainerrors.ErrStoreUnavailable, "pq: timeout"), wantStatus: http.StatusServiceUnavailable, wantCode: "STORE_UNAVAILABLE"},
		{name: "internal", err: errors.Wrap(domainerrors.ErrInternalError, "boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := createTestServer(t)
			tf.registration.EXPECT().Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).Return(nil, tt.err)

			rec := tf.do(http.MethodPost, "/signup", `{"username":"alice","email":"alice@example.com","password":"s3cret"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantDetails, body.Error.Details != nil)
			assert.NotContains(t, rec.Body.String(), "pq: timeout")
		})
	}
}

func TestServer_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tf := createTestServer(t)
		tf.authentication.EXPECT().
			Authenticate(mock.Anything, &usecase.LoginInput{Email: "alice@example.com", Password: "s3cret"}).
			Return(aliceOutput, nil)

		rec := tf.do(http.MethodPost, "/login", `{"email":"alice@example.com","password":"s3cret"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", decode(t, rec).Data["username"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		tf := createTestServer(t)
		tf.authentication.EXPECT().
			Authenticate(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
			Return(nil, errors.WithStack(domainerrors.ErrInvalidCredentials))

		rec := tf.do(http.MethodPost, "/login", `{"email":"ghost@example.com","password":"whatever"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
		assert.Nil(t, body.Error.Details)
	})

	t.Run("missing fields", func(t *testing.T) {
		tf := createTestServer(t)

		rec := tf.do(http.MethodPost, "/login", `{"email":"alice@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", decode(t, rec).Error.Code)
	})
}

func TestServer_GetAccount(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		tf := createTestServer(t)
		tf.accounts.EXPECT().GetByID(mock.Anything, int64(1)).Return(aliceOutput, nil)

		rec := tf.do(http.MethodGet, "/users/1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice@example.com", decode(t, rec).Data["email"])
	})

	t.Run("miss", func(t *testing.T) {
		tf := createTestServer(t)
		tf.accounts.EXPECT().GetByID(mock.Anything, int64(999)).Return(nil, errors.WithStack(domainerrors.ErrAccountNotFound))

		rec := tf.do(http.MethodGet, "/users/999", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ACCOUNT_NOT_FOUND", decode(t, rec).Error.Code)
	})

	t.Run("non numeric id", func(t *testing.T) {
		tf := createTestServer(t)

		rec := tf.do(http.MethodGet, "/users/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_ID", decode(t, rec).Error.Code)
	})
}

func TestServer_HealthCheck(t *testing.T) {
	tf := createTestServer(t)

	rec := tf.do(http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec).Data["status"])
}

func TestServer_BodyLimit(t *testing.T) {
	tf := createTestServer(t)

	rec := tf.do(http.MethodPost, "/signup", `{"username":"`+strings.Repeat("u", 2048)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	tf := createTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/signup", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	tf.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServer_PropagatesRequestID(t *testing.T) {
	tf := createTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "trace-123")
	rec := httptest.NewRecorder()
	tf.echo.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, "trace-123", decode(t, rec).Meta.RequestID)
}

func TestNewServer_Lifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := NewServer(ServerParams{
		Lc:     lc,
		Cfg:    newTestConfig(),
		Logger: logger,
		RouterParams: router.RouterParams{
			AccountHandler: handler.NewAccountHandler(handler.AccountHandlerParams{Logger: logger}),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, srv)

	lc.RequireStart().RequireStop()
}
