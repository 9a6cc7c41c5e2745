// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"horizons/internal/delivery/api/response"
	"horizons/internal/delivery/api/validator"
	"horizons/internal/errors"
	"horizons/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	RegistrationUC   usecase.RegistrationUsecase
	AuthenticationUC usecase.AuthenticationUsecase
	AccountUC        usecase.AccountUsecase
	Logger           *slog.Logger
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	registrationUC   usecase.RegistrationUsecase
	authenticationUC usecase.AuthenticationUsecase
	accountUC        usecase.AccountUsecase
	logger           *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler.
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		registrationUC:   params.RegistrationUC,
		authenticationUC: params.AuthenticationUC,
		accountUC:        params.AccountUC,
		logger:           params.Logger,
	}
}

// SignupRequest represents the request body for registering an account
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse is the public JSON view of an account.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newAccountResponse(output *usecase.AccountOutput) *AccountResponse {
	return &AccountResponse{
		ID:        output.ID,
		Username:  output.Username,
		Email:     output.Email,
		CreatedAt: output.CreatedAt.UTC(),
	}
}

// Signup handles account registration.
func (h *AccountHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid registration input")
	}

	// Lengths are checked on the values that will be stored.
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_FAILED", "Input validation failed", validator.Details(err))
	}

	output, err := h.registrationUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newAccountResponse(output))
}

// Login verifies credentials and returns the account they belong to.
func (h *AccountHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_FAILED", "Input validation failed", validator.Details(err))
	}

	output, err := h.authenticationUC.Authenticate(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAccountResponse(output))
}

// GetAccount returns a single account by ID.
func (h *AccountHandler) GetAccount(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Account ID must be an integer")
	}

	output, err := h.accountUC.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAccountResponse(output))
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
