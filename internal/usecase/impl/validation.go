package impl

import (
	"strings"

	domainerrors "horizons/internal/domain/errors"
	"horizons/internal/domain/service"
	"horizons/internal/usecase"
)

const (
	maxUsernameBytes = 50
	maxEmailBytes    = 100
)

// registration is a validated registration request with identity fields trimmed.
type registration struct {
	username string
	email    string
	password string
}

func validateRegistration(input *usecase.RegisterInput) (*registration, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("registration input is required")
	}

	reg := &registration{
		username: strings.TrimSpace(input.Username),
		email:    strings.TrimSpace(input.Email),
		password: input.Password,
	}

	switch {
	case reg.username == "":
		return nil, domainerrors.ErrValidationFailed.WithDetails("username is required")
	case len(reg.username) > maxUsernameBytes:
		return nil, domainerrors.ErrValidationFailed.WithDetails("username must be at most 50 characters")
	case reg.email == "":
		return nil, domainerrors.ErrValidationFailed.WithDetails("email is required")
	case len(reg.email) > maxEmailBytes:
		return nil, domainerrors.ErrValidationFailed.WithDetails("email must be at most 100 characters")
	case reg.password == "":
		return nil, domainerrors.ErrValidationFailed.WithDetails("password is required")
	case len(reg.password) > service.MaxPasswordBytes:
		// bcrypt ignores everything past 72 bytes
		return nil, domainerrors.ErrValidationFailed.WithDetails("password must be at most 72 bytes")
	}

	return reg, nil
}
