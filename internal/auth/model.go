package auth

import (
	"fmt"
	"regexp"
	"time"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
)

const (
	MAX_LENGTH_NAME     = 255
	MAX_LENGTH_EMAIL    = 255
	MAX_PASSWORD_LENGTH = 72
)

type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleStandard || r == RoleAdmin
}

type Account struct {
	ID             string
	Email          string
	Name           string
	PasswordHashed string
	Role           Role
	CreatedAt      time.Time
}

// Identity is the result of a successful authentication. It is produced
// once per request by the Gate and passed by parameter into every
// downstream check; nothing is looked up ambiently.
type Identity struct {
	AccountID string
	Role      Role
}

func (ident Identity) IsAdmin() bool {
	return ident.Role == RoleAdmin
}

type NewAccount struct {
	Email         string
	Name          string
	PasswordPlain string
}

// ProfilePatch carries the optional profile fields of an update. A nil
// field keeps the stored value. Changing the password requires
// CurrentPassword to verify against the stored digest.
type ProfilePatch struct {
	Name            *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9](\.?[a-zA-Z0-9_%+-])*@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)

func (newAccount NewAccount) ValidateFields() error {
	if newAccount.Email == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Email cannot be empty!",
		}
	}
	if !emailRegex.MatchString(newAccount.Email) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid email format, example valid email: john.doe@gmail.com",
		}
	}
	if len(newAccount.Email) > MAX_LENGTH_EMAIL {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Email so long, maximum length is %d", MAX_LENGTH_EMAIL),
		}
	}
	if len(newAccount.Name) > MAX_LENGTH_NAME {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Name so long, maximum length is %d", MAX_LENGTH_NAME),
		}
	}
	if newAccount.PasswordPlain == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Password cannot be empty!",
		}
	}
	if len(newAccount.PasswordPlain) > MAX_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password so long, maximum length is %d", MAX_PASSWORD_LENGTH),
		}
	}
	return nil
}
