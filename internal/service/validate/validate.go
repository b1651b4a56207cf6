package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 50

	// users.email column is VARCHAR(255)
	EmailMaxLen = 255

	// bcrypt ignores everything after 72 bytes, so longer passwords are refused
	PasswordMaxBytes = 72
)

// local@domain.tld without spaces, exactly one '@' delimiting non empty parts
var addressRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = New()

// New returns validator with project specific tags registered
//   - address: email address syntax as accepted by the service
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return addressRe.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("can't register address validation: %v", err))
	}
	return v
}

func Username(username string) error {
	if err := validate.Var(username, fmt.Sprintf("min=%d,max=%d", UsernameMinLen, UsernameMaxLen)); err != nil {
		n := utf8.RuneCountInString(username)
		if n < UsernameMinLen {
			return fmt.Errorf("%w: username must be at least %d characters long", apperrors.ErrValidation, UsernameMinLen)
		}
		return fmt.Errorf("%w: username must be at most %d characters long", apperrors.ErrValidation, UsernameMaxLen)
	}
	return nil
}

func Email(email string) error {
	if err := validate.Var(email, fmt.Sprintf("max=%d", EmailMaxLen)); err != nil {
		return fmt.Errorf("%w: email must be at most %d characters long", apperrors.ErrValidation, EmailMaxLen)
	}
	if err := validate.Var(email, "address"); err != nil {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrValidation)
	}
	return nil
}

func Password(password string) error {
	if len(password) > PasswordMaxBytes {
		return fmt.Errorf("%w: password must be at most %d bytes long", apperrors.ErrValidation, PasswordMaxBytes)
	}
	return nil
}

// Required fails on the first empty value
// names and values are passed pairwise: "email", email, "password", password
func Required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := validate.Var(pairs[i+1], "required"); err != nil {
			return fmt.Errorf("%w: %s is required", apperrors.ErrValidation, pairs[i])
		}
	}
	return nil
}
