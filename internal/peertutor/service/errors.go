package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/oops"
)

// Error codes attached to service errors with oops. Handlers switch on the
// sentinel; logs and metrics use the code.
const (
	CodeValidation = "VALIDATION"
	CodeConflict   = "CONFLICT"
	CodeNotFound   = "NOT_FOUND"
	CodeAuth       = "AUTH"
	CodeDelivery   = "DELIVERY"
	CodeStorage    = "STORAGE"
)

var (
	ErrEmailRequired       = errors.New("email_required")
	ErrPasswordRequired    = errors.New("password_required")
	ErrNameRequired        = errors.New("name_required")
	ErrInvalidGrade        = errors.New("invalid_grade")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidSubject      = errors.New("invalid_subject")
	ErrInvalidIssue        = errors.New("invalid_issue")
	ErrElaborationRequired = errors.New("elaboration_required")
	ErrTitleRequired       = errors.New("title_required")
	ErrBodyRequired        = errors.New("body_required")
	ErrInvalidRole         = errors.New("invalid_role")

	ErrEmailTaken = errors.New("email_taken")

	ErrUnknownEmail = errors.New("unknown_email")
	ErrUserNotFound = errors.New("user_not_found")

	ErrIncorrectPassword = errors.New("incorrect_password")
	ErrNoSession         = errors.New("no_session")
	ErrInsufficientRole  = errors.New("insufficient_role")

	ErrDeliveryFailed = errors.New("delivery_failed")
)

var errorCodes = map[error]string{
	ErrEmailRequired:       CodeValidation,
	ErrPasswordRequired:    CodeValidation,
	ErrNameRequired:        CodeValidation,
	ErrInvalidGrade:        CodeValidation,
	ErrInvalidEmail:        CodeValidation,
	ErrInvalidSubject:      CodeValidation,
	ErrInvalidIssue:        CodeValidation,
	ErrElaborationRequired: CodeValidation,
	ErrTitleRequired:       CodeValidation,
	ErrBodyRequired:        CodeValidation,
	ErrInvalidRole:         CodeValidation,
	ErrEmailTaken:          CodeConflict,
	ErrUnknownEmail:        CodeNotFound,
	ErrUserNotFound:        CodeNotFound,
	ErrIncorrectPassword:   CodeAuth,
	ErrNoSession:           CodeAuth,
	ErrInsufficientRole:    CodeAuth,
	ErrDeliveryFailed:      CodeDelivery,
}

// fail returns sentinel tagged with its code and the given context pairs.
func fail(sentinel error, kv ...any) error {
	return oops.Code(errorCodes[sentinel]).With(kv...).Wrap(sentinel)
}

// deliveryError keeps both ErrDeliveryFailed and the mailer's error in the
// chain.
type deliveryError struct {
	cause error
}

func (e *deliveryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDeliveryFailed, e.cause)
}

func (e *deliveryError) Unwrap() []error { return []error{ErrDeliveryFailed, e.cause} }

func deliveryFailed(cause error, kv ...any) error {
	return oops.Code(CodeDelivery).With(kv...).Wrap(&deliveryError{cause: cause})
}

// DeliveryCause returns the mailer's error message of a failed delivery, or
// the empty string when err is not one.
func DeliveryCause(err error) string {
	var de *deliveryError
	if errors.As(err, &de) {
		return de.cause.Error()
	}
	return ""
}

// storageFault tags an unexpected store error. Errors that already carry a
// code pass through untouched.
func storageFault(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := oops.AsOops(err); ok {
		return err
	}
	return oops.Code(CodeStorage).With("op", op).Wrap(err)
}

// Code returns the error code of err. Errors without one are storage faults.
func Code(err error) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok && code != "" {
			return code
		}
	}
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeStorage
}

// Clock is the time source shared by the services. Nil means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
