package core

import "github.com/pkg/errors"

var (
	ErrKeyNotFound       = errors.New("key not found")
	ErrQuotaExceeded     = errors.New("storage quota exceeded")
	ErrHasherUnavailable = errors.New("security library not loaded")
)

// QuotaWarning is shown to users whenever a write is abandoned for lack of space.
const QuotaWarning = "Storage Quota Exceeded! The system cannot save more data. " +
	"Please export your data and clear some records, or reduce file attachment sizes."

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error {
	return err.Err
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// IsQuotaExceeded reports whether err was caused by a full store.
func IsQuotaExceeded(err error) bool {
	return errors.Cause(err) == ErrQuotaExceeded
}
