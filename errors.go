package folio

import (
	"errors"
	"fmt"
)

// ErrOverSell is wrapped by every OverSellError.
var ErrOverSell = errors.New("oversell")

// ErrDataUnavailable reports a missing price. Valuations turn it into an absent field or a
// fallback, it never aborts an overview or a performance series.
var ErrDataUnavailable = errors.New("data unavailable")

// ValidationError rejects a malformed trade before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// OverSellError rejects a SELL larger than the quantity held.
type OverSellError struct {
	User      string
	Ticker    string
	Held      float64
	Requested float64
}

func (e *OverSellError) Error() string {
	return fmt.Sprintf("cannot sell %g %s: only %g held by %s", e.Requested, e.Ticker, e.Held, e.User)
}

func (e *OverSellError) Unwrap() error { return ErrOverSell }

// StoreError wraps a persistence failure. It is returned as is, never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr wraps err unless it is nil or already a StoreError.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
