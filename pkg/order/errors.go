package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/buttg/pkg/notify"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every checkout field that was rejected. Nothing has
// been recorded or sent when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// IsValidation helps callers distinguish bad input from delivery failures.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// TransportError reports a notification that could not be delivered. The
// order id is kept for operator follow-up but is not handed to the customer.
type TransportError struct {
	OrderID   string
	Recipient notify.Recipient
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("order %s: %s notification failed: %v", e.OrderID, e.Recipient, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}
