package api

import (
	"reflect"

	"github.com/janisto/api-response/internal/status"
)

const (
	// DefaultCode is the code of the empty success envelope.
	DefaultCode uint16 = 200

	// EmptyArrayToken is the placeholder the default envelope carries in Data
	// and Errors. It is the string "[]", not an empty array.
	EmptyArrayToken = "[]"
)

// Envelope is the response value handed to a transport adapter.
// status: lowercase label, normally status.LabelFor(code)
// code: numeric HTTP status code, not range checked
// message: free text, empty means no message
// data, errors: optional JSON-like values, nil means absent.
type Envelope struct {
	Status  string `json:"status"`
	Code    uint16 `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Errors  any    `json:"errors"`
}

// Default returns the empty success envelope.
func Default() Envelope {
	return Envelope{
		Status:  status.LabelFor(DefaultCode),
		Code:    DefaultCode,
		Message: "",
		Data:    EmptyArrayToken,
		Errors:  EmptyArrayToken,
	}
}

// Option customizes an envelope built by New.
type Option func(*Envelope)

// WithData attaches a payload.
func WithData(data any) Option {
	return func(e *Envelope) {
		e.Data = data
	}
}

// WithErrors attaches structured error detail.
func WithErrors(errs any) Option {
	return func(e *Envelope) {
		e.Errors = errs
	}
}

// WithStatus overrides the label derived from the code.
func WithStatus(label string) Option {
	return func(e *Envelope) {
		e.Status = label
	}
}

// New builds an envelope whose status label is derived from code.
// Data and Errors are absent unless set through options.
func New(code uint16, message string, opts ...Option) Envelope {
	env := Envelope{
		Status:  status.LabelFor(code),
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&env)
		}
	}
	return env
}

// Success constructs a 200 envelope carrying data.
func Success(data any) Envelope {
	return New(DefaultCode, "", WithData(data))
}

// Fail constructs a client error envelope for reason.
func Fail(reason status.FailedReason, message string, errs any) Envelope {
	return New(reason.Code(), message, WithErrors(errs))
}

// Fault constructs a server error envelope for reason. UnknownError keeps
// its own label even though it is emitted with code 500.
func Fault(reason status.ErrorReason, message string) Envelope {
	return New(reason.Code(), message, WithStatus(reason.String()))
}

// Equal reports whether both envelopes hold the same field values. Payloads
// are compared deeply.
func (e Envelope) Equal(other Envelope) bool {
	return e.Status == other.Status &&
		e.Code == other.Code &&
		e.Message == other.Message &&
		reflect.DeepEqual(e.Data, other.Data) &&
		reflect.DeepEqual(e.Errors, other.Errors)
}

// Consistent reports whether Status matches the label derived from Code.
func (e Envelope) Consistent() bool {
	return e.Status == status.LabelFor(e.Code)
}

// Category classifies the envelope's code.
func (e Envelope) Category() status.Category {
	return status.Classify(e.Code)
}
