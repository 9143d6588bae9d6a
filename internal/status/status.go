// Package status classifies numeric HTTP status codes into response
// categories and derives the canonical lowercase label for each of them.
//
// The category and reason sets are open: new reasons may be added in minor
// releases, so callers that switch on a Category, FailedReason or ErrorReason
// must keep a default arm.
package status

// Kind is the coarse family a Category belongs to.
type Kind uint8

const (
	KindOK Kind = iota + 1
	KindFailed
	KindError
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindFailed:
		return "failed"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Category is the classification of a status code. It is implemented only
// by OK, Failed and Error.
type Category interface {
	Kind() Kind
	String() string
	category()
}

// OK is the category of a successful (200) response.
type OK struct{}

// Failed is the category of a client-side (4xx) response.
type Failed struct {
	Reason FailedReason
}

// Error is the category of a server-side (5xx) or unrecognized response.
type Error struct {
	Reason ErrorReason
}

func (OK) Kind() Kind     { return KindOK }
func (Failed) Kind() Kind { return KindFailed }
func (Error) Kind() Kind  { return KindError }

func (OK) String() string       { return labelSuccess }
func (c Failed) String() string { return c.Reason.String() }
func (c Error) String() string  { return c.Reason.String() }

func (OK) category()     {}
func (Failed) category() {}
func (Error) category()  {}

const labelSuccess = "success"

// FailedReason enumerates the recognized 4xx reasons.
type FailedReason uint8

const (
	BadRequest FailedReason = iota + 1
	Unauthorized
	Forbidden
	NotFound
	MethodNotAllowed
	NotAcceptable
	RequestTimeout
	Conflict
	UnsupportedMediaType
	UnprocessableContent
	TooManyRequest
)

var failedReasons = map[FailedReason]struct {
	code  uint16
	label string
}{
	BadRequest:           {400, "bad request"},
	Unauthorized:         {401, "unauthorized"},
	Forbidden:            {403, "forbidden"},
	NotFound:             {404, "not found"},
	MethodNotAllowed:     {405, "method not allowed"},
	NotAcceptable:        {406, "not acceptable"},
	RequestTimeout:       {408, "request timeout"},
	Conflict:             {409, "conflict"},
	UnsupportedMediaType: {415, "unsupported media type"},
	UnprocessableContent: {422, "unprocessable content"},
	TooManyRequest:       {429, "too many request"},
}

// String returns the label of the reason. Unknown values fall back to the
// UnknownError label.
func (r FailedReason) String() string {
	if e, ok := failedReasons[r]; ok {
		return e.label
	}
	return UnknownError.String()
}

// Code returns the canonical status code of the reason, or 500 for values
// outside the enumerated set.
func (r FailedReason) Code() uint16 {
	if e, ok := failedReasons[r]; ok {
		return e.code
	}
	return UnknownError.Code()
}

// ErrorReason enumerates the recognized 5xx reasons plus the UnknownError
// catch-all.
type ErrorReason uint8

const (
	InternalServerError ErrorReason = iota + 1
	NotImplemented
	BadGateway
	ServiceUnavailable
	GatewayTimeout
	UnknownError
)

const labelUnknownError = "unknown error"

var errorReasons = map[ErrorReason]struct {
	code  uint16
	label string
}{
	InternalServerError: {500, "internal server error"},
	NotImplemented:      {501, "not implemented"},
	BadGateway:          {502, "bad gateway"},
	ServiceUnavailable:  {503, "service unavailable"},
	GatewayTimeout:      {504, "gateway timeout"},
	UnknownError:        {500, labelUnknownError},
}

// String returns the label of the reason.
func (r ErrorReason) String() string {
	if e, ok := errorReasons[r]; ok {
		return e.label
	}
	return labelUnknownError
}

// Code returns the status code an envelope built from the reason carries.
// UnknownError has no code of its own and reports 500.
func (r ErrorReason) Code() uint16 {
	if e, ok := errorReasons[r]; ok {
		return e.code
	}
	return 500
}
