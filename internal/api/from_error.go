package api

import (
	"context"
	"errors"

	platformerrors "github.com/jmgilman/go/errors"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/janisto/api-response/internal/status"
)

var platformCodes = map[platformerrors.ErrorCode]uint16{
	platformerrors.CodeNotFound:                  404,
	platformerrors.CodeAlreadyExists:             409,
	platformerrors.CodeConflict:                  409,
	platformerrors.CodeUnauthorized:              401,
	platformerrors.CodeForbidden:                 403,
	platformerrors.CodeInvalidInput:              400,
	platformerrors.CodeSchemaFailed:              422,
	platformerrors.CodeSchemaVersionIncompatible: 415,
	platformerrors.CodeRateLimit:                 429,
	platformerrors.CodeTimeout:                   504,
	platformerrors.CodeNetwork:                   502,
	platformerrors.CodeUnavailable:               503,
	platformerrors.CodeNotImplemented:            501,
	platformerrors.CodeDatabase:                  500,
	platformerrors.CodeInternal:                  500,
}

var grpcCodes = map[codes.Code]uint16{
	codes.OK:                 200,
	codes.InvalidArgument:    400,
	codes.FailedPrecondition: 400,
	codes.OutOfRange:         400,
	codes.Unauthenticated:    401,
	codes.PermissionDenied:   403,
	codes.NotFound:           404,
	codes.AlreadyExists:      409,
	codes.Aborted:            409,
	codes.ResourceExhausted:  429,
	codes.Canceled:           408,
	codes.DeadlineExceeded:   504,
	codes.Unimplemented:      501,
	codes.Unavailable:        503,
	codes.Internal:           500,
	codes.DataLoss:           500,
	codes.Unknown:            500,
}

// FromError maps a service-layer error onto an envelope. Platform errors
// from github.com/jmgilman/go/errors and gRPC status errors keep their
// category; anything else becomes a 500. Server-side messages, including
// the platform error detail, are replaced by the status label. A nil error
// yields Default().
func FromError(err error) Envelope {
	if err == nil {
		return Default()
	}

	var platformErr platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		code, ok := platformCodes[platformErr.Code()]
		if !ok {
			code = 500
		}
		return New(code, publicMessage(code, platformErr.Message()), WithErrors(publicDetail(code, err)))
	}

	if st, ok := grpcstatus.FromError(err); ok {
		code, known := grpcCodes[st.Code()]
		if !known {
			code = 500
		}
		return New(code, publicMessage(code, st.Message()))
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return New(504, status.LabelFor(504))
	case errors.Is(err, context.Canceled):
		return New(408, status.LabelFor(408))
	}
	return New(500, status.LabelFor(500))
}

// publicDetail keeps the platform code and classification of err. For 5xx
// codes the message is replaced by the label and the context is dropped.
func publicDetail(code uint16, err error) *platformerrors.ErrorResponse {
	detail := platformerrors.ToJSON(err)
	if detail == nil || code < 500 {
		return detail
	}
	return &platformerrors.ErrorResponse{
		Code:           detail.Code,
		Message:        status.LabelFor(code),
		Classification: detail.Classification,
	}
}

func publicMessage(code uint16, msg string) string {
	if code >= 500 || msg == "" {
		return status.LabelFor(code)
	}
	return msg
}
