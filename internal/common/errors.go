package common

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

var (
	// ErrSelfChat is returned when a seller tries to open a room on their own listing.
	ErrSelfChat = errors.New("cannot start a chat on your own listing")
	// ErrListingUnavailable covers inactive and unknown listings.
	ErrListingUnavailable = errors.New("listing unavailable")
	// ErrAccessDenied is returned to non-participants. It is reported to callers exactly like ErrNotFound.
	ErrAccessDenied = errors.New("access denied")
	ErrEmptyMessage = errors.New("message body is empty")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrUnauthenticated = errors.New("authentication required")

	// ErrMessageTooLong is an ErrInvalidInput for bodies over the configured length.
	ErrMessageTooLong = fmt.Errorf("message too long: %w", ErrInvalidInput)

	// ErrConcurrentCreation marks a lost room-creation race. It never leaves the registry.
	ErrConcurrentCreation = errors.New("room created concurrently")
)

// IsNotFound reports whether err must be rendered as "not found" to the caller.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrListingUnavailable)
}

// HTTPStatus maps an error to the status code the HTTP surface replies with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrSelfChat):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode maps an error to a gRPC status code.
func GRPCCode(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrUnauthenticated):
		return codes.Unauthenticated
	case IsNotFound(err):
		return codes.NotFound
	case errors.Is(err, ErrSelfChat):
		return codes.FailedPrecondition
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidInput):
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// PublicMessage is the text safe to show for err. Denied and missing resources share one message.
func PublicMessage(err error) string {
	switch {
	case IsNotFound(err):
		return "not found"
	case errors.Is(err, ErrUnauthenticated):
		return ErrUnauthenticated.Error()
	case errors.Is(err, ErrMessageTooLong):
		return ErrMessageTooLong.Error()
	case errors.Is(err, ErrSelfChat), errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidInput):
		return err.Error()
	default:
		return "internal error"
	}
}
