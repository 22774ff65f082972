package router

import (
	"errors"
	"net/http"

	"github.com/familyquest/backend/pkg/errorx"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

// httpStatus maps error codes to HTTP statuses. Status codes are part of the
// API contract: precondition violations are 400, missing or invalid tokens
// are 401, cross-family or role violations are 403.
func httpStatus(code int64) int {
	switch errorx.Code(code) {
	case 0:
		return http.StatusOK
	case errorx.BadRequest, errorx.BadResponse, errorx.Unavailable, errorx.AlreadyExists:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
