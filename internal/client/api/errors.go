package api

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// ErrUnavailable means the server could not be reached.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-200 envelope returned by the server.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// Unwrap maps the envelope code back onto a common sentinel.
func (e *Error) Unwrap() error {
	switch e.Code {
	case 201:
		return common.ErrorNotFound
	case 230:
		return common.ErrorDuplicate
	case 400:
		return common.ErrorValidation
	case 401:
		return common.ErrorUnauthorized
	case 403:
		return common.ErrInvalidToken
	default:
		return common.ErrorInternal
	}
}
