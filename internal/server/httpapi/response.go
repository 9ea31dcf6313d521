// Package httpapi exposes the user and task services over HTTP with gin.
// Every response, success or failure, uses the same JSON envelope and the
// envelope code doubles as the HTTP status.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

// Response codes. 201 and 230 keep the meaning existing clients expect,
// not their usual HTTP meaning.
const (
	CodeSuccessful   = http.StatusOK
	CodeNoData       = 201
	CodeDuplicate    = 230
	CodeBadRequest   = http.StatusBadRequest
	CodeUnauthorized = http.StatusUnauthorized
	CodeInvalidToken = http.StatusForbidden
	CodeInternal     = http.StatusInternalServerError
)

// Envelope is the body of every response.
type Envelope struct {
	Data            any    `json:"data"`
	ResponseMessage string `json:"responseMessage"`
	ResponseCode    int    `json:"responseCode"`
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Data: data, ResponseMessage: message, ResponseCode: code})
}

func respondOK(c *gin.Context, message string, data any) {
	respond(c, CodeSuccessful, message, data)
}

// codeFor maps service errors onto envelope codes.
func codeFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return CodeBadRequest
	case errors.Is(err, common.ErrorDuplicate), errors.Is(err, common.ErrAlreadyVerified):
		return CodeDuplicate
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrUnverified),
		errors.Is(err, common.ErrInvalidCredential):
		return CodeNoData
	case errors.Is(err, common.ErrorUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return CodeInvalidToken
	default:
		return CodeInternal
	}
}

// fail writes err as an envelope. notFound, when set, replaces the generic
// message for ErrorNotFound. Internal errors are logged and never echoed.
func (h *Handler) fail(c *gin.Context, err error, notFound string) {
	code := codeFor(err)

	msg := err.Error()
	switch {
	case code == CodeInternal:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		msg = "internal server error"
	case notFound != "" && errors.Is(err, common.ErrorNotFound):
		msg = notFound
	}

	c.Abort()
	respond(c, code, msg, nil)
}
