package server

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/hierq/internal/errors"
)

// HttpError is the JSON body of every failed request
type HttpError struct {
	StatusCode  int      `json:"status_code"`
	Message     string   `json:"message"`
	Code        string   `json:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHttpError converts err into an HttpError. Model and query errors keep
// their code and suggestions.
func NewHttpError(err error) *HttpError {
	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		return &HttpError{StatusCode: he.Code, Message: fmt.Sprint(he.Message)}
	}

	var herr errors.HierqError
	if !stderrors.As(err, &herr) {
		return &HttpError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	return &HttpError{
		StatusCode:  statusFor(herr.ErrorCode()),
		Message:     herr.Error(),
		Code:        herr.ErrorCode().String(),
		Suggestions: herr.Suggestions(),
	}
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.NotFoundErrorCode:
		return http.StatusNotFound
	case errors.PreconditionErrorCode, errors.UnsupportedOwnerErrorCode,
		errors.SyntaxErrorCode, errors.ResolutionErrorCode:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders every error returned by a handler as an HttpError
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he := NewHttpError(err)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.StatusCode)
	} else {
		err = c.JSON(he.StatusCode, he)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
