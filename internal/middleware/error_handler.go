package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/services"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// CustomErrorHandler renders service and echo errors as JSON
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errorMessage := ""

	if svcErr, ok := services.AsError(err); ok {
		code = statusForKind(svcErr.Kind)
		errorMessage = svcErr.Message
	} else if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code

		// Try to extract message from HTTPError
		if msg, ok := he.Message.(string); ok && msg != "" {
			errorMessage = msg
		}
	}

	if errorMessage == "" {
		switch code {
		case http.StatusNotFound:
			errorMessage = "The resource you're looking for doesn't exist."
		case http.StatusForbidden:
			errorMessage = "You don't have permission to access this resource."
		case http.StatusUnauthorized:
			errorMessage = "Please log in to continue."
		case http.StatusBadRequest:
			errorMessage = "The request could not be processed."
		default:
			errorMessage = "Something went wrong. Please try again later."
		}
	}

	// Internal details are logged, never returned
	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, ErrorResponse{Error: errorMessage})
	}
	if writeErr != nil {
		c.Logger().Error(fmt.Errorf("failed to write error response: %w", writeErr))
	}
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
