package rest

import (
	"errors"
	"net/http"

	"ecomStore/domain"
	"ecomStore/internal/middleware"
	"ecomStore/pkg/logger"
	jsonres "ecomStore/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// writeError reports err with the status of its kind. Unexpected errors are
// logged and their detail is never sent to the caller.
func writeError(c echo.Context, msg string, err error) error {
	status := domain.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, "path", c.Path(), err)
	} else {
		logger.Debug(msg, err)
	}

	code, public := domain.Public(err)
	return c.JSON(status, jsonres.Error(code, public, nil))
}

func invalidBody(c echo.Context, err error) error {
	logger.Debug("Invalid request body", err)
	return c.JSON(http.StatusBadRequest, jsonres.Error(domain.ErrValidation.Code, "invalid request body", nil))
}

// invalidInput turns validator output into a VALIDATION_ERROR with one
// entry per failing field.
func invalidInput(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return writeError(c, "Failed to validate request", err)
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}

	return c.JSON(http.StatusBadRequest, jsonres.Error(domain.ErrValidation.Code, domain.ErrValidation.Message, details))
}

// identity is only called behind AuthMiddleware.
func identity(c echo.Context) domain.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}
