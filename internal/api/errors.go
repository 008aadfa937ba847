package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// respondError maps a service error onto its HTTP status and body.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var cerr *service.ConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.As(err, &cerr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": cerr.Message})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrRelationNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": service.ErrForbidden.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "Internal Server Error"})
	}
}

// respondBindError reports a malformed or invalid request body as a field map.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := service.NewValidationError()
		for _, fe := range verrs {
			fields.Add(fe.Field(), bindMessage(fe))
		}
		c.JSON(http.StatusBadRequest, fields.Fields)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Invalid request body."}})
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "username":
		return "Enter a valid username."
	default:
		return "Invalid value."
	}
}
