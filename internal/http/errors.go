package http

import (
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sujalbistaa/inkpost/internal/core/comments"
	"github.com/sujalbistaa/inkpost/internal/core/images"
	"github.com/sujalbistaa/inkpost/internal/core/posts"
	"github.com/sujalbistaa/inkpost/internal/core/users"
)

type errorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: message, Details: details})
}

// handleServiceError maps domain errors to their status code. Anything it
// does not recognise is logged under op and returned as a 500.
func (e *Env) handleServiceError(c *gin.Context, op string, err error) {
	var verr *posts.ValidationError
	var disallowed *posts.DisallowedUpdateError

	switch {
	case errors.As(err, &disallowed):
		respondError(c, http.StatusBadRequest, "Invalid updates", gin.H{
			"invalidFields":  disallowed.Fields,
			"allowedUpdates": posts.AllowedUpdates,
		})
	case errors.As(err, &verr):
		respondError(c, http.StatusUnprocessableEntity, strings.Join(verr.Messages(), ", "), verr.Fields)
	case errors.Is(err, posts.ErrTitleContentRequired),
		errors.Is(err, posts.ErrInvalidID),
		errors.Is(err, images.ErrUnsupportedType),
		errors.Is(err, users.ErrPasswordTooLong),
		comments.IsValidationError(err):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case posts.IsNotFound(err), comments.IsNotFound(err), users.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, posts.ErrForbidden), errors.Is(err, comments.ErrNotAuthorized):
		respondError(c, http.StatusForbidden, err.Error(), nil)
	case users.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, users.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error(), nil)
	default:
		e.internalError(c, op, err)
	}
}

func (e *Env) internalError(c *gin.Context, op string, err error) {
	log.Printf("[%s] path=%s user=%s error=%v", op, c.Request.URL.Path, currentUserID(c), err)

	var details interface{}
	if e.Config != nil && e.Config.IsDevelopment() {
		details = err.Error()
	}
	respondError(c, http.StatusInternalServerError, "Internal server error", details)
}

// bindError reports a request body that failed to decode or validate.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
		return
	}

	details := make([]posts.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, posts.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	respondError(c, http.StatusBadRequest, "Invalid input", details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "url":
		return fe.Field() + " must be a valid URL"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors name fields the way clients send them.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}
