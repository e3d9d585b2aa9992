package httpapi

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidToken       = "Please authenticate using a valid token"
	msgDuplicateIdentity  = "Sorry a user with this email or username already exists"
	msgInvalidCredentials = "Please try to login with correct credentials"
	msgNotFound           = "Not Found"
	msgAccessDenied       = "Not Allowed"
	msgNotConfigured      = "Attachments are not configured"
	msgInternal           = "Internal Server Error"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validator report json names ("email") instead of
// Go field names ("Email").
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{
			Errors: []FieldError{{Field: "body", Message: "Request body must be valid JSON"}},
		})
		return false
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := "Invalid value"
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if m := sf.Tag.Get("msg"); m != "" {
				msg = m
			}
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{Errors: out})
	return false
}

// writeError maps service errors to a status and a fixed message. Anything
// unrecognized is logged and reported as 500.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError && !errors.Is(err, common.ErrorInternal) {
		logger.Error(c.Request.Context(), "unhandled error", "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorDuplicateIdentity):
		return http.StatusNotFound, msgDuplicateIdentity
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusNotFound, msgInvalidCredentials
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorAccessDenied):
		return http.StatusUnauthorized, msgAccessDenied
	case errors.Is(err, common.ErrorNotConfigured):
		return http.StatusNotImplemented, msgNotConfigured
	}
	return http.StatusInternalServerError, msgInternal
}
