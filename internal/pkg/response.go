package pkg

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/personapi/internal/domain"
)

// Response is the uniform JSON envelope returned by every API operation.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data"`
	Errors  []string `json:"errors,omitempty"`
}

// Success sends a 200 envelope with the given data.
func Success(c *gin.Context, data any) {
	SuccessMessage(c, "Success", data)
}

// SuccessMessage sends a 200 envelope with a custom message.
func SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 envelope with the given data.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a failure envelope. The HTTP status is derived from the
// error's domain code; the message is the AppError message, or an opaque
// fallback for anything that is not an *domain.AppError, so internal detail
// never reaches the transport boundary.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	msg := "An unexpected error occurred"
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

// BindAndValidate binds the request body to obj and validates it. On failure
// it sends a 400 envelope carrying per-field errors and returns false.
// Because obj is available, JSON struct tags are used for field names when
// possible. Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationError(c, err, obj)
		return false
	}
	return true
}

// BindQuery binds query parameters to obj and validates it, with the same
// failure behavior as BindAndValidate.
func BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		validationError(c, err, obj)
		return false
	}
	return true
}

// validationError sends a 400 envelope. When err carries
// validator.ValidationErrors, each field failure becomes one entry in the
// envelope's errors list; otherwise a single generic entry is sent.
func validationError(c *gin.Context, err error, obj any) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "Invalid request data",
			Errors:  []string{err.Error()},
		})
		return
	}

	jsonTags := buildJSONTagMap(obj)

	fieldErrors := make([]string, 0, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fieldErrors = append(fieldErrors, name+": "+msg)
	}

	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "Invalid request data",
		Errors:  fieldErrors,
	})
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns an empty map.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if name := parseJSONTagName(tag); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
