package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dkarlovs/cloudvault/internal/common"
)

var validate *validator.Validate

// A single validator instance is used, because it caches struct parsing.
// Field names in validation errors follow the json tags.
func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Response is the generic body for errors and status-only replies.
type Response struct {
	Message string  `json:"message"`
	Errors  []Error `json:"errors,omitempty"`
}

// Error is a validation failure scoped to one request field.
type Error struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// writeJSON outputs a standardized format to an HTTP response body.
func writeJSON(rw http.ResponseWriter, status int, response any) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(response); err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	if _, err := rw.Write(buf.Bytes()); err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
	}
}

// readJSON decodes the request body into value and validates it.
// On failure the response is already written and false is returned.
func readJSON(rw http.ResponseWriter, r *http.Request, value any) bool {
	if err := json.NewDecoder(r.Body).Decode(value); err != nil {
		writeJSON(rw, http.StatusBadRequest, Response{
			Message: fmt.Sprintf("read body: %s", err.Error()),
		})
		return false
	}

	err := validate.Struct(value)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apiErrors := make([]Error, 0, len(validationErrors))
		for _, validationError := range validationErrors {
			apiErrors = append(apiErrors, Error{
				Field:  validationError.Field(),
				Detail: fmt.Sprintf("validation failed for tag %q", validationError.Tag()),
			})
		}
		writeJSON(rw, http.StatusBadRequest, Response{
			Message: "validation failed",
			Errors:  apiErrors,
		})
		return false
	}
	if err != nil {
		writeJSON(rw, http.StatusInternalServerError, Response{
			Message: fmt.Sprintf("validation: %s", err.Error()),
		})
		return false
	}

	return true
}

// writeError maps service sentinels to HTTP statuses.
func writeError(rw http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(rw, http.StatusBadRequest, Response{Message: err.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "refresh token expired"})
	case errors.Is(err, common.ErrorWrongCredential):
		writeJSON(rw, http.StatusForbidden, Response{Message: "wrong credential"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(rw, http.StatusNotFound, Response{Message: "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(rw, http.StatusConflict, Response{Message: "already exists"})
	default:
		writeJSON(rw, http.StatusInternalServerError, Response{Message: "internal error"})
	}
}
