package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

var validate = newValidator()

// newValidator reports field errors under their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends the standard {"error": message} body
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.ErrorResponse{Error: message})
}

// respondValidationError sends a 400 with one message per failing field
func respondValidationError(w http.ResponseWriter, err error) {
	details := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			details[fe.Field()] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// decodeRequest reads a JSON body into req and validates it. It writes the 400
// response itself and reports false when the request cannot be used.
func decodeRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseID reads a numeric path parameter. entity names it in the 400 message.
func parseID(w http.ResponseWriter, r *http.Request, param, entity string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID", entity))
		return 0, false
	}
	return id, true
}

// queryInt returns the integer query parameter, or 0 when absent or malformed
func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}

var sentinelResponses = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrLocationNotFound, http.StatusNotFound, "Location not found"},
	{service.ErrContactNotFound, http.StatusNotFound, "POC not found"},
	{service.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
	{service.ErrPersonNotFound, http.StatusNotFound, "Person not found"},
	{service.ErrAssignmentNotFound, http.StatusNotFound, "Assignment not found"},
	{service.ErrReportNotFound, http.StatusNotFound, "Report not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrUserContextRequired, http.StatusUnauthorized, "Authentication required"},
}

// handleServiceError maps service sentinels to their status and message.
// Anything else is a storage failure and is reported as a 500 with its message.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error, operation string) {
	for _, s := range sentinelResponses {
		if errors.Is(err, s.err) {
			respondWithError(w, s.status, s.message)
			return
		}
	}

	logger.Error("failed to "+operation, zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, err.Error())
}
