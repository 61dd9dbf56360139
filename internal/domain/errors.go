package domain

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is returned by endpoints that have nothing else to say, such as deletes
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required":  "This field is required",
	"email":     "Must be a valid email address",
	"max":       "Exceeds maximum length",
	"min":       "Below minimum length",
	"gte":       "Must be greater than or equal to minimum value",
	"gt":        "Must be greater than minimum value",
	"lte":       "Must be less than or equal to maximum value",
	"lt":        "Must be less than maximum value",
	"oneof":     "Must be one of the allowed values",
	"numeric":   "Must be a numeric value",
	"latitude":  "Must be a valid latitude",
	"longitude": "Must be a valid longitude",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
