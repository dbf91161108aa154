package models

// Response is the API envelope: {"success": bool, ...payload} on success,
// {"success": false, "error": msg} on failure. Payload keys sit at the top
// level of the envelope, so it is map-shaped rather than a fixed struct.
type Response map[string]interface{}

// NewSuccessResponse creates a success response carrying the given payload keys
func NewSuccessResponse(payload map[string]interface{}) Response {
	resp := Response{"success": true}
	for k, v := range payload {
		resp[k] = v
	}
	return resp
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) Response {
	return Response{"success": false, "error": message}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors map[string]string) Response {
	return Response{
		"success": false,
		"error":   "Validation failed",
		"errors":  errors,
	}
}
