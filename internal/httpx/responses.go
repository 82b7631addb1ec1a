package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail    string        `json:"detail"`
	Code      string        `json:"code"`
	Details   []ErrorDetail `json:"details,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes data as the response body with the given status.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, detail string, details []ErrorDetail) {
	JSON(w, statusCode, ErrorResponse{
		Detail:    detail,
		Code:      code,
		Details:   details,
		RequestID: RequestIDFrom(r),
	})
}
