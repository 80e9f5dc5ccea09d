package response

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// AuthResult is the wire shape of every auth endpoint. Token fields are
// omitted on failure responses.
type AuthResult struct {
	Success      bool   `json:"success"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Message      string `json:"message,omitempty"`
}

// JSON writes v as-is with the request id echoed in a header. Payload shapes
// are owned by the handlers so the API stays byte-compatible with existing
// clients.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if id := requestID(r); id != "" {
		w.Header().Set("X-Request-Id", id)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes the {success, message} failure/acknowledgement shape.
func Message(w http.ResponseWriter, r *http.Request, status int, success bool, message string) {
	JSON(w, r, status, AuthResult{Success: success, Message: message})
}

func requestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-Id")
}
