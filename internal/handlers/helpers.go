package handlers

import (
	"net/http"

	"github.com/benvon/clinic-edge/internal/apierror"
)

// SuccessBody is the envelope for successful API responses.
type SuccessBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// RespondJSON sends data wrapped in the success envelope.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	apierror.WriteJSON(w, status, SuccessBody{Success: true, Data: data})
}
