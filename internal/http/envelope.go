package http

import (
	"encoding/json"
	"net/http"
)

// envelope is the uniform response shape every endpoint returns. Data is
// left out of the payload entirely when there is nothing to carry.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func newEnvelope(success bool, message string, data any) envelope {
	if message == "" {
		if success {
			message = "Success"
		} else {
			message = "Failed"
		}
	}
	return envelope{Success: success, Message: message, Data: data}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, newEnvelope(true, message, data))
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, newEnvelope(false, message, nil))
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}
