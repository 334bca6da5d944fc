package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIResponse is the envelope every endpoint returns: success carries data,
// failure carries a message. The resultCd field name is an external contract.
type APIResponse struct {
	ResultCd bool        `json:"resultCd"`
	Data     interface{} `json:"data,omitempty"`
	Message  string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{ResultCd: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{ResultCd: false, Message: message})
}
