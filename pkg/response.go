package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

// WriteJSONResponse marshals v and writes it with the given status. A value that
// cannot be marshalled turns into a 500.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, v any) {
	resBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		WriteJSONErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	WriteResponseBytes(w, ContentType.JSON, resBytes, statusCode)
}

func WriteJSONErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	resBytes, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		// cannot happen for a plain string field
		resBytes = []byte(`{"error":"internal error"}`)
	}
	WriteResponseBytes(w, ContentType.JSON, resBytes, statusCode)
}
