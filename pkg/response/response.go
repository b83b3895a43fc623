package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the success body shape: {"status":"success","results":N,"data":{...}}.
// Results is only present on list-style responses.
type Envelope struct {
	Status  string      `json:"status"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func write(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	write(w, statusCode, Envelope{Status: "success", Data: data})
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// List writes a success envelope carrying a result count alongside the data.
func List(w http.ResponseWriter, results int, data interface{}) {
	write(w, http.StatusOK, Envelope{Status: "success", Results: &results, Data: data})
}

// CreatedList is List with a 201, used when a generation run returns the
// batch of notes it created.
func CreatedList(w http.ResponseWriter, results int, data interface{}) {
	write(w, http.StatusCreated, Envelope{Status: "success", Results: &results, Data: data})
}

func NoContent(w http.ResponseWriter) {
	write(w, http.StatusNoContent, Envelope{Status: "success"})
}

// Error writes {"status":"fail"|"error","message":...}. 4xx statuses are
// "fail", everything else "error".
func Error(w http.ResponseWriter, statusCode int, message string) {
	status := "error"
	if statusCode >= 400 && statusCode < 500 {
		status = "fail"
	}
	write(w, statusCode, errorBody{Status: status, Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// LimitExceeded writes the 429 body for a consumed daily LLM quota, carrying
// the next reset as epoch milliseconds.
func LimitExceeded(w http.ResponseWriter, message string, nextReset time.Time) {
	write(w, http.StatusTooManyRequests, struct {
		Status       string `json:"status"`
		Message      string `json:"message"`
		LimitReached bool   `json:"limitReached"`
		NextReset    int64  `json:"nextReset"`
	}{
		Status:       "fail",
		Message:      message,
		LimitReached: true,
		NextReset:    nextReset.UnixMilli(),
	})
}
