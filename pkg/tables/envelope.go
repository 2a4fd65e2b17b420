package tables

import "net/http"

// Status codes of an Envelope.
const (
	StatusSucceeded = http.StatusOK
	StatusFailed    = http.StatusInternalServerError
)

// Fixed response messages.
const (
	MsgQueryExecutionError   = "SQL statement execution not successful: "
	MsgInvalidBody           = "Request Body is not valid"
	MsgDBConnectionError     = "Failed to get database connection: "
	MsgQueryExecutionSuccess = "SQL Statement successfully executed "
	MsgLiveCheck             = "pgtables API is alive and well"
)

// Body is the JSON document of a response. Exactly one of Results and Error is set;
// use Results and Failure to build one.
type Body struct {
	Results any     `json:"results,omitempty"`
	Error   *string `json:"error,omitempty"`
}

// Envelope pairs a Body with the HTTP status it is sent with.
type Envelope struct {
	Status int
	Body   Body
}

// Results wraps a successful outcome. A nil v is sent as an empty object.
func Results(v any) Envelope {
	if v == nil {
		v = struct{}{}
	}
	return build(Body{Results: v})
}

// Failure wraps an error message.
func Failure(msg string) Envelope {
	return build(Body{Error: &msg})
}

// build derives the status from the body: an error means StatusFailed.
func build(body Body) Envelope {
	status := StatusSucceeded
	if body.Error != nil {
		status = StatusFailed
	}
	return Envelope{Status: status, Body: body}
}

// Err returns the error message, if any.
func (e Envelope) Err() (string, bool) {
	if e.Body.Error == nil {
		return "", false
	}
	return *e.Body.Error, true
}

// OK reports whether the envelope carries results.
func (e Envelope) OK() bool {
	_, failed := e.Err()
	return !failed
}
