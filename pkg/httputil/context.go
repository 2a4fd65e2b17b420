package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type ContextKey string

const (
	RequestIDCtxKey ContextKey = "RequestID"
	LogEntryCtxKey  ContextKey = "LogEntry"
)

// RequestID returns the id assigned by the RequestID middleware.
func RequestID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(RequestIDCtxKey).(string)
	return id, ok && id != ""
}

// PrettyJSON writes data indented by two spaces. HTML escaping is off because bodies carry SQL
// fragments such as "a < b". The encoding is buffered: when it fails nothing is written and the
// error is returned, so the caller can still send a response of its own.
func PrettyJSON(w http.ResponseWriter, statusCode int, data any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err := w.Write(buf.Bytes())
	return err
}
