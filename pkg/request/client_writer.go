package request

import "net/http"

// ClientWriter wraps a http.ResponseWriter and records the status code
// written, for metrics emitted after the handler returns.
type ClientWriter struct {
	http.ResponseWriter

	// statusCode is the status code written to the client.
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader implements the http.ResponseWriter interface.
func (c *ClientWriter) WriteHeader(statusCode int) {
	c.statusCode = statusCode
	c.ResponseWriter.WriteHeader(statusCode)
}

// StatusCode returns the status code written to the client. Defaults to 200
// when the handler never called WriteHeader.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}
