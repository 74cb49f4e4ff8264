package httpclient

import (
	"context"
	"io"
	"net/http"
)

// Request describes a single outbound HTTP call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
}

// Response is a minimal streamed HTTP response contract.
// Callers own the reader returned by Body and must close it.
type Response interface {
	StatusCode() int
	Status() string
	Header() http.Header
	ContentLength() int64
	Body() io.ReadCloser
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
