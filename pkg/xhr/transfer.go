package xhr

import (
	"context"
	"maps"
	"net/http"
	"sync/atomic"
)

// Transfer is the request object a transfer's handlers observe. Response
// fields are filled in before the load event fires.
type Transfer struct {
	Method         string
	URL            string
	ResponseType   ResponseType
	// RequestHeaders are the caller's headers plus the content type implied
	// by the body, if the caller set none.
	RequestHeaders map[string]string

	Status          int
	StatusText      string
	ResponseHeaders http.Header
	// Raw is the undecoded response body.
	Raw []byte
	// Response is Raw decoded according to ResponseType; nil when decoding
	// produced nothing.
	Response any

	err     error
	cancel  context.CancelFunc
	aborted atomic.Bool
}

func newTransfer(method, url string, opts Options, cancel context.CancelFunc) *Transfer {
	return &Transfer{
		Method:         method,
		URL:            url,
		ResponseType:   opts.ResponseType,
		RequestHeaders: maps.Clone(opts.Headers),
		cancel:         cancel,
	}
}

// Abort stops the transfer. If it has not completed yet, the abort
// callbacks fire instead of load or error. Safe to call from any goroutine.
func (t *Transfer) Abort() {
	if t == nil {
		return
	}
	t.aborted.Store(true)
	if t.cancel != nil {
		t.cancel()
	}
}

// Err returns the transport failure behind an error event, if any.
func (t *Transfer) Err() error {
	if t == nil {
		return nil
	}
	return t.err
}

func (t *Transfer) wasAborted(ctx context.Context) bool {
	return t.aborted.Load() || ctx.Err() == context.Canceled
}
