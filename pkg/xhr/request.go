package xhr

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/samvad-hq/covid-board/pkg/httpclient"
)

// Requester issues transfers through an httpclient.Client.
type Requester struct {
	client httpclient.Client
	log    Logger
}

// NewRequester wires a requester. A nil client falls back to a resty client
// without a timeout; a nil logger discards output.
func NewRequester(client httpclient.Client, log Logger) *Requester {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	return &Requester{client: client, log: ensureLogger(log)}
}

var defaultRequester = sync.OnceValue(func() *Requester {
	return NewRequester(nil, nil)
})

// Send issues a transfer to url with the package default requester.
func Send(ctx context.Context, url string, opts *Options) *Promise {
	return defaultRequester().Send(ctx, url, opts)
}

// Send merges opts over DefaultOptions, starts the transfer and returns its
// Promise. Cancelling ctx aborts the transfer. The promise settles after the
// transfer's last event has been dispatched.
func (r *Requester) Send(ctx context.Context, url string, opts *Options) *Promise {
	p := newPromise()

	var user Options
	if opts != nil {
		user = *opts
	}
	merged := Merge(DefaultOptions(), user)
	if err := merged.validate(); err != nil {
		p.reject(err)
		return p
	}

	method := strings.ToUpper(strings.TrimSpace(merged.Method))
	payload, err := encodeBody(merged.Body)
	if err != nil {
		p.reject(err)
		return p
	}
	if !methodAllowsBody(method) {
		payload = encodedBody{}
	}
	if payload.r != nil {
		merged.Headers = withContentType(merged.Headers, payload.contentType)
	}
	body, size := payload.r, payload.size

	if ctx == nil {
		ctx = context.Background()
	}
	tctx, cancel := context.WithCancel(ctx)
	t := newTransfer(method, url, merged, cancel)

	// Handlers settle staged; p takes its outcome once the transfer has
	// dispatched loadend, so nothing of the transfer runs after Await returns.
	staged := newPromise()
	run := func() {
		defer p.settleFrom(staged)
		defer cancel()
		r.run(tctx, t, merged, body, size, staged)
	}
	if merged.async() {
		go run()
	} else {
		run()
	}
	return p
}

func (r *Requester) run(ctx context.Context, t *Transfer, opts Options, body io.Reader, size int64, p *Promise) {
	d := &dispatcher{
		t:        t,
		download: opts.Callbacks,
		upload:   opts.UploadCallbacks,
		resolve:  p.resolve,
		reject:   p.reject,
	}
	withUpload := body != nil

	r.log.DebugObj("xhr transfer opened", "xhr_transfer", map[string]any{
		"method":        t.Method,
		"url":           t.URL,
		"response_type": string(t.ResponseType),
		"upload":        withUpload,
	})

	d.fire(EventLoadStart, false, 0, -1)

	req := httpclient.Request{
		Method:  t.Method,
		URL:     t.URL,
		Headers: t.RequestHeaders,
	}
	if withUpload {
		d.fire(EventLoadStart, true, 0, size)
		req.Body = &progressReader{
			r:      body,
			onRead: func(loaded int64) { d.uploadProgress(loaded, size) },
		}
	}

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		r.fail(ctx, d, err, withUpload, size, 0)
		return
	}
	if withUpload {
		d.finishUpload(EventLoad, size)
	}

	t.Status = resp.StatusCode()
	t.StatusText = statusText(resp.Status(), t.Status)
	t.ResponseHeaders = resp.Header()

	total := resp.ContentLength()
	raw, loaded, err := readBody(resp, d, total)
	if err != nil {
		r.fail(ctx, d, err, false, size, loaded)
		return
	}
	t.Raw = raw
	t.Response = decodeResponse(t.ResponseType, raw)

	d.fire(EventLoad, false, loaded, total)
	d.fire(EventLoadEnd, false, loaded, total)

	r.log.DebugObj("xhr transfer completed", "xhr_transfer", map[string]any{
		"method": t.Method,
		"url":    t.URL,
		"status": t.Status,
		"bytes":  loaded,
	})
}

// fail fires abort or error (depending on how the transfer ended) on the
// upload channel if still open, then on the request itself.
func (r *Requester) fail(ctx context.Context, d *dispatcher, err error, withUpload bool, size, loaded int64) {
	d.setErr(err)

	typ := EventError
	if d.t.wasAborted(ctx) {
		typ = EventAbort
	}
	if withUpload {
		d.finishUpload(typ, size)
	}
	d.fire(typ, false, loaded, -1)
	d.fire(EventLoadEnd, false, loaded, -1)

	r.log.WarnObj("xhr transfer did not complete", "xhr_transfer", map[string]any{
		"method": d.t.Method,
		"url":    d.t.URL,
		"event":  string(typ),
		"error":  err.Error(),
	})
}

func readBody(resp httpclient.Response, d *dispatcher, total int64) ([]byte, int64, error) {
	rc := resp.Body()
	defer rc.Close()

	pr := &progressReader{
		r:      rc,
		onRead: func(loaded int64) { d.fire(EventProgress, false, loaded, total) },
	}
	var buf bytes.Buffer
	_, err := buf.ReadFrom(pr)
	return buf.Bytes(), pr.loaded, err
}

// statusText strips the numeric code from an HTTP status line ("404 Not Found").
func statusText(status string, code int) string {
	if text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), strconv.Itoa(code))); text != "" {
		return text
	}
	return http.StatusText(code)
}
