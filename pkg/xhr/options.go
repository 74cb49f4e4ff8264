package xhr

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// Options configures a transfer. Zero-valued fields are "not set" and take
// the value of whatever they are merged over.
type Options struct {
	// Method is the request verb. Default GET.
	Method string
	// Async runs the transfer on its own goroutine. Default true; when false
	// Send returns an already settled Promise.
	Async *bool
	// ResponseType selects how the response body is decoded. Default json.
	ResponseType ResponseType
	// Body is the request payload: string, []byte, io.Reader, url.Values or
	// *goquery.Document. Other values are sent as their fmt.Sprint form.
	Body any
	// Headers are set on the request as given. No defaults are added.
	Headers map[string]string
	// Callbacks bind to the request's own lifecycle.
	Callbacks Callbacks
	// UploadCallbacks bind to the payload channel and only fire when a
	// payload is sent.
	UploadCallbacks Callbacks
}

// Bool returns a pointer to v, for Options.Async.
func Bool(v bool) *bool {
	return &v
}

// DefaultOptions returns a fresh copy of the documented defaults.
func DefaultOptions() Options {
	return Options{
		Method:       http.MethodGet,
		Async:        Bool(true),
		ResponseType: ResponseJSON,
		Body:         "",
		Headers:      map[string]string{},
		Callbacks: Callbacks{
			Load:  defaultLoad,
			Error: defaultError,
			Abort: defaultAbort,
		},
	}
}

// Merge layers user over defaults into a new Options. Headers are merged
// key by key and callbacks handler by handler; every other field set in
// user replaces the default outright. Neither input is modified.
func Merge(defaults, user Options) Options {
	out := defaults
	out.Async = copyBool(defaults.Async)
	out.Headers = mergeHeaders(defaults.Headers, user.Headers)
	out.Callbacks = defaults.Callbacks.merge(user.Callbacks)
	out.UploadCallbacks = defaults.UploadCallbacks.merge(user.UploadCallbacks)

	if user.Method != "" {
		out.Method = user.Method
	}
	if user.Async != nil {
		out.Async = copyBool(user.Async)
	}
	if user.ResponseType != "" {
		out.ResponseType = user.ResponseType
	}
	if user.Body != nil {
		out.Body = user.Body
	}
	return out
}

func (o Options) async() bool {
	return o.Async == nil || *o.Async
}

func (o Options) validate() error {
	if !o.ResponseType.valid() {
		return fmt.Errorf("%w %q", ErrUnsupportedResponseType, o.ResponseType)
	}
	if o.Method == "" {
		return errors.New("xhr: method is empty")
	}
	return nil
}

func mergeHeaders(defaults, user map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(user))
	maps.Copy(out, defaults)
	maps.Copy(out, user)
	return out
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func defaultLoad(ev *Event, resolve ResolveFunc, reject RejectFunc) {
	t := ev.Target
	if t.Status != http.StatusOK {
		reject(&StatusError{Code: t.Status, Text: t.StatusText})
		return
	}
	if isEmptyResponse(t.Response) {
		reject(ErrEmptyResponse)
		return
	}
	resolve(t.Response)
}

func defaultError(ev *Event, _ ResolveFunc, reject RejectFunc) {
	if err := ev.Target.Err(); err != nil {
		reject(fmt.Errorf("%w: %w", ErrRequestFailed, err))
		return
	}
	reject(ErrRequestFailed)
}

func defaultAbort(_ *Event, _ ResolveFunc, reject RejectFunc) {
	reject(ErrRequestStopped)
}
