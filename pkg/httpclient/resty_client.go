package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
// A zero timeout leaves transfers unbounded. Only the headers of a Request
// go on the wire: resty's User-Agent, guessed Content-Type and Accept are
// removed before sending.
func NewRestyClient(timeout time.Duration) *RestyClient {
	c := newRestyBaseClient(timeout)
	c.SetPreRequestHook(stripImplicitHeaders)
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do performs the request and hands back the unread response body.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}

	req := r.client.R().
		SetContext(context.WithValue(ctx, explicitHeadersKey{}, in.Headers)).
		SetDoNotParseResponse(true)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if in.Body != nil {
		req.SetBody(in.Body)
	}

	resp, err := req.Execute(method, in.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

type explicitHeadersKey struct{}

// implicitHeaders are filled in by resty when absent.
var implicitHeaders = []string{"User-Agent", "Content-Type", "Accept"}

func stripImplicitHeaders(_ *resty.Client, req *http.Request) error {
	explicit, _ := req.Context().Value(explicitHeadersKey{}).(map[string]string)
	set := make(map[string]bool, len(explicit))
	for name := range explicit {
		set[http.CanonicalHeaderKey(name)] = true
	}

	for _, name := range implicitHeaders {
		if set[name] {
			continue
		}
		req.Header.Del(name)
	}
	if !set["User-Agent"] {
		// An empty value keeps net/http from adding its own agent.
		req.Header["User-Agent"] = []string{""}
	}
	return nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Status() string      { return r.resp.Status() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }

func (r *restyResponseAdapter) ContentLength() int64 {
	if r.resp.RawResponse == nil {
		return -1
	}
	return r.resp.RawResponse.ContentLength
}

func (r *restyResponseAdapter) Body() io.ReadCloser {
	if body := r.resp.RawBody(); body != nil {
		return body
	}
	return io.NopCloser(strings.NewReader(""))
}
