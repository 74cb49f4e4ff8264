package xhr

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content types implied by the body kind, as a browser would label them.
const (
	contentTypeText = "text/plain;charset=UTF-8"
	contentTypeForm = "application/x-www-form-urlencoded;charset=UTF-8"
	contentTypeHTML = "text/html;charset=UTF-8"
)

// encodedBody is a request payload ready for the transport.
type encodedBody struct {
	r io.Reader
	// size is -1 when unknown.
	size int64
	// contentType is empty for raw bytes and readers.
	contentType string
}

// encodeBody turns Options.Body into a payload. A nil reader means no payload.
func encodeBody(body any) (encodedBody, error) {
	switch b := body.(type) {
	case nil:
		return encodedBody{}, nil
	case string:
		if b == "" {
			return encodedBody{}, nil
		}
		return encodedBody{strings.NewReader(b), int64(len(b)), contentTypeText}, nil
	case []byte:
		if len(b) == 0 {
			return encodedBody{}, nil
		}
		return encodedBody{bytes.NewReader(b), int64(len(b)), ""}, nil
	case url.Values:
		enc := b.Encode()
		if enc == "" {
			return encodedBody{}, nil
		}
		return encodedBody{strings.NewReader(enc), int64(len(enc)), contentTypeForm}, nil
	case *goquery.Document:
		if b == nil {
			return encodedBody{}, nil
		}
		html, err := b.Html()
		if err != nil {
			return encodedBody{}, fmt.Errorf("xhr: render document body: %w", err)
		}
		return encodedBody{strings.NewReader(html), int64(len(html)), contentTypeHTML}, nil
	case io.Reader:
		return encodedBody{b, -1, ""}, nil
	default:
		s := fmt.Sprint(b)
		return encodedBody{strings.NewReader(s), int64(len(s)), contentTypeText}, nil
	}
}

// withContentType returns headers plus contentType unless the caller already
// chose one.
func withContentType(headers map[string]string, contentType string) map[string]string {
	if contentType == "" {
		return headers
	}
	for name := range headers {
		if http.CanonicalHeaderKey(name) == "Content-Type" {
			return headers
		}
	}
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["Content-Type"] = contentType
	return out
}

// methodAllowsBody mirrors browsers, which drop the payload of GET and HEAD.
func methodAllowsBody(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}
