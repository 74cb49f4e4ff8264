package xhr

import (
	"bytes"
	"encoding/json"

	"github.com/PuerkitoBio/goquery"
)

// ResponseType selects how a response body is decoded into Transfer.Response.
type ResponseType string

const (
	// ResponseJSON decodes into any (map[string]any, []any, float64, ...).
	ResponseJSON ResponseType = "json"
	// ResponseText yields a string.
	ResponseText ResponseType = "text"
	// ResponseBlob yields the raw []byte.
	ResponseBlob ResponseType = "blob"
	// ResponseArrayBuffer yields the raw []byte.
	ResponseArrayBuffer ResponseType = "arraybuffer"
	// ResponseDocument parses the body as HTML into a *goquery.Document.
	ResponseDocument ResponseType = "document"
)

func (rt ResponseType) valid() bool {
	switch rt {
	case ResponseJSON, ResponseText, ResponseBlob, ResponseArrayBuffer, ResponseDocument:
		return true
	default:
		return false
	}
}

// decodeResponse never fails: bodies that cannot be decoded yield nil.
func decodeResponse(rt ResponseType, body []byte) any {
	switch rt {
	case ResponseText:
		return string(body)
	case ResponseBlob, ResponseArrayBuffer:
		if len(body) == 0 {
			return nil
		}
		return body
	case ResponseDocument:
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil
		}
		return doc
	default:
		if len(body) == 0 {
			return nil
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil
		}
		return v
	}
}

// isEmptyResponse reports the decoded values the default load handler
// treats as "no payload".
func isEmptyResponse(v any) bool {
	switch r := v.(type) {
	case nil:
		return true
	case string:
		return r == ""
	case bool:
		return !r
	case float64:
		return r == 0
	case []byte:
		return len(r) == 0
	case *goquery.Document:
		return r == nil
	default:
		return false
	}
}
