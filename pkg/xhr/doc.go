// Package xhr wraps a single asynchronous HTTP transfer in a settle-once Promise.
//
// A transfer is configured with Options merged over DefaultOptions. Lifecycle
// callbacks (start, progress, load, error, abort, end) are plain fields on
// Callbacks; each receives the triggering Event and the promise's resolve and
// reject functions, so any callback may settle the result.
//
//	p := xhr.Send(ctx, "https://example.com/api/cart", nil)
//	cart, err := p.Await(ctx)
//
//	p = xhr.Send(ctx, "/templates/page.tmpl", &xhr.Options{ResponseType: xhr.ResponseText})
//
// The default load handler resolves with the decoded body on HTTP 200 and
// rejects otherwise; the default error and abort handlers reject with
// ErrRequestFailed and ErrRequestStopped.
package xhr
