package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRestyClientDoStreamsBody(t *testing.T) {
	var (
		gotMethod string
		gotHeader string
		gotBody   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Token")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Do(context.Background(), Request{
		Method:  "post",
		URL:     srv.URL,
		Headers: map[string]string{"X-Token": "abc"},
		Body:    strings.NewReader("payload"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	body := resp.Body()
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(raw) != "queued" {
		t.Fatalf("body = %q", raw)
	}
	if resp.StatusCode() != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if resp.ContentLength() != int64(len("queued")) {
		t.Fatalf("content length = %d", resp.ContentLength())
	}
	if resp.Header().Get("Content-Type") != "text/plain" {
		t.Fatalf("content type = %q", resp.Header().Get("Content-Type"))
	}
	if gotMethod != http.MethodPost || gotHeader != "abc" || gotBody != "payload" {
		t.Fatalf("server saw %s %q %q", gotMethod, gotHeader, gotBody)
	}
}

func TestRestyClientDoDefaultsToGet(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Do(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body().Close()
	if gotMethod != http.MethodGet {
		t.Fatalf("method = %s", gotMethod)
	}
}

func TestRestyClientDoCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRestyClient(0).Do(ctx, Request{URL: srv.URL}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestRestyClientSendsOnlyRequestHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Do(context.Background(), Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{"X-Test": "1"},
		Body:    strings.NewReader("name=x"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body().Close()
	got := <-headers

	for _, name := range []string{"User-Agent", "Content-Type", "Accept"} {
		if _, ok := got[name]; ok {
			t.Fatalf("unexpected %s header: %q", name, got.Get(name))
		}
	}
	if got.Get("X-Test") != "1" {
		t.Fatalf("X-Test = %q", got.Get("X-Test"))
	}
}

func TestRestyClientKeepsExplicitAgentAndType(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Headers: map[string]string{
			"user-agent":   "covid-board",
			"Content-Type": "application/json",
		},
		Body: strings.NewReader(`{}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body().Close()
	got := <-headers

	if got.Get("User-Agent") != "covid-board" || got.Get("Content-Type") != "application/json" {
		t.Fatalf("explicit headers lost: %v", got)
	}
	if _, ok := got["Accept"]; ok {
		t.Fatalf("unexpected Accept header: %q", got.Get("Accept"))
	}
}
