package jewelfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPageRetriesThenSucceeds(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><h1 class="product-title">Ok</h1></body></html>`))
	}))
	defer server.Close()

	app := newTestScraper(server.URL)
	app.retryDelay = time.Millisecond

	doc, err := app.GetPage(context.Background(), server.URL+"/product/1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
	assert.Equal(t, "Ok", doc.Find(".product-title").Text())
}

func TestGetPageExhaustsRetries(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	app := newTestScraper(server.URL)
	app.Config.MaxRetries = 2
	app.retryDelay = time.Millisecond

	_, err := app.GetPage(context.Background(), server.URL+"/product/1")
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 2, fetchErr.Attempts)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestGetPageSendsBrowserHeaders(t *testing.T) {
	var gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	app := NewScraper(JobConfig{BaseUrl: server.URL, UserAgent: "jewelfeed-test", MaxRetries: 1}, newTestLogger())

	_, err := app.GetPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "jewelfeed-test", gotUserAgent)
	assert.Equal(t, "en-US,en;q=0.5", gotAccept)
}

func TestGetPageUnreachableHost(t *testing.T) {
	app := newTestScraper("http://127.0.0.1:1")
	app.Config.MaxRetries = 1
	app.retryDelay = time.Millisecond

	_, err := app.GetPage(context.Background(), "http://127.0.0.1:1/nothing")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "http://127.0.0.1:1/nothing", fetchErr.Url)
}
