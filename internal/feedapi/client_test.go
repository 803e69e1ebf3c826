package feedapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(ts.URL, ts.Client(), Options{BreakerFailures: 3, BreakerTimeout: time.Minute})
}

func TestAddFeed_PostsJSONAndParsesSubscription(t *testing.T) {
	var gotMethod, gotPath, gotContentType, gotAccept, gotRequestID string
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"URL":"https://example.com/feed.xml","Title":"Example","Description":"ignored","Items":null}`))
	}))
	defer ts.Close()

	sub, err := newTestClient(ts).AddFeed(context.Background(), "https://example.com/feed.xml")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/feeds", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, map[string]string{"url": "https://example.com/feed.xml"}, gotBody)
	assert.Equal(t, Subscription{URL: "https://example.com/feed.xml", Title: "Example"}, sub)
}

func TestAddFeed_ServerErrorCarriesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch feed"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).AddFeed(context.Background(), "https://example.com/feed.xml")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Failed to fetch feed", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Equal(t, "Failed to fetch feed", UserMessage(err, "fallback"))
}

func TestAddFeed_ServerErrorWithoutMessageUsesFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).AddFeed(context.Background(), "https://example.com/feed.xml")
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
	assert.Equal(t, "server responded with status 502", GenericReason(err))
}

func TestListFeeds_PreservesServerOrderAndSkipsBlankURLs(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[
			{"URL":"https://b.example/rss","Title":"B","UpdatedAt":"2026-01-01T00:00:00Z"},
			{"URL":"","Title":"broken"},
			{"URL":"https://a.example/rss","Title":"A"}
		]`))
	}))
	defer ts.Close()

	subs, err := newTestClient(ts).ListFeeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/feeds", gotPath)
	assert.Equal(t, []Subscription{
		{URL: "https://b.example/rss", Title: "B"},
		{URL: "https://a.example/rss", Title: "A"},
	}, subs)
}

func TestGetFeed_SendsURLQueryAndDecodesItems(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`{
			"Title":"Example Feed",
			"Items":[
				{"Title":"One","Link":"https://example.com/1","PublishedAt":"2026-03-01T10:30:00Z","Description":"<p>desc</p>","Content":"<p>content</p>"},
				{"Title":"Two","Link":"https://example.com/2","PublishedAt":"2026-03-02T10:30:00Z","Content":"<p>only content</p>"}
			]
		}`))
	}))
	defer ts.Close()

	snap, err := newTestClient(ts).GetFeed(context.Background(), "https://example.com/feed.xml?x=1&y=2")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/feed.xml?x=1&y=2", gotQuery)
	assert.Equal(t, "Example Feed", snap.Title)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), snap.Items[0].PublishedAt.UTC())
	assert.Equal(t, "<p>desc</p>", snap.Items[0].Body())
	assert.Equal(t, "<p>only content</p>", snap.Items[1].Body())
}

func TestGetFeed_MalformedBodyIsServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Title":`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).GetFeed(context.Background(), "https://example.com/feed.xml")
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
}

func TestDeleteFeed_AcceptsEmptyBody(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("url")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	err := newTestClient(ts).DeleteFeed(context.Background(), "https://example.com/feed.xml")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/feed", gotPath)
	assert.Equal(t, "https://example.com/feed.xml", gotQuery)
}

func TestClient_NetworkFailureIsNetworkKind(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(ts)
	ts.Close()

	err := client.DeleteFeed(context.Background(), "https://example.com/feed.xml")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, "could not reach the feed service", GenericReason(err))
}

func TestClient_BreakerOpensAfterConsecutiveServerFailures(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := newTestClient(ts)
	for i := 0; i < 3; i++ {
		_, err := client.ListFeeds(context.Background())
		require.Error(t, err)
		assert.Equal(t, KindServer, KindOf(err))
	}

	_, err := client.ListFeeds(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid feed URL"}`))
	}))
	defer ts.Close()

	client := newTestClient(ts)
	for i := 0; i < 5; i++ {
		_, err := client.AddFeed(context.Background(), "https://example.com/feed.xml")
		require.Error(t, err)
		assert.Equal(t, "Invalid feed URL", UserMessage(err, ""))
	}
	assert.Equal(t, int32(5), hits.Load())
}

func TestExportURL_EscapesFeedURL(t *testing.T) {
	client := NewClient("http://localhost:8080/", nil, Options{})
	assert.Equal(t,
		"http://localhost:8080/export?url=https%3A%2F%2Fexample.com%2Ffeed.xml",
		client.ExportURL("https://example.com/feed.xml"),
	)
}
