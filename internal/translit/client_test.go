package translit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, calls *int32, fail bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		text := r.URL.Query().Get("text")
		fmt.Fprintf(w, `["SUCCESS",[["%s",["अनुवादित"],[],{}]]]`, text)
	}))
}

func TestTranslateTextEmptyInputSkipsNetwork(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, false)
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL}, nil)
	assert.Equal(t, "", client.TranslateText(context.Background(), ""))
	assert.Equal(t, "", client.TranslateText(context.Background(), "   "))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTranslateTextSuccess(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, false)
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL}, nil)
	got := client.TranslateText(context.Background(), "hello village")
	assert.Equal(t, "अनुवादित", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTranslateTextFailureEchoesInput(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, true)
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL}, nil)
	got := client.TranslateText(context.Background(), "some unknown phrase")
	assert.Equal(t, "some unknown phrase", got)
}

func TestTranslateTextFailureUsesDictionary(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, true)
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL}, nil)
	got := client.TranslateText(context.Background(), "Gram Panchayat")
	assert.Equal(t, "ग्रामपंचायत", got)
}

func TestTranslatePropagatesFailure(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, true)
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL}, nil)
	_, err := client.Translate(context.Background(), "some unknown phrase")
	require.Error(t, err)
}

func TestTranslateDictionaryHitSkipsNetwork(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, true)
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL}, nil)
	got, err := client.Translate(context.Background(), "birth certificate")
	require.NoError(t, err)
	assert.Equal(t, "जन्म प्रमाणपत्र", got)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTranslateTextChunksLongInput(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, false)
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL, Timeout: time.Second, ChunkSize: 50}, nil)
	long := strings.Repeat("word ", 40)
	got := client.TranslateText(context.Background(), long)

	require.Greater(t, atomic.LoadInt32(&calls), int32(1))
	assert.Contains(t, got, "। ")
}

func TestSplitChunksRespectsLimit(t *testing.T) {
	chunks := splitChunks(strings.Repeat("abcde ", 30), 50)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 50)
	}
}

func TestToDevanagariDigits(t *testing.T) {
	assert.Equal(t, "१२३४-५६७८", ToDevanagariDigits("1234-5678"))
	assert.Equal(t, "no digits", ToDevanagariDigits("no digits"))
}
