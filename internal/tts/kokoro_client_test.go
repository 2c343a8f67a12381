package tts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedURL returns the address of a listener that has already been closed,
// so connections to it are refused.
func closedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}

func TestKokoroClient_Synthesize(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x04, 0x00, 0xff}
	var got SpeechRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer srv.Close()

	client := NewKokoroClient(srv.URL+"/", nil)
	out, err := client.Synthesize(context.Background(), SpeechRequest{
		Model:          Model,
		Input:          "Hello",
		Voice:          "af_bella(2)+af_sky(1)",
		Speed:          1.25,
		ResponseFormat: "mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, audio, out)

	assert.Equal(t, "kokoro", got.Model)
	assert.Equal(t, "Hello", got.Input)
	assert.Equal(t, "af_bella(2)+af_sky(1)", got.Voice)
	assert.Equal(t, 1.25, got.Speed)
	assert.Equal(t, "mp3", got.ResponseFormat)
}

func TestKokoroClient_SynthesizeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewKokoroClient(srv.URL, nil).Synthesize(context.Background(), SpeechRequest{Input: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "voice not found")
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Equal(t, FailureRejected, Classify(err))
}

func TestKokoroClient_SynthesizeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewKokoroClient(srv.URL, nil).Synthesize(ctx, SpeechRequest{Input: "x"})
	require.Error(t, err)
	assert.Equal(t, FailureTimeout, Classify(err))
}

func TestKokoroClient_ListVoices(t *testing.T) {
	catalog := `{"voices":["af_bella","am_adam"]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/audio/voices", r.URL.Path)
		_, _ = w.Write([]byte(catalog))
	}))
	defer srv.Close()

	out, err := NewKokoroClient(srv.URL, nil).ListVoices(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, catalog, string(out))
}

func TestKokoroClient_ListVoicesInvalid(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) }},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not json")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewKokoroClient(srv.URL, nil).ListVoices(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestKokoroClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, NewKokoroClient(srv.URL, nil).Ping(context.Background()))
}

func TestKokoroClient_PingRefused(t *testing.T) {
	err := NewKokoroClient(closedURL(t), nil).Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, FailureConnection, Classify(err))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"api error", fmt.Errorf("wrapped: %w", &APIError{StatusCode: 503, Body: "down"}), FailureRejected},
		{"deadline", fmt.Errorf("failed to make request: %w", context.DeadlineExceeded), FailureTimeout},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, FailureConnection},
		{"dns", &net.DNSError{Err: "no such host", Name: "kokoro"}, FailureConnection},
		{"refused text", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), FailureConnection},
		{"other", errors.New("disk full"), FailureInternal},
		{"cancelled", context.Canceled, FailureInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []string{"mp3", "wav", "opus"} {
		got, err := ParseFormat(f)
		require.NoError(t, err)
		assert.Equal(t, AudioFormat(f), got)
	}

	_, err := ParseFormat("flac")
	assert.Error(t, err)
}

func TestDefaultVoices(t *testing.T) {
	voices := DefaultVoices()
	require.Len(t, voices, 9)

	seen := make(map[string]bool)
	for _, v := range voices {
		assert.NotEmpty(t, v.Name)
		assert.Equal(t, "en", v.Language)
		assert.False(t, seen[v.Name], "duplicate voice %s", v.Name)
		seen[v.Name] = true
	}
	assert.True(t, seen["af_bella"])
	assert.True(t, seen["bm_lewis"])
}
