package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  "test",
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
}

func TestTranscribe_Unconfigured_SignalsFallback(t *testing.T) {
	c := newTestClient("")

	resp := c.Transcribe(context.Background(), []byte("audio"), "audio/webm")
	if resp.Success || !resp.UseBrowserFallback {
		t.Fatalf("expected browser fallback sentinel, got %+v", resp)
	}
}

func TestTranscribe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transcribe" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello there"})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp := c.Transcribe(context.Background(), []byte("audio"), "audio/webm")

	if !resp.Success || resp.Text != "hello there" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.UseBrowserFallback {
		t.Fatal("fallback must not be set on success")
	}
}

func TestTranscribe_ProviderDown_SignalsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp := c.Transcribe(context.Background(), []byte("audio"), "audio/webm")

	if resp.Success || !resp.UseBrowserFallback {
		t.Fatalf("expected browser fallback sentinel, got %+v", resp)
	}
}

func TestSynthesize_Success(t *testing.T) {
	audio := base64.StdEncoding.EncodeToString([]byte("pcm-bytes"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/synthesize" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"audio": audio})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp := c.Synthesize(context.Background(), "hello")

	if !resp.Success || resp.AudioBase64 != audio {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSynthesize_BadPayload_SignalsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"audio": "%%%not-base64%%%"})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp := c.Synthesize(context.Background(), "hello")

	if resp.Success || !resp.UseBrowserFallback {
		t.Fatalf("expected browser fallback sentinel, got %+v", resp)
	}
}
