package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"peerprep/interview/internal/models"
)

// Service converts between audio and text via an external speech
// provider. Provider failures never fail a request: callers get a
// sentinel response with UseBrowserFallback set and the client falls
// back to the Web Speech API.
type Service interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) *models.TranscriptionResponse
	Synthesize(ctx context.Context, text string) *models.SynthesisResponse
}

// Client talks to an HTTP speech provider (STT + TTS endpoints).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		baseURL: os.Getenv("SPEECH_API_URL"),
		apiKey:  os.Getenv("SPEECH_API_KEY"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Configured reports whether a provider endpoint is set at all. An
// unconfigured client always signals browser fallback.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type providerTranscription struct {
	Text string `json:"text"`
}

type providerSynthesis struct {
	AudioBase64 string `json:"audio"`
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) *models.TranscriptionResponse {
	fallback := &models.TranscriptionResponse{Success: false, UseBrowserFallback: true}
	if !c.Configured() {
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcribe", bytes.NewReader(audio))
	if err != nil {
		return fallback
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("speech provider unreachable, signalling browser fallback", zap.Error(err))
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("speech provider rejected transcription",
			zap.Int("status", resp.StatusCode))
		return fallback
	}

	var out providerTranscription
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fallback
	}

	return &models.TranscriptionResponse{
		Success:  true,
		Text:     out.Text,
		Provider: "speech-api",
	}
}

func (c *Client) Synthesize(ctx context.Context, text string) *models.SynthesisResponse {
	fallback := &models.SynthesisResponse{Success: false, UseBrowserFallback: true}
	if !c.Configured() {
		return fallback
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synthesize", bytes.NewReader(payload))
	if err != nil {
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("speech provider unreachable, signalling browser fallback", zap.Error(err))
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("speech provider rejected synthesis",
			zap.Int("status", resp.StatusCode))
		return fallback
	}

	var out providerSynthesis
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fallback
	}
	if out.AudioBase64 == "" {
		return fallback
	}
	// validate the payload is actually base64 before handing it on
	if _, err := base64.StdEncoding.DecodeString(out.AudioBase64); err != nil {
		return fallback
	}

	return &models.SynthesisResponse{
		Success:     true,
		AudioBase64: out.AudioBase64,
		Provider:    "speech-api",
	}
}
