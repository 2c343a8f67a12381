package tts

import (
	"context"
	"encoding/json"
	"fmt"
)

// Model is the model name sent in every synthesis payload
const Model = "kokoro"

// AudioFormat is an output container accepted by the backend
type AudioFormat string

const (
	FormatMP3  AudioFormat = "mp3"
	FormatWAV  AudioFormat = "wav"
	FormatOpus AudioFormat = "opus"
)

// Formats lists every supported output format
var Formats = []AudioFormat{FormatMP3, FormatWAV, FormatOpus}

// ParseFormat validates a caller-supplied format name
func ParseFormat(s string) (AudioFormat, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (expected mp3, wav or opus)", s)
}

// SpeechRequest is the OpenAI-compatible synthesis payload
type SpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"` // opaque, may be a blend like af_bella(2)+af_sky(1)
	Speed          float64 `json:"speed"`
	ResponseFormat string  `json:"response_format"`
}

// Voice describes one entry of the voice catalog
type Voice struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// Client is the backend surface used by the speech bridge
type Client interface {
	// BaseURL returns the configured backend root
	BaseURL() string

	// Synthesize returns the full audio body for one request
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)

	// ListVoices returns the backend catalog exactly as served
	ListVoices(ctx context.Context) (json.RawMessage, error)

	// Ping issues the lightweight reachability request
	Ping(ctx context.Context) error
}
