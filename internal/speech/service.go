// Package speech implements the three operations exposed to agents: speech
// generation, voice listing and the backend health probe. Every operation
// returns a tagged result; backend failures never surface as Go errors.
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"github.com/lexiqai/kokoro-tts-mcp/internal/config"
	"github.com/lexiqai/kokoro-tts-mcp/internal/observability"
	"github.com/lexiqai/kokoro-tts-mcp/internal/tts"
)

// Result status tags
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorKindInvalidInput marks requests rejected before any backend call
const ErrorKindInvalidInput = "invalid_input"

// AudioStore persists audio and returns the stored path
type AudioStore interface {
	Write(name string, data []byte) (string, error)
}

// GenerateParams are the caller-supplied arguments of generate_speech.
// Nil or empty optional fields fall back to the configured defaults.
type GenerateParams struct {
	Text       string
	Voice      string
	Speed      *float64
	Format     string
	SaveToFile *bool
}

// SpeechResult is the outcome of generate_speech
type SpeechResult struct {
	Status       string  `json:"status"`
	FilePath     string  `json:"file_path,omitempty"`
	AudioData    string  `json:"audio_data,omitempty"`
	SizeBytes    int     `json:"size_bytes,omitempty"`
	Voice        string  `json:"voice,omitempty"`
	Speed        float64 `json:"speed,omitempty"`
	Format       string  `json:"format,omitempty"`
	TextPreview  string  `json:"text_preview,omitempty"`
	BlendingInfo string  `json:"blending_info,omitempty"`
	Error        string  `json:"error,omitempty"`
	ErrorKind    string  `json:"error_kind,omitempty"`
}

// Failed reports whether the result carries an error
func (r SpeechResult) Failed() bool { return r.Status != StatusSuccess }

// Service bridges tool calls to the Kokoro backend
type Service struct {
	cfg    *config.Config
	client tts.Client
	store  AudioStore
}

// NewService wires the bridge. cfg is read-only from here on.
func NewService(cfg *config.Config, client tts.Client, store AudioStore) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
		store:  store,
	}
}

// GenerateSpeech validates the request, performs exactly one synthesis call
// and delivers the audio as a file or as base64.
func (s *Service) GenerateSpeech(ctx context.Context, params GenerateParams) SpeechResult {
	logger := observability.ForTool("generate_speech")

	req, saveToFile, err := s.resolve(params)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected speech request")
		observability.RecordToolCall("generate_speech", false)
		return SpeechResult{Status: StatusError, Error: err.Error(), ErrorKind: ErrorKindInvalidInput}
	}

	logger.Info().
		Str("voice", req.Voice).
		Float64("speed", req.Speed).
		Str("format", req.ResponseFormat).
		Bool("save_to_file", saveToFile).
		Int("text_length", len(req.Input)).
		Msg("Generating speech")

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout())
	defer cancel()

	audio, err := s.client.Synthesize(callCtx, req)
	if err != nil {
		result := s.failure(err)
		logger.Error().Err(err).Str("error_kind", result.ErrorKind).Msg("Speech generation failed")
		observability.RecordToolCall("generate_speech", false)
		return result
	}

	logger.Info().Int("size_bytes", len(audio)).Msg("Generated audio")

	result := SpeechResult{
		Status:       StatusSuccess,
		SizeBytes:    len(audio),
		Voice:        req.Voice,
		Speed:        req.Speed,
		Format:       req.ResponseFormat,
		TextPreview:  TextPreview(req.Input),
		BlendingInfo: tts.BlendingInfo,
	}

	if saveToFile {
		name := OutputFilename(req.Input, req.Voice, req.ResponseFormat)
		path, err := s.store.Write(name, audio)
		if err != nil {
			logger.Error().Err(err).Str("file", name).Msg("Failed to save audio")
			observability.RecordToolCall("generate_speech", false)
			return SpeechResult{Status: StatusError, Error: err.Error(), ErrorKind: tts.FailureInternal.String()}
		}
		logger.Info().Str("path", path).Msg("Saved audio")
		result.FilePath = path
		observability.RecordAudioBytes("file", len(audio))
	} else {
		result.AudioData = base64.StdEncoding.EncodeToString(audio)
		observability.RecordAudioBytes("inline", len(audio))
	}

	observability.RecordToolCall("generate_speech", true)
	return result
}

// resolve applies defaults and enforces the input bounds
func (s *Service) resolve(params GenerateParams) (tts.SpeechRequest, bool, error) {
	if params.Text == "" {
		return tts.SpeechRequest{}, false, fmt.Errorf("text is required")
	}

	voice := params.Voice
	if voice == "" {
		voice = s.cfg.DefaultVoice
	}

	speed := s.cfg.DefaultSpeed
	if params.Speed != nil {
		speed = *params.Speed
	}
	if math.IsNaN(speed) || speed < config.MinSpeed || speed > config.MaxSpeed {
		return tts.SpeechRequest{}, false, fmt.Errorf("speed must be between %.1f and %.1f, got %g", config.MinSpeed, config.MaxSpeed, speed)
	}

	format := tts.FormatMP3
	if params.Format != "" {
		f, err := tts.ParseFormat(params.Format)
		if err != nil {
			return tts.SpeechRequest{}, false, err
		}
		format = f
	}

	saveToFile := true
	if params.SaveToFile != nil {
		saveToFile = *params.SaveToFile
	}

	return tts.SpeechRequest{
		Model:          tts.Model,
		Input:          params.Text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: string(format),
	}, saveToFile, nil
}

// failure converts a backend error into an error result
func (s *Service) failure(err error) SpeechResult {
	kind := tts.Classify(err)
	result := SpeechResult{Status: StatusError, ErrorKind: kind.String(), Error: err.Error()}

	var apiErr *tts.APIError
	switch {
	case kind == tts.FailureTimeout:
		result.Error = fmt.Sprintf("Request timed out after %ds", s.cfg.Timeout)
	case errors.As(err, &apiErr):
		result.Error = apiErr.Error()
	}
	return result
}
