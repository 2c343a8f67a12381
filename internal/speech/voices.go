package speech

import (
	"context"

	"github.com/lexiqai/kokoro-tts-mcp/internal/observability"
	"github.com/lexiqai/kokoro-tts-mcp/internal/tts"
)

// VoicesResult is the outcome of list_voices. Voices holds either the
// backend catalog verbatim or the built-in fallback table.
type VoicesResult struct {
	Status       string `json:"status"`
	Voices       any    `json:"voices"`
	BlendingInfo string `json:"blending_info"`
	Note         string `json:"note,omitempty"`
}

// Fallback reports whether the built-in catalog was served
func (r VoicesResult) Fallback() bool { return r.Note != "" }

// ListVoices returns the live catalog, or the static one when the backend
// cannot be queried. It never fails.
func (s *Service) ListVoices(ctx context.Context) VoicesResult {
	logger := observability.ForTool("list_voices")
	logger.Info().Msg("Listing available voices")

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeoutDuration())
	defer cancel()

	catalog, err := s.client.ListVoices(callCtx)
	if err == nil {
		logger.Info().Int("size_bytes", len(catalog)).Msg("Retrieved voices from API")
		observability.RecordToolCall("list_voices", true)
		return VoicesResult{
			Status:       StatusSuccess,
			Voices:       catalog,
			BlendingInfo: tts.BlendingInfo,
		}
	}

	logger.Warn().Err(err).Str("error_kind", tts.Classify(err).String()).Msg("Could not fetch voices from API")
	observability.RecordFallbackCatalog()
	observability.RecordToolCall("list_voices", true)
	return VoicesResult{
		Status:       StatusSuccess,
		Voices:       tts.DefaultVoices(),
		BlendingInfo: tts.BlendingInfo,
		Note:         tts.FallbackNote,
	}
}
