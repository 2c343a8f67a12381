package speech

import (
	"context"

	"github.com/lexiqai/kokoro-tts-mcp/internal/observability"
	"github.com/lexiqai/kokoro-tts-mcp/internal/tts"
)

// ServiceState is the three-way outcome of the health probe
type ServiceState string

const (
	StateOnline  ServiceState = "online"
	StateOffline ServiceState = "offline"
	StateUnknown ServiceState = "unknown"
)

const (
	onlineMessage  = "Kokoro TTS service is running and accessible"
	offlineMessage = "Cannot connect to Kokoro TTS service. " +
		"Ensure the Kokoro container is running: 'systemctl --user status kokoro-tts' " +
		"or 'docker ps --filter name=kokoro'"
)

// StatusResult is the outcome of check_status
type StatusResult struct {
	Status  string       `json:"status"`
	Service ServiceState `json:"service"`
	BaseURL string       `json:"base_url"`
	Message string       `json:"message"`
}

// StateOf maps a probe error to a ServiceState
func StateOf(err error) ServiceState {
	switch {
	case err == nil:
		return StateOnline
	case tts.Classify(err) == tts.FailureConnection:
		return StateOffline
	default:
		return StateUnknown
	}
}

// CheckStatus probes the backend and reports online, offline or unknown.
// The configured base URL is echoed in every case.
func (s *Service) CheckStatus(ctx context.Context) StatusResult {
	logger := observability.ForTool("check_status")
	logger.Info().Msg("Checking Kokoro TTS service status")

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeoutDuration())
	defer cancel()

	err := s.client.Ping(callCtx)
	state := StateOf(err)

	result := StatusResult{
		Status:  StatusError,
		Service: state,
		BaseURL: s.cfg.KokoroBaseURL,
	}

	switch state {
	case StateOnline:
		result.Status = StatusSuccess
		result.Message = onlineMessage
		observability.UpdateBackendState(1)
	case StateOffline:
		result.Message = offlineMessage
		observability.UpdateBackendState(2)
	case StateUnknown:
		result.Message = "Error checking service: " + err.Error()
		observability.UpdateBackendState(0)
	}

	logger.Info().Str("service", string(state)).Msg("Service status checked")
	observability.RecordToolCall("check_status", state == StateOnline)
	return result
}

// Ready adapts the probe for the HTTP readiness endpoint
func (s *Service) Ready(ctx context.Context) (bool, error) {
	if err := s.client.Ping(ctx); err != nil {
		return false, err
	}
	return true, nil
}
