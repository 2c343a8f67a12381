package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexiqai/kokoro-tts-mcp/internal/observability"
)

const (
	speechPath = "/v1/audio/speech"
	voicesPath = "/v1/audio/voices"
)

// KokoroClient implements Client against a Kokoro server's OpenAI-compatible API.
// Deadlines come from the caller's context; the client itself never retries.
type KokoroClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewKokoroClient creates a new Kokoro TTS client
func NewKokoroClient(baseURL string, httpClient *http.Client) *KokoroClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &KokoroClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend root this client talks to
func (c *KokoroClient) BaseURL() string {
	return c.baseURL
}

// Synthesize posts one speech request and reads the whole audio body
func (c *KokoroClient) Synthesize(ctx context.Context, req SpeechRequest) (audio []byte, err error) {
	started := time.Now()
	defer func() { c.record(speechPath, started, err) }()

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechPath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp)
	}

	audio, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	return audio, nil
}

// ListVoices fetches the voice catalog. Anything but a 200 with a valid JSON
// body is reported as an error.
func (c *KokoroClient) ListVoices(ctx context.Context) (catalog json.RawMessage, err error) {
	started := time.Now()
	defer func() { c.record(voicesPath, started, err) }()

	resp, err := c.get(ctx, voicesPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voices response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("voices response is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// Ping issues the voices GET purely as a reachability check; any 2xx passes
func (c *KokoroClient) Ping(ctx context.Context) (err error) {
	started := time.Now()
	defer func() { c.record("ping", started, err) }()

	resp, err := c.get(ctx, voicesPath)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *KokoroClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

func (c *KokoroClient) record(endpoint string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = Classify(err).String()
	}
	observability.RecordBackendRequest(endpoint, outcome, started)
}
