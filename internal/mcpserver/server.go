// Package mcpserver exposes the speech operations as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexiqai/kokoro-tts-mcp/internal/config"
	"github.com/lexiqai/kokoro-tts-mcp/internal/speech"
	"github.com/lexiqai/kokoro-tts-mcp/internal/tts"
)

// Name is the MCP implementation name announced to clients
const Name = "kokoro-tts"

const instructions = "Text-to-speech through a Kokoro server. Use generate_speech to synthesize audio, " +
	"list_voices to discover voices and the blend syntax, and check_status when synthesis fails."

// GenerateSpeechInput is the argument object of generate_speech
type GenerateSpeechInput struct {
	Text         string   `json:"text" jsonschema:"Text to convert to speech"`
	Voice        string   `json:"voice,omitempty" jsonschema:"Voice to use. Single voice (e.g. 'af_bella') or blended (e.g. 'af_bella(2)+af_sky(1)'). Available: af_bella, af_sky, af_nicole, am_adam, am_michael, bf_emma, bf_isabella, bm_george, bm_lewis"`
	Speed        *float64 `json:"speed,omitempty" jsonschema:"Speech speed multiplier (0.5-2.0)"`
	OutputFormat string   `json:"output_format,omitempty" jsonschema:"Audio format: mp3, wav, or opus"`
	SaveToFile   *bool    `json:"save_to_file,omitempty" jsonschema:"Whether to save audio to file (returns path) or return base64 data"`
}

// NoInput is the argument object of the parameterless tools
type NoInput struct{}

// New builds an MCP server with generate_speech, list_voices and check_status registered
func New(svc *speech.Service, cfg *config.Config, version string) (*mcp.Server, error) {
	schema, err := generateSpeechSchema(cfg)
	if err != nil {
		return nil, err
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Title:   "Kokoro Text-to-Speech",
		Version: version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_speech",
		Title:       "Generate speech",
		Description: "Generate speech from text using Kokoro TTS. Returns a file path or base64 audio plus metadata.",
		InputSchema: schema,
		Annotations: &mcp.ToolAnnotations{
			Title:          "Kokoro Text-to-Speech",
			ReadOnlyHint:   false,
			IdempotentHint: true, // same text, voice and format overwrite the same file
			OpenWorldHint:  ptr(true),
		},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GenerateSpeechInput) (*mcp.CallToolResult, any, error) {
		result := svc.GenerateSpeech(ctx, speech.GenerateParams{
			Text:       in.Text,
			Voice:      in.Voice,
			Speed:      in.Speed,
			Format:     in.OutputFormat,
			SaveToFile: in.SaveToFile,
		})
		return &mcp.CallToolResult{IsError: result.Failed()}, result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_voices",
		Title:       "List voices",
		Description: "List available voices and voice blending information.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		return nil, svc.ListVoices(ctx), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_status",
		Title:       "Check status",
		Description: "Check if the Kokoro TTS service is running and accessible.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		result := svc.CheckStatus(ctx)
		return &mcp.CallToolResult{IsError: result.Service != speech.StateOnline}, result, nil
	})

	return server, nil
}

// HTTPHandler serves server over the streamable HTTP transport
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

// generateSpeechSchema infers the input schema and adds the bounds, enum and
// defaults the struct tags cannot express.
func generateSpeechSchema(cfg *config.Config) (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[GenerateSpeechInput](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer generate_speech schema: %w", err)
	}

	props := schema.Properties
	for _, name := range []string{"text", "voice", "speed", "output_format", "save_to_file"} {
		if props[name] == nil {
			return nil, fmt.Errorf("generate_speech schema is missing property %q", name)
		}
	}

	props["text"].MinLength = ptr(1)

	props["voice"].Default = mustJSON(cfg.DefaultVoice)

	props["speed"].Minimum = ptr(config.MinSpeed)
	props["speed"].Maximum = ptr(config.MaxSpeed)
	props["speed"].Default = mustJSON(cfg.DefaultSpeed)

	formats := make([]any, 0, len(tts.Formats))
	for _, f := range tts.Formats {
		formats = append(formats, string(f))
	}
	props["output_format"].Enum = formats
	props["output_format"].Default = mustJSON(string(tts.FormatMP3))

	props["save_to_file"].Default = mustJSON(true)

	return schema, nil
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func ptr[T any](v T) *T { return &v }
