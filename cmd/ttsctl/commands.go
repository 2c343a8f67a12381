package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexiqai/kokoro-tts-mcp/internal/config"
	"github.com/lexiqai/kokoro-tts-mcp/internal/observability"
	"github.com/lexiqai/kokoro-tts-mcp/internal/speech"
	"github.com/lexiqai/kokoro-tts-mcp/internal/storage"
	"github.com/lexiqai/kokoro-tts-mcp/internal/tts"
)

// loadService is replaced in tests
var loadService = func() (*speech.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}
	writer, err := storage.NewAudioWriter(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return speech.NewService(cfg, tts.NewKokoroClient(cfg.KokoroBaseURL, &http.Client{}), writer), nil
}

// NewRootCommand builds the ttsctl command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ttsctl",
		Short:         "Kokoro text-to-speech from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewSpeakCommand(), NewVoicesCommand(), NewStatusCommand())
	return root
}

// NewSpeakCommand synthesizes the given text
func NewSpeakCommand() *cobra.Command {
	var (
		voice  string
		speed  float64
		format string
		inline bool
	)

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Generate speech from text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}

			params := speech.GenerateParams{
				Text:   strings.Join(args, " "),
				Voice:  voice,
				Format: format,
			}
			if cmd.Flags().Changed("speed") {
				params.Speed = &speed
			}
			if inline {
				save := false
				params.SaveToFile = &save
			}

			result := svc.GenerateSpeech(cmd.Context(), params)
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Failed() {
				return fmt.Errorf("speech generation failed: %s", result.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "voice or blend, e.g. af_bella(2)+af_sky(1) (default from DEFAULT_VOICE)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "speed multiplier between 0.5 and 2.0 (default from DEFAULT_SPEED)")
	cmd.Flags().StringVar(&format, "format", "mp3", "audio format: mp3, wav or opus")
	cmd.Flags().BoolVar(&inline, "inline", false, "print base64 audio instead of writing a file")
	return cmd
}

// NewVoicesCommand lists the voice catalog
func NewVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List available voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.ListVoices(cmd.Context()))
		},
	}
}

// NewStatusCommand probes the backend
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"s"},
		Short:   "Check whether the Kokoro backend is reachable",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			result := svc.CheckStatus(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Service != speech.StateOnline {
				return fmt.Errorf("kokoro is %s", result.Service)
			}
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
