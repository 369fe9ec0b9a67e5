package cli

import (
	"context"
	"fmt"

	"rosettasub/internal/config"
	"rosettasub/internal/media"
	"rosettasub/internal/pipeline"
	"rosettasub/internal/server"
	"rosettasub/internal/transcribe"
	"rosettasub/internal/translate"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the subtitle HTTP backend",
	Long: `Run the HTTP backend that powers the subtitle web frontend.

The server accepts media uploads on /api/v1/transcribe, translates existing
caption documents via /api/v1/translate and serves generated artifacts from
/api/v1/files/{name}. All configuration comes from the environment (a .env
file is honored); the scratch directory is swept clean at startup.

Examples:
  rosettasub serve
  ROSETTASUB_ADDR=:9000 rosettasub serve
  ROSETTASUB_TRANSLATE_PROVIDER=anthropic rosettasub serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := server.Sweep(cfg.ScratchDir); err != nil {
		return fmt.Errorf("failed to sweep scratch directory: %w", err)
	}

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}

	return server.New(cfg, logger, svc).ListenAndServe()
}

// newService wires the media tool, transcriber and translator factory into
// a pipeline service from the loaded configuration.
func newService(ctx context.Context, cfg *config.Config) (*pipeline.Service, error) {
	transcriber, err := transcribe.Cached(
		ctx,
		transcribe.Provider(cfg.TranscribeProvider),
		cfg.OpenAIAPIKey,
		transcribe.Options{ModelSize: cfg.WhisperModel},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	return &pipeline.Service{
		ScratchDir:    cfg.ScratchDir,
		Normalizer:    media.NewTool(),
		Transcriber:   transcriber,
		NewTranslator: translatorFactory(cfg),
		Validate:      translate.Validate,
		Logger:        logger,
		Timeout:       cfg.PipelineTimeout,
	}, nil
}

// translatorFactory builds per-request translators for the configured
// provider. Language codes are validated inside translate.Factory before any
// client is constructed.
func translatorFactory(cfg *config.Config) pipeline.TranslatorFactory {
	return func(
		ctx context.Context,
		sourceLanguage, targetLanguage string,
	) (pipeline.DocumentTranslator, error) {
		return translate.Factory(
			ctx,
			translate.Provider(cfg.TranslateProvider),
			cfg.TranslateAPIKey(),
			translate.Options{
				SourceLanguage: sourceLanguage,
				TargetLanguage: targetLanguage,
				Model:          cfg.TranslateModel,
			},
		)
	}
}
