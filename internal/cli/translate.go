package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rosettasub/internal/language"
	"rosettasub/internal/translate"

	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate a WebVTT caption file to another language using AI",
	Long: `Translate an existing WebVTT caption file to another language using AI.

The whole document is translated in a single request and the result is
checked against the original: the translated file must keep the same cue
count and identical timestamps, otherwise the command fails.

Languages are given as short codes from the built-in table (en, es, fr, de,
ja, ...). The source language defaults to auto-detection.

Examples:
  rosettasub translate video.vtt --target-language es
  rosettasub translate video.vtt -t ja -l en --provider anthropic
  rosettasub translate video.vtt -t fr -o video.fr.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language short code (required)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific default)")
	translateCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("target-language")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	providerStr, _ := cmd.Flags().GetString("provider")
	outputPath, _ := cmd.Flags().GetString("output")
	sourceLang, _ := cmd.Flags().GetString("language")

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	if ext := strings.ToLower(filepath.Ext(subtitlePath)); ext != ".vtt" {
		return fmt.Errorf("unsupported subtitle format %q: use .vtt", ext)
	}

	provider := translate.Provider(providerStr)

	if apiKey == "" {
		switch provider {
		case translate.ProviderGemini:
			apiKey = os.Getenv("GEMINI_API_KEY")
		case translate.ProviderOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		case translate.ProviderAnthropic:
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Model:          model,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	raw, err := os.ReadFile(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to read subtitle file: %w", err)
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(subtitlePath, ".vtt") + ".translated.vtt"
	}

	sourceLabel := sourceLang
	if sourceLabel == "" {
		sourceLabel = language.Auto
	}

	logger.Infow("Starting translation",
		"input", subtitlePath,
		"output", outputPath,
		"source_language", sourceLabel,
		"target_language", targetLang,
		"provider", providerStr,
	)

	translated, err := translator.TranslateDocument(ctx, string(raw))
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if err := translate.Validate(string(raw), translated); err != nil {
		return fmt.Errorf("translation rejected: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(translated), 0644); err != nil {
		return fmt.Errorf("failed to write translated file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Captions translated successfully: %s\n", absOutput)

	return nil
}
