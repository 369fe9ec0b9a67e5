package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rosettasub/internal/language"
	"rosettasub/internal/media"
	"rosettasub/internal/subtitle"
	"rosettasub/internal/transcribe"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate WebVTT captions for an audio or video file",
	Long: `Generate WebVTT captions for the specified audio or video file using
speech recognition.

The command accepts both audio files (mp3, wav, flac, aac) and video files
(mp4, mov, avi, mkv). For video files, audio is extracted before
transcription. Transcription runs locally through whisper by default; pass
--provider openai to use the hosted Whisper API instead.

Examples:
  rosettasub generate video.mp4
  rosettasub generate podcast.mp3 --model small -o podcast.vtt
  rosettasub generate talk.mov --provider openai --api-key YOUR_KEY
  rosettasub generate interview.wav -l de`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		String("provider", "whisper", "Transcription provider (whisper, openai)")
	generateCmd.Flags().
		String("model", transcribe.DefaultModelSize, "Whisper model size (tiny, base, small, medium, large)")
	generateCmd.Flags().
		StringP("api-key", "k", "", "OpenAI API key for --provider openai (or set OPENAI_API_KEY)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}

	kind, err := media.Classify(mediaPath)
	if err != nil {
		return fmt.Errorf(
			"unsupported file type %s: expected an audio or video file",
			filepath.Ext(mediaPath),
		)
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	modelSize, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	outputPath, _ := cmd.Flags().GetString("output")
	sourceLang, _ := cmd.Flags().GetString("language")

	provider := transcribe.Provider(providerStr)
	if provider == transcribe.ProviderOpenAI && apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if sourceLang != "" && !language.IsKnown(sourceLang) {
		return fmt.Errorf("unknown language code %q", sourceLang)
	}
	if sourceLang == language.Auto {
		sourceLang = ""
	}

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		ModelSize: modelSize,
		Language:  sourceLang,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".vtt"
	}

	logger.Infow("Starting caption generation",
		"input", mediaPath,
		"output", outputPath,
		"provider", providerStr,
		"model", modelSize,
	)

	audioPath := mediaPath
	if kind == media.KindVideo {
		logger.Infow("Extracting audio from video")

		audioPath, err = media.NewTool().ExtractAudio(ctx, mediaPath)
		if err != nil {
			return fmt.Errorf("failed to extract audio: %w", err)
		}
		defer os.Remove(audioPath)
	}

	if dur, err := media.Duration(ctx, audioPath); err == nil {
		logger.Infow("Audio prepared", "duration", dur.String())
	}

	result, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"segments", len(result.Segments),
		"language", result.Language,
		"duration", result.Duration.String(),
	)

	written, err := subtitle.WriteVTT(result.Segments, filepath.Dir(outputPath), outputPath)
	if err != nil {
		return fmt.Errorf("failed to write captions: %w", err)
	}

	absOutput, _ := filepath.Abs(written)
	fmt.Printf("Captions generated successfully: %s\n", absOutput)
	fmt.Printf("  Cues: %d\n", len(result.Segments))
	fmt.Printf("  Duration: %s\n", result.Duration.String())

	return nil
}
