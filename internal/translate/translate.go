package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"rosettasub/internal/language"
	"rosettasub/internal/subtitle"
)

// Translator re-renders a caption document with translated cue text and
// unchanged timestamps.
type Translator interface {
	TranslateDocument(ctx context.Context, document string) (string, error)
}

// Provider selects the translation backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Options configures a translator. SourceLanguage and TargetLanguage are
// short codes from the language table; SourceLanguage may be language.Auto.
type Options struct {
	SourceLanguage string
	TargetLanguage string
	Model          string

	// resolved names, filled by Factory
	sourceName string
	targetName string
}

// Factory validates the language pair and creates a translator. Unknown
// codes fail here, before any client is constructed or network touched.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	targetName, err := language.Resolve(opts.TargetLanguage)
	if err != nil {
		return nil, err
	}
	opts.targetName = targetName

	if opts.SourceLanguage != "" && opts.SourceLanguage != language.Auto {
		sourceName, err := language.Resolve(opts.SourceLanguage)
		if err != nil {
			return nil, err
		}
		opts.sourceName = sourceName
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// BuildPrompt embeds the full caption document in a single translation
// instruction. With an auto-detected source only the target is named.
func BuildPrompt(opts Options, document string) string {
	var instruction string
	if opts.sourceName == "" {
		instruction = fmt.Sprintf("Translate to %s.", opts.targetName)
	} else {
		instruction = fmt.Sprintf(
			"Translate from %s to %s.",
			opts.sourceName,
			opts.targetName,
		)
	}

	return instruction + " Translate the following VTT file. " +
		"Do not change timestamps. " +
		"Respond only with the translated VTT content.\n\n" +
		document
}

var codeFenceRegex = regexp.MustCompile("```(?:vtt|webvtt)?\\s*")

// cleanDocumentResponse strips markdown code fences the model may wrap the
// document in.
func cleanDocumentResponse(s string) string {
	s = strings.TrimSpace(s)
	s = codeFenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s) + "\n"
}

var timestampLineRegex = regexp.MustCompile(
	`\d{2}:\d{2}:\d{2}\.\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}\.\d{3}`,
)

// Validate re-parses the translated document and rejects it if the backend
// drifted: cue count must match and every timestamp line must be preserved
// byte-for-byte. The backend's output is untrusted.
func Validate(original, translated string) error {
	origDoc, err := subtitle.ParseVTT(strings.NewReader(original))
	if err != nil {
		return fmt.Errorf("original document does not parse: %w", err)
	}
	transDoc, err := subtitle.ParseVTT(strings.NewReader(translated))
	if err != nil {
		return fmt.Errorf(
			"translated document does not parse: %w (response starts: %q)",
			err,
			truncateString(translated, 80),
		)
	}

	if len(transDoc.Entries) != len(origDoc.Entries) {
		return fmt.Errorf(
			"translation changed cue count: %d -> %d",
			len(origDoc.Entries),
			len(transDoc.Entries),
		)
	}

	origLines := timestampLineRegex.FindAllString(original, -1)
	transLines := timestampLineRegex.FindAllString(translated, -1)
	if len(origLines) != len(transLines) {
		return fmt.Errorf(
			"translation changed timestamp line count: %d -> %d",
			len(origLines),
			len(transLines),
		)
	}
	for i := range origLines {
		if origLines[i] != transLines[i] {
			return fmt.Errorf(
				"translation altered timestamps in cue %d: %q -> %q",
				i+1,
				origLines[i],
				transLines[i],
			)
		}
	}

	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
