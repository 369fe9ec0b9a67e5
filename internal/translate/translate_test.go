package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rosettasub/internal/language"
)

const sampleVTT = "WEBVTT\n\n" +
	"1\n00:00:01.000 --> 00:00:05.000\nHello, world!\n\n" +
	"2\n00:00:05.250 --> 00:00:08.900\nNext cue text.\n\n"

func TestFactoryReturnsGeminiTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "ja"}
	translator, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderGemini) returned error: %v", err)
	}
	if _, ok := translator.(*GeminiTranslator); !ok {
		t.Errorf("expected *GeminiTranslator, got %T", translator)
	}
}

func TestFactoryReturnsOpenAITranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "es"}
	translator, err := Factory(ctx, ProviderOpenAI, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := translator.(*OpenAITranslator); !ok {
		t.Errorf("expected *OpenAITranslator, got %T", translator)
	}
}

func TestFactoryReturnsAnthropicTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "fr"}
	translator, err := Factory(ctx, ProviderAnthropic, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderAnthropic) returned error: %v", err)
	}
	if _, ok := translator.(*AnthropicTranslator); !ok {
		t.Errorf("expected *AnthropicTranslator, got %T", translator)
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	ctx := context.Background()
	if _, err := Factory(ctx, ProviderGemini, "fake-key", Options{}); err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRejectsUnknownTargetCode(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "klingon"}
	_, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err == nil {
		t.Fatal("expected error for unknown target language code")
	}
	var unknownErr *language.ErrUnknownCode
	if !errors.As(err, &unknownErr) {
		t.Errorf("expected ErrUnknownCode, got %v", err)
	}
}

func TestFactoryRejectsUnknownSourceCode(t *testing.T) {
	ctx := context.Background()
	opts := Options{SourceLanguage: "xx", TargetLanguage: "es"}
	if _, err := Factory(ctx, ProviderGemini, "fake-key", opts); err == nil {
		t.Error("expected error for unknown source language code")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "fr"}
	if _, err := Factory(ctx, Provider("deepl"), "fake-key", opts); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildPromptNamesBothLanguages(t *testing.T) {
	opts := Options{sourceName: "English", targetName: "Japanese"}
	prompt := BuildPrompt(opts, sampleVTT)

	if !strings.HasPrefix(prompt, "Translate from English to Japanese.") {
		t.Errorf("unexpected instruction prefix: %q", prompt[:60])
	}
	if !strings.Contains(prompt, "Do not change timestamps.") {
		t.Error("prompt must demand timestamp preservation")
	}
	if !strings.HasSuffix(prompt, sampleVTT) {
		t.Error("prompt must embed the document verbatim")
	}
}

func TestBuildPromptAutoDetectOmitsSource(t *testing.T) {
	opts := Options{targetName: "Japanese"}
	prompt := BuildPrompt(opts, sampleVTT)

	if !strings.HasPrefix(prompt, "Translate to Japanese.") {
		t.Errorf("unexpected instruction prefix: %q", prompt[:40])
	}
	if strings.Contains(prompt, "Translate from") {
		t.Error("auto-detect prompt must not name a source language")
	}
}

func TestCleanDocumentResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", sampleVTT, strings.TrimSpace(sampleVTT) + "\n"},
		{
			"fenced",
			"```vtt\n" + sampleVTT + "```",
			strings.TrimSpace(sampleVTT) + "\n",
		},
		{
			"bare fence",
			"```\n" + sampleVTT + "\n```",
			strings.TrimSpace(sampleVTT) + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanDocumentResponse(tt.in)
			if got != tt.want {
				t.Errorf("cleanDocumentResponse mismatch:\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestValidateAcceptsFaithfulTranslation(t *testing.T) {
	translated := "WEBVTT\n\n" +
		"1\n00:00:01.000 --> 00:00:05.000\nBonjour, le monde !\n\n" +
		"2\n00:00:05.250 --> 00:00:08.900\nTexte suivant.\n\n"

	if err := Validate(sampleVTT, translated); err != nil {
		t.Errorf("Validate rejected a faithful translation: %v", err)
	}
}

func TestValidateFlagsCueCountDrift(t *testing.T) {
	translated := "WEBVTT\n\n" +
		"1\n00:00:01.000 --> 00:00:05.000\nBonjour.\n\n"

	if err := Validate(sampleVTT, translated); err == nil {
		t.Error("expected error for dropped cue")
	}
}

func TestValidateFlagsTimestampDrift(t *testing.T) {
	translated := "WEBVTT\n\n" +
		"1\n00:00:01.000 --> 00:00:05.000\nBonjour.\n\n" +
		"2\n00:00:05.300 --> 00:00:08.900\nTexte.\n\n"

	err := Validate(sampleVTT, translated)
	if err == nil {
		t.Fatal("expected error for altered timestamp")
	}
	if !strings.Contains(err.Error(), "timestamps") {
		t.Errorf("expected timestamp drift error, got: %v", err)
	}
}

func TestValidateFlagsUnparseableOutput(t *testing.T) {
	if err := Validate(sampleVTT, "Sure! Here is the translation."); err == nil {
		t.Error("expected error for non-VTT model output")
	}
}
