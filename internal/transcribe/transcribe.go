package transcribe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rosettasub/internal/subtitle"
)

// Result is a completed transcription.
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

// Transcriber turns an audio file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// Provider selects the transcription backend.
type Provider string

const (
	// ProviderWhisper runs the pretrained model locally.
	ProviderWhisper Provider = "whisper"
	// ProviderOpenAI calls the hosted inference API.
	ProviderOpenAI Provider = "openai"
)

// Model size tags for the local whisper backend.
const DefaultModelSize = "base"

var validModelSizes = map[string]bool{
	"tiny":   true,
	"base":   true,
	"small":  true,
	"medium": true,
	"large":  true,
}

// Options configures a transcriber.
type Options struct {
	// ModelSize is a whisper size tag (tiny, base, small, medium, large).
	// Defaults to base.
	ModelSize string
	// Language hints the source language to the backend; empty means detect.
	Language string
}

// Factory creates a transcriber for the given provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderWhisper:
		return NewWhisperTranscriber(opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", provider)
	}
}

var (
	cacheMu sync.Mutex
	cache   = map[string]Transcriber{}
)

// Cached returns a process-wide transcriber keyed by provider and model
// size. Model loading can be expensive; the cached instance must return the
// same segments a fresh one would.
func Cached(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	size := opts.ModelSize
	if size == "" {
		size = DefaultModelSize
	}
	key := string(provider) + ":" + size

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if t, ok := cache[key]; ok {
		return t, nil
	}

	t, err := Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return nil, err
	}
	cache[key] = t
	return t, nil
}

func normalizeModelSize(size string) (string, error) {
	if size == "" {
		return DefaultModelSize, nil
	}
	if !validModelSizes[size] {
		return "", fmt.Errorf(
			"unsupported model size %q: use tiny, base, small, medium or large",
			size,
		)
	}
	return size, nil
}
