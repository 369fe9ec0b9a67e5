package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"rosettasub/internal/logging"
	"rosettasub/internal/media"
	"rosettasub/internal/subtitle"
	"rosettasub/internal/transcribe"
)

// ErrNotFound reports a referenced caption file that does not exist.
var ErrNotFound = errors.New("file not found")

// Normalizer prepares an input for transcription. Implemented by media.Tool.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath string) (*media.Normalized, error)
}

// DocumentTranslator translates one caption document. The pipeline receives
// a factory because the translator is bound to a language pair per request.
type DocumentTranslator interface {
	TranslateDocument(ctx context.Context, document string) (string, error)
}

// TranslatorFactory builds a translator for a language pair, validating the
// codes before anything touches the network.
type TranslatorFactory func(
	ctx context.Context,
	sourceLanguage, targetLanguage string,
) (DocumentTranslator, error)

// DocumentValidator checks a translated document against its original.
type DocumentValidator func(original, translated string) error

// Service sequences the two request-shaped workflows. All stages within a
// request run strictly sequentially.
type Service struct {
	ScratchDir    string
	Normalizer    Normalizer
	Transcriber   transcribe.Transcriber
	NewTranslator TranslatorFactory
	Validate      DocumentValidator
	Logger        *logging.Logger

	// Timeout bounds one request's subprocess and network calls. Zero means
	// no bound.
	Timeout time.Duration
}

// run tracks artifacts created during one pipeline invocation so every exit
// path can clean up after itself.
type run struct {
	created []string
}

func (r *run) track(path string) {
	r.created = append(r.created, path)
}

// claim transfers ownership of a successful output to the caller; discard
// will no longer touch it.
func (r *run) claim(path string) {
	for i, p := range r.created {
		if p == path {
			r.created = append(r.created[:i], r.created[i+1:]...)
			return
		}
	}
}

// discard removes everything still tracked.
func (r *run) discard() {
	for _, path := range r.created {
		_ = os.Remove(path)
	}
	r.created = nil
}

func (s *Service) logger() *logging.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logging.NewNop()
}

func (s *Service) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return context.WithCancel(ctx)
}

// Transcribe runs classify -> normalize -> transcribe -> format. It returns
// the caption document path and the video artifact path. The audio leg is an
// intermediate and is always removed before returning; on failure everything
// the run created, the upload included, is removed.
func (s *Service) Transcribe(
	ctx context.Context,
	inputPath string,
) (vttPath, videoPath string, err error) {
	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	r := &run{}
	r.track(inputPath)
	defer func() {
		if err != nil {
			r.discard()
		}
	}()

	normalized, err := s.Normalizer.Normalize(ctx, inputPath)
	if err != nil {
		return "", "", err
	}

	// exactly one leg is newly created; the other is the input itself
	if normalized.AudioPath != inputPath {
		r.track(normalized.AudioPath)
	}
	if normalized.VideoPath != inputPath {
		r.track(normalized.VideoPath)
	}

	s.logger().Infow("Media normalized",
		"kind", normalized.Kind.String(),
		"audio", normalized.AudioPath,
		"video", normalized.VideoPath,
	)

	result, err := s.Transcriber.Transcribe(ctx, normalized.AudioPath)
	if err != nil {
		return "", "", fmt.Errorf("transcription failed: %w", err)
	}

	s.logger().Infow("Transcription complete",
		"segments", len(result.Segments),
		"language", result.Language,
	)

	vttPath, err = subtitle.WriteVTT(result.Segments, s.ScratchDir, "")
	if err != nil {
		return "", "", err
	}
	r.track(vttPath)

	// only the video and the caption document survive the request
	if err := os.Remove(normalized.AudioPath); err != nil && !os.IsNotExist(err) {
		return "", "", fmt.Errorf("failed to remove audio artifact: %w", err)
	}
	r.claim(normalized.AudioPath)

	r.claim(vttPath)
	r.claim(normalized.VideoPath)
	r.claim(inputPath)

	return vttPath, normalized.VideoPath, nil
}

// Translate reads an existing caption document, translates it and writes the
// result alongside the original with a .translated.vtt suffix. A missing
// input is ErrNotFound.
func (s *Service) Translate(
	ctx context.Context,
	vttPath, sourceLanguage, targetLanguage string,
) (string, error) {
	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if _, err := os.Stat(vttPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, vttPath)
	}

	raw, err := os.ReadFile(vttPath)
	if err != nil {
		return "", fmt.Errorf("failed to read VTT file: %w", err)
	}
	document := string(raw)

	translator, err := s.NewTranslator(ctx, sourceLanguage, targetLanguage)
	if err != nil {
		return "", err
	}

	translated, err := translator.TranslateDocument(ctx, document)
	if err != nil {
		return "", err
	}

	if s.Validate != nil {
		if err := s.Validate(document, translated); err != nil {
			return "", fmt.Errorf("translation rejected: %w", err)
		}
	}

	outputPath := strings.TrimSuffix(vttPath, ".vtt") + ".translated.vtt"
	if err := os.WriteFile(outputPath, []byte(translated), 0644); err != nil {
		return "", fmt.Errorf("failed to write translated VTT file: %w", err)
	}

	s.logger().Infow("Translation written",
		"source", sourceLanguage,
		"target", targetLanguage,
		"output", outputPath,
	)

	return outputPath, nil
}
