package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	ffmpegbin "rosettasub/internal/ffmpeg"
)

// runner executes the media tool with an explicit argument list and returns
// captured stderr.
type runner interface {
	Run(ctx context.Context, args []string) (stderr string, err error)
}

// libraryInvoker is the second execution strategy: an in-process binding of
// the same tool. A nil invocation means the operation has no library
// equivalent and the direct run must produce the output itself.
type libraryInvoker func(ctx context.Context, inputPath, outputPath string) error

type execRunner struct{}

func (execRunner) Run(ctx context.Context, args []string) (string, error) {
	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stderr.String(), fmt.Errorf("ffmpeg failed: %w", err)
	}
	return stderr.String(), nil
}

// Tool is the single entry point for media-tool invocations. It tries a
// direct subprocess run first; when the run reports success but the declared
// output is missing, it retries once through the library binding. Either way
// the output must exist afterwards.
type Tool struct {
	runner runner
}

// NewTool returns a Tool backed by the resolved ffmpeg binary.
func NewTool() *Tool {
	return &Tool{runner: execRunner{}}
}

func (t *Tool) convert(
	ctx context.Context,
	args []string,
	inputPath, outputPath string,
	fallback libraryInvoker,
) error {
	stderr, err := t.runner.Run(ctx, args)
	if err != nil {
		return fmt.Errorf("%w (stderr: %s)", err, stderr)
	}

	if _, statErr := os.Stat(outputPath); os.IsNotExist(statErr) && fallback != nil {
		if err := fallback(ctx, inputPath, outputPath); err != nil {
			return fmt.Errorf("media tool fallback failed: %w", err)
		}
	}

	if _, statErr := os.Stat(outputPath); os.IsNotExist(statErr) {
		return fmt.Errorf(
			"media tool reported success but produced no output at %s",
			outputPath,
		)
	}

	return nil
}

func libraryExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	return ffmpeggo.Input(inputPath).
		Output(outputPath, ffmpeggo.KwArgs{
			"map":    "a",
			"q:a":    "2",
			"acodec": "libmp3lame",
		}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
}
