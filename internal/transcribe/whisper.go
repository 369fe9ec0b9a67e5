package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"rosettasub/internal/subtitle"
)

//go:embed assets/whisper_segments.py
var whisperScript []byte

// WhisperTranscriber runs the pretrained whisper model in-process on the
// machine via a python helper and parses its JSON output.
type WhisperTranscriber struct {
	model  string
	python string
}

func NewWhisperTranscriber(opts Options) (*WhisperTranscriber, error) {
	model, err := normalizeModelSize(opts.ModelSize)
	if err != nil {
		return nil, err
	}

	python := os.Getenv("ROSETTASUB_PYTHON")
	if python == "" {
		python = "python3"
	}

	return &WhisperTranscriber{model: model, python: python}, nil
}

// JSON emitted by the helper script.
type whisperOutput struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (t *WhisperTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	scriptPath, err := writeHelperScript()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.Remove(scriptPath)
	}()

	cmd := exec.CommandContext(ctx, t.python, scriptPath,
		"--audio", audioPath,
		"--model", t.model,
	)
	cmd.Env = os.Environ()

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf(
				"whisper inference failed: %s",
				strings.TrimSpace(string(exitErr.Stderr)),
			)
		}
		return nil, fmt.Errorf("failed to run whisper helper: %w", err)
	}

	var parsed whisperOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}

	return parseWhisperOutput(&parsed, t.model)
}

// writeHelperScript materializes the embedded helper under a unique name so
// concurrent transcriptions never share or delete each other's copy.
func writeHelperScript() (string, error) {
	f, err := os.CreateTemp("", "rosettasub_whisper_*.py")
	if err != nil {
		return "", fmt.Errorf("failed to write helper script: %w", err)
	}
	if _, err := f.Write(whisperScript); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write helper script: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write helper script: %w", err)
	}
	return f.Name(), nil
}

func parseWhisperOutput(parsed *whisperOutput, model string) (*Result, error) {
	segments := make([]subtitle.Segment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			StartTime: time.Duration(seg.Start * float64(time.Second)),
			EndTime:   time.Duration(seg.End * float64(time.Second)),
			Text:      text,
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("model %s produced no speech segments", model)
	}

	return &Result{
		Segments: segments,
		Language: parsed.Language,
		Duration: time.Duration(parsed.Duration * float64(time.Second)),
	}, nil
}
