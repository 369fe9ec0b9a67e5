package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path    string
		want    Kind
		wantErr bool
	}{
		{"clip.mp3", KindAudio, false},
		{"clip.wav", KindAudio, false},
		{"clip.flac", KindAudio, false},
		{"clip.aac", KindAudio, false},
		{"clip.mp4", KindVideo, false},
		{"clip.mov", KindVideo, false},
		{"clip.avi", KindVideo, false},
		{"clip.mkv", KindVideo, false},
		{"CLIP.MP4", KindVideo, false},
		{"notes.txt", KindUnsupported, true},
		{"clip", KindUnsupported, true},
		{"clip.webm", KindUnsupported, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Classify(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Classify(%q) expected error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify(%q) returned error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// spyRunner records invocations and simulates the tool by creating the
// output path named in the argument list.
type spyRunner struct {
	calls      [][]string
	createOut  bool
	failStderr string
}

func (s *spyRunner) Run(ctx context.Context, args []string) (string, error) {
	s.calls = append(s.calls, args)
	if s.failStderr != "" {
		return s.failStderr, fmt.Errorf("ffmpeg failed: exit status 1")
	}
	if s.createOut {
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("media"), 0644); err != nil {
			return "", err
		}
	}
	return "", nil
}

func TestExtractAudioReturnsSiblingMP3(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "input.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	spy := &spyRunner{createOut: true}
	tool := &Tool{runner: spy}

	audioPath, err := tool.ExtractAudio(context.Background(), videoPath)
	if err != nil {
		t.Fatalf("ExtractAudio returned error: %v", err)
	}

	if !strings.HasSuffix(audioPath, ".mp3") {
		t.Errorf("expected .mp3 output, got %s", audioPath)
	}
	if _, err := os.Stat(audioPath); err != nil {
		t.Errorf("output file missing: %v", err)
	}

	wantArgs := []string{
		"-i", videoPath,
		"-q:a", "2",
		"-map", "a",
		"-c:a", "libmp3lame",
		audioPath,
	}
	if len(spy.calls) != 1 {
		t.Fatalf("expected 1 tool invocation, got %d", len(spy.calls))
	}
	if strings.Join(spy.calls[0], " ") != strings.Join(wantArgs, " ") {
		t.Errorf(
			"argument list mismatch:\ngot:  %v\nwant: %v",
			spy.calls[0], wantArgs,
		)
	}
}

func TestSynthesizeVideoArgumentList(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "input.wav")
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	spy := &spyRunner{createOut: true}
	tool := &Tool{runner: spy}

	videoPath, err := tool.SynthesizeVideo(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("SynthesizeVideo returned error: %v", err)
	}

	if !strings.HasSuffix(videoPath, ".mp4") {
		t.Errorf("expected .mp4 output, got %s", videoPath)
	}

	wantArgs := []string{
		"-i", audioPath,
		"-f", "lavfi",
		"-i", "color=c=black:s=1280x720:r=24",
		"-shortest",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-pix_fmt", "yuv420p",
		"-y",
		videoPath,
	}
	if strings.Join(spy.calls[0], " ") != strings.Join(wantArgs, " ") {
		t.Errorf(
			"argument list mismatch:\ngot:  %v\nwant: %v",
			spy.calls[0], wantArgs,
		)
	}
}

func TestNormalizeVideoInputKeepsVideoPath(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := &Tool{runner: &spyRunner{createOut: true}}
	normalized, err := tool.Normalize(context.Background(), videoPath)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if normalized.VideoPath != videoPath {
		t.Errorf(
			"expected original video path %s, got %s",
			videoPath, normalized.VideoPath,
		)
	}
	if !strings.HasSuffix(normalized.AudioPath, ".mp3") {
		t.Errorf("expected .mp3 audio leg, got %s", normalized.AudioPath)
	}
	if _, err := os.Stat(normalized.AudioPath); err != nil {
		t.Errorf("audio leg missing on disk: %v", err)
	}
}

func TestNormalizeAudioInputKeepsAudioPath(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := &Tool{runner: &spyRunner{createOut: true}}
	normalized, err := tool.Normalize(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if normalized.AudioPath != audioPath {
		t.Errorf(
			"expected original audio path %s, got %s",
			audioPath, normalized.AudioPath,
		)
	}
	if !strings.HasSuffix(normalized.VideoPath, ".mp4") {
		t.Errorf("expected .mp4 video leg, got %s", normalized.VideoPath)
	}
}

func TestNormalizeRejectsUnsupportedBeforeInvocation(t *testing.T) {
	spy := &spyRunner{createOut: true}
	tool := &Tool{runner: spy}

	_, err := tool.Normalize(context.Background(), "notes.txt")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if len(spy.calls) != 0 {
		t.Errorf(
			"media tool must not be invoked for unsupported input, got %d calls",
			len(spy.calls),
		)
	}
}

func TestConvertSurfacesStderrOnFailure(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	spy := &spyRunner{failStderr: "Invalid data found when processing input"}
	tool := &Tool{runner: spy}

	_, err := tool.ExtractAudio(context.Background(), videoPath)
	if err == nil {
		t.Fatal("expected error from failing tool")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("error should carry captured stderr, got: %v", err)
	}
}

func TestConvertFailsWhenOutputMissing(t *testing.T) {
	dir := t.TempDir()

	// runner reports success but never creates the output; with no library
	// fallback for synthesis the post-condition check must fire
	tool := &Tool{runner: &spyRunner{createOut: false}}
	audioPath := filepath.Join(dir, "audio.wav")
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := tool.SynthesizeVideo(context.Background(), audioPath)
	if err == nil {
		t.Fatal("expected error when output file is missing")
	}
	if !strings.Contains(err.Error(), "no output") {
		t.Errorf("expected missing-output error, got: %v", err)
	}
}
