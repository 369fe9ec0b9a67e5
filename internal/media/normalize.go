package media

import (
	"context"
	"fmt"
	"strings"
)

// Normalized is the result of preparing an input for transcription: an
// audio-only leg for the speech model and a video leg for playback.
type Normalized struct {
	AudioPath string
	VideoPath string
	Kind      Kind
}

// ExtractAudio pulls the first audio stream out of a video file into a
// same-basename mp3. The flag set is a compatibility contract; do not reorder
// or change it.
func (t *Tool) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := replaceExt(videoPath, ".mp3")

	args := []string{
		"-i", videoPath,
		"-q:a", "2",
		"-map", "a",
		"-c:a", "libmp3lame",
		audioPath,
	}

	if err := t.convert(ctx, args, videoPath, audioPath, libraryExtractAudio); err != nil {
		return "", fmt.Errorf("audio extraction failed: %w", err)
	}

	return audioPath, nil
}

// SynthesizeVideo builds a 1280x720 24fps black-background mp4 around an
// audio file so downstream consumers always receive a video artifact. The
// -shortest flag ends the output with the audio stream.
func (t *Tool) SynthesizeVideo(ctx context.Context, audioPath string) (string, error) {
	videoPath := replaceExt(audioPath, ".mp4")

	args := []string{
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

	if err := t.convert(ctx, args, audioPath, videoPath, nil); err != nil {
		return "", fmt.Errorf("video synthesis failed: %w", err)
	}

	return videoPath, nil
}

// Normalize classifies the input and produces both legs. Video inputs keep
// their original path as the video leg; audio inputs keep theirs as the
// audio leg.
func (t *Tool) Normalize(ctx context.Context, inputPath string) (*Normalized, error) {
	kind, err := Classify(inputPath)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindVideo:
		audioPath, err := t.ExtractAudio(ctx, inputPath)
		if err != nil {
			return nil, err
		}
		return &Normalized{
			AudioPath: audioPath,
			VideoPath: inputPath,
			Kind:      kind,
		}, nil
	case KindAudio:
		videoPath, err := t.SynthesizeVideo(ctx, inputPath)
		if err != nil {
			return nil, err
		}
		return &Normalized{
			AudioPath: inputPath,
			VideoPath: videoPath,
			Kind:      kind,
		}, nil
	default:
		return nil, ErrUnsupportedMedia
	}
}

func replaceExt(path, newExt string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[:idx] + newExt
	}
	return path + newExt
}
