package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FormatTimestamp renders a duration as HH:MM:SS.mmm with zero-padded
// two-digit hours, minutes and seconds and a three-digit fraction. Downstream
// caption consumers depend on these exact field widths.
func FormatTimestamp(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// RenderVTT converts segments into a WebVTT document string: the WEBVTT
// header, a blank line, then one block per segment in input order with a
// 1-based index line, a timestamp range line, the trimmed text and a blank
// separator. Segments are rendered exactly as given; out-of-order or inverted
// spans are reproduced, not repaired.
func RenderVTT(segments []Segment) string {
	var sb strings.Builder

	sb.WriteString("WEBVTT\n\n")

	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatTimestamp(seg.StartTime),
			FormatTimestamp(seg.EndTime)))
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// WriteVTT renders segments and writes the document to outputPath. An empty
// outputPath defaults to a timestamp-named file inside dir. Returns the path
// the document was written to.
func WriteVTT(segments []Segment, dir, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = filepath.Join(
			dir,
			fmt.Sprintf("subtitles_%d.vtt", time.Now().Unix()),
		)
	}

	if err := os.WriteFile(outputPath, []byte(RenderVTT(segments)), 0644); err != nil {
		return "", fmt.Errorf("failed to write VTT file: %w", err)
	}

	return outputPath, nil
}
