package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies a media file by its extension.
type Kind int

const (
	KindUnsupported Kind = iota
	KindAudio
	KindVideo
)

// ErrUnsupportedMedia reports a file whose extension is outside both
// allow-lists. It is raised before any subprocess is spawned.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// kindByExtension is the single classification table; call sites must not
// re-derive the kind from the extension themselves.
var kindByExtension = map[string]Kind{
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".flac": KindAudio,
	".aac":  KindAudio,
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".avi":  KindVideo,
	".mkv":  KindVideo,
}

// Classify returns the media kind for a path, or ErrUnsupportedMedia.
func Classify(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := kindByExtension[ext]
	if !ok {
		return KindUnsupported, fmt.Errorf(
			"%w: %q (expected mp3, wav, flac, aac, mp4, mov, avi or mkv)",
			ErrUnsupportedMedia, ext,
		)
	}
	return kind, nil
}

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}
