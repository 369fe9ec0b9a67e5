package subtitle

import (
	"time"
)

// Segment is a raw transcribed speech span, pre-formatting.
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Entry is a single timed cue in a caption document.
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Document is a parsed caption file.
type Document struct {
	Entries []Entry
}
