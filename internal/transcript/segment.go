package transcript

import (
	"context"
	"html"
	"strings"
)

// CaptionSegment is one timestamped snippet of caption text.
type CaptionSegment struct {
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
	Text    string `json:"text"`
}

// TimeInterval is a fixed-width bucket of concatenated caption text.
type TimeInterval struct {
	StartTime int    `json:"startTime"`
	EndTime   int    `json:"endTime"`
	Text      string `json:"text"`
}

// Transcript is what a Provider returns for a single video.
type Transcript struct {
	VideoID  string
	Title    string
	Segments []CaptionSegment
}

// Text returns all segment texts joined by a single space.
func (t *Transcript) Text() string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// Provider fetches the transcript of a video from an external source.
// There is no retry at this level beyond what the implementation does
// for transient transport errors.
type Provider interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}

// NormalizeSegments cleans raw segments at the provider boundary.
// Text is HTML-unescaped and trimmed; segments with empty text or a negative
// start are dropped; an end before the start is clamped to the start.
func NormalizeSegments(raw []CaptionSegment) []CaptionSegment {
	out := make([]CaptionSegment, 0, len(raw))
	for _, seg := range raw {
		text := strings.TrimSpace(html.UnescapeString(seg.Text))
		if text == "" || seg.StartMs < 0 {
			continue
		}
		if seg.EndMs < seg.StartMs {
			seg.EndMs = seg.StartMs
		}
		seg.Text = text
		out = append(out, seg)
	}
	return out
}
