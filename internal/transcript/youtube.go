package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/retry"
)

// YouTubeConfig configures the YouTube caption provider.
type YouTubeConfig struct {
	Languages []string
	Timeout   time.Duration
	Retry     retry.Config

	// Overridable endpoints, mainly for tests.
	WatchURL  string
	PlayerURL string
}

// YouTubeProvider fetches captions through the public watch page, falling
// back to the ANDROID Innertube player endpoint.
type YouTubeProvider struct {
	cfg    YouTubeConfig
	client *http.Client
	logger *logrus.Logger
}

// NewYouTubeProvider creates a new YouTube caption provider
func NewYouTubeProvider(cfg YouTubeConfig, logger *logrus.Logger) *YouTubeProvider {
	if cfg.WatchURL == "" {
		cfg.WatchURL = ytWatchURL
	}
	if cfg.PlayerURL == "" {
		cfg.PlayerURL = ytPlayerURL
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	return &YouTubeProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Fetch implements Provider.
func (p *YouTubeProvider) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, apperr.Validation("missing video id", nil)
	}

	player, err := p.playerFromWatchPage(ctx, videoID)
	if err != nil {
		p.logger.WithError(err).WithField("video_id", videoID).Warn("watch page scrape failed, trying innertube player")
		player, err = p.playerFromInnertube(ctx, videoID)
		if err != nil {
			return nil, apperr.Provider("fetch caption tracks", err)
		}
	}

	tracks := player.tracks()
	if len(tracks) == 0 {
		reason := "no caption tracks"
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			reason = player.PlayabilityStatus.Reason
		}
		return nil, apperr.Provider("captions unavailable: "+reason, nil)
	}

	track, ok := pickBestTrack(tracks, p.cfg.Languages)
	if !ok {
		return nil, apperr.Provider("all caption tracks require a PoToken", nil)
	}

	segments, err := p.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, apperr.Provider("fetch timed text", err)
	}
	segments = NormalizeSegments(segments)
	if len(segments) == 0 {
		return nil, apperr.Provider("no captions", nil)
	}

	p.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"language": track.LanguageCode,
		"segments": len(segments),
	}).Debug("transcript fetched")

	return &Transcript{
		VideoID:  videoID,
		Title:    player.title(),
		Segments: segments,
	}, nil
}

func (p *YouTubeProvider) playerFromWatchPage(ctx context.Context, videoID string) (*playerResponse, error) {
	resp, err := retry.HTTP(ctx, p.cfg.Retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.WatchURL+videoID, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", ytBrowserUA)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return p.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	raw := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if raw == nil {
		return nil, errors.New("unterminated ytInitialPlayerResponse")
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if len(player.tracks()) == 0 {
		return nil, errors.New("no captions in watch page")
	}
	return &player, nil
}

func (p *YouTubeProvider) playerFromInnertube(ctx context.Context, videoID string) (*playerResponse, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := retry.HTTP(ctx, p.cfg.Retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.PlayerURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return p.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("innertube player: HTTP %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return &player, nil
}

func (p *YouTubeProvider) fetchTimedText(ctx context.Context, baseURL string) ([]CaptionSegment, error) {
	resp, err := retry.HTTP(ctx, p.cfg.Retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", ytBrowserUA)
		return p.client.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

// parseTimedText converts a timedtext XML document into raw segments.
func parseTimedText(body []byte) ([]CaptionSegment, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segments := make([]CaptionSegment, 0, len(tt.Lines)+len(tt.Body.Paragraphs))
	for _, line := range tt.Lines {
		start := secondsToMs(line.Start)
		segments = append(segments, CaptionSegment{
			StartMs: start,
			EndMs:   secondsToMs(line.Start + line.Dur),
			Text:    line.Text,
		})
	}
	for _, para := range tt.Body.Paragraphs {
		text := para.Text
		if len(para.Spans) > 0 {
			var sb strings.Builder
			for _, s := range para.Spans {
				sb.WriteString(s.Text)
			}
			text = sb.String()
		}
		segments = append(segments, CaptionSegment{
			StartMs: para.T,
			EndMs:   para.T + para.D,
			Text:    text,
		})
	}
	return segments, nil
}

func secondsToMs(s float64) int64 {
	return int64(math.Round(s * 1000))
}

// needsPoToken reports whether a caption track URL can only be fetched by a browser.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack prefers a manual track in a preferred language, then an
// auto-generated one, then any English track, then the first usable track.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}

	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// extractJSON returns the leading balanced JSON object of data, or nil.
func extractJSON(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	depth := 0
	inString := false
	escaped := false
	for i, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[:i+1]
			}
		}
	}
	return nil
}
