package transcript

import "encoding/xml"

// Innertube and timedtext payloads. Only the fields read by the provider
// are declared.

const (
	ytWatchURL       = "https://www.youtube.com/watch?v="
	ytPlayerURL      = "https://www.youtube.com/youtubei/v1/player"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
	ytBrowserUA      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "
)

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	VideoDetails *struct {
		VideoID string `json:"videoId"`
		Title   string `json:"title"`
	} `json:"videoDetails"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

func (p *playerResponse) title() string {
	if p.VideoDetails == nil {
		return ""
	}
	return p.VideoDetails.Title
}

func (p *playerResponse) tracks() []captionTrack {
	if p.Captions == nil {
		return nil
	}
	return p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// timedText covers both the classic <transcript><text start dur> layout
// and the srv3 <timedtext><body><p t d> layout.
type timedText struct {
	XMLName xml.Name
	Lines   []timedTextLine `xml:"text"`
	Body    struct {
		Paragraphs []timedTextParagraph `xml:"p"`
	} `xml:"body"`
}

type timedTextLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

type timedTextParagraph struct {
	T     int64  `xml:"t,attr"`
	D     int64  `xml:"d,attr"`
	Text  string `xml:",chardata"`
	Spans []struct {
		Text string `xml:",chardata"`
	} `xml:"s"`
}
