package summarize

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// ErrNoCaptions is returned when the platform has no captions for a video.
var ErrNoCaptions = errors.New("no captions available for video")

// TranscriptFetcher retrieves the caption text for a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID, lang string) (string, error)
}

const timedTextEndpoint = "https://www.youtube.com/api/timedtext"

// timedTextFetcher pulls captions from the YouTube timedtext API.
type timedTextFetcher struct {
	client   *http.Client
	endpoint string
}

// NewTimedTextFetcher returns the production caption fetcher.
func NewTimedTextFetcher() TranscriptFetcher {
	return &timedTextFetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: timedTextEndpoint,
	}
}

func (f *timedTextFetcher) Fetch(ctx context.Context, videoID, lang string) (string, error) {
	text, err := f.fetchLang(ctx, videoID, lang)
	if err != nil {
		return "", err
	}
	if text == "" && lang != "en" {
		// Many videos only carry an English track.
		text, err = f.fetchLang(ctx, videoID, "en")
		if err != nil {
			return "", err
		}
	}
	if text == "" {
		return "", ErrNoCaptions
	}
	return text, nil
}

func (f *timedTextFetcher) fetchLang(ctx context.Context, videoID, lang string) (string, error) {
	query := neturl.Values{}
	query.Set("v", videoID)
	query.Set("lang", lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext request failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", err
	}
	return parseTimedText(body), nil
}

type timedTextDoc struct {
	XMLName xml.Name        `xml:"transcript"`
	Lines   []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Body string `xml:",chardata"`
}

// parseTimedText flattens a timedtext XML document into plain text. Caption
// bodies arrive double-escaped, so entities are unescaped once more after XML
// decoding.
func parseTimedText(data []byte) string {
	var doc timedTextDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return ""
	}

	parts := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Body))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}
