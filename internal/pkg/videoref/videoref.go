// Package videoref implements the URL-safe base64 video reference token that
// carries a source video URL inside a path segment.
package videoref

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

// ErrMalformed is returned when a token cannot be decoded back into a valid
// source URL.
var ErrMalformed = errors.New("malformed video reference")

// Encode converts a canonical video URL into a path-safe token: standard
// base64 with '+' -> '-', '/' -> '_' and trailing '=' padding stripped.
func Encode(rawURL string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(rawURL))
	encoded = strings.ReplaceAll(encoded, "+", "-")
	encoded = strings.ReplaceAll(encoded, "/", "_")
	return strings.TrimRight(encoded, "=")
}

// Decode reverses Encode: reinstate '+'/'/', re-pad to a multiple of 4, then
// standard base64 decode. The decoded payload must parse as an absolute URL.
func Decode(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrMalformed
	}
	s := strings.ReplaceAll(token, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", ErrMalformed
	}
	decoded := string(raw)
	parsed, err := url.Parse(decoded)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", ErrMalformed
	}
	return decoded, nil
}

// VideoID extracts the video-platform ID from a watch URL. Supports
// youtube.com/watch?v=, youtu.be/<id> and /embed/<id> forms.
func VideoID(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	switch host {
	case "youtu.be":
		return strings.Trim(parsed.Path, "/")
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if id := parsed.Query().Get("v"); id != "" {
			return id
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				rest := strings.TrimPrefix(parsed.Path, prefix)
				if idx := strings.IndexByte(rest, '/'); idx >= 0 {
					rest = rest[:idx]
				}
				return rest
			}
		}
	}
	return ""
}
