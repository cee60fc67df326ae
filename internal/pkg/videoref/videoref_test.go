package videoref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// Lengths chosen so the encoded forms need 0, 1 and 2 padding characters.
	urls := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/abc123",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://m.youtube.com/watch?v=x",
		"https://www.youtube.com/embed/zzz?rel=0",
	}
	for _, u := range urls {
		token := Encode(u)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")

		decoded, err := Decode(token)
		require.NoError(t, err, "url %q", u)
		assert.Equal(t, u, decoded)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "    ", "%%%%", "a"} {
		_, err := Decode(token)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}
}

func TestDecodeRejectsNonURLPayload(t *testing.T) {
	// Valid base64, but the payload is not an absolute URL.
	_, err := Decode(Encode("not a url at all"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode("aGVsbG8")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVideoID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":  "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                 "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":    "dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=abc&list=PL123": "abc",
		"https://www.youtube.com/shorts/shortid/extra": "shortid",
		"https://example.com/watch?v=nope":             "",
		"not a url":                                    "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, VideoID(raw), "url %q", raw)
	}
}
