package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"chalkroute.app", "*.chalkroute.app", "localhost:*"}

	allowed := []string{
		"https://chalkroute.app",
		"https://study.chalkroute.app",
		"http://localhost:3000",
	}
	for _, origin := range allowed {
		assert.True(t, originAllowed(patterns, origin), origin)
	}

	denied := []string{
		"https://evil.example.com",
		"https://chalkroute.app.evil.example.com",
		"",
	}
	for _, origin := range denied {
		assert.False(t, originAllowed(patterns, origin), origin)
	}
}
