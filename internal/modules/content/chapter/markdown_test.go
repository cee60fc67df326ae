package chapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	t.Run("headings and lists", func(t *testing.T) {
		html := renderMarkdown("# Title\n\n- one\n- two")
		assert.Contains(t, html, "<h1")
		assert.Contains(t, html, "<li>one</li>")
	})

	t.Run("gfm table", func(t *testing.T) {
		html := renderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |")
		assert.Contains(t, html, "<table>")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, renderMarkdown("   \n  "))
	})

	t.Run("raw html is escaped", func(t *testing.T) {
		html := renderMarkdown("hello <script>alert(1)</script>")
		assert.NotContains(t, html, "<script>")
	})
}
