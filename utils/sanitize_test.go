package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "<p>hi</p>", Sanitize(`<p onclick="x()">hi</p><script>alert(1)</script>`))
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "bold title", SanitizeText("<b>bold</b> title"))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
}
