package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "fenced", in: "```html\n<p>Hi</p>\n```", want: "<p>Hi</p>"},
		{name: "fenced with trailing newlines", in: "```html<p>Hi</p>```\n\n", want: "<p>Hi</p>"},
		{name: "plain", in: "<p>Hi</p>", want: "<p>Hi</p>"},
		{name: "other language fence kept at start", in: "```go\nx\n```", want: "```go\nx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestAssistantHTML(t *testing.T) {
	// Arrange
	raw := "```html\n<h2 class=\"title\" style=\"color:red\">Tokamak</h2><script>alert(1)</script><p onclick=\"x()\">A <a href=\"http://x\">link</a></p>\n```"

	// Act
	got := AssistantHTML(raw)

	// Assert
	assert.Contains(t, got, `<h2 class="title">Tokamak</h2>`)
	assert.NotContains(t, got, "script")
	assert.NotContains(t, got, "onclick")
	assert.NotContains(t, got, "style")
	assert.NotContains(t, got, "<a")
	assert.Contains(t, got, "link")
}

func TestAssistantHTML_KeepsTables(t *testing.T) {
	raw := "<table><thead><tr><th>TRL</th></tr></thead><tbody><tr><td>6</td></tr></tbody></table>"

	assert.Equal(t, raw, AssistantHTML(raw))
}
