// Package sanitize cleans assistant replies before they reach a browser.
package sanitize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedElements is the tag allow-list for assistant HTML.
var AllowedElements = []string{
	"h2", "h3", "h4", "p", "ul", "ol", "li", "strong", "em",
	"table", "thead", "tbody", "tr", "td", "th", "code", "pre", "br",
}

var (
	leadingFence  = regexp.MustCompile("^```html\\s*")
	trailingFence = regexp.MustCompile("```[\\s\\n]*$")

	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared allow-list policy. Policies are safe for
// concurrent use once built.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(AllowedElements...)
		p.AllowAttrs("class").Globally()
		policy = p
	})
	return policy
}

// StripCodeFence removes a leading ```html fence and a trailing ``` fence.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// AssistantHTML turns a raw model reply into safe HTML.
func AssistantHTML(raw string) string {
	return Policy().Sanitize(StripCodeFence(raw))
}
