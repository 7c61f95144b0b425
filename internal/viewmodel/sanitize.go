package viewmodel

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

// sanitizeContent strips everything but the inline formatting itinerary days
// are allowed to carry.
func sanitizeContent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return contentSanitizer().Sanitize(raw)
}

func contentSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("p", "strong", "em", "b", "i", "br", "ul", "ol", "li")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(false)
		contentPolicy = policy
	})
	return contentPolicy
}
