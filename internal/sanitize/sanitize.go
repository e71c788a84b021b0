// Package sanitize provides text sanitization for externally generated
// content. Uses bluemonday to strip any markup the enhancement model may
// emit so that only plain text ever reaches stored character records.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for stripping markup.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// StrictPolicy removes every element and attribute. Character
		// biographies are plain text; any tags in model output are noise
		// at best and injected markup at worst.
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all markup from the input and returns plain text. Entities
// escaped by the policy are decoded back so the stored text reads naturally.
func Text(input string) string {
	if input == "" {
		return ""
	}
	cleaned := getPolicy().Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
