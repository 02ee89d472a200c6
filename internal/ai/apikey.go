package ai

import (
	"regexp"
	"strings"
)

// API keys start with "sk-" followed by letters, digits, hyphens or
// underscores. No spaces.
var apiKeyPattern = regexp.MustCompile(`^sk-[a-zA-Z0-9_-]+$`)

func ValidAPIKey(key string) bool {
	return apiKeyPattern.MatchString(strings.TrimSpace(key))
}
