package logging

import (
	"regexp"
	"strings"
)

const redactionPlaceholder = "***"

// SanitizeTokens returns a sanitized string representation of command-line
// tokens. Values assigned to sensitive-looking keys are redacted while the
// token structure stays intact.
func SanitizeTokens(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}

	sanitized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		sanitized = append(sanitized, sanitizeToken(token))
	}
	return strings.Join(sanitized, " ")
}

func sanitizeToken(token string) string {
	eq := strings.Index(token, "=")
	if eq <= 0 {
		return token
	}
	key := token[:eq]
	if isSensitiveKey(key) {
		return key + "=" + redactionPlaceholder
	}
	return token
}

var sensitivePattern = regexp.MustCompile(`(?i)(password|passphrase|secret|token|apikey|privatekey)=([^\s]{1,128})`)

// SanitizeText redacts sensitive key/value pairs inside freeform strings.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	return sensitivePattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := strings.SplitN(match, "=", 2)
		if len(parts) != 2 {
			return match
		}
		return parts[0] + "=" + redactionPlaceholder
	})
}

func isSensitiveKey(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "password") ||
		strings.Contains(lower, "passphrase") ||
		strings.Contains(lower, "secret") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "apikey") ||
		strings.Contains(lower, "privatekey")
}
