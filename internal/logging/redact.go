package logging

import (
	"regexp"
	"strings"
)

// secretPatterns match provider keys that can leak through error text,
// such as a key echoed back in an upstream error or a request URL.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|key|bearer|authorization)([=:\s]+["']?)([A-Za-z0-9_\-\.]{8,})`),
	regexp.MustCompile(`sk-[A-Za-z0-9_\-]{20,}`), // OpenAI keys
	regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), // Google API keys
}

// MaskCredential keeps the first and last four characters of a credential.
func MaskCredential(value string) string {
	if len(value) == 0 {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	if len(value) <= 8 {
		return value[:2] + strings.Repeat("*", len(value)-2)
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// RedactSecrets masks anything in s that looks like a credential.
func RedactSecrets(s string) string {
	s = secretPatterns[0].ReplaceAllStringFunc(s, func(match string) string {
		m := secretPatterns[0].FindStringSubmatch(match)
		return m[1] + m[2] + MaskCredential(m[3])
	})
	for _, p := range secretPatterns[1:] {
		s = p.ReplaceAllStringFunc(s, MaskCredential)
	}
	return s
}

// redactedError carries a masked message in place of the original error.
type redactedError string

func (e redactedError) Error() string { return string(e) }
