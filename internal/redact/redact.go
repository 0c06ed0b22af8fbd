// Package redact strips sensitive values from strings before they reach
// logs. Error text routinely carries connection strings, tokens, SQL
// literals, and user identifiers; redaction happens at the logging boundary
// so store and service code can return informative errors freely.
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order: credentials and tokens first, then quoted SQL
// literals, then bare identifiers. A quoted literal is consumed whole, so a
// UUID or email inside quotes surfaces as [REDACTED_VALUE].
var rules = []rule{
	{regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb)://[^@\s]+@`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[REDACTED_JWT]"},
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*'?[^'"\s]+`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token)\s*[=:]\s*'?[A-Za-z0-9._~+/-]{8,}`), "[REDACTED_KEY]"},
	{regexp.MustCompile(`'[^']*'`), "[REDACTED_VALUE]"},
	{regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`), "[REDACTED_UUID]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), "[REDACTED_PATH]"},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`), "[REDACTED_PATH]"},
}

// String redacts sensitive values from the input.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts an error's message. Returns "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
