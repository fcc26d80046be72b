// Package redact removes credentials, session tokens and SQL text from
// strings before they are logged.
package redact

import "regexp"

// Redaction placeholders
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	SecretPlaceholder     = "[REDACTED_SECRET]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order; URL credentials go first so the password
// rule does not split a connection string.
var rules = []rule{
	// user:password@ in connection URLs, keeping the scheme and host.
	{regexp.MustCompile(`(?i)\b((?:postgres|postgresql|pgx)://)[^@\s/]+@`), "${1}" + CredentialPlaceholder + "@"},
	// password=... in key/value DSNs and messages.
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)['"]?[^'"&\s]+['"]?`), "${1}${2}" + CredentialPlaceholder},
	// secret=..., session_secret: ..., token=...
	{regexp.MustCompile(`(?i)\b([a-z_]*(?:secret|token))(\s*[=:]\s*)['"]?[^'"&\s]{8,}['"]?`), "${1}${2}" + SecretPlaceholder},
	// Signed session tokens.
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), TokenPlaceholder},
	// SQL statements quoted in driver errors.
	{regexp.MustCompile(`(?i)\b(?:SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP|TRUNCATE)\b[^;\n]*\b(?:FROM|INTO|SET|TABLE|INDEX)\b[^;\n]*`), SQLPlaceholder},
	// Absolute file paths, e.g. from import errors.
	{regexp.MustCompile(`(^|[\s"'(])(?:/[\w.-]+){2,}`), "${1}" + PathPlaceholder},
}

// String redacts sensitive information from s.
func String(s string) string {
	if s == "" {
		return s
	}

	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts sensitive information from err's message. A nil error
// yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
