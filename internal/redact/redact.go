// Package redact strips sensitive information from strings before they are
// logged. Error text can carry connection strings, credentials or bearer
// tokens picked up from drivers and clients; everything that reaches a log
// line goes through here first.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedToken      = "[REDACTED_TOKEN]"
	RedactedEmail      = "[REDACTED_EMAIL]"
)

var (
	// Database and object storage connection strings with inline credentials
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|redis|s3|https?)://[^@\s]+@`)

	// password=..., secret: ..., access_key='...'
	credentialRegex = regexp.MustCompile(
		`(?i)(password|passwd|secret|state_secret|access_key|secret_key)(['"\s:=]+)[^'"&\s]{3,}`,
	)

	// Issued bearer tokens: "<uuid>|<hex>"
	bearerTokenRegex = regexp.MustCompile(
		`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\|[0-9a-fA-F]{16,}`,
	)

	// Signed OAuth state parameters (compact JWS)
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	placeholders = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		{connStringRegex, RedactedCredential},
		{credentialRegex, RedactedCredential},
		{bearerTokenRegex, RedactedToken},
		{jwtRegex, RedactedToken},
		{emailRegex, RedactedEmail},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range placeholders {
		result = p.pattern.ReplaceAllString(result, p.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
