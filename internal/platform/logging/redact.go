package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// secretFieldNames never have their values logged, whether they appear as
// slog keys or as struct fields of a logged value.
var secretFieldNames = []string{
	"password", "secret", "token", "apiKey", "api_key",
	"authorization", "cookie", "credentials",
	"dsn", "DSN", "postgres_dsn", "PostgresDSN",
}

var secretValuePatterns = []*regexp.Regexp{
	// Authorization header values.
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+$`),
	// Connection strings with inline credentials, e.g. postgres://u:p@host/db.
	regexp.MustCompile(`^[a-z][a-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`),
	// JWTs.
	regexp.MustCompile(`^eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*$`),
}

// NewReplaceAttr returns a slog ReplaceAttr hook that masks secrets. extra
// options are appended to the built-in field names and value patterns.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(secretFieldNames)+len(secretValuePatterns)+1+len(extra))

	for _, name := range secretFieldNames {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, re := range secretValuePatterns {
		opts = append(opts, masq.WithRegex(re))
	}

	opts = append(opts, masq.WithFieldPrefix("secret"))

	return masq.New(append(opts, extra...)...)
}
