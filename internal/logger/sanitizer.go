package logger

import (
	"fmt"
	"regexp"
	"strings"
)

const redacted = "***REDACTED***"

// DefaultSensitiveFields are the column names that trigger masking when no
// explicit list is given.
var DefaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "api_token",
	"secret", "auth", "authorization",
	"credit_card", "card_number", "cvv", "cvc",
	"ssn", "social_security",
	"private_key", "priv_key",
}

// Matches a single-quoted SQL literal, with '' as the escaped quote.
var stringLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)

// Sanitizer masks values in statements that touch sensitive columns.
// Filters render their values inline, so both bound parameters and quoted
// literals in the SQL text are masked.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// NewSanitizer builds a sanitizer for the given column names, or for
// DefaultSensitiveFields when fields is empty.
func NewSanitizer(fields []string) *Sanitizer {
	if len(fields) == 0 {
		fields = DefaultSensitiveFields
	}
	patterns := make([]*regexp.Regexp, 0, len(fields))
	for _, field := range fields {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}
	return &Sanitizer{patterns: patterns}
}

// Sensitive reports whether sql mentions any sensitive column.
func (s *Sanitizer) Sensitive(sql string) bool {
	for _, p := range s.patterns {
		if p.MatchString(sql) {
			return true
		}
	}
	return false
}

// MaskSQL replaces every quoted literal in sql when it is sensitive.
func (s *Sanitizer) MaskSQL(sql string) string {
	if !s.Sensitive(sql) {
		return sql
	}
	return stringLiteral.ReplaceAllString(sql, "'"+redacted+"'")
}

// MaskParams returns params unchanged, or a fully masked copy when sql is sensitive.
// The input slice is never modified.
func (s *Sanitizer) MaskParams(sql string, params []any) []any {
	if len(params) == 0 || !s.Sensitive(sql) {
		return params
	}
	masked := make([]any, len(params))
	for i := range masked {
		masked[i] = redacted
	}
	return masked
}

// FormatParams renders params for a log line, truncating long values.
func FormatParams(params []any) string {
	if len(params) == 0 {
		return "[]"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = formatValue(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	str := fmt.Sprintf("%v", v)
	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
