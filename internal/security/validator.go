// Package security validates the caller-supplied text that dsql splices into SQL
// without binding: raw filter fragments and table or column names.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnsafeFragment is returned when a raw SQL fragment matches a dangerous pattern.
	ErrUnsafeFragment = errors.New("unsafe sql fragment")
	// ErrInvalidIdentifier is returned for table or column names outside the accepted grammar.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// Validator checks raw fragments against dangerous patterns.
type Validator struct {
	patterns []*regexp.Regexp
	strict   bool
}

// ValidatorOption configures the Validator.
type ValidatorOption func(*Validator)

// WithStrict also rejects UNION and EXEC anywhere in a fragment.
func WithStrict(strict bool) ValidatorOption {
	return func(v *Validator) {
		v.strict = strict
	}
}

// NewValidator creates a validator with the default pattern set.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{patterns: compilePatterns(dangerousPatterns)}
	for _, opt := range opts {
		opt(v)
	}
	if v.strict {
		v.patterns = append(v.patterns, compilePatterns(strictPatterns)...)
	}
	return v
}

// A WHERE fragment is a single boolean expression, so statement separators and
// comments never belong in one.
var dangerousPatterns = []string{
	`;`,
	`--`,
	`/\*`,
	`\*/`,
	`#\s`,

	`\bUNION\s+(ALL\s+)?SELECT\b`,

	`\bXP_CMDSHELL\b`,
	`\bEXEC(UTE)?\s*\(`,
	`\bSP_EXECUTESQL\b`,

	`\bINFORMATION_SCHEMA\b`,
	`\bPG_SLEEP\s*\(`,
	`\bBENCHMARK\s*\(`,
	`\bWAITFOR\s+DELAY\b`,

	`\bOR\s+1\s*=\s*1\b`,
	`\bOR\s+'1'\s*=\s*'1'`,
}

var strictPatterns = []string{
	`\bUNION\b`,
	`\bEXEC(UTE)?\b`,
}

// ValidateFragment returns ErrUnsafeFragment if fragment contains a dangerous construct.
func (v *Validator) ValidateFragment(fragment string) error {
	upper := strings.ToUpper(fragment)
	for _, pattern := range v.patterns {
		if pattern.MatchString(upper) {
			return fmt.Errorf("%w: matches %s", ErrUnsafeFragment, pattern.String())
		}
	}
	return nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// maxIdentifierLen is the PostgreSQL NAMEDATALEN limit, the smallest of the three dialects.
const maxIdentifierLen = 63

// ValidateIdentifier accepts ASCII letters, digits and underscores, not starting
// with a digit.
func ValidateIdentifier(name string) error {
	if len(name) > maxIdentifierLen {
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidIdentifier, name, maxIdentifierLen)
	}
	if !identifier.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}
	return compiled
}
