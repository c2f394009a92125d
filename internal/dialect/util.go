package dialect

import (
	"strings"
	"time"
)

// db2OrderFrom/db2OrderTo remap the EBCDIC collation (lower < upper < digits) onto the
// ASCII order (digits < upper < lower) used by every other supported engine.
const (
	db2OrderTo   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	db2OrderFrom = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// TimestampLayout is the literal layout shared by engines accepting ISO timestamps.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(strings.TrimSpace(sqlType))
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// QuoteWith wraps name in the given delimiters, doubling any embedded closing delimiter.
func QuoteWith(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}

// QuoteString produces a standard SQL string literal ('' escaping).
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// DefaultTimestampLiteral formats t as a quoted ISO timestamp with microseconds.
func DefaultTimestampLiteral(t time.Time) string {
	return "'" + t.Format(TimestampLayout) + "'"
}

// NumericBoolean renders booleans as 1/0 for engines without a boolean type.
func NumericBoolean(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
