package schema

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ClassifyType maps a (normalized) engine type name to its logical kind.
func ClassifyType(sqlType string) Kind {
	t := strings.ToLower(sqlType)

	// Types whose names collide with the substring checks below.
	if strings.Contains(t, "interval") || strings.Contains(t, "point") ||
		strings.Contains(t, "geometry") || strings.Contains(t, "geography") {
		return KindOther
	}

	// Oracle's IEEE floating point types.
	if strings.HasPrefix(t, "binary_") {
		return KindNumeric
	}

	switch {
	case strings.Contains(t, "binary") || strings.Contains(t, "blob") || strings.Contains(t, "bytea") ||
		strings.Contains(t, "image") || strings.Contains(t, "raw") || t == "rowversion":
		return KindBinary
	case strings.Contains(t, "char") || strings.Contains(t, "text") || strings.Contains(t, "clob") ||
		strings.Contains(t, "string") || t == "graphic" || t == "vargraphic":
		return KindText
	case strings.Contains(t, "date") || strings.Contains(t, "time") || t == "year":
		return KindTemporal
	case strings.Contains(t, "int") || strings.Contains(t, "decimal") || strings.Contains(t, "numeric") ||
		strings.Contains(t, "number") || strings.Contains(t, "float") || strings.Contains(t, "double") ||
		strings.Contains(t, "real") || strings.Contains(t, "money") || strings.Contains(t, "decfloat"):
		return KindNumeric
	default:
		return KindOther
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02-15.04.05", // DB2 character form
	"2006-01-02",
}

// TimeLayout is the canonical textual form of temporal values.
const TimeLayout = "2006-01-02 15:04:05.999999999"

// ParseTime accepts the textual timestamp forms emitted by the supported drivers.
// Values without a date part (TIME columns) are rejected.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 || s[4] != '-' {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDecimal converts driver numeric values to an exact decimal.
func ParseDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromUint64(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case decimal.Decimal:
		return n, true
	case bool:
		if n {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	case []byte:
		return ParseDecimal(string(n))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// FormatValue renders a driver value as text. Binary payloads become lower-case hex,
// booleans 1/0 and times TimeLayout. The second result is false for NULL.
func FormatValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return hex.EncodeToString(x), true
	case time.Time:
		return x.Format(TimeLayout), true
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case decimal.Decimal:
		return x.String(), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}
