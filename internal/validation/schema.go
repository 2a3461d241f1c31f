package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/pos-report/internal/types"
)

// =============================================================================
// FIELD TYPES
// =============================================================================

// FieldType is the declared type of a record field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInteger
	TypeNumber
	TypeEmail
	TypeDateTime
	TypeStringList
)

// String returns the name used in error messages.
func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeNumber:
		return "number"
	case TypeEmail:
		return "email"
	case TypeDateTime:
		return "datetime"
	case TypeStringList:
		return "list"
	default:
		return "unknown"
	}
}

// FieldSpec declares one field of a collection.
type FieldSpec struct {
	Name string
	Type FieldType
}

// Schemas declares the fields of every collection, in the order errors are
// reported. Every declared field is required; any other field is rejected.
var Schemas = map[types.Kind][]FieldSpec{
	types.KindProduct: {
		{"product_id", TypeString},
		{"product_quantity", TypeInteger},
	},
	types.KindStaff: {
		{"staff_id", TypeString},
		{"staff_name", TypeString},
		{"staff_email", TypeEmail},
	},
	types.KindCustomer: {
		{"customer_id", TypeString},
		{"customer_name", TypeString},
		{"customer_email", TypeEmail},
		{"customer_ph_no", TypeNumber},
	},
	types.KindBranch: {
		{"branch_id", TypeString},
		{"branch_address", TypeString},
	},
	types.KindTransaction: {
		{"trans_id", TypeString},
		{"trans_date", TypeDateTime},
		{"customer_details", TypeString},
		{"staff_details", TypeString},
		{"branch_details", TypeString},
	},
	types.KindPurchase: {
		{"purchase_id", TypeString},
		{"trans_details", TypeString},
		{"product_details", TypeStringList},
	},
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

const (
	msgMissing  = "Missing data for required field."
	msgNull     = "Field may not be null."
	msgUnknown  = "Unknown field."
	msgString   = "Not a valid string."
	msgInteger  = "Not a valid integer."
	msgNumber   = "Not a valid number."
	msgDateTime = "Not a valid datetime."
	msgList     = "Not a valid list."
	msgEmail    = "Not a valid email address."

	// RangeMessage is reported for negative product quantities.
	RangeMessage = "Fill up the stock: quantity must be greater than or equal to 0."
)

// dateTimeLayouts are tried in order, after a space between date and time
// has been replaced by "T". Seconds are optional; the zone may be "Z",
// +HH:MM, +HHMM or +HH. Timestamps without a zone are read as UTC.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04Z07",
	"2006-01-02T15:04",
}

// =============================================================================
// COERCION
// =============================================================================

// jsonNumber is satisfied by json.Number from any JSON decoder.
type jsonNumber interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// coerce converts a raw value to the Go type of the declared field type.
// It returns the coerced value or a message describing the failure.
func (v *Validator) coerce(value any, fieldType FieldType) (any, string) {
	switch fieldType {
	case TypeString, TypeEmail:
		s, ok := value.(string)
		if !ok {
			return nil, msgString
		}
		return s, ""
	case TypeInteger:
		n, ok := toInt(value)
		if !ok {
			return nil, msgInteger
		}
		return n, ""
	case TypeNumber:
		f, ok := toFloat(value)
		if !ok {
			return nil, msgNumber
		}
		return f, ""
	case TypeDateTime:
		t, ok := toTime(value)
		if !ok {
			return nil, msgDateTime
		}
		return t, ""
	case TypeStringList:
		list, msg := v.toStringList(value)
		if msg != "" {
			return nil, msg
		}
		return list, ""
	default:
		return nil, fmt.Sprintf("Unsupported field type %s.", fieldType)
	}
}

// toInt accepts integral JSON numbers, decimal strings and Go integers.
// Booleans and fractional values are rejected.
func toInt(value any) (int, bool) {
	switch x := value.(type) {
	case string:
		return parseInt(strings.TrimSpace(x))
	case jsonNumber:
		return parseInt(x.String())
	case int:
		return x, true
	case int64:
		return int(x), int64(int(x)) == x
	case float64:
		if !integral(x) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}

func parseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	// 3.0 and 3e2 are integral.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !integral(f) {
		return 0, false
	}
	return int(f), true
}

// integral reports whether f is a whole number inside the int64 range.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63
}

// toFloat accepts JSON numbers, numeric strings and Go numbers.
func toFloat(value any) (float64, bool) {
	var f float64
	switch x := value.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case jsonNumber:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toTime parses ISO-8601 strings. time.Time values pass through.
func toTime(value any) (time.Time, bool) {
	switch x := value.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if len(s) > 10 && s[10] == ' ' {
			s = s[:10] + "T" + s[11:]
		}
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// toStringList accepts JSON arrays of strings and, for tabular sources,
// a single cell holding ids joined by the list separator.
func (v *Validator) toStringList(value any) ([]string, string) {
	switch x := value.(type) {
	case []string:
		return append([]string(nil), x...), ""
	case []any:
		list := make([]string, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Sprintf("Item %d: %s", i, msgString)
			}
			list = append(list, s)
		}
		return list, ""
	case string:
		if !v.options.SplitStringLists {
			return nil, msgList
		}
		if strings.TrimSpace(x) == "" {
			return []string{}, ""
		}
		parts := strings.Split(x, v.options.ListSeparator)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, ""
	default:
		return nil, msgList
	}
}

// =============================================================================
// COERCED FIELD ACCESS
// =============================================================================

// fields holds the coerced values of one record. Accessors are only called
// after every declared field coerced successfully.
type fields map[string]any

func (f fields) str(name string) string { return f[name].(string) }

func (f fields) integer(name string) int { return f[name].(int) }

func (f fields) number(name string) float64 { return f[name].(float64) }

func (f fields) datetime(name string) time.Time { return f[name].(time.Time) }

func (f fields) list(name string) []string { return f[name].([]string) }
