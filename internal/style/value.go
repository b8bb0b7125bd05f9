package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit classifies a declaration value.
type Unit int

// Recognized units. Anything that is not a plain number with one of the
// numeric units is a Keyword and is carried opaquely.
const (
	Keyword Unit = iota
	Px
	Pt
	Em
	Percent
	Unitless
)

func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	case Pt:
		return "pt"
	case Em:
		return "em"
	case Percent:
		return "%"
	case Unitless:
		return "unitless"
	default:
		return "keyword"
	}
}

// Value is a declaration value: the raw text plus its parsed number and unit.
// Num is meaningful only when Unit is not Keyword.
type Value struct {
	Raw       string
	Num       float64
	Unit      Unit
	Important bool
}

// numberPattern matches a CSS number with an optional recognized unit.
var numberPattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))(px|pt|em|%)?$`)

// importantPattern matches a trailing !important flag.
var importantPattern = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

// ParseValue parses raw as a declaration value. Unparseable input is a Keyword.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	v := Value{Raw: raw, Unit: Keyword}

	body := raw
	if loc := importantPattern.FindStringIndex(raw); loc != nil {
		v.Important = true
		body = raw[:loc[0]]
	}

	m := numberPattern.FindStringSubmatch(strings.ToLower(body))
	if m == nil {
		return v
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return v
	}
	v.Num = n
	switch m[2] {
	case "px":
		v.Unit = Px
	case "pt":
		v.Unit = Pt
	case "em":
		v.Unit = Em
	case "%":
		v.Unit = Percent
	default:
		v.Unit = Unitless
	}
	return v
}

// IsNumeric reports whether the value carries a number.
func (v Value) IsNumeric() bool {
	return v.Unit != Keyword
}

// Keyword returns the lower-cased value without the !important flag.
func (v Value) Keyword() string {
	body := importantPattern.ReplaceAllString(v.Raw, "")
	return strings.ToLower(strings.TrimSpace(body))
}

// PxValue builds a canonical pixel value, keeping the !important flag.
// Magnitudes are rounded to two decimals and trailing zeros are dropped.
func PxValue(n float64, important bool) Value {
	return withImportant(Value{Raw: FormatPx(n), Num: roundTo(n, 2), Unit: Px}, important)
}

// KeywordValue builds an opaque value, keeping the !important flag.
func KeywordValue(s string, important bool) Value {
	return withImportant(Value{Raw: s, Unit: Keyword}, important)
}

func withImportant(v Value, important bool) Value {
	if important {
		v.Important = true
		v.Raw += " !important"
	}
	return v
}

// FormatPx renders n as a pixel length, e.g. 14 -> "14px", 15.996 -> "16px".
func FormatPx(n float64) string {
	return FormatNumber(n) + "px"
}

// FormatNumber renders n with at most two decimals and no trailing zeros.
func FormatNumber(n float64) string {
	n = roundTo(n, 2)
	if n == 0 {
		n = 0 // normalize negative zero
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func roundTo(n float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(n*p) / p
}
