package entities

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// leadingNumber matches the decimal prefix of free-form numeric text ("12in" -> "12").
var leadingNumber = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// Measure is a numeric attribute of a shop document (inches, gaps, clearances).
// The raw JSON is retained so documents round-trip unchanged; Value coerces
// anything missing or unparsable to zero.
type Measure struct {
	raw json.RawMessage
}

// NewMeasure creates a Measure holding a JSON number
func NewMeasure(d decimal.Decimal) Measure {
	return Measure{raw: json.RawMessage(d.String())}
}

// NewMeasureFromText creates a Measure holding free-form text, as typed into a form field
func NewMeasureFromText(s string) Measure {
	b, _ := json.Marshal(s)
	return Measure{raw: b}
}

// Present reports whether the attribute appeared in the document at all
func (m Measure) Present() bool {
	return len(m.raw) > 0
}

// Value returns the coerced numeric value
func (m Measure) Value() decimal.Decimal {
	if !m.Present() {
		return decimal.Zero
	}
	switch m.raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(m.raw, &s); err != nil {
			return decimal.Zero
		}
		return parseLeadingDecimal(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return finiteDecimal(string(m.raw))
	default:
		// null, booleans, objects and arrays
		return decimal.Zero
	}
}

// IsSet reports whether the raw value is truthy: present, not null, not false,
// not numeric zero and not the empty string.
func (m Measure) IsSet() bool {
	if !m.Present() {
		return false
	}
	switch m.raw[0] {
	case 'n', 'f':
		return false
	case '"':
		return !bytes.Equal(m.raw, []byte(`""`))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return !m.Value().IsZero()
	default:
		return true
	}
}

// MarshalJSON re-emits the value exactly as it was received
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Present() {
		return []byte("null"), nil
	}
	return m.raw, nil
}

// UnmarshalJSON keeps a copy of the raw value
func (m *Measure) UnmarshalJSON(data []byte) error {
	m.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

func parseLeadingDecimal(s string) decimal.Decimal {
	m := leadingNumber.FindStringSubmatch(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == nil {
		return decimal.Zero
	}
	sign, mantissa, exponent := m[1], m[2], m[3]
	if sign == "+" {
		sign = ""
	}
	if strings.HasPrefix(mantissa, ".") {
		mantissa = "0" + mantissa
	}
	return finiteDecimal(sign + mantissa + exponent)
}

// finiteDecimal parses numeric text exactly. Values that overflow a float64
// or underflow to zero coerce to zero, which also bounds the exponent any
// later arithmetic has to rescale through.
func finiteDecimal(text string) decimal.Decimal {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}
