package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntryData is the opening document of an entry: nominal opening size and
// clearances in inches, plus any shop-specific fields.
type EntryData struct {
	OpeningWidth  Measure
	OpeningHeight Measure
	HingeGap      Measure
	StrikeGap     Measure
	LockGap       Measure // older documents record the strike-side clearance here
	Extensions    Extensions
}

const (
	fieldOpeningWidth  = "openingWidth"
	fieldOpeningHeight = "openingHeight"
	fieldHingeGap      = "hingeGap"
	fieldStrikeGap     = "strikeGap"
	fieldLockGap       = "lockGap"
)

func (d *EntryData) measures() map[string]*Measure {
	return map[string]*Measure{
		fieldOpeningWidth:  &d.OpeningWidth,
		fieldOpeningHeight: &d.OpeningHeight,
		fieldHingeGap:      &d.HingeGap,
		fieldStrikeGap:     &d.StrikeGap,
		fieldLockGap:       &d.LockGap,
	}
}

// StrikeGapValue returns the strike-side clearance, falling back to lockGap
// when strikeGap is unset or zero.
func (d EntryData) StrikeGapValue() decimal.Decimal {
	if d.StrikeGap.IsSet() {
		return d.StrikeGap.Value()
	}
	return d.LockGap.Value()
}

// Clone returns a deep copy of the document
func (d EntryData) Clone() EntryData {
	out := EntryData{Extensions: d.Extensions.clone()}
	src := d.measures()
	for name, dst := range out.measures() {
		if m := src[name]; m.Present() {
			*dst = Measure{raw: append(json.RawMessage(nil), m.raw...)}
		}
	}
	return out
}

// MarshalJSON emits known attributes that were present followed by extensions
func (d EntryData) MarshalJSON() ([]byte, error) {
	known := make(map[string]json.RawMessage)
	for name, m := range d.measures() {
		if m.Present() {
			known[name] = m.raw
		}
	}
	return encodeDocument(known, d.Extensions)
}

// UnmarshalJSON accepts any JSON object; unknown keys are kept as extensions
func (d *EntryData) UnmarshalJSON(data []byte) error {
	fields, err := decodeDocument(data)
	if err != nil {
		return err
	}
	*d = EntryData{}
	for name, m := range d.measures() {
		if raw, ok := fields[name]; ok {
			if err := m.UnmarshalJSON(raw); err != nil {
				return err
			}
			delete(fields, name)
		}
	}
	if len(fields) > 0 {
		d.Extensions = Extensions(fields)
	}
	return nil
}

// Entry is a single door/frame opening within a work order
type Entry struct {
	ID          int64     `json:"id"`
	WorkOrderID int64     `json:"work_order_id"`
	Handing     Handing   `json:"handing"`
	Data        EntryData `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}
