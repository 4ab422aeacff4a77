package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PartRef references a catalog part by its part type (e.g. "TR-001")
type PartRef string

// UnmarshalJSON accepts strings and numbers; null leaves the reference empty.
// Strings are kept verbatim, so a padded reference does not match a catalog
// part type.
func (r *PartRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = PartRef(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*r = PartRef(data)
	default:
		return fmt.Errorf("part reference must be a string, got %s", data)
	}
	return nil
}

// RailSlot names one of the four rails of a door
type RailSlot string

const (
	TopRail    RailSlot = "topRail"
	BottomRail RailSlot = "bottomRail"
	HingeRail  RailSlot = "hingeRail"
	LockRail   RailSlot = "lockRail"
)

// RailSlots lists every rail slot in cut-list order
var RailSlots = []RailSlot{HingeRail, LockRail, TopRail, BottomRail}

// DoorData is the document stored on a door leaf: the rail part references
// used for cut lists plus any shop-specific fields.
type DoorData struct {
	TopRail    PartRef
	BottomRail PartRef
	HingeRail  PartRef
	LockRail   PartRef
	Extensions Extensions

	// raw holds each reference as it was decoded, so a numeric reference is
	// re-emitted as a number
	raw map[RailSlot]json.RawMessage
}

func (d *DoorData) refs() map[RailSlot]*PartRef {
	return map[RailSlot]*PartRef{
		TopRail:    &d.TopRail,
		BottomRail: &d.BottomRail,
		HingeRail:  &d.HingeRail,
		LockRail:   &d.LockRail,
	}
}

// RailRef returns the part reference held in a rail slot
func (d DoorData) RailRef(slot RailSlot) PartRef {
	if ref, ok := d.refs()[slot]; ok {
		return *ref
	}
	return ""
}

// RailRefs returns the distinct non-empty rail references in slot order
func (d DoorData) RailRefs() []string {
	seen := make(map[PartRef]bool, len(RailSlots))
	var refs []string
	for _, slot := range []RailSlot{TopRail, BottomRail, HingeRail, LockRail} {
		ref := d.RailRef(slot)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, string(ref))
	}
	return refs
}

// Clone returns a deep copy of the document
func (d DoorData) Clone() DoorData {
	out := d
	out.Extensions = d.Extensions.clone()
	if d.raw != nil {
		out.raw = make(map[RailSlot]json.RawMessage, len(d.raw))
		for slot, raw := range d.raw {
			out.raw[slot] = append(json.RawMessage(nil), raw...)
		}
	}
	return out
}

// MarshalJSON emits rail references that are set followed by extensions. A
// reference still holding its decoded value is written back in its original form.
func (d DoorData) MarshalJSON() ([]byte, error) {
	known := make(map[string]json.RawMessage)
	for slot, ref := range d.refs() {
		if *ref == "" {
			continue
		}
		if raw, ok := d.raw[slot]; ok {
			var decoded PartRef
			if err := decoded.UnmarshalJSON(raw); err == nil && decoded == *ref {
				known[string(slot)] = raw
				continue
			}
		}
		b, err := json.Marshal(string(*ref))
		if err != nil {
			return nil, err
		}
		known[string(slot)] = b
	}
	return encodeDocument(known, d.Extensions)
}

// UnmarshalJSON accepts any JSON object; unknown keys are kept as extensions
func (d *DoorData) UnmarshalJSON(data []byte) error {
	fields, err := decodeDocument(data)
	if err != nil {
		return err
	}
	*d = DoorData{}
	for slot, ref := range d.refs() {
		raw, ok := fields[string(slot)]
		if !ok {
			continue
		}
		if err := ref.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("%s: %w", slot, err)
		}
		if *ref != "" {
			if d.raw == nil {
				d.raw = make(map[RailSlot]json.RawMessage)
			}
			d.raw[slot] = append(json.RawMessage(nil), bytes.TrimSpace(raw)...)
		}
		delete(fields, string(slot))
	}
	if len(fields) > 0 {
		d.Extensions = Extensions(fields)
	}
	return nil
}

// Door is one leaf of an entry
type Door struct {
	ID      int64    `json:"id"`
	EntryID int64    `json:"entry_id"`
	Leaf    Leaf     `json:"leaf"`
	Data    DoorData `json:"data"`
}

// DoorOpening is a door's document joined with its entry's opening document
type DoorOpening struct {
	DoorID  int64
	EntryID int64
	Door    DoorData
	Opening EntryData
}
