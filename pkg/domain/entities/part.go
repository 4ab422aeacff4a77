package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CatalogPart is a catalog (template) door part. LengthAcrossWidth is the stock
// consumed along the measured axis when the part is used as a rail.
type CatalogPart struct {
	PartType          string
	LengthAcrossWidth decimal.Decimal
	// DimensionMissing is set when the catalog row carries no across-width value.
	// The part still resolves and contributes zero.
	DimensionMissing bool
}

// NewCatalogPart creates a validated CatalogPart
func NewCatalogPart(partType string, lengthAcrossWidth decimal.Decimal) (*CatalogPart, error) {
	if partType == "" {
		return nil, fmt.Errorf("part type cannot be empty")
	}
	if lengthAcrossWidth.IsNegative() {
		return nil, fmt.Errorf("length across width cannot be negative, got %s", lengthAcrossWidth)
	}

	return &CatalogPart{
		PartType:          partType,
		LengthAcrossWidth: lengthAcrossWidth,
	}, nil
}

// RailLengths maps rail slots to the across-width length of the part that
// resolved for the slot. A slot is present only when its reference resolved.
type RailLengths map[RailSlot]decimal.Decimal

// CutLength is the length a rail must be cut to
type CutLength struct {
	Length decimal.Decimal
}

// CutList holds a cut length for each rail slot that qualified
type CutList map[RailSlot]CutLength
