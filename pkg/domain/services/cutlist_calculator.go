package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// ComputeDoorCutList derives rail cut lengths from an opening and the
// across-width lengths of whichever rails resolved.
//
//	vertical   = openingHeight - top - bottom              (hinge and lock rails)
//	horizontal = openingWidth - hingeGap - strikeGap
//	             - hinge - lock                             (top and bottom rails)
//
// Hinge and top rails are emitted only when the hinge rail resolved; lock and
// bottom rails only when the lock rail resolved. Rails that did not resolve
// count as zero in both formulas.
func ComputeDoorCutList(opening entities.EntryData, rails entities.RailLengths) entities.CutList {
	top := rails[entities.TopRail]
	bottom := rails[entities.BottomRail]
	hinge, hingeResolved := rails[entities.HingeRail]
	lock, lockResolved := rails[entities.LockRail]

	vertical := opening.OpeningHeight.Value().Sub(top).Sub(bottom)
	horizontal := opening.OpeningWidth.Value().
		Sub(opening.HingeGap.Value()).
		Sub(opening.StrikeGapValue()).
		Sub(hinge).
		Sub(lock)

	cutList := entities.CutList{}
	if hingeResolved {
		cutList[entities.HingeRail] = entities.CutLength{Length: vertical}
		cutList[entities.TopRail] = entities.CutLength{Length: horizontal}
	}
	if lockResolved {
		cutList[entities.LockRail] = entities.CutLength{Length: vertical}
		cutList[entities.BottomRail] = entities.CutLength{Length: horizontal}
	}
	return cutList
}

// RailLengthsFromCatalog maps each rail slot of a door to the across-width
// length of its referenced catalog part. Unreferenced slots and references the
// catalog does not know are left out.
func RailLengthsFromCatalog(door entities.DoorData, parts map[string]entities.CatalogPart) entities.RailLengths {
	rails := entities.RailLengths{}
	for _, slot := range entities.RailSlots {
		ref := door.RailRef(slot)
		if ref == "" {
			continue
		}
		part, ok := parts[string(ref)]
		if !ok {
			continue
		}
		if part.DimensionMissing {
			rails[slot] = decimal.Zero
			continue
		}
		rails[slot] = part.LengthAcrossWidth
	}
	return rails
}
