package dto

import (
	"encoding/json"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// CutLengthView is a cut length as sent over the wire
type CutLengthView struct {
	Length json.Number `json:"length"`
}

// CutListView keys cut lengths by rail slot name
type CutListView map[string]CutLengthView

// CutListResponse is the body of a cut-list request
type CutListResponse struct {
	CutList CutListView `json:"cutList"`
}

// NewCutListView converts a cut list to its wire form. Lengths become JSON
// numbers carrying the exact decimal value.
func NewCutListView(list entities.CutList) CutListView {
	view := make(CutListView, len(list))
	for slot, cut := range list {
		view[string(slot)] = CutLengthView{Length: json.Number(cut.Length.String())}
	}
	return view
}
