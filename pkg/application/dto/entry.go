package dto

import (
	"bytes"
	"encoding/json"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// UpdateEntryRequest is the body of an entry update. EntryData is the legacy
// name of Data; Data wins when both are sent.
type UpdateEntryRequest struct {
	Handing   *string         `json:"handing"`
	Data      json.RawMessage `json:"data"`
	EntryData json.RawMessage `json:"entryData"`
}

// UpdateEntryCommand is a validated entry update
type UpdateEntryCommand struct {
	Handing entities.Handing
	Data    entities.EntryData
}

// Validate checks the request and decodes its opening attributes
func (r *UpdateEntryRequest) Validate() (*UpdateEntryCommand, error) {
	if r.Handing == nil {
		return nil, invalid("handing", "is required")
	}

	field, raw := "data", r.Data
	if !present(raw) {
		field, raw = "entryData", r.EntryData
	}
	if !present(raw) {
		return nil, invalid("data", "is required")
	}

	cmd := &UpdateEntryCommand{Handing: entities.Handing(*r.Handing)}
	if err := json.Unmarshal(raw, &cmd.Data); err != nil {
		return nil, invalid(field, "%v", err)
	}
	return cmd, nil
}

// CreateEntryRequest is the body of an entry creation. frameData is accepted
// and ignored.
type CreateEntryRequest struct {
	Handing   string          `json:"handing"`
	EntryData json.RawMessage `json:"entryData"`
	DoorData  json.RawMessage `json:"doorData"`
	FrameData json.RawMessage `json:"frameData,omitempty"`
}

// CreateEntryCommand is a validated entry creation
type CreateEntryCommand struct {
	Handing   entities.Handing
	EntryData entities.EntryData
	DoorData  entities.DoorData
}

// Validate checks the request and decodes its documents. Missing documents
// are empty.
func (r *CreateEntryRequest) Validate() (*CreateEntryCommand, error) {
	cmd := &CreateEntryCommand{Handing: entities.Handing(r.Handing)}
	if present(r.EntryData) {
		if err := json.Unmarshal(r.EntryData, &cmd.EntryData); err != nil {
			return nil, invalid("entryData", "%v", err)
		}
	}
	if present(r.DoorData) {
		if err := json.Unmarshal(r.DoorData, &cmd.DoorData); err != nil {
			return nil, invalid("doorData", "%v", err)
		}
	}
	return cmd, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// EntryResponse wraps a single entry
type EntryResponse struct {
	Entry *entities.Entry `json:"entry"`
}

// DoorsResponse wraps an entry's doors
type DoorsResponse struct {
	Doors []*entities.Door `json:"doors"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries an error message
type ErrorResponse struct {
	Error string `json:"error"`
}
