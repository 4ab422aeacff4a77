package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

func decodeUpdate(t *testing.T, body string) *UpdateEntryRequest {
	t.Helper()
	var req UpdateEntryRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestUpdateEntryRequest_Validate(t *testing.T) {
	cmd, err := decodeUpdate(t, `{"handing":"RHRA","data":{"openingWidth":36}}`).Validate()
	require.NoError(t, err)
	assert.Equal(t, entities.Handing("RHRA"), cmd.Handing)
	assert.True(t, cmd.Data.OpeningWidth.Value().Equal(decimal.NewFromInt(36)))
}

func TestUpdateEntryRequest_DataAlias(t *testing.T) {
	cmd, err := decodeUpdate(t, `{"handing":"RHR","entryData":{"openingWidth":30}}`).Validate()
	require.NoError(t, err)
	assert.True(t, cmd.Data.OpeningWidth.Value().Equal(decimal.NewFromInt(30)))

	cmd, err = decodeUpdate(t, `{"handing":"RHR","data":{"openingWidth":40},"entryData":{"openingWidth":30}}`).Validate()
	require.NoError(t, err)
	assert.True(t, cmd.Data.OpeningWidth.Value().Equal(decimal.NewFromInt(40)))

	cmd, err = decodeUpdate(t, `{"handing":"RHR","data":null,"entryData":{"openingWidth":30}}`).Validate()
	require.NoError(t, err)
	assert.True(t, cmd.Data.OpeningWidth.Value().Equal(decimal.NewFromInt(30)))
}

func TestUpdateEntryRequest_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing handing", `{"data":{}}`, "handing: is required"},
		{"missing data", `{"handing":"RHR"}`, "data: is required"},
		{"string data", `{"handing":"RHR","data":"new"}`, "data: document must be a JSON object"},
		{"array legacy data", `{"handing":"RHR","entryData":[1]}`, "entryData: document must be a JSON object"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeUpdate(t, tc.body).Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func TestCreateEntryRequest_Validate(t *testing.T) {
	var req CreateEntryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"handing":"LHRA","entryData":{"openingHeight":84},"doorData":{"topRail":"TR-1"},"frameData":{"x":1}}`), &req))

	cmd, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, entities.Handing("LHRA"), cmd.Handing)
	assert.Equal(t, entities.PartRef("TR-1"), cmd.DoorData.TopRail)

	empty, err := (&CreateEntryRequest{Handing: "RHR"}).Validate()
	require.NoError(t, err)
	assert.False(t, empty.EntryData.OpeningHeight.Present())

	_, err = (&CreateEntryRequest{DoorData: json.RawMessage(`{"topRail":{}}`)}).Validate()
	assert.ErrorContains(t, err, "doorData: topRail")
}

func TestNewCutListView(t *testing.T) {
	view := NewCutListView(entities.CutList{
		entities.TopRail:   {Length: decimal.RequireFromString("27.8125")},
		entities.HingeRail: {Length: decimal.NewFromInt(69)},
	})

	out, err := json.Marshal(CutListResponse{CutList: view})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cutList":{"topRail":{"length":27.8125},"hingeRail":{"length":69}}}`, string(out))
}
