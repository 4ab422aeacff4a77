package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

func workedReport() CutListReport {
	return CutListReport{
		CutList: entities.CutList{
			entities.HingeRail:  {Length: decimal.NewFromInt(69)},
			entities.LockRail:   {Length: decimal.NewFromInt(69)},
			entities.TopRail:    {Length: decimal.RequireFromString("27.8125")},
			entities.BottomRail: {Length: decimal.RequireFromString("27.8125")},
		},
		Door: entities.DoorData{TopRail: "TR-1", BottomRail: "BR-1", HingeRail: "HR-1", LockRail: "LR-1"},
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(workedReport(), Config{Format: "text", Writer: &buf}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, []string{"hingeRail", "HR-1", "69"}, strings.Fields(lines[5]))
	assert.Equal(t, []string{"bottomRail", "BR-1", "27.8125"}, strings.Fields(lines[8]))
}

func TestGenerate_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(CutListReport{CutList: entities.CutList{}}, Config{Writer: &buf}))
	assert.Contains(t, buf.String(), "No rails to cut")
}

func TestGenerate_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(workedReport(), Config{Format: "json", Writer: &buf}))
	assert.JSONEq(t, `{"cutList":{
		"hingeRail":{"length":69},
		"lockRail":{"length":69},
		"topRail":{"length":27.8125},
		"bottomRail":{"length":27.8125}
	}}`, buf.String())
}

func TestGenerate_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(workedReport(), Config{Format: "csv", Writer: &buf}))
	assert.Equal(t, "rail,part_type,length\nhingeRail,HR-1,69\nlockRail,LR-1,69\ntopRail,TR-1,27.8125\nbottomRail,BR-1,27.8125\n", buf.String())
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	err := Generate(workedReport(), Config{Format: "pdf", Writer: &bytes.Buffer{}})
	assert.EqualError(t, err, "unsupported output format: pdf")
}
