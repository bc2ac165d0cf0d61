package pipeline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/utils"
)

func sampleRegionSet() *RegionSet {
	boxA := utils.NewBox(0, 0, 50, 10)
	boxB := utils.NewBox(0, 20, 50, 30)
	return &RegionSet{
		Width:  100,
		Height: 40,
		Mode:   "auto-parallel",
		Regions: []Region{
			{Text: "Hello", Box: &boxA, Script: ocr.ScriptLatin, Language: "en"},
			{Text: "多行\nテキスト", Box: &boxB, Script: ocr.ScriptJapanese, Language: "ja"},
			{Text: "floating"},
		},
	}
}

func TestToJSONRoundTrips(t *testing.T) {
	out, err := ToJSON(sampleRegionSet())
	require.NoError(t, err)

	var decoded RegionSet
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 100, decoded.Width)
	require.Len(t, decoded.Regions, 3)
	assert.Equal(t, "en", decoded.Regions[0].Language)
	assert.Nil(t, decoded.Regions[2].Box)
}

func TestToPlainText(t *testing.T) {
	out, err := ToPlainText(sampleRegionSet())
	require.NoError(t, err)
	assert.Equal(t, "Hello\n多行\nテキスト\nfloating", out)
}

func TestToCSV(t *testing.T) {
	out, err := ToCSV(sampleRegionSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "min_x,min_y,max_x,max_y,script,language,text", lines[0])
	assert.Equal(t, "0.0,0.0,50.0,10.0,Latin,en,Hello", lines[1])
	// Embedded newlines are flattened so every region stays on one row.
	assert.Equal(t, "0.0,20.0,50.0,30.0,Japanese,ja,多行 テキスト", lines[2])
	// Boxless regions export empty coordinates.
	assert.Equal(t, ",,,,,,floating", lines[3])
}

func TestRenderersRejectNil(t *testing.T) {
	_, err := ToJSON(nil)
	assert.Error(t, err)
	_, err = ToPlainText(nil)
	assert.Error(t, err)
	_, err = ToCSV(nil)
	assert.Error(t, err)
}

func TestSortRegionsTopLeft(t *testing.T) {
	b1 := utils.NewBox(40, 0, 50, 10)
	b2 := utils.NewBox(0, 0, 10, 10)
	b3 := utils.NewBox(0, 20, 10, 30)
	rs := &RegionSet{Regions: []Region{
		{Text: "boxless-a"},
		{Text: "bottom", Box: &b3},
		{Text: "top-right", Box: &b1},
		{Text: "top-left", Box: &b2},
		{Text: "boxless-b"},
	}}

	SortRegionsTopLeft(rs)

	got := regionTexts(rs)
	assert.Equal(t, []string{"top-left", "top-right", "bottom", "boxless-a", "boxless-b"}, got)
}
