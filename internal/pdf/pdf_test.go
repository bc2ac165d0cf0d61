package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"", nil},
		{"3", []int{3}},
		{"1,3,5", []int{1, 3, 5}},
		{"2-5", []int{2, 3, 4, 5}},
		{"1-3,7", []int{1, 2, 3, 7}},
		{" 1 , 2 ", []int{1, 2}},
	}
	for _, tt := range tests {
		got, err := ParsePageRange(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParsePageRangeInvalid(t *testing.T) {
	for _, input := range []string{"0", "-1", "abc", "5-2", "1,", "2-x"} {
		_, err := ParsePageRange(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParsePageFromFilename(t *testing.T) {
	page, err := parsePageFromFilename("page_7_image_2.png")
	require.NoError(t, err)
	assert.Equal(t, 7, page)

	_, err = parsePageFromFilename("cover.png")
	assert.Error(t, err)

	_, err = parsePageFromFilename("page_x_image_1.png")
	assert.Error(t, err)
}

func TestExtractImagesMissingFile(t *testing.T) {
	_, err := ExtractImages("/nonexistent/doc.pdf", nil)
	assert.Error(t, err)
}
