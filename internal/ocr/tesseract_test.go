package ocr

import (
	"image"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(text string, block, par, line int, x1, y1, x2, y2 int) gosseract.BoundingBox {
	return gosseract.BoundingBox{
		Box:      image.Rect(x1, y1, x2, y2),
		Word:     text,
		BlockNum: block,
		ParNum:   par,
		LineNum:  line,
	}
}

func TestAssembleBlocksGroupsWordsIntoLinesAndBlocks(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		word("Hello", 1, 1, 1, 0, 0, 40, 10),
		word("world", 1, 1, 1, 45, 0, 90, 10),
		word("second", 1, 1, 2, 0, 15, 60, 25),
		word("line", 1, 1, 2, 65, 15, 95, 25),
		word("next", 2, 1, 1, 0, 50, 30, 60),
	}

	blocks := assembleBlocks(ScriptLatin, boxes)
	require.Len(t, blocks, 2)

	first := blocks[0]
	assert.Equal(t, "Hello world\nsecond line", first.Text)
	assert.Equal(t, ScriptLatin, first.Script)
	require.Len(t, first.Lines, 2)
	assert.Equal(t, "Hello world", first.Lines[0].Text)
	require.Len(t, first.Lines[0].Elements, 2)

	require.NotNil(t, first.Box)
	assert.Equal(t, 0.0, first.Box.MinX)
	assert.Equal(t, 95.0, first.Box.MaxX)
	assert.Equal(t, 25.0, first.Box.MaxY)

	second := blocks[1]
	assert.Equal(t, "next", second.Text)
	require.NotNil(t, second.Box)
	assert.Equal(t, 50.0, second.Box.MinY)
}

func TestAssembleBlocksSkipsEmptyWords(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		word("  ", 1, 1, 1, 0, 0, 10, 10),
		word("", 1, 1, 1, 15, 0, 25, 10),
		word("real", 1, 1, 1, 30, 0, 60, 10),
	}

	blocks := assembleBlocks(ScriptLatin, boxes)
	require.Len(t, blocks, 1)
	assert.Equal(t, "real", blocks[0].Text)
}

func TestAssembleBlocksEmptyInput(t *testing.T) {
	assert.Empty(t, assembleBlocks(ScriptLatin, nil))
}

func TestAssembleBlocksParagraphBreaksLine(t *testing.T) {
	// Same block, new paragraph: the line must break even though LineNum
	// restarts at the same value.
	boxes := []gosseract.BoundingBox{
		word("one", 1, 1, 1, 0, 0, 20, 10),
		word("two", 1, 2, 1, 0, 15, 20, 25),
	}

	blocks := assembleBlocks(ScriptLatin, boxes)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Lines, 2)
	assert.Equal(t, "one\ntwo", blocks[0].Text)
}
