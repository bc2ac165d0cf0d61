package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/mosaic/internal/langid"
	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/testutil"
)

func stubPipeline(t *testing.T, engines ...ocr.Engine) *Pipeline {
	t.Helper()
	p, err := NewBuilder().WithEngines(engines...).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func regionTexts(rs *RegionSet) []string {
	out := make([]string, len(rs.Regions))
	for i := range rs.Regions {
		out[i] = rs.Regions[i].Text
	}
	return out
}

func TestProcessExplicitMode(t *testing.T) {
	p := stubPipeline(t,
		ocr.NewStubEngine(ocr.ScriptLatin, testutil.Block("Hello world", 0, 0, 50, 10)),
		ocr.NewStubEngine(ocr.ScriptJapanese, testutil.Block("こんにちは", 0, 0, 50, 10)),
	)

	rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), Explicit(ocr.ScriptJapanese))
	require.NoError(t, err)

	assert.Equal(t, "Japanese", rs.Mode)
	require.Len(t, rs.Regions, 1)
	assert.Equal(t, "こんにちは", rs.Regions[0].Text)
	assert.Equal(t, ocr.ScriptJapanese, rs.Regions[0].Script)
	assert.Equal(t, "ja", rs.Regions[0].Language)
	assert.Equal(t, 100, rs.Width)
	assert.Equal(t, 40, rs.Height)
}

func TestProcessExplicitEngineFailureYieldsEmptyResult(t *testing.T) {
	p := stubPipeline(t,
		ocr.NewFailingStubEngine(ocr.ScriptLatin, errors.New("model load failed")),
	)

	rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), Explicit(ocr.ScriptLatin))
	require.NoError(t, err)
	assert.Empty(t, rs.Regions)
}

func TestProcessAutoSingleLabelsOverwritten(t *testing.T) {
	// Best-single labels the winner's blocks with the script name; the
	// language pass then overwrites it with the identified code.
	p := stubPipeline(t,
		ocr.NewStubEngine(ocr.ScriptLatin, testutil.Block("Hi", 0, 0, 20, 10)),
		ocr.NewStubEngine(ocr.ScriptJapanese, testutil.Block("こんにちは世界", 0, 0, 70, 10)),
	)

	rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), AutoSingle)
	require.NoError(t, err)

	assert.Equal(t, "auto-single", rs.Mode)
	require.Len(t, rs.Regions, 1)
	assert.Equal(t, ocr.ScriptJapanese, rs.Regions[0].Script)
	assert.Equal(t, "ja", rs.Regions[0].Language)
}

func TestProcessAutoSingleUndeterminedKeepsScriptLabel(t *testing.T) {
	// Digits identify as nothing, so the winner's script label survives.
	p := stubPipeline(t,
		ocr.NewStubEngine(ocr.ScriptLatin, testutil.Block("12345", 0, 0, 20, 10)),
	)

	rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), AutoSingle)
	require.NoError(t, err)

	require.Len(t, rs.Regions, 1)
	assert.Equal(t, "Latin", rs.Regions[0].Language)
}

func TestProcessAutoParallelMergesAcrossEngines(t *testing.T) {
	p := stubPipeline(t,
		ocr.NewStubEngine(ocr.ScriptLatin,
			testutil.Block("Hi", 0, 0, 10, 10),
			testutil.Block("World", 20, 20, 30, 30),
		),
		ocr.NewStubEngine(ocr.ScriptJapanese, testutil.Block("Hello", 1, 1, 9, 9)),
		ocr.NewFailingStubEngine(ocr.ScriptChinese, errors.New("down")),
	)

	rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), AutoParallel)
	require.NoError(t, err)

	assert.Equal(t, "auto-parallel", rs.Mode)
	assert.Equal(t, []string{"Hello", "World"}, regionTexts(rs))
	assert.Equal(t, "en", rs.Regions[0].Language)
	assert.Equal(t, ocr.ScriptJapanese, rs.Regions[0].Script)
}

func TestProcessAllEnginesFailedIsNotAnError(t *testing.T) {
	p := stubPipeline(t,
		ocr.NewFailingStubEngine(ocr.ScriptLatin, errors.New("down")),
		ocr.NewFailingStubEngine(ocr.ScriptJapanese, errors.New("down")),
	)

	for _, mode := range []Mode{AutoSingle, AutoParallel} {
		rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), mode)
		require.NoError(t, err, "mode %s", mode)
		assert.NotNil(t, rs.Regions)
		assert.Empty(t, rs.Regions)
	}
}

func TestProcessNilImage(t *testing.T) {
	p := stubPipeline(t, ocr.NewStubEngine(ocr.ScriptLatin))

	_, err := p.Process(context.Background(), nil, AutoParallel)
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestProcessReaderBadData(t *testing.T) {
	p := stubPipeline(t, ocr.NewStubEngine(ocr.ScriptLatin))

	_, err := p.ProcessReader(context.Background(), badReader{}, AutoParallel)
	assert.ErrorIs(t, err, ErrImageDecode)
}

type badReader struct{}

func (badReader) Read([]byte) (int, error) { return 0, errors.New("broken stream") }

func TestProcessFileMissing(t *testing.T) {
	p := stubPipeline(t, ocr.NewStubEngine(ocr.ScriptLatin))

	_, err := p.ProcessFile(context.Background(), "/nonexistent/input.png", AutoParallel)
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestProcessIdentifierFailureKeepsLabel(t *testing.T) {
	p := stubPipeline(t, ocr.NewStubEngine(ocr.ScriptKorean, testutil.Block("안녕하세요", 0, 0, 40, 10)))
	p.Identifier = failingIdentifier{}

	rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), AutoSingle)
	require.NoError(t, err)

	require.Len(t, rs.Regions, 1)
	assert.Equal(t, "Korean", rs.Regions[0].Language)
}

type failingIdentifier struct{}

func (failingIdentifier) Identify(string) (langid.Result, error) {
	return langid.Result{}, errors.New("identifier backend down")
}

func (failingIdentifier) Close() error { return nil }

func TestProcessDeterministic(t *testing.T) {
	p := stubPipeline(t,
		ocr.NewStubEngine(ocr.ScriptLatin,
			testutil.Block("Hi", 0, 0, 10, 10),
			testutil.Block("World", 20, 20, 30, 30),
		),
		ocr.NewStubEngine(ocr.ScriptJapanese, testutil.Block("Hello", 1, 1, 9, 9)),
	)

	for _, mode := range []Mode{AutoSingle, AutoParallel, Explicit(ocr.ScriptLatin)} {
		first, err := p.Process(context.Background(), testutil.TestImage(100, 40), mode)
		require.NoError(t, err)
		second, err := p.Process(context.Background(), testutil.TestImage(100, 40), mode)
		require.NoError(t, err)

		assert.Equal(t, first.Regions, second.Regions, "mode %s", mode)
	}
}

func TestProcessRecordsTimings(t *testing.T) {
	p := stubPipeline(t, ocr.NewStubEngine(ocr.ScriptLatin, testutil.Block("Hello", 0, 0, 10, 10)))

	rs, err := p.Process(context.Background(), testutil.TestImage(100, 40), AutoParallel)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, rs.Processing.TotalNs, rs.Processing.RecognitionNs)
	assert.GreaterOrEqual(t, rs.Processing.TotalNs, int64(0))
}
