package excel

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gostreams/domain/stream"
)

func TestWriteSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.xlsx")

	streams := []StreamRow{{Key: "k1", Dist: stream.DistUniform, Shape: stream.Shape{2, 2}, Fingerprint: "abc"}}
	samples := []SampleSheet{{
		Name:   "fn_0",
		Tensor: stream.Tensor{Shape: stream.Shape{2, 2}, Data: []float64{0.25, 0.5, 0.75, 1}},
	}}
	require.NoError(t, WriteSamples(path, streams, samples))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheetName, "fn_0"}, f.GetSheetList())

	key, err := f.GetCellValue(SummarySheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "k1", key)

	raw, err := f.GetCellValue("fn_0", "A2")
	require.NoError(t, err)
	v, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.Equal(t, 0.75, v)
}
