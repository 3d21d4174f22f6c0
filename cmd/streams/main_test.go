package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gostreams/adapters/mt19937"
	"gostreams/internal/diagnostics"
	"gostreams/internal/randomstreams"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MASTER_SEED", "")
	t.Setenv("PORT", "")
	t.Setenv("EXPORT_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "ERROR")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDeriveListsSubstreamSeeds(t *testing.T) {
	out, err := run(t, "derive", "--seed", "234", "--count", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	for i, want := range randomstreams.SubstreamSeeds(234, 3) {
		fields := strings.Fields(lines[i+1])
		require.Len(t, fields, 2)
		assert.Equal(t, strconv.Itoa(i), fields[0])
		assert.Equal(t, strconv.FormatUint(uint64(want), 10), fields[1])
	}
}

func TestDeriveRejectsBadSeed(t *testing.T) {
	_, err := run(t, "derive", "--seed", "-5")
	assert.Error(t, err)
}

func TestSampleMatchesDerivedGenerators(t *testing.T) {
	out, err := run(t, "sample", "--seed", "888", "--draw", "uniform:3", "--rounds", "2")
	require.NoError(t, err)

	ref := mt19937.New(randomstreams.SubstreamSeed(888, 0))
	scanner := bufio.NewScanner(strings.NewReader(out))
	rounds := 0
	for scanner.Scan() {
		var rec sampleRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		assert.Equal(t, rounds, rec.Round)
		for _, v := range rec.Value.Data {
			assert.Equal(t, ref.RandomSample(), v)
		}
		rounds++
	}
	assert.Equal(t, 2, rounds)
}

func TestSampleRejectsBadDraw(t *testing.T) {
	_, err := run(t, "sample", "--draw", "gamma:2")
	assert.ErrorContains(t, err, "gamma")
}

func TestInspectReportsFits(t *testing.T) {
	out, err := run(t, "inspect", "--seed", "7", "--draw", "uniform:200", "--draw", "random_integers:50:1:6", "--rounds", "5")
	require.NoError(t, err)

	var reports []diagnostics.Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	require.NotNil(t, reports[0].Fit)
	assert.Equal(t, 1000, reports[0].Summary.N)
	assert.Nil(t, reports[1].Fit)
	assert.GreaterOrEqual(t, reports[1].Summary.Min, 1.0)
	assert.LessOrEqual(t, reports[1].Summary.Max, 6.0)
}

func TestExportWritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	out, err := run(t, "export", "--draw", "uniform:2x2", "--draw", "permutation:1:4", "--out", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"streams", "draw0_r0", "draw1_r0"}, f.GetSheetList())
}
