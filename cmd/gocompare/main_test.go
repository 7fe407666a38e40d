package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `subject,oximeter,blood_gas
s01,98.2,97.5
s02,95.1,95.9
s03,91.7,90.1
s04,97.4,97.0
s05,88.9,90.2
s06,93.3,92.4
s07,99.0,98.1
s08,90.5,91.3
s09,94.8,93.9
s10,96.2,96.8
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func decodeOutput(t *testing.T, s string) output {
	t.Helper()

	var doc output
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return doc
}

func TestAnalyzeJSON(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "oximetry.csv", sampleCSV)
	cfg := filepath.Join(dir, "absent.toml")

	out, err := run(t, "analyze", data, "--config", cfg,
		"--first", "oximeter", "--second", "blood_gas",
		"--ci-method", "approximate", "--format", "json")
	require.NoError(t, err)

	doc := decodeOutput(t, out)
	require.Len(t, doc.Analyses, 1)
	res := doc.Analyses[0].Result
	assert.Equal(t, data, doc.Analyses[0].File)
	assert.Equal(t, 10, res.SampleCount)
	assert.Equal(t, 95.0, res.ConfidenceLevel)
	require.NotNil(t, res.ConfidenceIntervals)
	assert.Less(t, res.ConfidenceIntervals.UpperLoA.Low, res.UpperLimit)
}

func TestAnalyzeText(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "oximetry.csv", sampleCSV)

	out, err := run(t, "analyze", data, "--config", filepath.Join(dir, "absent.toml"),
		"--first", "oximeter", "--second", "blood_gas", "--ci", "0")
	require.NoError(t, err)

	assert.Contains(t, out, "oximetry.csv (n=10)")
	assert.Contains(t, out, "Mean difference:")
	assert.Contains(t, out, "89.5500 to    98.5500")
	assert.NotContains(t, out, "confidence intervals")
}

func TestAnalyzeConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "oximetry.csv", sampleCSV)
	cfg := writeFile(t, dir, "config.toml", `
[analysis]
ci = 90
ci-method = "approximate"
format = "json"

[csv]
first = "oximeter"
second = "blood_gas"
`)

	out, err := run(t, "analyze", data, "--config", cfg)
	require.NoError(t, err)
	res := decodeOutput(t, out).Analyses[0].Result
	assert.Equal(t, 90.0, res.ConfidenceLevel)
	assert.Equal(t, "approximate", res.ConfidenceMethod)

	out, err = run(t, "analyze", data, "--config", cfg, "--ci", "99")
	require.NoError(t, err)
	res = decodeOutput(t, out).Analyses[0].Result
	assert.Equal(t, 99.0, res.ConfidenceLevel)
}

func TestAnalyzePointsAndOutput(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "oximetry.csv", sampleCSV)
	points := filepath.Join(dir, "points")
	report := filepath.Join(dir, "report.json")

	out, err := run(t, "analyze", data, "--config", filepath.Join(dir, "absent.toml"),
		"--first", "oximeter", "--second", "blood_gas", "--detrend", "linear",
		"--ci-method", "approximate", "--format", "json",
		"--points-dir", points, "-o", report)
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(report)
	require.NoError(t, err)
	res := decodeOutput(t, string(content)).Analyses[0].Result
	assert.Equal(t, "linear", res.Detrend.Method)
	require.NotNil(t, res.Detrend.Slope)

	csvData, err := os.ReadFile(filepath.Join(points, "oximetry_points.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	assert.Equal(t, "first,second,mean,difference", lines[0])
	assert.Len(t, lines, 11)
}

func TestAnalyzePointsDistinctNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o755))
	first := writeFile(t, dir, "a/oximetry.csv", sampleCSV)
	second := writeFile(t, dir, "b/oximetry.csv", strings.Replace(sampleCSV, "s10,96.2,96.8\n", "", 1))
	points := filepath.Join(dir, "points")

	_, err := run(t, "analyze", first, second, "--config", filepath.Join(dir, "absent.toml"),
		"--first", "oximeter", "--second", "blood_gas", "--ci", "0", "--points-dir", points)
	require.NoError(t, err)

	for name, want := range map[string]int{"oximetry_points.csv": 11, "oximetry_2_points.csv": 10} {
		csvData, err := os.ReadFile(filepath.Join(points, name))
		require.NoError(t, err, name)
		assert.Len(t, strings.Split(strings.TrimSpace(string(csvData)), "\n"), want, name)
	}
}

func TestUniqueName(t *testing.T) {
	used := map[string]bool{}

	assert.Equal(t, "x", uniqueName(used, "x"))
	assert.Equal(t, "x_2", uniqueName(used, "x"))
	assert.Equal(t, "x_3", uniqueName(used, "x"))
	assert.Equal(t, "x_2_2", uniqueName(used, "x_2"))
	assert.Equal(t, "y", uniqueName(used, "y"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportPropagatesErrors(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "oximetry.csv", sampleCSV)

	out, err := run(t, "analyze", data, "--config", filepath.Join(dir, "absent.toml"),
		"--first", "oximeter", "--second", "blood_gas", "--format", "json", "--ci-method", "approximate")
	require.NoError(t, err)
	results := decodeOutput(t, out).Analyses

	for _, format := range []string{formatText, formatJSON} {
		err := writeReport(failingWriter{}, format, results)
		assert.ErrorContains(t, err, "disk full", format)
	}

	_, err = run(t, "analyze", data, "--config", filepath.Join(dir, "absent.toml"),
		"--first", "oximeter", "--second", "blood_gas", "-o", dir)
	assert.ErrorContains(t, err, "failed to create output")
}

func TestAnalyzeErrors(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "oximetry.csv", sampleCSV)
	cfg := filepath.Join(dir, "absent.toml")

	_, err := run(t, "analyze", data, "--config", cfg, "--format", "yaml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "analyze", data, "--config", cfg, "--delimiter", ";;")
	assert.ErrorContains(t, err, "single character")

	_, err = run(t, "analyze", data, "--config", cfg,
		"--first", "oximeter", "--second", "blood_gas", "--ci-method", "bootstrap")
	assert.ErrorContains(t, err, "bootstrap")

	_, err = run(t, "analyze", filepath.Join(dir, "missing.csv"), "--config", cfg)
	assert.ErrorContains(t, err, "failed to load")
}

func TestCoefficient(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "absent.toml")

	out, err := run(t, "coefficient", "--config", cfg, "--n", "10", "--gamma", "0.975")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "K = 3.77"), out)

	_, err = run(t, "coefficient", "--config", cfg, "--n", "10", "--gamma", "0.975", "--max-iterations", "3")
	assert.ErrorContains(t, err, "4 iterations")

	_, err = run(t, "coefficient", "--config", cfg, "--n", "10")
	assert.Error(t, err)
}

func TestConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := run(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[analysis]")

	out, err = run(t, "config", "--print")
	require.NoError(t, err)
	assert.Equal(t, string(content), out)
}
