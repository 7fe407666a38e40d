package paired

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	FirstColumn  string // Column name for the first method (default: "first")
	SecondColumn string // Column name for the second method (default: "second")
	IDColumn     string // Column name for a subject/group ID (optional, for filtering)
	IDFilter     string // Value to filter by ID column
	HasHeader    bool   // Whether CSV has header row (default: true)
	Delimiter    rune   // Field delimiter (default: ',')
	SkipRows     int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		FirstColumn:  "first",
		SecondColumn: "second",
		HasHeader:    true,
		Delimiter:    ',',
	}
}

// LoadCSV loads a paired sample from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Sample, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a paired sample from an io.Reader.
// Rows where either value is missing, not a number, NaN or infinite are
// skipped as a pair.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Sample, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	firstIdx, secondIdx, idIdx := 0, 1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		firstIdx, secondIdx, idIdx = -1, -1, -1

		for i, h := range header {
			h = cleanField(h)
			switch {
			case h == opts.FirstColumn:
				firstIdx = i
			case h == opts.SecondColumn:
				secondIdx = i
			case opts.IDColumn != "" && h == opts.IDColumn:
				idIdx = i
			}
		}

		// Default to the last two columns if not found
		if firstIdx == -1 && secondIdx == -1 && len(header) >= 2 {
			firstIdx, secondIdx = len(header)-2, len(header)-1
		}
		if firstIdx == -1 {
			return nil, fmt.Errorf("column %q not found in CSV header", opts.FirstColumn)
		}
		if secondIdx == -1 {
			return nil, fmt.Errorf("column %q not found in CSV header", opts.SecondColumn)
		}
	}

	var first, second []float64

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) {
			if cleanField(record[idIdx]) != opts.IDFilter {
				continue
			}
		}

		a, okA := parseField(record, firstIdx)
		b, okB := parseField(record, secondIdx)
		if !okA || !okB {
			continue
		}
		first = append(first, a)
		second = append(second, b)
	}

	if len(first) == 0 {
		return nil, errors.New("no valid pairs found in CSV")
	}

	return New(first, second)
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func parseField(record []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(record) {
		return 0, false
	}
	s := cleanField(record[idx])
	if s == "" || s == "NA" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// WriteCSV writes the sample with its per-pair mean and difference, the
// coordinates of a Bland-Altman plot.
func WriteCSV(w io.Writer, s *Sample) error {
	writer := bufio.NewWriter(w)

	if _, err := writer.WriteString("first,second,mean,difference\n"); err != nil {
		return err
	}

	means := s.Means()
	diffs := s.Differences()
	for i := range s.First {
		row := []string{
			strconv.FormatFloat(s.First[i], 'f', -1, 64),
			strconv.FormatFloat(s.Second[i], 'f', -1, 64),
			strconv.FormatFloat(means[i], 'f', -1, 64),
			strconv.FormatFloat(diffs[i], 'f', -1, 64),
		}
		if _, err := writer.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// SaveCSV writes the sample to a file as described by WriteCSV.
func SaveCSV(s *Sample, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
