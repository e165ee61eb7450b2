package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/user/hline_analyzer_go/internal/measurement"
)

// ClassifyRow tells comment, metadata and data records apart by the prefix
// of their first field.
func ClassifyRow(row []string) RowKind {
	if len(row) == 0 {
		return RowData
	}
	switch {
	case strings.HasPrefix(row[0], metadataPrefix):
		return RowMetadata
	case strings.HasPrefix(row[0], commentPrefix):
		return RowComment
	default:
		return RowData
	}
}

// ReadGalFile reads a galactic-coordinate scan log from dir/name.
func ReadGalFile(dir, name string) (*measurement.Measurement, error) {
	return readSpectraFile(dir, name, galacticVariant)
}

// ReadSunFile reads an azimuth/elevation scan log from dir/name. Its tsys
// rows also carry a calibration constant.
func ReadSunFile(dir, name string) (*measurement.Measurement, error) {
	return readSpectraFile(dir, name, sunVariant)
}

// ReadNPoint reads an n-point scan grid from dir/name. When the file holds
// several data rows the last one is returned.
func ReadNPoint(dir, name string) (*Grid, error) {
	file, err := openLog(dir, name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	g, err := ParseNPoint(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse n-point file %s: %w", file.Name(), err)
	}
	return g, nil
}

// ParseGal decodes a galactic-coordinate scan log.
func ParseGal(r io.Reader) (*measurement.Measurement, error) {
	return parseSpectra(r, galacticVariant)
}

// ParseSun decodes an azimuth/elevation scan log.
func ParseSun(r io.Reader) (*measurement.Measurement, error) {
	return parseSpectra(r, sunVariant)
}

// ParseNPoint decodes an n-point scan grid. The grid dimension is the
// integer square root of the declared point count.
func ParseNPoint(r io.Reader) (*Grid, error) {
	reader := newTabReader(r)

	var grid *Grid
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		if ClassifyRow(row) != RowData {
			continue
		}
		line, _ := reader.FieldPos(0)

		count, err := intField(row, FieldNumPoints, line)
		if err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, fmt.Errorf("line %d: field %d: %w: negative point count %d", line, FieldNumPoints, ErrMalformedRecord, count)
		}
		size := isqrt(count)
		if err := requireFields(row, FieldFirstPoint+size*size, line); err != nil {
			return nil, err
		}

		g := NewGrid(size)
		idx := FieldFirstPoint
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				v, err := floatField(row, idx, line)
				if err != nil {
					return nil, err
				}
				g.Values[i][j] = v
				idx++
			}
		}
		grid = g
	}

	if grid == nil {
		return nil, ErrNoData
	}
	return grid, nil
}

func readSpectraFile(dir, name string, v spectrumVariant) (*measurement.Measurement, error) {
	file, err := openLog(dir, name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := parseSpectra(file, v)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s file %s: %w", v.name, file.Name(), err)
	}
	return m, nil
}

func openLog(dir, name string) (*os.File, error) {
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func newTabReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1 // comment rows are shorter than data rows
	reader.LazyQuotes = true
	return reader
}

func parseSpectra(r io.Reader, v spectrumVariant) (*measurement.Measurement, error) {
	reader := newTabReader(r)

	var (
		cal     calibration
		entries []measurement.Entry
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		line, _ := reader.FieldPos(0)

		switch ClassifyRow(row) {
		case RowComment:
			continue
		case RowMetadata:
			cal, err = parseCalibration(row[0], v, line)
			if err != nil {
				return nil, err
			}
		case RowData:
			entry, err := parseDataRow(row, v, cal.tsys, line)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	coordType := measurement.Galactic
	if v.hasCalConst {
		coordType = measurement.AzEl
	}
	return measurement.New(coordType, cal.tsys, cal.calConst, entries), nil
}

// parseCalibration reads tsys (and the calibration constant for variants
// that carry one) from fixed character ranges of a "* tsys" field.
func parseCalibration(field string, v spectrumVariant, line int) (calibration, error) {
	var cal calibration

	raw := substr(field, tsysStart, tsysEnd)
	tsys, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return cal, fmt.Errorf("line %d: tsys %q: %w: %w", line, raw, ErrMalformedRecord, err)
	}
	cal.tsys = float64(tsys)

	if v.hasCalConst {
		raw = substr(field, calConstStart, calConstEnd)
		cal.calConst, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return cal, fmt.Errorf("line %d: calibration constant %q: %w: %w", line, raw, ErrMalformedRecord, err)
		}
	}
	return cal, nil
}

func parseDataRow(row []string, v spectrumVariant, tsys float64, line int) (measurement.Entry, error) {
	var entry measurement.Entry

	x, err := coordField(row, FieldCoordX, line)
	if err != nil {
		return entry, err
	}
	y, err := coordField(row, FieldCoordY, line)
	if err != nil {
		return entry, err
	}
	startFreq, err := floatField(row, FieldStartFreq, line)
	if err != nil {
		return entry, err
	}
	freqStep, err := floatField(row, FieldFreqStep, line)
	if err != nil {
		return entry, err
	}
	numPoints, err := intField(row, FieldNumPoints, line)
	if err != nil {
		return entry, err
	}
	numPoints = max(numPoints, 0)
	if err := requireFields(row, FieldFirstPoint+numPoints, line); err != nil {
		return entry, err
	}

	spectrum := measurement.Spectrum{
		Frequencies: make([]float64, 0, numPoints),
		Intensities: make([]float64, 0, numPoints),
		Tsys:        tsys,
	}
	for point := FieldFirstPoint; point < FieldFirstPoint+numPoints; point++ {
		intensity, err := floatField(row, point, line)
		if err != nil {
			return entry, err
		}
		spectrum.Frequencies = append(spectrum.Frequencies, startFreq+freqStep*float64(point-v.freqIndexBase))
		spectrum.Intensities = append(spectrum.Intensities, intensity-tsys)
	}

	entry.Coord = measurement.Coord{X: x, Y: y}
	entry.Spectrum = spectrum
	return entry, nil
}

func requireFields(row []string, n, line int) error {
	if len(row) < n {
		return fmt.Errorf("line %d: %w: row has %d fields, need %d", line, ErrMalformedRecord, len(row), n)
	}
	return nil
}

func floatField(row []string, idx, line int) (float64, error) {
	if err := requireFields(row, idx+1, line); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: field %d: %w: %w", line, idx, ErrMalformedRecord, err)
	}
	return v, nil
}

func intField(row []string, idx, line int) (int, error) {
	if err := requireFields(row, idx+1, line); err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(row[idx]))
	if err != nil {
		return 0, fmt.Errorf("line %d: field %d: %w: %w", line, idx, ErrMalformedRecord, err)
	}
	return v, nil
}

// coordField reads a position field and rounds it half to even, the way the
// telescope software bins positions. The rounded value must fit in an int.
func coordField(row []string, idx, line int) (int, error) {
	v, err := floatField(row, idx, line)
	if err != nil {
		return 0, err
	}
	r := math.RoundToEven(v)
	if math.IsNaN(r) || r < float64(math.MinInt) || r >= float64(math.MaxInt) {
		return 0, fmt.Errorf("line %d: field %d: %w: coordinate %v out of range", line, idx, ErrMalformedRecord, v)
	}
	return int(r), nil
}

// substr returns s[lo:hi] with both bounds clamped to the string length.
func substr(s string, lo, hi int) string {
	hi = min(hi, len(s))
	if lo >= hi {
		return ""
	}
	return s[lo:hi]
}

func isqrt(n int) int {
	s := int(math.Sqrt(float64(n)))
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}

// IsMalformed reports whether err came from an unreadable record.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}
