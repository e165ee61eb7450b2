package measurement

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampSpectrum(n int, start, step, offset, tsys float64) Spectrum {
	s := Spectrum{
		Frequencies: make([]float64, n),
		Intensities: make([]float64, n),
		Tsys:        tsys,
	}
	for i := 0; i < n; i++ {
		s.Frequencies[i] = start + step*float64(i)
		s.Intensities[i] = offset + float64(i)
	}
	return s
}

func sampleMeasurement() *Measurement {
	return New(Galactic, 100, 0, []Entry{
		{Coord: Coord{10, 20}, Spectrum: rampSpectrum(3, 1400, 0.1, 5, 100)},
		{Coord: Coord{30, 0}, Spectrum: rampSpectrum(3, 1400, 0.1, 1, 100)},
		{Coord: Coord{10, 20}, Spectrum: rampSpectrum(3, 1400, 0.1, 7, 90)},
	})
}

func TestCoordsKeepFileOrderAndDuplicates(t *testing.T) {
	m := sampleMeasurement()

	assert.Equal(t, []Coord{{10, 20}, {30, 0}, {10, 20}}, m.Coords())
	assert.Equal(t, []Coord{{10, 20}, {30, 0}}, m.UniqueCoords())
}

func TestCoordsReturnsCopy(t *testing.T) {
	m := sampleMeasurement()
	c := m.Coords()
	c[0] = Coord{-1, -1}
	assert.Equal(t, Coord{10, 20}, m.Coords()[0])
}

func TestDataReturnsCopy(t *testing.T) {
	m := sampleMeasurement()
	c := Coord{10, 20}

	freqs, intensities, err := m.Data(c)
	require.NoError(t, err)
	intensities[0][0] = -999
	freqs[0][0] = -1

	spectra, err := m.Spectra(c)
	require.NoError(t, err)
	spectra[1].Intensities[2] = -999

	freqs, intensities, err = m.Data(c)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7}, intensities[0])
	assert.Equal(t, []float64{7, 8, 9}, intensities[1])
	assert.Equal(t, 1400.0, freqs[0][0])
}

func TestEveryCoordHasSpectra(t *testing.T) {
	m := sampleMeasurement()
	for _, c := range m.Coords() {
		s, err := m.Spectra(c)
		require.NoError(t, err)
		assert.NotEmpty(t, s)
	}
}

func TestDataAppendsRepeatedCoordinates(t *testing.T) {
	m := sampleMeasurement()

	freqs, intensities, err := m.Data(Coord{10, 20})
	require.NoError(t, err)
	require.Len(t, freqs, 2)
	require.Len(t, intensities, 2)
	assert.Equal(t, []float64{5, 6, 7}, intensities[0])
	assert.Equal(t, []float64{7, 8, 9}, intensities[1])
	assert.InDeltaSlice(t, []float64{1400.0, 1400.1, 1400.2}, freqs[0], 1e-9)
}

func TestDataUnknownCoordinate(t *testing.T) {
	m := sampleMeasurement()

	_, _, err := m.Data(Coord{1, 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCoordNotFound))
	assert.Contains(t, err.Error(), "(1, 1)")

	_, err = m.Spectra(Coord{1, 1})
	assert.ErrorIs(t, err, ErrCoordNotFound)
}

func TestRecalibrate(t *testing.T) {
	m := sampleMeasurement()

	r := m.Recalibrate(95)
	assert.Equal(t, 95.0, r.Tsys())
	assert.Equal(t, m.Coords(), r.Coords())

	_, intensities, err := r.Data(Coord{10, 20})
	require.NoError(t, err)
	// first scan was corrected with 100, second with 90
	assert.Equal(t, []float64{10, 11, 12}, intensities[0])
	assert.Equal(t, []float64{2, 3, 4}, intensities[1])

	// original untouched
	_, orig, err := m.Data(Coord{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7}, orig[0])
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleMeasurement().Report(&buf))

	out := buf.String()
	assert.Contains(t, out, "21 cm Telescope Measurement")
	assert.Contains(t, out, "tsys: 100")
	assert.Contains(t, out, "Coordinate type: galactic")
	assert.Contains(t, out, "[(10, 20), (30, 0), (10, 20)]")
	assert.NotContains(t, out, "Calibration constant")
}

func TestReportAzElShowsCalConst(t *testing.T) {
	m := New(AzEl, 120, 1.2345, []Entry{
		{Coord: Coord{180, 45}, Spectrum: rampSpectrum(4, 1420, 0.01, 0, 120)},
	})
	var buf bytes.Buffer
	require.NoError(t, m.Report(&buf))
	assert.Contains(t, buf.String(), "Calibration constant: 1.2345")
	assert.Contains(t, buf.String(), "Coordinate type: azel")
}

func TestTrimEdges(t *testing.T) {
	s := rampSpectrum(20, 0, 1, 0, 0)
	trimmed := TrimEdges(s)
	require.Equal(t, 4, trimmed.Len())
	assert.Equal(t, []float64{8, 9, 10, 11}, trimmed.Intensities)
	assert.Equal(t, []float64{8, 9, 10, 11}, trimmed.Frequencies)

	assert.Equal(t, 0, TrimEdges(rampSpectrum(16, 0, 1, 0, 0)).Len())
	assert.Equal(t, 0, TrimEdges(Spectrum{}).Len())
}

func TestPlot(t *testing.T) {
	m := New(Galactic, 0, 0, []Entry{
		{Coord: Coord{1, 2}, Spectrum: rampSpectrum(32, 1420, 0.01, 0, 0)},
		{Coord: Coord{1, 2}, Spectrum: rampSpectrum(32, 1420, 0.01, 3, 0)},
		{Coord: Coord{1, 2}, Spectrum: rampSpectrum(10, 1420, 0.01, 3, 0)},
	})

	p, err := m.Plot(Coord{1, 2})
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "(1, 2)")
	// axis ranges only cover trimmed samples of the two long scans
	assert.InDelta(t, 1420.08, p.X.Min, 1e-9)
	assert.InDelta(t, 1420.23, p.X.Max, 1e-9)
	assert.Equal(t, 8.0, p.Y.Min)
	assert.Equal(t, 26.0, p.Y.Max)

	spectra, err := m.Spectra(Coord{1, 2})
	require.NoError(t, err)
	lines, err := spectrumLines(spectra)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for i, sl := range lines {
		assert.Equal(t, i+1, sl.scan)
		require.Len(t, sl.line.XYs, 16)
		assert.InDelta(t, 1420.08, sl.line.XYs[0].X, 1e-9)
	}
	assert.Equal(t, 8.0, lines[0].line.XYs[0].Y)
	assert.Equal(t, 11.0, lines[1].line.XYs[0].Y)

	_, err = m.Plot(Coord{9, 9})
	assert.ErrorIs(t, err, ErrCoordNotFound)
}
