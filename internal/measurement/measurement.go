package measurement

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Measurement holds the spectra parsed from one 21 cm telescope log file.
// It is built once by New and not modified afterwards.
type Measurement struct {
	coords    []Coord
	spectra   *spectraIndex
	coordType CoordType
	tsys      float64
	calConst  float64
}

// New builds a Measurement from entries in file order. tsys is the last
// system temperature seen in the file, calConst is zero for file variants
// that do not carry one.
func New(coordType CoordType, tsys, calConst float64, entries []Entry) *Measurement {
	m := &Measurement{
		coords:    make([]Coord, 0, len(entries)),
		spectra:   newSpectraIndex(),
		coordType: coordType,
		tsys:      tsys,
		calConst:  calConst,
	}
	for _, e := range entries {
		m.coords = append(m.coords, e.Coord)
		m.spectra.add(e.Coord, e.Spectrum)
	}
	return m
}

func (m *Measurement) CoordType() CoordType { return m.coordType }
func (m *Measurement) Tsys() float64        { return m.tsys }
func (m *Measurement) CalConst() float64    { return m.calConst }

// Coords returns every recorded coordinate in file order, duplicates included.
func (m *Measurement) Coords() []Coord {
	out := make([]Coord, len(m.coords))
	copy(out, m.coords)
	return out
}

// UniqueCoords returns the distinct coordinates in the order they were first seen.
func (m *Measurement) UniqueCoords() []Coord {
	out := make([]Coord, len(m.spectra.keys))
	copy(out, m.spectra.keys)
	return out
}

// Spectra returns copies of all spectra recorded at c in file order.
func (m *Measurement) Spectra(c Coord) ([]Spectrum, error) {
	s, ok := m.spectra.get(c)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCoordNotFound, c)
	}
	out := make([]Spectrum, len(s))
	for i, sp := range s {
		out[i] = Spectrum{
			Frequencies: slices.Clone(sp.Frequencies),
			Intensities: slices.Clone(sp.Intensities),
			Tsys:        sp.Tsys,
		}
	}
	return out, nil
}

// Data returns the frequency and intensity sequences of every spectrum
// recorded at c, index-aligned.
func (m *Measurement) Data(c Coord) (freqs [][]float64, intensities [][]float64, err error) {
	all, err := m.Spectra(c)
	if err != nil {
		return nil, nil, err
	}
	freqs = make([][]float64, 0, len(all))
	intensities = make([][]float64, 0, len(all))
	for _, s := range all {
		freqs = append(freqs, s.Frequencies)
		intensities = append(intensities, s.Intensities)
	}
	return freqs, intensities, nil
}

// Recalibrate returns a copy of m with every intensity re-expressed against
// tsys instead of the system temperature subtracted when it was parsed.
func (m *Measurement) Recalibrate(tsys float64) *Measurement {
	entries := make([]Entry, 0, len(m.coords))
	cursor := make(map[Coord]int, len(m.spectra.keys))
	for _, c := range m.coords {
		src := m.spectra.byCoord[c][cursor[c]]
		cursor[c]++

		shifted := make([]float64, len(src.Intensities))
		for i, v := range src.Intensities {
			shifted[i] = v + src.Tsys - tsys
		}
		freqs := make([]float64, len(src.Frequencies))
		copy(freqs, src.Frequencies)
		entries = append(entries, Entry{
			Coord:    c,
			Spectrum: Spectrum{Frequencies: freqs, Intensities: shifted, Tsys: tsys},
		})
	}
	return New(m.coordType, tsys, m.calConst, entries)
}

// Report writes a human-readable summary of the measurement.
func (m *Measurement) Report(w io.Writer) error {
	var b strings.Builder
	b.WriteString("21 cm Telescope Measurement\n")
	fmt.Fprintf(&b, "tsys: %g\n", m.tsys)
	fmt.Fprintf(&b, "Coordinate type: %s\n", m.coordType)
	if m.coordType == AzEl {
		fmt.Fprintf(&b, "Calibration constant: %g\n", m.calConst)
	}
	b.WriteString("Coordinates:\n")
	parts := make([]string, len(m.coords))
	for i, c := range m.coords {
		parts[i] = c.String()
	}
	fmt.Fprintf(&b, "[%s]\n", strings.Join(parts, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}
