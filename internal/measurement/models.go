package measurement

import (
	"errors"
	"fmt"
)

// EdgeTrim is the number of samples dropped from each end of a spectrum
// before it is displayed or analyzed. The receiver band edges carry filter
// roll-off artifacts.
const EdgeTrim = 8

// ErrCoordNotFound is returned when a coordinate has no recorded spectra.
var ErrCoordNotFound = errors.New("coordinate not found")

// CoordType tags the coordinate system a measurement was taken in.
type CoordType string

const (
	Galactic CoordType = "galactic"
	AzEl     CoordType = "azel"
)

// Coord is an integer sky position: (longitude, latitude) for galactic
// measurements, (azimuth, elevation) for azel ones.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Spectrum is one recorded scan. Intensities already have Tsys subtracted.
type Spectrum struct {
	Frequencies []float64
	Intensities []float64
	Tsys        float64 // system temperature subtracted at parse time
}

// Len returns the number of samples in the spectrum.
func (s Spectrum) Len() int {
	return len(s.Intensities)
}

// Entry is a spectrum together with the coordinate it was recorded at,
// in the order it appeared in the log file.
type Entry struct {
	Coord    Coord
	Spectrum Spectrum
}

// spectraIndex is an ordered multimap from coordinate to spectra. Keys keep
// first-seen order, values keep append order.
type spectraIndex struct {
	keys    []Coord
	byCoord map[Coord][]Spectrum
}

func newSpectraIndex() *spectraIndex {
	return &spectraIndex{
		keys:    make([]Coord, 0),
		byCoord: make(map[Coord][]Spectrum),
	}
}

func (idx *spectraIndex) add(c Coord, s Spectrum) {
	if _, ok := idx.byCoord[c]; !ok {
		idx.keys = append(idx.keys, c)
	}
	idx.byCoord[c] = append(idx.byCoord[c], s)
}

func (idx *spectraIndex) get(c Coord) ([]Spectrum, bool) {
	s, ok := idx.byCoord[c]
	return s, ok
}
