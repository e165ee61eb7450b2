package parser

import "errors"

// Column layout of a data row. Field indices are zero-based.
const (
	FieldCoordX     = 5
	FieldCoordY     = 6
	FieldStartFreq  = 7
	FieldFreqStep   = 8
	FieldNumPoints  = 10
	FieldFirstPoint = 11
)

// Character ranges inside the first field of a "* tsys" metadata row.
const (
	tsysStart     = 9
	tsysEnd       = 12
	calConstStart = 20
	calConstEnd   = 28
)

const (
	commentPrefix  = "*"
	metadataPrefix = "* tsys"
)

var (
	// ErrMalformedRecord is wrapped by every field conversion or row length failure.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrNoData is returned by the grid reader when the file has no data row.
	ErrNoData = errors.New("no data rows")
)

// RowKind classifies a record of a telescope log file.
type RowKind int

const (
	RowData RowKind = iota
	RowComment
	RowMetadata
)

var rowKindNames = [...]string{"data", "comment", "metadata"}

func (k RowKind) String() string {
	if int(k) < len(rowKindNames) {
		return rowKindNames[k]
	}
	return "unknown"
}

// Grid is a square block of values read from an n-point scan file.
// Values is indexed [row][col] and filled row-major.
type Grid struct {
	Size   int
	Values [][]float64
}

// NewGrid allocates a zeroed size x size grid.
func NewGrid(size int) *Grid {
	g := &Grid{Size: size, Values: make([][]float64, size)}
	for i := range g.Values {
		g.Values[i] = make([]float64, size)
	}
	return g
}

// calibration is the most recent "* tsys" state while a file is read.
type calibration struct {
	tsys     float64
	calConst float64
}

// spectrumVariant describes how one family of log files decodes its rows.
type spectrumVariant struct {
	name string
	// freqIndexBase is subtracted from a sample's field index before it is
	// multiplied by the frequency step. Galactic files count from the first
	// sample field; sun (azel) files use the raw field index.
	freqIndexBase int
	// hasCalConst marks files whose tsys row also carries a calibration constant.
	hasCalConst bool
}

var (
	galacticVariant = spectrumVariant{name: "galactic", freqIndexBase: FieldFirstPoint}
	sunVariant      = spectrumVariant{name: "sun", freqIndexBase: 0, hasCalConst: true}
)
