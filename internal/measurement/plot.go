package measurement

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// TrimEdges drops EdgeTrim samples from both ends of s. Spectra with no
// more than 2*EdgeTrim samples come back empty.
func TrimEdges(s Spectrum) Spectrum {
	n := min(len(s.Frequencies), len(s.Intensities))
	if n <= 2*EdgeTrim {
		return Spectrum{Frequencies: []float64{}, Intensities: []float64{}, Tsys: s.Tsys}
	}
	return Spectrum{
		Frequencies: s.Frequencies[EdgeTrim : n-EdgeTrim],
		Intensities: s.Intensities[EdgeTrim : n-EdgeTrim],
		Tsys:        s.Tsys,
	}
}

// Plot builds a plot with one line per spectrum recorded at c, edges trimmed.
func (m *Measurement) Plot(c Coord) (*plot.Plot, error) {
	all, err := m.Spectra(c)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("21 cm spectra at %s (%s)", c, m.coordType)
	p.X.Label.Text = "Frequency (MHz)"
	p.Y.Label.Text = "Intensity (K)"
	p.Add(plotter.NewGrid())

	lines, err := spectrumLines(all)
	if err != nil {
		return nil, fmt.Errorf("failed to plot %s: %w", c, err)
	}
	for _, sl := range lines {
		p.Add(sl.line)
		if len(all) > 1 {
			p.Legend.Add(fmt.Sprintf("scan %d", sl.scan), sl.line)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// scanLine is the plotted line of one scan, numbered from 1 in file order.
type scanLine struct {
	scan int
	line *plotter.Line
}

// spectrumLines builds one line per scan with edges trimmed. Scans left
// empty by trimming get no line.
func spectrumLines(all []Spectrum) ([]scanLine, error) {
	lines := make([]scanLine, 0, len(all))
	for i, s := range all {
		t := TrimEdges(s)
		if t.Len() == 0 {
			continue
		}
		pts := make(plotter.XYs, t.Len())
		for j := range pts {
			pts[j].X = t.Frequencies[j]
			pts[j].Y = t.Intensities[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("scan %d: %w", i+1, err)
		}
		line.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1)
		lines = append(lines, scanLine{scan: i + 1, line: line})
	}
	return lines, nil
}
