package report

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/user/hline_analyzer_go/internal/measurement"
)

// CreateSpectrumPlot renders every scan recorded at c as a PNG line plot.
func CreateSpectrumPlot(m *measurement.Measurement, c measurement.Coord) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("no measurement to plot")
	}
	p, err := m.Plot(c)
	if err != nil {
		return nil, err
	}
	return renderPNG(p, vg.Points(800), vg.Points(400))
}

func renderPNG(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
