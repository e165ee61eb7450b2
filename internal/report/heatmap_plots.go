package report

import (
	"fmt"
	"image/color"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/hline_analyzer_go/internal/parser"
)

// gridXYZ adapts a parser.Grid to plotter.GridXYZ. Row 0 of the grid is
// drawn at the top.
type gridXYZ struct {
	g *parser.Grid
}

func (g gridXYZ) Dims() (c, r int)   { return g.g.Size, g.g.Size }
func (g gridXYZ) Z(c, r int) float64 { return g.g.Values[g.g.Size-1-r][c] }
func (g gridXYZ) X(c int) float64    { return float64(c) }
func (g gridXYZ) Y(r int) float64    { return float64(r) }

// CreateGridHeatmap renders an n-point scan grid as a PNG heatmap.
func CreateGridHeatmap(g *parser.Grid, plotTitle string) ([]byte, error) {
	if g == nil || g.Size == 0 {
		return nil, fmt.Errorf("no grid data to plot heatmap")
	}

	p := plot.New()
	p.Title.Text = plotTitle
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row"
	p.X.Min = -0.5
	p.X.Max = float64(g.Size) - 0.5
	p.Y.Min = -0.5
	p.Y.Max = float64(g.Size) - 0.5

	ticks := make([]plot.Tick, g.Size)
	yTicks := make([]plot.Tick, g.Size)
	for i := 0; i < g.Size; i++ {
		ticks[i] = plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)}
		yTicks[i] = plot.Tick{Value: float64(g.Size - 1 - i), Label: fmt.Sprintf("%d", i)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	hm := plotter.NewHeatMap(gridXYZ{g: g}, palette.Heat(12, 1))
	hm.NaN = color.Gray{Y: 200}
	if hm.Min > hm.Max { // all NaN
		hm.Min, hm.Max = 0, 1
	}
	if hm.Min == hm.Max {
		log.Debug().Str("plot", plotTitle).Float64("value", hm.Min).Msg("flat grid, widening heatmap range")
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	return renderPNG(p, vg.Points(600), vg.Points(600))
}
