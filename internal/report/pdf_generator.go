package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/user/hline_analyzer_go/internal/analysis"
	"github.com/user/hline_analyzer_go/internal/measurement"
	"github.com/user/hline_analyzer_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)

	maxRankedRows = 10
)

// SpectrumPlotKey names the plot image of coordinate c in the map passed to BuildPDFReport.
func SpectrumPlotKey(c measurement.Coord) string {
	return fmt.Sprintf("spectrum_%d_%d", c.X, c.Y)
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manually tracked Y position for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["mono"] = func() {
		s.pdf.SetFont("Courier", "", 9)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := len(s.pdf.SplitLines([]byte(text), pdfContentWidth))
	s.checkAddPage(math.Max(1, float64(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}
	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// writeTable draws a bordered table with relative column widths.
func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows [][]string) {
	colWidths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidths[i] = rel * pdfContentWidth
	}

	drawHeader := func() {
		s.applyStyle("tableHeader")
		sX := pdfMargin
		for i, header := range headers {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
			sX += colWidths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * 2)
	drawHeader()
	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			drawHeader()
		}
		s.applyStyle("tableCell")
		sX := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidths[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += colWidths[i]
		}
		s.currentY += s.lineHeight
	}
}

func newLandscapePDF() (*gofpdf.Fpdf, *pdfStyler) {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()
	return pdf, newPDFStyler(pdf)
}

// BuildPDFReport writes a landscape Letter report for a parsed measurement:
// summary, per-coordinate statistics, peak ranking and the spectrum plots
// found in plotImages under SpectrumPlotKey.
func BuildPDFReport(filepath string, m *measurement.Measurement, results *analysis.AnalysisResults,
	plotImages map[string][]byte) error {
	if m == nil {
		return fmt.Errorf("no measurement to report")
	}

	pdf, styler := newLandscapePDF()

	styler.writeParagraph(fmt.Sprintf("21 cm Hydrogen Line Report (%d scans, %d positions)",
		len(m.Coords()), len(m.UniqueCoords())), "h1", "C")
	styler.addSpacer(5)

	var summary bytes.Buffer
	if err := m.Report(&summary); err != nil {
		return fmt.Errorf("failed to write measurement summary: %w", err)
	}
	styler.writeParagraph(summary.String(), "mono", "L")
	styler.addSpacer(5)

	if results == nil || len(results.Results) == 0 {
		styler.writeParagraph("No analysis results to display.", "normal", "L")
		return pdf.OutputFileAndClose(filepath)
	}

	styler.writeParagraph("Per-Position Statistics", "h2", "L")
	rows := make([][]string, 0, len(results.Results))
	for _, r := range results.Results {
		rows = append(rows, []string{
			r.Coord.String(),
			strconv.Itoa(r.NumSpectra),
			fmt.Sprintf("%.3f", r.PeakIntensity),
			fmt.Sprintf("%.4f", r.PeakFrequency),
			fmt.Sprintf("%.3f", r.MeanIntensity),
			fmt.Sprintf("%.3f", r.StdDev),
			fmt.Sprintf("%.4f", r.Integrated),
		})
	}
	styler.writeTable(
		[]string{"Position", "Scans", "Peak (K)", "Peak Freq (MHz)", "Mean (K)", "Std Dev (K)", "Integrated (K MHz)"},
		[]float64{0.16, 0.08, 0.14, 0.16, 0.14, 0.14, 0.18},
		rows,
	)
	styler.addSpacer(5)

	styler.writeParagraph(fmt.Sprintf("Top %d Positions by Peak Intensity", maxRankedRows), "h2", "L")
	ranked := make([][]string, 0, maxRankedRows)
	for i, item := range results.RankedByPeak {
		if i >= maxRankedRows {
			break
		}
		ranked = append(ranked, []string{strconv.Itoa(i + 1), item.Coord.String(), fmt.Sprintf("%.3f", item.Value)})
	}
	styler.writeTable([]string{"Rank", "Position", "Peak (K)"}, []float64{0.2, 0.4, 0.4}, ranked)
	styler.addSpacer(5)

	if len(results.AnalysisErrors) > 0 {
		styler.writeParagraph("Analysis Warnings", "h2", "L")
		for _, e := range results.AnalysisErrors {
			styler.writeParagraph("- "+e, "normal", "L")
		}
	}

	imgWidth := pdfContentWidth * 0.8
	imgHeight := imgWidth / 2
	plotted := 0
	for _, r := range results.Results {
		key := SpectrumPlotKey(r.Coord)
		imgBytes, ok := plotImages[key]
		if !ok || len(imgBytes) == 0 {
			log.Debug().Str("coord", r.Coord.String()).Msg("no spectrum plot for position, skipping")
			continue
		}
		if plotted == 0 {
			styler.newPage()
			styler.writeParagraph("Spectra", "h1", "C")
			styler.addSpacer(5)
		}
		styler.addImage(imgBytes, key, imgWidth, imgHeight,
			fmt.Sprintf("Spectra at %s, %d samples trimmed from each edge", r.Coord, measurement.EdgeTrim))
		plotted++
	}

	return pdf.OutputFileAndClose(filepath)
}

// BuildGridPDFReport writes a single-page report for an n-point scan grid.
func BuildGridPDFReport(filepath string, g *parser.Grid, heatmap []byte) error {
	if g == nil {
		return fmt.Errorf("no grid to report")
	}

	pdf, styler := newLandscapePDF()
	styler.writeParagraph(fmt.Sprintf("21 cm N-Point Scan (%d x %d)", g.Size, g.Size), "h1", "C")
	styler.addSpacer(5)

	if len(heatmap) == 0 {
		styler.writeParagraph("Heatmap not available.", "normal", "L")
		return pdf.OutputFileAndClose(filepath)
	}
	side := pdfPageHeightLandscape - 2*pdfMargin - styler.currentY - 15
	styler.addImage(heatmap, "npoint_heatmap", side, side, "Grid values, row 0 at the top")

	return pdf.OutputFileAndClose(filepath)
}
