package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/user/hline_analyzer_go/internal/analysis"
	"github.com/user/hline_analyzer_go/internal/config"
	"github.com/user/hline_analyzer_go/internal/measurement"
	"github.com/user/hline_analyzer_go/internal/parser"
	"github.com/user/hline_analyzer_go/internal/report"
)

// App runs one parse-analyze-report pass over a telescope log file.
type App struct {
	cfg *config.Config
	out io.Writer
}

// NewApp creates an App that prints summaries to out.
func NewApp(cfg *config.Config, out io.Writer) *App {
	return &App{cfg: cfg, out: out}
}

// Run parses the configured file and writes the summary and optional PDF report.
func (a *App) Run() error {
	log.Info().
		Str("dir", a.cfg.DataDir).
		Str("file", a.cfg.File).
		Str("format", a.cfg.Format).
		Msg("parsing log file")

	switch a.cfg.Format {
	case config.FormatGalactic:
		return a.runSpectra(parser.ReadGalFile)
	case config.FormatAzEl:
		return a.runSpectra(parser.ReadSunFile)
	case config.FormatNPoint:
		return a.runNPoint()
	default:
		return fmt.Errorf("%w: unknown format %q", config.ErrInvalidConfig, a.cfg.Format)
	}
}

func (a *App) runSpectra(read func(dir, name string) (*measurement.Measurement, error)) error {
	m, err := read(a.cfg.DataDir, a.cfg.File)
	if err != nil {
		return fmt.Errorf("error parsing log: %w", err)
	}
	log.Info().
		Int("scans", len(m.Coords())).
		Int("positions", len(m.UniqueCoords())).
		Float64("tsys", m.Tsys()).
		Msg("parsed measurement")

	if err := m.Report(a.out); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}
	if len(m.Coords()) == 0 {
		log.Warn().Msg("no data rows parsed, nothing to analyze")
		return nil
	}

	results, err := analysis.AnalyzeMeasurement(m)
	if err != nil {
		return fmt.Errorf("error analyzing data: %w", err)
	}
	for _, e := range results.AnalysisErrors {
		log.Warn().Msg(e)
	}
	log.Info().Int("positions", len(results.Results)).Msg("analysis complete")

	if a.cfg.PDFPath == "" {
		return nil
	}

	plotImages := make(map[string][]byte)
	for i, ranked := range results.RankedByPeak {
		if i >= a.cfg.MaxPlots {
			break
		}
		img, err := report.CreateSpectrumPlot(m, ranked.Coord)
		if err != nil {
			log.Error().Err(err).Str("coord", ranked.Coord.String()).Msg("error generating plot")
			continue
		}
		plotImages[report.SpectrumPlotKey(ranked.Coord)] = img
	}
	log.Info().Int("plots", len(plotImages)).Msg("plot generation complete")

	if err := report.BuildPDFReport(a.cfg.PDFPath, m, results, plotImages); err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	log.Info().Str("pdf", a.cfg.PDFPath).Msg("PDF report generated")
	return nil
}

func (a *App) runNPoint() error {
	g, err := parser.ReadNPoint(a.cfg.DataDir, a.cfg.File)
	if err != nil {
		return fmt.Errorf("error parsing log: %w", err)
	}
	log.Info().Int("size", g.Size).Msg("parsed n-point grid")

	fmt.Fprintf(a.out, "21 cm N-Point Scan\nGrid size: %d x %d\n", g.Size, g.Size)
	for _, row := range g.Values {
		for j, v := range row {
			if j > 0 {
				fmt.Fprint(a.out, "\t")
			}
			fmt.Fprintf(a.out, "%g", v)
		}
		fmt.Fprintln(a.out)
	}

	if a.cfg.PDFPath == "" {
		return nil
	}
	var img []byte
	if g.Size == 0 {
		log.Warn().Str("file", a.cfg.File).Msg("n-point grid is empty, skipping heatmap")
	} else {
		img, err = report.CreateGridHeatmap(g, fmt.Sprintf("N-Point Scan %s", a.cfg.File))
		if err != nil {
			return fmt.Errorf("error generating heatmap: %w", err)
		}
	}
	if err := report.BuildGridPDFReport(a.cfg.PDFPath, g, img); err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	log.Info().Str("pdf", a.cfg.PDFPath).Msg("PDF report generated")
	return nil
}
