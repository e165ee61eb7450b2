package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/hline_analyzer_go/internal/measurement"
)

// channelWidth returns the absolute frequency step of s, or 0 for spectra
// with fewer than two samples.
func channelWidth(s measurement.Spectrum) float64 {
	if len(s.Frequencies) < 2 {
		return 0
	}
	return math.Abs(s.Frequencies[1] - s.Frequencies[0])
}

// AnalyzeMeasurement computes per-coordinate statistics over the
// edge-trimmed spectra of m.
func AnalyzeMeasurement(m *measurement.Measurement) (*AnalysisResults, error) {
	if m == nil || len(m.Coords()) == 0 {
		return nil, fmt.Errorf("measurement is nil or empty, cannot analyze")
	}

	results := NewAnalysisResults()
	results.CoordType = m.CoordType()
	results.Tsys = m.Tsys()

	for _, c := range m.UniqueCoords() {
		spectra, err := m.Spectra(c)
		if err != nil {
			results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Skipping %s: %v", c, err))
			continue
		}

		res := CoordAnalysisResult{
			Coord:         c,
			NumSpectra:    len(spectra),
			PeakIntensity: math.Inf(-1),
		}
		var samples []float64
		for _, s := range spectra {
			t := measurement.TrimEdges(s)
			if t.Len() == 0 {
				continue
			}
			samples = append(samples, t.Intensities...)
			res.Integrated += floats.Sum(t.Intensities) * channelWidth(t)

			i := floats.MaxIdx(t.Intensities)
			if t.Intensities[i] > res.PeakIntensity {
				res.PeakIntensity = t.Intensities[i]
				res.PeakFrequency = t.Frequencies[i]
			}
		}
		if len(samples) == 0 {
			results.AnalysisErrors = append(results.AnalysisErrors,
				fmt.Sprintf("Skipping %s: no samples left after trimming %d from each edge", c, measurement.EdgeTrim))
			continue
		}
		res.NumSamples = len(samples)
		res.MeanIntensity, res.StdDev = stat.PopMeanStdDev(samples, nil)

		results.Results = append(results.Results, res)
		results.RankedByPeak = append(results.RankedByPeak, RankedCoordInfo{Coord: c, Value: res.PeakIntensity})
	}

	sort.SliceStable(results.RankedByPeak, func(i, j int) bool {
		return results.RankedByPeak[i].Value > results.RankedByPeak[j].Value // Descending
	})

	if len(results.Results) == 0 {
		results.AnalysisErrors = append(results.AnalysisErrors, "Analysis completed but produced no coordinate results.")
	}
	return results, nil
}
