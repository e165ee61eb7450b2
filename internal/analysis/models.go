package analysis

import "github.com/user/hline_analyzer_go/internal/measurement"

// CoordAnalysisResult holds the statistics of all scans at one coordinate.
type CoordAnalysisResult struct {
	Coord         measurement.Coord
	NumSpectra    int
	NumSamples    int     // samples used after edge trimming, summed over scans
	PeakIntensity float64 // K
	PeakFrequency float64 // MHz
	MeanIntensity float64
	StdDev        float64 // population standard deviation of all samples
	Integrated    float64 // sum of intensity times channel width, K MHz
}

// RankedCoordInfo is used for ranking coordinates by a single value.
type RankedCoordInfo struct {
	Coord measurement.Coord
	Value float64
}

// AnalysisResults holds all results from the analysis.
type AnalysisResults struct {
	CoordType      measurement.CoordType
	Tsys           float64
	Results        []CoordAnalysisResult
	RankedByPeak   []RankedCoordInfo // Sorted by peak intensity, descending
	AnalysisErrors []string
}

func NewAnalysisResults() *AnalysisResults {
	return &AnalysisResults{
		Results:        make([]CoordAnalysisResult, 0),
		RankedByPeak:   make([]RankedCoordInfo, 0),
		AnalysisErrors: make([]string, 0),
	}
}
