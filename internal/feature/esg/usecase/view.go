package usecase

import (
	"math"
	"sort"

	"esg_dashboard/internal/feature/esg/domain/entity"
)

const (
	// SampleSize is the number of subset rows shown in the data table.
	SampleSize = 50
	// HistogramBins is the number of bins of the ESG score distribution.
	HistogramBins = 20
	// WaitingMessage is shown instead of charts while the subset is empty.
	WaitingMessage = "Please select at least one filter from the sidebar to view the data."
)

// Gauge bands over the 0-100 score range.
const (
	BandLow    = "low"    // [0, 40)
	BandMedium = "medium" // [40, 70)
	BandHigh   = "high"   // [70, 100]
)

// Band lower bounds.
const (
	MediumBandFrom = 40.0
	HighBandFrom   = 70.0
)

// View is the presentation model of one dashboard render.
type View struct {
	Options   Options
	Selection Selection
	Waiting   bool
	Message   string
	Metrics   Metrics
	Histogram []HistogramBin
	Bars      []Bar
	Scatter   []ScatterPoint
	Gauges    []Gauge
	Sample    []entity.Record
	Total     int
}

// Metrics are the overview figures of the filtered subset.
// An average is nil when no row of the subset has that score.
type Metrics struct {
	Companies     int
	AvgESG        *float64
	AvgGovernance *float64
}

// HistogramBin counts the subset rows whose ESG score lies in [Lower, Upper).
// The last bin also includes Upper.
type HistogramBin struct {
	Lower float64
	Upper float64
	Count int
}

// Bar is one company bar of the per-company ESG chart.
type Bar struct {
	Company string
	Score   float64
}

// ScatterPoint plots ESG against governance for one row.
type ScatterPoint struct {
	ESG        float64
	Governance float64
	Company    string
	Ticker     string
}

// Gauge is the dial of one company's ESG score.
type Gauge struct {
	Company string
	Score   float64
	Band    string
}

// ComputeMetrics returns the distinct company count and the score means
// rounded to two decimals. Missing scores are left out of each mean.
func ComputeMetrics(records []entity.Record) Metrics {
	if len(records) == 0 {
		return Metrics{}
	}
	companies := make(map[string]struct{}, len(records))
	var esg, gov mean
	for _, r := range records {
		companies[r.Company] = struct{}{}
		esg.add(r.TotalESGScore)
		gov.add(r.GovernanceScore)
	}
	return Metrics{
		Companies:     len(companies),
		AvgESG:        esg.rounded(),
		AvgGovernance: gov.rounded(),
	}
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m mean) rounded() *float64 {
	if m.n == 0 {
		return nil
	}
	return entity.Score(Round2(m.sum / float64(m.n)))
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// esgScores returns the ESG scores of records that have one.
func esgScores(records []entity.Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if r.TotalESGScore != nil {
			out = append(out, *r.TotalESGScore)
		}
	}
	return out
}

// Histogram splits the ESG score range of records into bins equal-width bins.
// Rows without an ESG score are not counted. When every score is equal a
// single bin holding all scored rows is returned.
func Histogram(records []entity.Record, bins int) []HistogramBin {
	scores := esgScores(records)
	if len(scores) == 0 || bins <= 0 {
		return []HistogramBin{}
	}
	lo, hi := scores[0], scores[0]
	for _, v := range scores[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []HistogramBin{{Lower: lo, Upper: hi, Count: len(scores)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range scores {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// SortedBars returns one bar per scored row ordered by ESG score, highest first.
// Rows with equal scores keep their subset order.
func SortedBars(records []entity.Record) []Bar {
	out := make([]Bar, 0, len(records))
	for _, r := range records {
		if r.TotalESGScore == nil {
			continue
		}
		out = append(out, Bar{Company: r.Company, Score: *r.TotalESGScore})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// ScatterPoints maps each row having both scores to an ESG/governance point.
func ScatterPoints(records []entity.Record) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(records))
	for _, r := range records {
		if r.TotalESGScore == nil || r.GovernanceScore == nil {
			continue
		}
		out = append(out, ScatterPoint{
			ESG:        *r.TotalESGScore,
			Governance: *r.GovernanceScore,
			Company:    r.Company,
			Ticker:     r.Ticker,
		})
	}
	return out
}

// Gauges returns one gauge per distinct company in subset order, using the
// company's first row that has an ESG score. Companies without any ESG score
// get no gauge.
func Gauges(records []entity.Record) []Gauge {
	seen := make(map[string]struct{}, len(records))
	out := []Gauge{}
	for _, r := range records {
		if r.TotalESGScore == nil {
			continue
		}
		if _, ok := seen[r.Company]; ok {
			continue
		}
		seen[r.Company] = struct{}{}
		score := *r.TotalESGScore
		out = append(out, Gauge{Company: r.Company, Score: score, Band: BandOf(score)})
	}
	return out
}

// BandOf classifies a score into the low, medium or high gauge band.
func BandOf(score float64) string {
	switch {
	case score < MediumBandFrom:
		return BandLow
	case score < HighBandFrom:
		return BandMedium
	default:
		return BandHigh
	}
}

// Head returns at most n leading records.
func Head(records []entity.Record, n int) []entity.Record {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
