package usecase_test

import (
	"testing"

	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeMetrics は会社数と平均スコア（小数点以下2桁）の計算を検証します。
func TestComputeMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		records  []entity.Record
		expected usecase.Metrics
	}{
		{
			name:     "empty subset",
			records:  nil,
			expected: usecase.Metrics{},
		},
		{
			name: "mean over two rows",
			records: []entity.Record{
				{Company: "A", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(10)},
				{Company: "B", TotalESGScore: entity.Score(50), GovernanceScore: entity.Score(5)},
			},
			expected: usecase.Metrics{Companies: 2, AvgESG: entity.Score(65.0), AvgGovernance: entity.Score(7.5)},
		},
		{
			name: "duplicate companies counted once and means rounded",
			records: []entity.Record{
				{Company: "A", TotalESGScore: entity.Score(10), GovernanceScore: entity.Score(1)},
				{Company: "A", TotalESGScore: entity.Score(10), GovernanceScore: entity.Score(1)},
				{Company: "B", TotalESGScore: entity.Score(11), GovernanceScore: entity.Score(2)},
			},
			expected: usecase.Metrics{Companies: 2, AvgESG: entity.Score(10.33), AvgGovernance: entity.Score(1.33)},
		},
		{
			name: "missing scores are left out of the means",
			records: []entity.Record{
				{Company: "A", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(10)},
				{Company: "B"},
			},
			expected: usecase.Metrics{Companies: 2, AvgESG: entity.Score(80), AvgGovernance: entity.Score(10)},
		},
		{
			name: "zero is a real score",
			records: []entity.Record{
				{Company: "A", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(0)},
				{Company: "B", TotalESGScore: entity.Score(0)},
			},
			expected: usecase.Metrics{Companies: 2, AvgESG: entity.Score(40), AvgGovernance: entity.Score(0)},
		},
		{
			name:     "no scored rows leave the means unset",
			records:  []entity.Record{{Company: "A"}, {Company: "B"}},
			expected: usecase.Metrics{Companies: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, usecase.ComputeMetrics(tt.records))
		})
	}
}

// TestHistogram はビン数・境界・件数の合計を検証します。
func TestHistogram(t *testing.T) {
	t.Parallel()

	records := []entity.Record{
		{TotalESGScore: entity.Score(0)}, {TotalESGScore: entity.Score(10)}, {TotalESGScore: entity.Score(55)}, {TotalESGScore: entity.Score(100)}, {TotalESGScore: entity.Score(100)},
	}
	bins := usecase.Histogram(records, usecase.HistogramBins)

	require.Len(t, bins, usecase.HistogramBins)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 100.0, bins[len(bins)-1].Upper)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[2].Count)
	assert.Equal(t, 1, bins[11].Count)
	assert.Equal(t, 2, bins[19].Count, "max values fall into the last bin")

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(records), total)
}

// TestHistogram_EdgeCases は空データと単一値データの扱いを検証します。
func TestHistogram_EdgeCases(t *testing.T) {
	t.Parallel()

	assert.Empty(t, usecase.Histogram(nil, usecase.HistogramBins))

	single := usecase.Histogram([]entity.Record{{TotalESGScore: entity.Score(42)}, {TotalESGScore: entity.Score(42)}}, usecase.HistogramBins)
	assert.Equal(t, []usecase.HistogramBin{{Lower: 42, Upper: 42, Count: 2}}, single)
}

// TestHistogram_MissingScores は欠損スコアの行がビンにも範囲にも含まれないことを検証します。
func TestHistogram_MissingScores(t *testing.T) {
	t.Parallel()

	bins := usecase.Histogram([]entity.Record{
		{TotalESGScore: entity.Score(20)}, {}, {TotalESGScore: entity.Score(60)},
	}, usecase.HistogramBins)

	require.Len(t, bins, usecase.HistogramBins)
	assert.Equal(t, 20.0, bins[0].Lower, "a missing score must not stretch the range to 0")
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)

	assert.Empty(t, usecase.Histogram([]entity.Record{{Company: "A"}}, usecase.HistogramBins))
}

// TestSortedBars はスコア降順かつ同点は元の順序を保つことを検証します。
func TestSortedBars(t *testing.T) {
	t.Parallel()

	bars := usecase.SortedBars([]entity.Record{
		{Company: "A", TotalESGScore: entity.Score(20)},
		{Company: "B", TotalESGScore: entity.Score(35)},
		{Company: "C", TotalESGScore: entity.Score(20)},
	})
	assert.Equal(t, []usecase.Bar{
		{Company: "B", Score: 35},
		{Company: "A", Score: 20},
		{Company: "C", Score: 20},
	}, bars)
}

// TestGauges は企業ごとに1つ、重複時は最初の行のスコアを使うことを検証します。
func TestGauges(t *testing.T) {
	t.Parallel()

	gauges := usecase.Gauges([]entity.Record{
		{Company: "A", TotalESGScore: entity.Score(30)},
		{Company: "B", TotalESGScore: entity.Score(55)},
		{Company: "A", TotalESGScore: entity.Score(90)},
		{Company: "C", TotalESGScore: entity.Score(70)},
	})
	assert.Equal(t, []usecase.Gauge{
		{Company: "A", Score: 30, Band: usecase.BandLow},
		{Company: "B", Score: 55, Band: usecase.BandMedium},
		{Company: "C", Score: 70, Band: usecase.BandHigh},
	}, gauges)
}

// TestGauges_MissingScores は欠損スコアの行を飛ばし、スコアのない企業にはゲージを作らないことを検証します。
func TestGauges_MissingScores(t *testing.T) {
	t.Parallel()

	gauges := usecase.Gauges([]entity.Record{
		{Company: "A", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(10)},
		{Company: "B"},
		{Company: "C"},
		{Company: "C", TotalESGScore: entity.Score(45)},
	})
	assert.Equal(t, []usecase.Gauge{
		{Company: "A", Score: 80, Band: usecase.BandHigh},
		{Company: "C", Score: 45, Band: usecase.BandMedium},
	}, gauges)
}

// TestSortedBarsAndScatter_MissingScores は欠損スコアの行が棒グラフと散布図から除外されることを検証します。
func TestSortedBarsAndScatter_MissingScores(t *testing.T) {
	t.Parallel()

	records := []entity.Record{
		{Company: "A", Ticker: "AA", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(10)},
		{Company: "B", Ticker: "BB", TotalESGScore: entity.Score(30)},
		{Company: "C", Ticker: "CC", GovernanceScore: entity.Score(4)},
	}

	assert.Equal(t, []usecase.Bar{
		{Company: "A", Score: 80},
		{Company: "B", Score: 30},
	}, usecase.SortedBars(records))
	assert.Equal(t, []usecase.ScatterPoint{
		{ESG: 80, Governance: 10, Company: "A", Ticker: "AA"},
	}, usecase.ScatterPoints(records))
}

func TestBandOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		band  string
	}{
		{0, usecase.BandLow},
		{39.99, usecase.BandLow},
		{40, usecase.BandMedium},
		{69.99, usecase.BandMedium},
		{70, usecase.BandHigh},
		{100, usecase.BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, usecase.BandOf(tt.score), "score %v", tt.score)
	}
}

func TestHead(t *testing.T) {
	t.Parallel()

	records := make([]entity.Record, 60)
	assert.Len(t, usecase.Head(records, usecase.SampleSize), 50)
	assert.Len(t, usecase.Head(records[:3], usecase.SampleSize), 3)
}
