package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

// mockDatasetLoader はDatasetLoaderインターフェースのモック実装です。
type mockDatasetLoader struct {
	LoadFunc  func(ctx context.Context) (*usecase.Dataset, error)
	LoadCalls int
}

func (m *mockDatasetLoader) Load(ctx context.Context) (*usecase.Dataset, error) {
	m.LoadCalls++
	return m.LoadFunc(ctx)
}

func loaderFor(records []entity.Record) *mockDatasetLoader {
	ds := usecase.NewDataset(records, testTime)
	return &mockDatasetLoader{
		LoadFunc: func(ctx context.Context) (*usecase.Dataset, error) { return ds, nil },
	}
}

// TestDashboardUsecase_Build_Waiting は選択なしの場合に待機状態のViewを返すことを検証します。
func TestDashboardUsecase_Build_Waiting(t *testing.T) {
	t.Parallel()

	uc := usecase.NewDashboardUsecase(loaderFor(sampleRecords()))
	v, err := uc.Build(context.Background(), usecase.Selection{})
	require.NoError(t, err)

	assert.True(t, v.Waiting)
	assert.Equal(t, usecase.WaitingMessage, v.Message)
	assert.Equal(t, 0, v.Total)
	assert.Empty(t, v.Gauges)
	assert.Empty(t, v.Sample)
	assert.Equal(t, usecase.Metrics{}, v.Metrics)
	// 選択肢はデータセット全体から作られる
	assert.Len(t, v.Options[entity.ColumnCompany], 6)
}

// TestDashboardUsecase_Build は選択ありの場合にメトリクス・チャート・サンプルが揃うことを検証します。
func TestDashboardUsecase_Build(t *testing.T) {
	t.Parallel()

	base := []entity.Record{
		{Company: "A", Ticker: "AA", Region: "US", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(12)},
		{Company: "B", Ticker: "BB", Region: "EU", TotalESGScore: entity.Score(50), GovernanceScore: entity.Score(6)},
		{Company: "C", Ticker: "CC", Region: "US", TotalESGScore: entity.Score(50), GovernanceScore: entity.Score(8)},
	}
	uc := usecase.NewDashboardUsecase(loaderFor(base))

	v, err := uc.Build(context.Background(), usecase.Selection{Regions: []string{"US"}})
	require.NoError(t, err)

	assert.False(t, v.Waiting)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, usecase.Metrics{Companies: 2, AvgESG: entity.Score(65.0), AvgGovernance: entity.Score(10.0)}, v.Metrics)
	assert.Len(t, v.Histogram, usecase.HistogramBins)
	assert.Equal(t, []usecase.Bar{{Company: "A", Score: 80}, {Company: "C", Score: 50}}, v.Bars)
	assert.Len(t, v.Scatter, 2)
	assert.Equal(t, "AA", v.Scatter[0].Ticker)
	assert.Equal(t, []usecase.Gauge{
		{Company: "A", Score: 80, Band: usecase.BandHigh},
		{Company: "C", Score: 50, Band: usecase.BandMedium},
	}, v.Gauges)
	assert.Equal(t, []string{"A", "C"}, companies(v.Sample))
}

// TestDashboardUsecase_Build_SampleCapped はサンプルが50行に制限されることを検証します。
func TestDashboardUsecase_Build_SampleCapped(t *testing.T) {
	t.Parallel()

	base := make([]entity.Record, 0, 75)
	for i := 0; i < 75; i++ {
		base = append(base, entity.Record{Company: fmt.Sprintf("Company %02d", i), Region: "US", TotalESGScore: entity.Score(float64(i))})
	}
	uc := usecase.NewDashboardUsecase(loaderFor(base))

	v, err := uc.Build(context.Background(), usecase.Selection{Regions: []string{"US"}})
	require.NoError(t, err)
	assert.Len(t, v.Sample, usecase.SampleSize)
	assert.Equal(t, 75, v.Total)

	rows, err := uc.Subset(context.Background(), usecase.Selection{Regions: []string{"US"}})
	require.NoError(t, err)
	assert.Len(t, rows, 75)
}

// TestDashboardUsecase_LoadError はデータセットの読み込みエラーが伝播されることを検証します。
func TestDashboardUsecase_LoadError(t *testing.T) {
	t.Parallel()

	loader := &mockDatasetLoader{
		LoadFunc: func(ctx context.Context) (*usecase.Dataset, error) {
			return nil, usecase.ErrDatasetUnavailable
		},
	}
	uc := usecase.NewDashboardUsecase(loader)
	ctx := context.Background()

	_, err := uc.Build(ctx, usecase.Selection{Regions: []string{"US"}})
	assert.ErrorIs(t, err, usecase.ErrDatasetUnavailable)
	_, err = uc.Subset(ctx, usecase.Selection{})
	assert.ErrorIs(t, err, usecase.ErrDatasetUnavailable)
	_, err = uc.Options(ctx)
	assert.ErrorIs(t, err, usecase.ErrDatasetUnavailable)
	_, err = uc.Gauge(ctx, usecase.Selection{}, "A")
	assert.ErrorIs(t, err, usecase.ErrDatasetUnavailable)
}

// TestDashboardUsecase_Gauge はサブセット内の企業のゲージ取得と、含まれない企業のエラーを検証します。
func TestDashboardUsecase_Gauge(t *testing.T) {
	t.Parallel()

	uc := usecase.NewDashboardUsecase(loaderFor(sampleRecords()))
	sel := usecase.Selection{Regions: []string{"Europe"}}

	g, err := uc.Gauge(context.Background(), sel, "Medtronic")
	require.NoError(t, err)
	assert.Equal(t, usecase.Gauge{Company: "Medtronic", Score: 22.3, Band: usecase.BandLow}, g)

	_, err = uc.Gauge(context.Background(), sel, "Apple")
	if !errors.Is(err, usecase.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

// TestDashboardUsecase_Build_MissingScores は欠損スコアの行が平均とゲージに影響しないことを検証します。
func TestDashboardUsecase_Build_MissingScores(t *testing.T) {
	t.Parallel()

	base := []entity.Record{
		{Company: "A", Region: "US", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(10)},
		{Company: "B", Region: "US"},
	}
	uc := usecase.NewDashboardUsecase(loaderFor(base))
	sel := usecase.Selection{Regions: []string{"US"}}

	v, err := uc.Build(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, usecase.Metrics{Companies: 2, AvgESG: entity.Score(80), AvgGovernance: entity.Score(10)}, v.Metrics)
	assert.Equal(t, []usecase.Gauge{{Company: "A", Score: 80, Band: usecase.BandHigh}}, v.Gauges)
	assert.Equal(t, []string{"A", "B"}, companies(v.Sample), "the sample keeps rows with missing scores")

	_, err = uc.Gauge(context.Background(), sel, "B")
	assert.ErrorIs(t, err, usecase.ErrCompanyNotFound)
}
