package usecase

import (
	"context"
	"fmt"

	"esg_dashboard/internal/feature/esg/domain/entity"
)

// DatasetLoader はメモ化されたデータセットを提供します。
type DatasetLoader interface {
	Load(ctx context.Context) (*Dataset, error)
}

// DashboardUsecase はフィルタ済みサブセットからダッシュボードの表示モデルを組み立てます。
// 状態を持たず、リクエストごとにデータセットから再計算します。
type DashboardUsecase struct {
	datasets DatasetLoader
}

// NewDashboardUsecase はDashboardUsecaseの新しいインスタンスを生成します。
func NewDashboardUsecase(datasets DatasetLoader) *DashboardUsecase {
	return &DashboardUsecase{datasets: datasets}
}

// Build は指定された選択条件でダッシュボードの表示モデルを生成します。
// サブセットが空の場合はWaiting状態のViewを返します。
func (u *DashboardUsecase) Build(ctx context.Context, sel Selection) (*View, error) {
	ds, err := u.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}
	subset, err := Filter(ds.Records(), sel)
	if err != nil {
		return nil, err
	}

	v := &View{
		Options:   ds.Options(),
		Selection: sel,
		Total:     len(subset),
	}
	if len(subset) == 0 {
		v.Waiting = true
		v.Message = WaitingMessage
		v.Histogram = []HistogramBin{}
		v.Bars = []Bar{}
		v.Scatter = []ScatterPoint{}
		v.Gauges = []Gauge{}
		v.Sample = []entity.Record{}
		return v, nil
	}

	v.Metrics = ComputeMetrics(subset)
	v.Histogram = Histogram(subset, HistogramBins)
	v.Bars = SortedBars(subset)
	v.Scatter = ScatterPoints(subset)
	v.Gauges = Gauges(subset)
	v.Sample = Head(subset, SampleSize)
	return v, nil
}

// Subset はエクスポート用にフィルタ済みの全行を返します。
func (u *DashboardUsecase) Subset(ctx context.Context, sel Selection) ([]entity.Record, error) {
	ds, err := u.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(ds.Records(), sel)
}

// Options はデータセット全体のカテゴリ列ごとの選択肢を返します。
func (u *DashboardUsecase) Options(ctx context.Context) (Options, error) {
	ds, err := u.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Options(), nil
}

// Gauge はフィルタ済みサブセット内の指定企業のゲージを返します。
// 企業がサブセットに含まれない、またはESGスコアを持たない場合はErrCompanyNotFoundを返します。
func (u *DashboardUsecase) Gauge(ctx context.Context, sel Selection, company string) (Gauge, error) {
	subset, err := u.Subset(ctx, sel)
	if err != nil {
		return Gauge{}, err
	}
	for _, g := range Gauges(subset) {
		if g.Company == company {
			return g, nil
		}
	}
	return Gauge{}, fmt.Errorf("%q: %w", company, ErrCompanyNotFound)
}
