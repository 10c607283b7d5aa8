// Package dto defines the JSON bodies of the esg HTTP API.
package dto

import (
	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"
)

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// SelectionResponse は適用された選択条件です。
type SelectionResponse struct {
	Companies  []string `json:"companies"`
	PeerGroups []string `json:"peer_groups"`
	Regions    []string `json:"regions"`
	Countries  []string `json:"countries"`
}

// MetricsResponse は概要メトリクスです。
// スコアを持つ行がない場合、平均はnullになります。
type MetricsResponse struct {
	TotalCompanies         int      `json:"total_companies"`
	AverageESGScore        *float64 `json:"average_esg_score"`
	AverageGovernanceScore *float64 `json:"average_governance_score"`
}

// HistogramBinResponse はヒストグラムの1ビンです。
type HistogramBinResponse struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// BarResponse は企業ごとのESGスコアです。
type BarResponse struct {
	Company string  `json:"company"`
	Score   float64 `json:"total_esg_score"`
}

// ScatterPointResponse は散布図の1点です。
type ScatterPointResponse struct {
	TotalESGScore   float64 `json:"total_esg_score"`
	GovernanceScore float64 `json:"governance_score"`
	Company         string  `json:"company"`
	Ticker          string  `json:"ticker"`
}

// GaugeResponse は企業ごとのゲージです。
type GaugeResponse struct {
	Company string  `json:"company"`
	Score   float64 `json:"score"`
	Band    string  `json:"band"`
}

// DashboardResponse はダッシュボード全体のレスポンスDTOです。
type DashboardResponse struct {
	Options   map[string][]string    `json:"options"`
	Selection SelectionResponse      `json:"selection"`
	Waiting   bool                   `json:"waiting"`
	Message   string                 `json:"message,omitempty"`
	Metrics   MetricsResponse        `json:"metrics"`
	Histogram []HistogramBinResponse `json:"histogram"`
	Bars      []BarResponse          `json:"bars"`
	Scatter   []ScatterPointResponse `json:"scatter"`
	Gauges    []GaugeResponse        `json:"gauges"`
	Sample    []entity.Record        `json:"sample"`
	Total     int                    `json:"total"`
}

// ReloadResponse は再読み込み結果です。
type ReloadResponse struct {
	Records  int    `json:"records"`
	LoadedAt string `json:"loaded_at"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// FromView は表示モデルをレスポンスDTOに変換します。
func FromView(v *usecase.View) DashboardResponse {
	out := DashboardResponse{
		Options: map[string][]string(v.Options),
		Selection: SelectionResponse{
			Companies:  nonNil(v.Selection.Companies),
			PeerGroups: nonNil(v.Selection.PeerGroups),
			Regions:    nonNil(v.Selection.Regions),
			Countries:  nonNil(v.Selection.Countries),
		},
		Waiting: v.Waiting,
		Message: v.Message,
		Metrics: MetricsResponse{
			TotalCompanies:         v.Metrics.Companies,
			AverageESGScore:        v.Metrics.AvgESG,
			AverageGovernanceScore: v.Metrics.AvgGovernance,
		},
		Histogram: make([]HistogramBinResponse, 0, len(v.Histogram)),
		Bars:      make([]BarResponse, 0, len(v.Bars)),
		Scatter:   make([]ScatterPointResponse, 0, len(v.Scatter)),
		Gauges:    make([]GaugeResponse, 0, len(v.Gauges)),
		Sample:    v.Sample,
		Total:     v.Total,
	}
	if out.Sample == nil {
		out.Sample = []entity.Record{}
	}
	for _, b := range v.Histogram {
		out.Histogram = append(out.Histogram, HistogramBinResponse{Lower: b.Lower, Upper: b.Upper, Count: b.Count})
	}
	for _, b := range v.Bars {
		out.Bars = append(out.Bars, BarResponse{Company: b.Company, Score: b.Score})
	}
	for _, p := range v.Scatter {
		out.Scatter = append(out.Scatter, ScatterPointResponse{
			TotalESGScore:   p.ESG,
			GovernanceScore: p.Governance,
			Company:         p.Company,
			Ticker:          p.Ticker,
		})
	}
	for _, g := range v.Gauges {
		out.Gauges = append(out.Gauges, GaugeResponse{Company: g.Company, Score: g.Score, Band: g.Band})
	}
	return out
}
