package render

import (
	"embed"
	"html/template"
	"io"
	"net/url"

	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"
)

// Query parameter names carrying the selection.
const (
	ParamCompany   = "company"
	ParamPeerGroup = "peer_group"
	ParamRegion    = "region"
	ParamCountry   = "country"
	ParamGauge     = "gauge"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"score": FormatScore,
}).ParseFS(templateFS, "templates/dashboard.html"))

// Filter is one multi-select control of the sidebar.
type Filter struct {
	Label   string
	Param   string
	Options []Option
}

// Option is one selectable value.
type Option struct {
	Value    string
	Selected bool
}

// GaugeLink points at the gauge image of one company.
type GaugeLink struct {
	Company string
	URL     template.URL
}

// PageData is the input of the dashboard template.
type PageData struct {
	Title        string
	View         *usecase.View
	Filters      []Filter
	Columns      []string
	HistogramURL template.URL
	BarURL       template.URL
	ScatterURL   template.URL
	CSVURL       template.URL
	XLSXURL      template.URL
	Gauges       []GaugeLink
}

// EncodeSelection returns the query string of the selection, one key per value.
func EncodeSelection(sel usecase.Selection) url.Values {
	q := url.Values{}
	for _, c := range []struct {
		param  string
		values []string
	}{
		{ParamCompany, sel.Companies},
		{ParamPeerGroup, sel.PeerGroups},
		{ParamRegion, sel.Regions},
		{ParamCountry, sel.Countries},
	} {
		for _, v := range c.values {
			q.Add(c.param, v)
		}
	}
	return q
}

func withQuery(path string, q url.Values) template.URL {
	if len(q) == 0 {
		return template.URL(path)
	}
	return template.URL(path + "?" + q.Encode())
}

func buildFilter(label, param string, options, selected []string) Filter {
	chosen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		chosen[s] = struct{}{}
	}
	f := Filter{Label: label, Param: param, Options: make([]Option, 0, len(options))}
	for _, o := range options {
		_, ok := chosen[o]
		f.Options = append(f.Options, Option{Value: o, Selected: ok})
	}
	return f
}

// NewPageData prepares the template input for a view. Chart, gauge and export
// URLs carry the same selection as the page.
func NewPageData(v *usecase.View) PageData {
	sel := v.Selection
	q := EncodeSelection(sel)

	pd := PageData{
		Title: "Sustainalytics ESG Dashboard",
		View:  v,
		Filters: []Filter{
			buildFilter("Select Company(s):", ParamCompany, v.Options[entity.ColumnCompany], sel.Companies),
			buildFilter("Select Peer Group(s):", ParamPeerGroup, v.Options[entity.ColumnPeerGroupRoot], sel.PeerGroups),
			buildFilter("Select Region(s):", ParamRegion, v.Options[entity.ColumnRegion], sel.Regions),
			buildFilter("Select Country(s):", ParamCountry, v.Options[entity.ColumnCountry], sel.Countries),
		},
		Columns:      entity.Columns,
		HistogramURL: withQuery("/charts/histogram.svg", q),
		BarURL:       withQuery("/charts/bar.svg", q),
		ScatterURL:   withQuery("/charts/scatter.svg", q),
		CSVURL:       withQuery("/export.csv", q),
		XLSXURL:      withQuery("/export.xlsx", q),
	}

	for _, g := range v.Gauges {
		gq := EncodeSelection(sel)
		gq.Set(ParamGauge, g.Company)
		pd.Gauges = append(pd.Gauges, GaugeLink{Company: g.Company, URL: withQuery("/charts/gauge.svg", gq)})
	}
	return pd
}

// Page renders the full dashboard HTML for a view.
func Page(w io.Writer, v *usecase.View) error {
	return pageTemplate.Execute(w, NewPageData(v))
}
