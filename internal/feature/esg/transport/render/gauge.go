package render

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"esg_dashboard/internal/feature/esg/usecase"
)

const (
	gaugeCX     = 150.0
	gaugeCY     = 160.0
	gaugeRadius = 110.0
)

type gaugeStep struct {
	Path  string
	Color string
}

type gaugeData struct {
	Title string
	Value string
	Band  string
	Steps []gaugeStep
	Bar   string
}

var gaugeTemplate = template.Must(template.New("gauge").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="300" height="220" viewBox="0 0 300 220" class="gauge gauge-{{.Band}}">
<text x="150" y="24" text-anchor="middle" font-family="sans-serif" font-size="14">{{.Title}}</text>
{{range .Steps}}<path d="{{.Path}}" fill="none" stroke="{{.Color}}" stroke-width="34"/>
{{end}}{{if .Bar}}<path d="{{.Bar}}" fill="none" stroke="darkblue" stroke-width="12"/>
{{end}}<text x="150" y="155" text-anchor="middle" font-family="sans-serif" font-size="32">{{.Value}}</text>
<text x="40" y="190" text-anchor="middle" font-family="sans-serif" font-size="11">0</text>
<text x="260" y="190" text-anchor="middle" font-family="sans-serif" font-size="11">100</text>
</svg>
`))

// gaugePoint returns the point of the dial at score v on a 0-100 half circle.
func gaugePoint(v float64) (float64, float64) {
	theta := math.Pi * (1 - v/scoreMax)
	return gaugeCX + gaugeRadius*math.Cos(theta), gaugeCY - gaugeRadius*math.Sin(theta)
}

// gaugeArc returns the SVG path of the dial arc between two scores.
func gaugeArc(from, to float64) string {
	x0, y0 := gaugePoint(from)
	x1, y1 := gaugePoint(to)
	return fmt.Sprintf("M %.2f %.2f A %.0f %.0f 0 0 1 %.2f %.2f", x0, y0, gaugeRadius, gaugeRadius, x1, y1)
}

// GaugeSVG draws the dial of one company: red, yellow and green steps over 0-100
// and a dark blue bar up to the score.
func GaugeSVG(w io.Writer, g usecase.Gauge) error {
	v := math.Min(math.Max(g.Score, 0), scoreMax)
	data := gaugeData{
		Title: g.Company + " ESG Score",
		Value: fmt.Sprintf("%g", usecase.Round2(g.Score)),
		Band:  g.Band,
		Steps: []gaugeStep{
			{Path: gaugeArc(0, usecase.MediumBandFrom), Color: "red"},
			{Path: gaugeArc(usecase.MediumBandFrom, usecase.HighBandFrom), Color: "yellow"},
			{Path: gaugeArc(usecase.HighBandFrom, scoreMax), Color: "green"},
		},
	}
	if v > 0 {
		data.Bar = gaugeArc(0, v)
	}
	return gaugeTemplate.Execute(w, data)
}
