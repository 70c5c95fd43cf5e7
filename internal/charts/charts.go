// Package charts renderiza as séries normalizadas em HTML com go-echarts.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
)

const defaultChartHeight = "360px"

type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindPie  Kind = "pie"
)

// Spec descreve um gráfico de uma página
type Spec struct {
	Kind     Kind             `json:"kind"`
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle,omitempty"`
	Series   []metrics.Series `json:"series"`
}

type Options struct {
	Title      string
	Subtitle   string
	Theme      domain.Theme
	AssetsHost string
}

// Render escolhe o tipo de gráfico pela especificação
func Render(w io.Writer, spec Spec, theme domain.Theme) error {
	o := Options{Title: spec.Title, Subtitle: spec.Subtitle, Theme: theme}

	switch spec.Kind {
	case KindBar:
		return RenderBar(w, o, spec.Series...)
	case KindLine:
		return RenderLine(w, o, spec.Series...)
	case KindPie:
		if len(spec.Series) == 0 {
			return RenderPie(w, o, metrics.Series{})
		}
		return RenderPie(w, o, spec.Series[0])
	default:
		return fmt.Errorf("unsupported chart type: %s", spec.Kind)
	}
}

func RenderBar(w io.Writer, o Options, series ...metrics.Series) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(o)...)
	bar.SetXAxis(xAxis(series))
	for _, s := range series {
		bar.AddSeries(s.Name, toBarData(s.Points))
	}
	return bar.Render(w)
}

func RenderLine(w io.Writer, o Options, series ...metrics.Series) error {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(o)...)
	line.SetXAxis(xAxis(series))
	for _, s := range series {
		line.AddSeries(s.Name, toLineData(s.Points))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line.Render(w)
}

func RenderPie(w io.Writer, o Options, s metrics.Series) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOptions(o)...)
	pie.AddSeries(s.Name, toPieData(s.Points))
	return pie.Render(w)
}

// ChartTheme converte a preferência do usuário no tema do echarts
func ChartTheme(theme domain.Theme) string {
	if theme == domain.ThemeDark {
		return types.ThemeWonderland
	}
	return types.ThemeWesteros
}

func globalOptions(o Options) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  ChartTheme(o.Theme),
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if o.AssetsHost != "" {
		initOpts.AssetsHost = o.AssetsHost
	}

	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: o.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// xAxis usa os rótulos da série mais longa
func xAxis(series []metrics.Series) []string {
	var labels []string
	for _, s := range series {
		if len(s.Points) > len(labels) {
			labels = s.Labels()
		}
	}
	return labels
}

func toBarData(points []metrics.Point) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []metrics.Point) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []metrics.Point) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Fatia %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}
