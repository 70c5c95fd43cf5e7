package pages

import (
	"github.com/vfg2006/social-dashboard/internal/charts"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
)

// ChartProvider é implementado pelos resultados que expõem gráficos
type ChartProvider interface {
	Charts() map[string]charts.Spec
}

type InstagramResult struct {
	Insights *domain.InstagramInsights `json:"insights"`
	Rows     []metrics.Row             `json:"rows"`
	charts   map[string]charts.Spec
}

func (r *InstagramResult) IsEmpty() bool {
	return r == nil || r.Insights.IsEmpty()
}

func (r *InstagramResult) Charts() map[string]charts.Spec {
	return r.charts
}

type FacebookResult struct {
	Insights *domain.FacebookInsights `json:"insights"`
	Rows     []metrics.Row            `json:"rows"`
	charts   map[string]charts.Spec
}

func (r *FacebookResult) IsEmpty() bool {
	return r == nil || r.Insights.IsEmpty()
}

func (r *FacebookResult) Charts() map[string]charts.Spec {
	return r.charts
}

type AdsResult struct {
	Summary metrics.AdsSummary `json:"summary"`
	Rows    []metrics.Row      `json:"rows"`
	empty   bool
	charts  map[string]charts.Spec
}

func (r *AdsResult) IsEmpty() bool {
	return r == nil || r.empty
}

func (r *AdsResult) Charts() map[string]charts.Spec {
	return r.charts
}

// ReportResult compara o período selecionado com o anterior de mesma duração
type ReportResult struct {
	Account  domain.Account   `json:"account"`
	Range    domain.DateRange `json:"range"`
	Previous domain.DateRange `json:"previous"`
	Rows     []metrics.Row    `json:"rows"`
	Warnings []string         `json:"warnings,omitempty"`
}

func (r *ReportResult) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

type AdminResult struct {
	Overview *domain.AdminOverview `json:"overview"`
}

func (r *AdminResult) IsEmpty() bool {
	return r == nil || r.Overview.IsEmpty()
}

func overviewBar(title string, defs []metrics.Definition, values map[string]float64, keys ...string) charts.Spec {
	s := metrics.Series{Name: title}
	for _, key := range keys {
		for _, def := range defs {
			if def.Key == key {
				s.Points = append(s.Points, metrics.Point{Label: def.Label, Value: values[key]})
			}
		}
	}
	return charts.Spec{Kind: charts.KindBar, Title: title, Series: []metrics.Series{s}}
}

func seriesChart(title string, series []domain.MetricSeries, metric, name string) (charts.Spec, bool) {
	s, ok := metrics.FindSeries(series, metric)
	if !ok || len(s.Values) == 0 {
		return charts.Spec{}, false
	}
	return charts.Spec{
		Kind:   charts.KindLine,
		Title:  title,
		Series: []metrics.Series{metrics.TimeSeries(name, s.Values)},
	}, true
}
