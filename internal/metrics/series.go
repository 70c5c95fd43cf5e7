package metrics

import (
	"sort"
	"time"

	"github.com/vfg2006/social-dashboard/internal/domain"
)

const OthersLabel = "Outros"

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

func (s Series) Labels() []string {
	labels := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
	}
	return labels
}

func (s Series) Total() float64 {
	var total float64
	for _, p := range s.Points {
		total += p.Value
	}
	return total
}

// TimeSeries ordena os valores diários por data e formata os rótulos como dd/mm.
// Datas fora do formato AAAA-MM-DD são mantidas como vieram.
func TimeSeries(name string, values []domain.DailyValue) Series {
	sorted := make([]domain.DailyValue, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	points := make([]Point, 0, len(sorted))
	for _, v := range sorted {
		points = append(points, Point{Label: dayLabel(v.Date), Value: v.Value})
	}

	return Series{Name: name, Points: points}
}

// Breakdown ordena as fatias em ordem decrescente e agrupa o que passar
// de topN em "Outros"
func Breakdown(name string, values map[string]float64, topN int) Series {
	points := make([]Point, 0, len(values))
	for label, value := range values {
		if value <= 0 {
			continue
		}
		points = append(points, Point{Label: label, Value: value})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Value == points[j].Value {
			return points[i].Label < points[j].Label
		}
		return points[i].Value > points[j].Value
	})

	if topN > 0 && len(points) > topN {
		var rest float64
		for _, p := range points[topN:] {
			rest += p.Value
		}
		points = append(points[:topN:topN], Point{Label: OthersLabel, Value: rest})
	}

	return Series{Name: name, Points: points}
}

// AdsDailySeries monta as séries diárias de investimento, impressões e cliques
func AdsDailySeries(daily []domain.AdsDaily) []Series {
	sorted := make([]domain.AdsDaily, len(daily))
	copy(sorted, daily)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	spend := Series{Name: "Investimento"}
	impressions := Series{Name: "Impressões"}
	clicks := Series{Name: "Cliques"}

	for _, d := range sorted {
		label := dayLabel(d.Date)
		spend.Points = append(spend.Points, Point{Label: label, Value: ParseNumber("spend", d.Spend)})
		impressions.Points = append(impressions.Points, Point{Label: label, Value: ParseNumber("impressions", d.Impressions)})
		clicks.Points = append(clicks.Points, Point{Label: label, Value: ParseNumber("clicks", d.Clicks)})
	}

	return []Series{spend, impressions, clicks}
}

// CampaignSpendSeries é o investimento por campanha, para o gráfico de pizza
func CampaignSpendSeries(campaigns []domain.CampaignSpend, topN int) Series {
	values := make(map[string]float64, len(campaigns))
	for _, c := range campaigns {
		name := c.CampaignName
		if name == "" {
			name = c.CampaignID
		}
		values[name] += ParseNumber("spend", c.Spend)
	}
	return Breakdown("Investimento por campanha", values, topN)
}

func VideoFunnelSeries(v domain.VideoTotals) Series {
	return Series{
		Name: "Retenção de vídeo",
		Points: []Point{
			{Label: "Reproduções", Value: v.Plays},
			{Label: "25%", Value: v.P25},
			{Label: "50%", Value: v.P50},
			{Label: "75%", Value: v.P75},
			{Label: "100%", Value: v.P100},
			{Label: "ThruPlays", Value: v.ThruPlays},
		},
	}
}

// FindSeries retorna a série da métrica informada
func FindSeries(series []domain.MetricSeries, metric string) (domain.MetricSeries, bool) {
	for _, s := range series {
		if s.Metric == metric {
			return s, true
		}
	}
	return domain.MetricSeries{}, false
}

func dayLabel(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("02/01")
}
