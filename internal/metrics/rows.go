package metrics

import (
	"github.com/vfg2006/social-dashboard/internal/domain"
)

// Row é a linha do relatório, compartilhada pela tela e pela exportação
type Row struct {
	Section string  `json:"section"`
	Metric  string  `json:"metric"`
	Value   string  `json:"value"`
	Delta   string  `json:"delta"`
	Key     string  `json:"key"`
	Raw     float64 `json:"raw"`
}

type Definition struct {
	Key    string
	Label  string
	Format Format
}

var InstagramDefinitions = []Definition{
	{Key: "instagram.followers", Label: "Seguidores", Format: FormatInteger},
	{Key: "instagram.reach", Label: "Alcance", Format: FormatInteger},
	{Key: "instagram.impressions", Label: "Impressões", Format: FormatInteger},
	{Key: "instagram.profile_views", Label: "Visitas ao perfil", Format: FormatInteger},
	{Key: "instagram.engagement", Label: "Engajamento", Format: FormatInteger},
	{Key: "instagram.engagement_rate", Label: "Taxa de engajamento", Format: FormatPercent},
	{Key: "instagram.posts", Label: "Publicações", Format: FormatInteger},
}

var FacebookDefinitions = []Definition{
	{Key: "facebook.fans", Label: "Curtidas da página", Format: FormatInteger},
	{Key: "facebook.reach", Label: "Alcance", Format: FormatInteger},
	{Key: "facebook.impressions", Label: "Impressões", Format: FormatInteger},
	{Key: "facebook.engagement", Label: "Engajamento", Format: FormatInteger},
	{Key: "facebook.page_views", Label: "Visualizações da página", Format: FormatInteger},
}

var AdsDefinitions = []Definition{
	{Key: "ads.spend", Label: "Investimento", Format: FormatCurrency},
	{Key: "ads.impressions", Label: "Impressões", Format: FormatInteger},
	{Key: "ads.reach", Label: "Alcance", Format: FormatInteger},
	{Key: "ads.clicks", Label: "Cliques", Format: FormatInteger},
	{Key: "ads.ctr", Label: "CTR", Format: FormatPercent},
	{Key: "ads.cpc", Label: "CPC", Format: FormatCurrency},
	{Key: "ads.cpm", Label: "CPM", Format: FormatCurrency},
	{Key: "ads.conversions", Label: "Conversões", Format: FormatInteger},
	{Key: "ads.cpa", Label: "CPA", Format: FormatCurrency},
	{Key: "ads.video_plays", Label: "Reproduções de vídeo", Format: FormatInteger},
	{Key: "ads.video_thruplays", Label: "ThruPlays", Format: FormatInteger},
}

func InstagramValues(in *domain.InstagramInsights) map[string]float64 {
	if in == nil {
		return map[string]float64{}
	}

	values := map[string]float64{
		"instagram.followers":     float64(in.Followers),
		"instagram.reach":         float64(in.Reach),
		"instagram.impressions":   float64(in.Impressions),
		"instagram.profile_views": float64(in.ProfileViews),
		"instagram.engagement":    float64(in.Engagement),
		"instagram.posts":         float64(in.Posts),
	}
	if in.Reach > 0 {
		values["instagram.engagement_rate"] = float64(in.Engagement) / float64(in.Reach) * 100
	}
	return values
}

func FacebookValues(in *domain.FacebookInsights) map[string]float64 {
	if in == nil {
		return map[string]float64{}
	}

	return map[string]float64{
		"facebook.fans":        float64(in.Fans),
		"facebook.reach":       float64(in.Reach),
		"facebook.impressions": float64(in.Impressions),
		"facebook.engagement":  float64(in.Engagement),
		"facebook.page_views":  float64(in.PageViews),
	}
}

// AdsValues omite ads.cpa quando a política não permite calculá-lo
func AdsValues(s AdsSummary) map[string]float64 {
	values := map[string]float64{
		"ads.spend":           s.Spend,
		"ads.impressions":     s.Impressions,
		"ads.reach":           s.Reach,
		"ads.clicks":          s.Clicks,
		"ads.ctr":             s.CTR,
		"ads.cpc":             s.CPC,
		"ads.cpm":             s.CPM,
		"ads.conversions":     s.Conversions,
		"ads.video_plays":     s.Video.Plays,
		"ads.video_thruplays": s.Video.ThruPlays,
	}
	if s.HasCPA {
		values["ads.cpa"] = s.CPA
	}
	return values
}

// BuildRows gera as linhas na ordem das definições. Métricas ausentes no
// período atual são omitidas; sem valor anterior a variação é "n/d".
func BuildRows(section string, defs []Definition, current, previous map[string]float64) []Row {
	rows := make([]Row, 0, len(defs))

	for _, def := range defs {
		value, ok := current[def.Key]
		if !ok {
			continue
		}

		delta := NotAvailable
		if prev, ok := previous[def.Key]; ok {
			delta = FormatDelta(value, prev)
		}

		rows = append(rows, Row{
			Section: section,
			Metric:  def.Label,
			Value:   FormatValue(value, def.Format),
			Delta:   delta,
			Key:     def.Key,
			Raw:     value,
		})
	}

	return rows
}
