package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/internal/charts"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
)

//go:generate mockgen -source=fetchers.go -destination=mocks/backend_mock.go -package=mocks
type Backend interface {
	InstagramInsights(ctx context.Context, q backend.InsightsQuery) (*domain.InstagramInsights, error)
	FacebookInsights(ctx context.Context, q backend.InsightsQuery) (*domain.FacebookInsights, error)
	AdsInsights(ctx context.Context, q backend.InsightsQuery) (*domain.AdsInsights, error)
	AdminOverview(ctx context.Context) (*domain.AdminOverview, error)
}

func accountOf(filters domain.Filters) (domain.Account, error) {
	if filters.Account == nil {
		return domain.Account{}, fmt.Errorf("%w: nenhuma conta selecionada", ErrNotConnected)
	}
	return *filters.Account, nil
}

type InstagramFetcher struct {
	client Backend
	policy metrics.Policy
}

func NewInstagramFetcher(client Backend, policy metrics.Policy) *InstagramFetcher {
	return &InstagramFetcher{client: client, policy: policy}
}

func (f *InstagramFetcher) Fetch(ctx context.Context, filters domain.Filters) (Result, error) {
	acc, err := accountOf(filters)
	if err != nil {
		return nil, err
	}
	if acc.InstagramUserID == "" {
		return nil, ErrNotConnected
	}

	in, err := f.client.InstagramInsights(ctx, backend.InsightsQuery{ID: acc.InstagramUserID, Range: filters.Range})
	if err != nil {
		return nil, err
	}

	values := metrics.InstagramValues(in)
	result := &InstagramResult{
		Insights: in,
		Rows:     metrics.BuildRows("Instagram", metrics.InstagramDefinitions, values, nil),
		charts: map[string]charts.Spec{
			"overview": overviewBar("Visão geral", metrics.InstagramDefinitions, values,
				"instagram.reach", "instagram.impressions", "instagram.profile_views", "instagram.engagement"),
			"audience": {
				Kind:   charts.KindPie,
				Title:  "Público",
				Series: []metrics.Series{metrics.Breakdown("Público", in.Audience, f.policy.BreakdownTopN)},
			},
		},
	}

	if spec, ok := seriesChart("Alcance diário", in.Series, "reach", "Alcance"); ok {
		result.charts["reach"] = spec
	}
	if spec, ok := seriesChart("Impressões diárias", in.Series, "impressions", "Impressões"); ok {
		result.charts["impressions"] = spec
	}
	if spec, ok := seriesChart("Seguidores", in.Series, "follower_count", "Novos seguidores"); ok {
		result.charts["followers"] = spec
	}

	return result, nil
}

type FacebookFetcher struct {
	client Backend
	policy metrics.Policy
}

func NewFacebookFetcher(client Backend, policy metrics.Policy) *FacebookFetcher {
	return &FacebookFetcher{client: client, policy: policy}
}

func (f *FacebookFetcher) Fetch(ctx context.Context, filters domain.Filters) (Result, error) {
	acc, err := accountOf(filters)
	if err != nil {
		return nil, err
	}
	if acc.FacebookPageID == "" {
		return nil, ErrNotConnected
	}

	in, err := f.client.FacebookInsights(ctx, backend.InsightsQuery{ID: acc.FacebookPageID, Range: filters.Range})
	if err != nil {
		return nil, err
	}

	values := metrics.FacebookValues(in)
	result := &FacebookResult{
		Insights: in,
		Rows:     metrics.BuildRows("Facebook", metrics.FacebookDefinitions, values, nil),
		charts: map[string]charts.Spec{
			"overview": overviewBar("Visão geral", metrics.FacebookDefinitions, values,
				"facebook.reach", "facebook.impressions", "facebook.engagement", "facebook.page_views"),
			"audience": {
				Kind:   charts.KindPie,
				Title:  "Público",
				Series: []metrics.Series{metrics.Breakdown("Público", in.Audience, f.policy.BreakdownTopN)},
			},
		},
	}

	if spec, ok := seriesChart("Alcance diário", in.Series, "reach", "Alcance"); ok {
		result.charts["reach"] = spec
	}
	if spec, ok := seriesChart("Engajamento diário", in.Series, "engagement", "Engajamento"); ok {
		result.charts["engagement"] = spec
	}

	return result, nil
}

type AdsFetcher struct {
	client Backend
	policy metrics.Policy
}

func NewAdsFetcher(client Backend, policy metrics.Policy) *AdsFetcher {
	return &AdsFetcher{client: client, policy: policy}
}

func (f *AdsFetcher) Fetch(ctx context.Context, filters domain.Filters) (Result, error) {
	acc, err := accountOf(filters)
	if err != nil {
		return nil, err
	}

	adAccountID := acc.PrimaryAdAccountID()
	if adAccountID == "" {
		return nil, ErrNotConnected
	}

	in, err := f.client.AdsInsights(ctx, backend.InsightsQuery{ID: adAccountID, Range: filters.Range})
	if err != nil {
		return nil, err
	}

	summary := metrics.Summarize(in, f.policy)
	result := &AdsResult{
		Summary: summary,
		Rows:    metrics.BuildRows("Anúncios", metrics.AdsDefinitions, metrics.AdsValues(summary), nil),
		empty:   in.IsEmpty(),
		charts: map[string]charts.Spec{
			"daily": {
				Kind:   charts.KindLine,
				Title:  "Desempenho diário",
				Series: metrics.AdsDailySeries(in.Daily),
			},
			"campaigns": {
				Kind:   charts.KindPie,
				Title:  "Investimento por campanha",
				Series: []metrics.Series{metrics.CampaignSpendSeries(in.Campaigns, f.policy.BreakdownTopN)},
			},
			"video": {
				Kind:     charts.KindBar,
				Title:    "Retenção de vídeo",
				Subtitle: summary.VideoSource,
				Series:   []metrics.Series{metrics.VideoFunnelSeries(summary.Video)},
			},
		},
	}

	return result, nil
}

// ReportsFetcher busca cada rede conectada no período atual e no anterior
// usando o timeout estendido
type ReportsFetcher struct {
	client Backend
	policy metrics.Policy
}

func NewReportsFetcher(client Backend, policy metrics.Policy) *ReportsFetcher {
	return &ReportsFetcher{client: client, policy: policy}
}

type section struct {
	name string
	defs []metrics.Definition
	// fetch retorna os valores de um período
	fetch func(ctx context.Context, r domain.DateRange) (map[string]float64, error)
}

type sectionOutcome struct {
	current  map[string]float64
	previous map[string]float64
	err      error
	prevErr  error
}

func (f *ReportsFetcher) Fetch(ctx context.Context, filters domain.Filters) (Result, error) {
	acc, err := accountOf(filters)
	if err != nil {
		return nil, err
	}

	sections := f.sections(acc)
	if len(sections) == 0 {
		return nil, ErrNotConnected
	}

	previous := filters.Range.Previous()
	outcomes := make([]sectionOutcome, len(sections))

	var wg sync.WaitGroup
	for i, s := range sections {
		wg.Add(2)
		go func(i int, s section) {
			defer wg.Done()
			outcomes[i].current, outcomes[i].err = s.fetch(ctx, filters.Range)
		}(i, s)
		go func(i int, s section) {
			defer wg.Done()
			outcomes[i].previous, outcomes[i].prevErr = s.fetch(ctx, previous)
		}(i, s)
	}
	wg.Wait()

	result := &ReportResult{Account: acc, Range: filters.Range, Previous: previous}

	var firstErr error
	for i, s := range sections {
		out := outcomes[i]
		if out.err != nil {
			if backend.IsKind(out.err, backend.KindNoData) {
				continue
			}
			if firstErr == nil {
				firstErr = out.err
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", s.name, out.err.Error()))
			continue
		}

		if out.prevErr != nil && !backend.IsKind(out.prevErr, backend.KindNoData) {
			logrus.WithError(out.prevErr).WithField("section", s.name).Warn("pages: período anterior indisponível")
		}

		result.Rows = append(result.Rows, metrics.BuildRows(s.name, s.defs, out.current, out.previous)...)
	}

	// sem nenhuma seção disponível o erro decide o estado da página
	if len(result.Rows) == 0 && firstErr != nil {
		return nil, firstErr
	}

	return result, nil
}

func (f *ReportsFetcher) sections(acc domain.Account) []section {
	var out []section

	if acc.InstagramUserID != "" {
		out = append(out, section{
			name: "Instagram",
			defs: metrics.InstagramDefinitions,
			fetch: func(ctx context.Context, r domain.DateRange) (map[string]float64, error) {
				in, err := f.client.InstagramInsights(ctx, backend.InsightsQuery{ID: acc.InstagramUserID, Range: r, Long: true})
				if err != nil {
					return nil, err
				}
				return metrics.InstagramValues(in), nil
			},
		})
	}

	if acc.FacebookPageID != "" {
		out = append(out, section{
			name: "Facebook",
			defs: metrics.FacebookDefinitions,
			fetch: func(ctx context.Context, r domain.DateRange) (map[string]float64, error) {
				in, err := f.client.FacebookInsights(ctx, backend.InsightsQuery{ID: acc.FacebookPageID, Range: r, Long: true})
				if err != nil {
					return nil, err
				}
				return metrics.FacebookValues(in), nil
			},
		})
	}

	if id := acc.PrimaryAdAccountID(); id != "" {
		out = append(out, section{
			name: "Anúncios",
			defs: metrics.AdsDefinitions,
			fetch: func(ctx context.Context, r domain.DateRange) (map[string]float64, error) {
				in, err := f.client.AdsInsights(ctx, backend.InsightsQuery{ID: id, Range: r, Long: true})
				if err != nil {
					return nil, err
				}
				return metrics.AdsValues(metrics.Summarize(in, f.policy)), nil
			},
		})
	}

	return out
}

type AdminFetcher struct {
	client Backend
}

func NewAdminFetcher(client Backend) *AdminFetcher {
	return &AdminFetcher{client: client}
}

func (f *AdminFetcher) Fetch(ctx context.Context, _ domain.Filters) (Result, error) {
	overview, err := f.client.AdminOverview(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminResult{Overview: overview}, nil
}
