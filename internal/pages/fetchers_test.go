package pages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
	"github.com/vfg2006/social-dashboard/internal/pages/mocks"
	"go.uber.org/mock/gomock"
)

var testRange = domain.DateRange{Since: 1_700_000_000, Until: 1_700_604_799}

func findRow(rows []metrics.Row, key string) (metrics.Row, bool) {
	for _, r := range rows {
		if r.Key == key {
			return r, true
		}
	}
	return metrics.Row{}, false
}

func TestInstagramFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockBackend(ctrl)
	fetcher := NewInstagramFetcher(client, metrics.DefaultPolicy())

	t.Run("Conta sem Instagram conectado", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), domain.Filters{Account: &domain.Account{ID: "a", FacebookPageID: "1"}})
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("Nenhuma conta selecionada", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), domain.Filters{})
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("Monta linhas e gráficos", func(t *testing.T) {
		client.EXPECT().
			InstagramInsights(gomock.Any(), backend.InsightsQuery{ID: "ig1", Range: testRange}).
			Return(&domain.InstagramInsights{
				Reach:      1000,
				Engagement: 50,
				Series: []domain.MetricSeries{
					{Metric: "reach", Values: []domain.DailyValue{{Date: "2023-11-15", Value: 400}, {Date: "2023-11-14", Value: 600}}},
				},
				Audience: map[string]float64{"BR": 10, "PT": 2},
			}, nil)

		result, err := fetcher.Fetch(context.Background(), domain.Filters{
			Account: &domain.Account{ID: "a", InstagramUserID: "ig1"},
			Range:   testRange,
		})
		require.NoError(t, err)
		assert.False(t, result.IsEmpty())

		ig := result.(*InstagramResult)
		row, ok := findRow(ig.Rows, "instagram.engagement_rate")
		require.True(t, ok)
		assert.Equal(t, "5,00%", row.Value)

		specs := ig.Charts()
		assert.Contains(t, specs, "overview")
		assert.Contains(t, specs, "audience")
		assert.Contains(t, specs, "reach")
		assert.NotContains(t, specs, "impressions")
	})
}

func TestFacebookFetcher_BackendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockBackend(ctrl)
	fetcher := NewFacebookFetcher(client, metrics.DefaultPolicy())

	client.EXPECT().
		FacebookInsights(gomock.Any(), gomock.Any()).
		Return(nil, &backend.Error{Kind: backend.KindPermissionDenied})

	result, err := fetcher.Fetch(context.Background(), domain.Filters{Account: &domain.Account{ID: "a", FacebookPageID: "123"}})
	assert.Nil(t, result)

	status, _, action := Classify(result, err)
	assert.Equal(t, StatusError, status)
	assert.Equal(t, ActionReconnect, action)
}

func TestAdsFetcher_UsesPrimaryAdAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockBackend(ctrl)
	fetcher := NewAdsFetcher(client, metrics.DefaultPolicy())

	client.EXPECT().
		AdsInsights(gomock.Any(), backend.InsightsQuery{ID: "555", Range: testRange}).
		Return(&domain.AdsInsights{Spend: "100", Impressions: "1000", Clicks: "10"}, nil)

	result, err := fetcher.Fetch(context.Background(), domain.Filters{
		Account: &domain.Account{ID: "a", AdAccounts: []domain.AdAccountRef{{ID: "555"}, {ID: "777"}}},
		Range:   testRange,
	})
	require.NoError(t, err)

	ads := result.(*AdsResult)
	assert.Equal(t, 100.0, ads.Summary.Spend)
	assert.Equal(t, 1.0, ads.Summary.CTR)
	_, hasCPA := findRow(ads.Rows, "ads.cpa")
	assert.False(t, hasCPA)
	assert.Contains(t, ads.Charts(), "video")
}

func TestReportsFetcher(t *testing.T) {
	account := &domain.Account{ID: "a", InstagramUserID: "ig1", FacebookPageID: "fb1"}
	previous := testRange.Previous()

	t.Run("Calcula variação contra o período anterior", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockBackend(ctrl)

		client.EXPECT().
			InstagramInsights(gomock.Any(), backend.InsightsQuery{ID: "ig1", Range: testRange, Long: true}).
			Return(&domain.InstagramInsights{Reach: 200}, nil)
		client.EXPECT().
			InstagramInsights(gomock.Any(), backend.InsightsQuery{ID: "ig1", Range: previous, Long: true}).
			Return(&domain.InstagramInsights{Reach: 100}, nil)
		client.EXPECT().
			FacebookInsights(gomock.Any(), backend.InsightsQuery{ID: "fb1", Range: testRange, Long: true}).
			Return(nil, &backend.Error{Kind: backend.KindNoData})
		client.EXPECT().
			FacebookInsights(gomock.Any(), backend.InsightsQuery{ID: "fb1", Range: previous, Long: true}).
			Return(nil, &backend.Error{Kind: backend.KindNoData})

		result, err := NewReportsFetcher(client, metrics.DefaultPolicy()).Fetch(context.Background(), domain.Filters{Account: account, Range: testRange})
		require.NoError(t, err)

		report := result.(*ReportResult)
		assert.Equal(t, previous, report.Previous)
		assert.Empty(t, report.Warnings)

		row, ok := findRow(report.Rows, "instagram.reach")
		require.True(t, ok)
		assert.Equal(t, "+100,0%", row.Delta)

		_, ok = findRow(report.Rows, "facebook.reach")
		assert.False(t, ok)
	})

	t.Run("Período anterior indisponível", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockBackend(ctrl)

		client.EXPECT().
			InstagramInsights(gomock.Any(), backend.InsightsQuery{ID: "ig1", Range: testRange, Long: true}).
			Return(&domain.InstagramInsights{Reach: 200}, nil)
		client.EXPECT().
			InstagramInsights(gomock.Any(), backend.InsightsQuery{ID: "ig1", Range: previous, Long: true}).
			Return(nil, &backend.Error{Kind: backend.KindTimeout})
		client.EXPECT().
			FacebookInsights(gomock.Any(), gomock.Any()).
			Return(nil, &backend.Error{Kind: backend.KindRateLimit, Message: "limite"}).
			Times(2)

		result, err := NewReportsFetcher(client, metrics.DefaultPolicy()).Fetch(context.Background(), domain.Filters{Account: account, Range: testRange})
		require.NoError(t, err)

		report := result.(*ReportResult)
		row, ok := findRow(report.Rows, "instagram.reach")
		require.True(t, ok)
		assert.Equal(t, metrics.NotAvailable, row.Delta)
		assert.Len(t, report.Warnings, 1)
	})

	t.Run("Todas as seções falham", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockBackend(ctrl)

		client.EXPECT().
			AdsInsights(gomock.Any(), gomock.Any()).
			Return(nil, &backend.Error{Kind: backend.KindNetworkFailure}).
			Times(2)

		_, err := NewReportsFetcher(client, metrics.DefaultPolicy()).Fetch(context.Background(), domain.Filters{
			Account: &domain.Account{ID: "b", AdAccountID: "1"},
			Range:   testRange,
		})
		assert.True(t, backend.IsKind(err, backend.KindNetworkFailure))
	})
}

func TestAdminFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockBackend(ctrl)

	client.EXPECT().AdminOverview(gomock.Any()).Return(&domain.AdminOverview{TotalUsers: 3}, nil)

	result, err := NewAdminFetcher(client).Fetch(context.Background(), domain.Filters{})
	require.NoError(t, err)
	assert.False(t, result.IsEmpty())
}
