package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

// InsightsQuery identifica o recurso e o período consultado
type InsightsQuery struct {
	ID    string
	Range domain.DateRange
	// Long usa o timeout estendido, para relatórios
	Long bool
}

func (q InsightsQuery) values(idKey string) url.Values {
	v := url.Values{}
	v.Set(idKey, q.ID)
	v.Set(domain.QuerySince, strconv.FormatInt(q.Range.Since, 10))
	v.Set(domain.QueryUntil, strconv.FormatInt(q.Range.Until, 10))
	return v
}

func (c *Client) InstagramInsights(ctx context.Context, q InsightsQuery) (*domain.InstagramInsights, error) {
	out := &domain.InstagramInsights{}
	if err := c.getInsights(ctx, "/api/instagram/insights", q.values("instagram_user_id"), q.Long, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FacebookInsights(ctx context.Context, q InsightsQuery) (*domain.FacebookInsights, error) {
	out := &domain.FacebookInsights{}
	if err := c.getInsights(ctx, "/api/facebook/insights", q.values("page_id"), q.Long, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdsInsights(ctx context.Context, q InsightsQuery) (*domain.AdsInsights, error) {
	q.ID = NormalizeAdAccountID(q.ID)

	out := &domain.AdsInsights{}
	if err := c.getInsights(ctx, "/api/ads/insights", q.values("ad_account_id"), q.Long, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminOverview(ctx context.Context) (*domain.AdminOverview, error) {
	payload, err := c.do(ctx, request{method: http.MethodGet, path: "/api/admin/overview"})
	if err != nil {
		return nil, err
	}

	out := &domain.AdminOverview{}
	if err := payload.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getInsights(ctx context.Context, path string, query url.Values, long bool, target any) error {
	r := request{method: http.MethodGet, path: path, query: query, long: long}

	payload, err := c.do(ctx, r)
	if err != nil {
		return err
	}

	if noData(payload) {
		return &Error{Kind: KindNoData, Endpoint: r.endpoint(), Status: http.StatusOK, Message: "nenhum dado para o período"}
	}

	return payload.Decode(target)
}

// noData reconhece meta.no_data e o campo data como lista vazia
func noData(p *Payload) bool {
	if flag, ok := p.Meta["no_data"].(bool); ok && flag {
		return true
	}

	data := jsoniter.Get(p.Data)
	return data.ValueType() == jsoniter.ArrayValue && data.Size() == 0
}
