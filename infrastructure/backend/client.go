// Package backend é o cliente da API REST do dashboard. Toda resposta é
// decodificada aqui em um Payload e toda falha vira um *Error classificado.
package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/infrastructure/cache"
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/session"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultLongTimeout = 120 * time.Second
)

type Client struct {
	baseURL     string
	timeout     time.Duration
	longTimeout time.Duration
	http        *http.Client
	session     *session.Session
	cache       *cache.Cache
}

type Option func(*Client)

// WithHTTPClient troca o http.Client usado nas requisições
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache habilita o cache de respostas GET. O cache é descartado
// sempre que a sessão muda ou é encerrada.
func WithCache(rc *cache.Cache) Option {
	return func(c *Client) {
		c.cache = rc
	}
}

func NewClient(cfg config.Backend, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     cfg.Timeout,
		longTimeout: cfg.LongTimeout,
		http:        &http.Client{},
		session:     sess,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.longTimeout <= 0 {
		c.longTimeout = DefaultLongTimeout
	}

	if c.session != nil && c.cache != nil {
		c.session.OnClear(c.cache.Clear)
		c.session.OnChange(c.cache.Clear)
	}

	return c
}

func (c *Client) Session() *session.Session {
	return c.session
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	long   bool
	public bool
}

func (r request) endpoint() string {
	return r.method + " " + r.path
}

// do executa a requisição com o timeout da chamada e devolve o payload decodificado
func (c *Client) do(ctx context.Context, r request) (*Payload, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	cacheKey := r.method + " " + target
	cacheable := r.method == http.MethodGet && c.cache != nil
	if cacheable {
		if body, ok := c.cache.Get(cacheKey); ok {
			logrus.WithField("endpoint", r.endpoint()).Debug("backend: resposta servida do cache")
			return DecodePayload(body)
		}
	}

	var reader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, &Error{Kind: KindHTTPError, Endpoint: r.endpoint(), Message: "corpo da requisição inválido", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	timeout := c.timeout
	if r.long {
		timeout = c.longTimeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, r.method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindNetworkFailure, Endpoint: r.endpoint(), Message: "erro ao criar a requisição", Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := ""
	if c.session != nil && !r.public {
		token = c.session.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.requestError(ctx, reqCtx, r, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.requestError(ctx, reqCtx, r, err)
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": r.endpoint(),
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("backend: resposta recebida")

	if resp.StatusCode == http.StatusUnauthorized {
		if token != "" {
			c.session.Clear()
		}
		apiErr := errorFromBody(body)
		return nil, newHTTPError(r.endpoint(), resp.StatusCode, KindUnauthorized, apiErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errorFromBody(body)
		return nil, newHTTPError(r.endpoint(), resp.StatusCode, classify(resp.StatusCode, apiErr), apiErr)
	}

	payload, err := DecodePayload(body)
	if err != nil {
		return nil, &Error{Kind: KindHTTPError, Endpoint: r.endpoint(), Status: resp.StatusCode, Message: "resposta inválida do servidor", Err: err}
	}

	// envelope com erro em resposta 2xx
	if payload.Error != nil {
		kind, ok := classifyAPIError(payload.Error)
		if !ok {
			kind = KindHTTPError
		}
		return nil, newHTTPError(r.endpoint(), resp.StatusCode, kind, payload.Error)
	}

	if cacheable {
		c.cache.Set(cacheKey, body)
	}

	return payload, nil
}

// requestError diferencia cancelamento do chamador, timeout da chamada e falha de rede
func (c *Client) requestError(parent, reqCtx context.Context, r request, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return transportError(r.endpoint(), parent.Err())
	}

	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		logrus.WithField("endpoint", r.endpoint()).Warn("backend: tempo limite excedido")
		return transportError(r.endpoint(), context.DeadlineExceeded)
	}

	logrus.WithError(err).WithField("endpoint", r.endpoint()).Warn("backend: falha de comunicação")
	return transportError(r.endpoint(), err)
}

func newHTTPError(endpoint string, status int, kind Kind, apiErr *APIError) *Error {
	e := &Error{Kind: kind, Status: status, Endpoint: endpoint}
	if apiErr != nil {
		e.Code = apiErr.Code
		e.Message = apiErr.Message
		if e.Code == "" && apiErr.GraphCode != 0 {
			e.Code = "GRAPH_" + strconv.Itoa(apiErr.GraphCode)
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
