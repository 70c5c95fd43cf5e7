package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		kind     PayloadKind
		data     string
		hasError bool
	}{
		{name: "Corpo vazio vira objeto vazio", body: "", kind: PayloadRaw, data: `{}`},
		{name: "Null vira objeto vazio", body: "null", kind: PayloadRaw, data: `{}`},
		{name: "Objeto bruto", body: `{"reach": 10}`, kind: PayloadRaw, data: `{"reach": 10}`},
		{name: "Lista bruta", body: `[1,2]`, kind: PayloadRaw, data: `[1,2]`},
		{name: "Envelope com data", body: `{"data": {"reach": 10}, "meta": {"page": 1}}`, kind: PayloadEnvelope, data: `{"reach": 10}`},
		{name: "Envelope com data null", body: `{"data": null}`, kind: PayloadEnvelope, data: `{}`},
		{name: "Envelope apenas com erro", body: `{"error": {"code": "RATE_LIMIT", "message": "devagar"}}`, kind: PayloadEnvelope, data: `{}`, hasError: true},
		{name: "Objeto com chaves extras não é envelope", body: `{"data": 1, "total": 2}`, kind: PayloadRaw, data: `{"data": 1, "total": 2}`},
		{name: "Objeto vazio é bruto", body: `{}`, kind: PayloadRaw, data: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePayload([]byte(tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.kind, p.Kind)
			assert.JSONEq(t, tt.data, string(p.Data))
			assert.Equal(t, tt.hasError, p.Error != nil)
		})
	}
}

func TestDecodePayload_InvalidJSON(t *testing.T) {
	_, err := DecodePayload([]byte(`{"data":`))
	assert.Error(t, err)
}

func TestParseAPIError(t *testing.T) {
	t.Run("Código numérico da Graph API", func(t *testing.T) {
		e := parseAPIError([]byte(`{"message": "expired", "type": "OAuthException", "code": 190}`))
		assert.Equal(t, 190, e.GraphCode)
		assert.True(t, e.IsTokenExpired())
	})

	t.Run("Subcódigo de token", func(t *testing.T) {
		e := parseAPIError([]byte(`{"message": "x", "type": "OAuthException", "code": 102, "error_subcode": 463}`))
		assert.True(t, e.IsTokenExpired())
	})

	t.Run("Código textual", func(t *testing.T) {
		e := parseAPIError([]byte(`{"code": "NO_DATA", "message": "vazio"}`))
		assert.Equal(t, "NO_DATA", e.Code)
		assert.Equal(t, "vazio", e.Message)
	})

	t.Run("Erro como string", func(t *testing.T) {
		e := parseAPIError([]byte(`"falhou"`))
		assert.Equal(t, "falhou", e.Message)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    *APIError
		want   Kind
	}{
		{"Token expirado", 400, &APIError{GraphCode: 190}, KindIntegrationError},
		{"Limite de chamadas", 400, &APIError{GraphCode: 17}, KindRateLimit},
		{"Permissão da Graph API", 400, &APIError{GraphCode: 200}, KindPermissionDenied},
		{"Permissão por código textual", 400, &APIError{Code: "PERMISSION_DENIED"}, KindPermissionDenied},
		{"Sem dados por código textual", 200, &APIError{Code: "no_data"}, KindNoData},
		{"Integração por código textual", 500, &APIError{Code: "META_INTEGRATION_ERROR"}, KindIntegrationError},
		{"Status 403", 403, nil, KindPermissionDenied},
		{"Status 429", 429, nil, KindRateLimit},
		{"Status 404", 404, nil, KindNoData},
		{"Status 504", 504, nil, KindTimeout},
		{"Status 500 genérico", 500, &APIError{Code: "BOOM"}, KindHTTPError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.status, tt.err))
		})
	}
}
