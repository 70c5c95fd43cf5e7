package backend

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PayloadKind diferencia respostas brutas das respostas em envelope
type PayloadKind int

const (
	PayloadRaw PayloadKind = iota
	PayloadEnvelope
)

func (k PayloadKind) String() string {
	if k == PayloadEnvelope {
		return "envelope"
	}
	return "raw"
}

var emptyObject = jsoniter.RawMessage(`{}`)

// Payload é a resposta decodificada na fronteira de rede. Data sempre
// contém o JSON útil: o campo data do envelope ou o corpo bruto.
type Payload struct {
	Kind  PayloadKind
	Data  jsoniter.RawMessage
	Meta  map[string]any
	Error *APIError
}

// DecodePayload reconhece o envelope {data, meta, error}. Um objeto é
// tratado como envelope apenas quando todas as suas chaves pertencem ao
// envelope; corpo vazio ou null vira {}.
func DecodePayload(body []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Payload{Kind: PayloadRaw, Data: emptyObject}, nil
	}

	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("backend: resposta não é um JSON válido")
	}

	var fields map[string]jsoniter.RawMessage
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &fields) != nil || !isEnvelope(fields) {
		return &Payload{Kind: PayloadRaw, Data: jsoniter.RawMessage(trimmed)}, nil
	}

	p := &Payload{Kind: PayloadEnvelope, Data: emptyObject}

	if data, ok := fields["data"]; ok && !isNull(data) {
		p.Data = data
	}

	if meta, ok := fields["meta"]; ok && !isNull(meta) {
		if err := json.Unmarshal(meta, &p.Meta); err != nil {
			return nil, fmt.Errorf("backend: meta inválido: %w", err)
		}
	}

	if raw, ok := fields["error"]; ok && !isNull(raw) {
		p.Error = parseAPIError(raw)
	}

	return p, nil
}

// Decode preenche target com os dados úteis do payload
func (p *Payload) Decode(target any) error {
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(p.Data, target); err != nil {
		return fmt.Errorf("backend: decode: %w", err)
	}
	return nil
}

func isEnvelope(fields map[string]jsoniter.RawMessage) bool {
	if len(fields) == 0 {
		return false
	}
	for key := range fields {
		if key != "data" && key != "meta" && key != "error" {
			return false
		}
	}
	return true
}

func isNull(raw jsoniter.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseAPIError aceita erro como string, objeto com code textual ou
// objeto da Graph API com code numérico
func parseAPIError(raw jsoniter.RawMessage) *APIError {
	raw = bytes.TrimSpace(raw)

	var message string
	if err := json.Unmarshal(raw, &message); err == nil {
		return &APIError{Message: message}
	}

	var body struct {
		Code    jsoniter.RawMessage `json:"code"`
		Message string              `json:"message"`
		Error   string              `json:"error"`
		Type    string              `json:"type"`
		Subcode int                 `json:"error_subcode"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return &APIError{Message: string(raw)}
	}

	apiErr := &APIError{Message: body.Message, Type: body.Type, Subcode: body.Subcode}
	if apiErr.Message == "" {
		apiErr.Message = body.Error
	}

	if len(body.Code) > 0 {
		var numeric int
		var textual string
		switch {
		case json.Unmarshal(body.Code, &numeric) == nil:
			apiErr.GraphCode = numeric
		case json.Unmarshal(body.Code, &textual) == nil:
			apiErr.Code = textual
		}
	}

	return apiErr
}

// errorFromBody extrai o erro de uma resposta não 2xx
func errorFromBody(body []byte) *APIError {
	p, err := DecodePayload(body)
	if err != nil {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		return &APIError{Message: string(bytes.TrimSpace(body))}
	}

	if p.Error != nil {
		return p.Error
	}

	if p.Kind == PayloadEnvelope {
		return nil
	}

	var fields map[string]jsoniter.RawMessage
	if json.Unmarshal(p.Data, &fields) != nil {
		return nil
	}

	if nested, ok := fields["error"]; ok && !isNull(nested) {
		return parseAPIError(nested)
	}

	if _, hasCode := fields["code"]; hasCode {
		return parseAPIError(p.Data)
	}
	if _, hasMessage := fields["message"]; hasMessage {
		return parseAPIError(p.Data)
	}

	return nil
}
