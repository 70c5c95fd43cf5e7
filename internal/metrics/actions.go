package metrics

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

// Mapeamento de "objective" -> "action_type" usado quando nenhuma ação de
// conversão está configurada
var ObjectiveToActionType = map[string]string{
	"LINK_CLICKS":           "link_click",
	"POST_ENGAGEMENT":       "post_engagement",
	"PAGE_LIKES":            "like",
	"VIDEO_VIEWS":           "video_view",
	"LEAD_GENERATION":       "lead",
	"CONVERSIONS":           "offsite_conversion",
	"APP_INSTALLS":          "app_install",
	"PRODUCT_CATALOG_SALES": "offsite_conversion.fb_pixel_purchase",
	"MESSAGES":              "onsite_conversion.messaging_first_reply",
	"REACH":                 "reach",
	"STORE_TRAFFIC":         "store_visit",
	"EVENT_RESPONSES":       "rsvp",
	"PURCHASE":              "offsite_conversion.fb_pixel_purchase",
	"OUTCOME_ENGAGEMENT":    "onsite_conversion.messaging_conversation_started_7d",
	"OUTCOME_LEADS":         "lead",
	"OUTCOME_SALES":         "offsite_conversion.fb_pixel_purchase",
	"OUTCOME_TRAFFIC":       "link_click",
}

// ActionsToMap converte a lista de ações da Graph API em um mapa.
// Tipos repetidos são somados e valores inválidos são ignorados.
func ActionsToMap(actions []domain.Action) map[string]float64 {
	out := make(map[string]float64, len(actions))

	for _, action := range actions {
		value, err := strconv.ParseFloat(strings.TrimSpace(action.Value), 64)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"action_type":  action.ActionType,
				"action_value": action.Value,
				"error":        err.Error(),
			}).Warn("metrics: error converting action value to float")
			continue
		}

		out[action.ActionType] += value
	}

	return out
}

// SumActions soma todos os valores da lista, usado nas métricas de vídeo
func SumActions(actions []domain.Action) float64 {
	var total float64
	for _, v := range ActionsToMap(actions) {
		total += v
	}
	return total
}

// ParseNumber lê os números que a Graph API envia como string. Vazio é zero.
func ParseNumber(field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"field": field,
			"value": raw,
			"error": err.Error(),
		}).Warn("metrics: error converting value to float")
		return 0
	}

	return value
}
