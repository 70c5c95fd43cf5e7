package metrics

import (
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/pkg/utils"
)

// Policy reúne as regras numéricas de anúncios que variam por cliente
type Policy struct {
	// CPARequiresConversions só calcula CPA quando há conversões
	CPARequiresConversions bool
	// PreferAdLevelVideoTotals usa os totais de vídeo do nível de anúncio
	// no lugar dos totais derivados das ações
	PreferAdLevelVideoTotals bool
	ConversionActionTypes    []string
	BreakdownTopN            int
}

func DefaultPolicy() Policy {
	return Policy{
		CPARequiresConversions:   true,
		PreferAdLevelVideoTotals: true,
		BreakdownTopN:            6,
	}
}

func PolicyFromConfig(cfg config.Policy) Policy {
	p := Policy{
		CPARequiresConversions:   cfg.CPARequiresConversions,
		PreferAdLevelVideoTotals: cfg.PreferAdLevelVideoTotals,
		ConversionActionTypes:    cfg.ConversionActionTypes,
		BreakdownTopN:            cfg.BreakdownTopN,
	}
	if p.BreakdownTopN <= 0 {
		p.BreakdownTopN = 6
	}
	return p
}

const (
	VideoSourceAdLevel = "ad_level"
	VideoSourceActions = "actions"
)

type AdsSummary struct {
	AccountID   string             `json:"account_id"`
	AccountName string             `json:"account_name"`
	Spend       float64            `json:"spend"`
	Impressions float64            `json:"impressions"`
	Reach       float64            `json:"reach"`
	Clicks      float64            `json:"clicks"`
	Frequency   float64            `json:"frequency"`
	Conversions float64            `json:"conversions"`
	CTR         float64            `json:"ctr"`
	CPC         float64            `json:"cpc"`
	CPM         float64            `json:"cpm"`
	CPA         float64            `json:"cpa"`
	HasCPA      bool               `json:"has_cpa"`
	Video       domain.VideoTotals `json:"video"`
	VideoSource string             `json:"video_source"`
	Actions     map[string]float64 `json:"actions"`
}

// Summarize normaliza o retorno de anúncios aplicando a política
func Summarize(in *domain.AdsInsights, p Policy) AdsSummary {
	if in == nil {
		return AdsSummary{Actions: map[string]float64{}}
	}

	s := AdsSummary{
		AccountID:   in.AccountID,
		AccountName: in.AccountName,
		Spend:       ParseNumber("spend", in.Spend),
		Impressions: ParseNumber("impressions", in.Impressions),
		Reach:       ParseNumber("reach", in.Reach),
		Clicks:      ParseNumber("clicks", in.Clicks),
		Frequency:   ParseNumber("frequency", in.Frequency),
		Actions:     ActionsToMap(in.Actions),
	}

	s.Conversions = conversions(s.Actions, in.Objective, p.ConversionActionTypes)

	s.CTR = utils.Ratio(s.Clicks, s.Impressions, 100)
	s.CPM = utils.Ratio(s.Spend, s.Impressions, 1000)
	s.CPC = utils.Ratio(s.Spend, s.Clicks, 1)

	switch {
	case s.Conversions > 0:
		s.CPA = utils.Ratio(s.Spend, s.Conversions, 1)
		s.HasCPA = true
	case !p.CPARequiresConversions && s.Spend > 0:
		// sem conversões o custo inteiro é atribuído a uma conversão
		s.CPA = utils.Round(s.Spend, 2)
		s.HasCPA = true
	}

	s.Video, s.VideoSource = videoTotals(in, p)

	return s
}

func conversions(actions map[string]float64, objective string, types []string) float64 {
	if len(types) == 0 {
		if actionType, ok := ObjectiveToActionType[objective]; ok {
			types = []string{actionType}
		}
	}

	var total float64
	for _, t := range types {
		total += actions[t]
	}
	return total
}

func videoTotals(in *domain.AdsInsights, p Policy) (domain.VideoTotals, string) {
	fromActions := domain.VideoTotals{
		Plays:     SumActions(in.VideoPlayActions),
		ThruPlays: SumActions(in.VideoThruPlayActions),
		P25:       SumActions(in.VideoP25WatchedActions),
		P50:       SumActions(in.VideoP50WatchedActions),
		P75:       SumActions(in.VideoP75WatchedActions),
		P100:      SumActions(in.VideoP100WatchedAction),
	}

	if in.AdLevelVideo == nil {
		return fromActions, VideoSourceActions
	}

	adLevel := *in.AdLevelVideo
	if p.PreferAdLevelVideoTotals && adLevel.Plays > 0 {
		return adLevel, VideoSourceAdLevel
	}

	if fromActions.Plays == 0 && adLevel.Plays > 0 {
		return adLevel, VideoSourceAdLevel
	}

	return fromActions, VideoSourceActions
}
