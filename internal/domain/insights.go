package domain

// Action é o par action_type/value das respostas da Graph API.
// Os valores chegam como string.
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type DailyValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type MetricSeries struct {
	Metric string       `json:"metric"`
	Values []DailyValue `json:"values"`
}

type InstagramInsights struct {
	InstagramUserID string             `json:"instagram_user_id"`
	Username        string             `json:"username"`
	Followers       int64              `json:"followers"`
	Reach           int64              `json:"reach"`
	Impressions     int64              `json:"impressions"`
	ProfileViews    int64              `json:"profile_views"`
	Engagement      int64              `json:"engagement"`
	Posts           int64              `json:"posts"`
	Series          []MetricSeries     `json:"series"`
	Audience        map[string]float64 `json:"audience"`
}

func (i *InstagramInsights) IsEmpty() bool {
	return i == nil || (i.Reach == 0 && i.Impressions == 0 && i.Engagement == 0 && i.Followers == 0 && len(i.Series) == 0)
}

type FacebookInsights struct {
	PageID      string             `json:"page_id"`
	PageName    string             `json:"page_name"`
	Fans        int64              `json:"fans"`
	Reach       int64              `json:"reach"`
	Impressions int64              `json:"impressions"`
	Engagement  int64              `json:"engagement"`
	PageViews   int64              `json:"page_views"`
	Series      []MetricSeries     `json:"series"`
	Audience    map[string]float64 `json:"audience"`
}

func (f *FacebookInsights) IsEmpty() bool {
	return f == nil || (f.Reach == 0 && f.Impressions == 0 && f.Engagement == 0 && f.Fans == 0 && len(f.Series) == 0)
}

// VideoTotals são os totais de vídeo somados no nível de anúncio
type VideoTotals struct {
	Plays     float64 `json:"plays"`
	ThruPlays float64 `json:"thruplays"`
	P25       float64 `json:"p25"`
	P50       float64 `json:"p50"`
	P75       float64 `json:"p75"`
	P100      float64 `json:"p100"`
}

type AdsDaily struct {
	Date        string `json:"date_start"`
	Spend       string `json:"spend"`
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
}

type CampaignSpend struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Spend        string `json:"spend"`
}

// AdsInsights é o retorno de /api/ads/insights no formato da Graph API
type AdsInsights struct {
	AccountID              string          `json:"account_id"`
	AccountName            string          `json:"account_name"`
	Spend                  string          `json:"spend"`
	Impressions            string          `json:"impressions"`
	Reach                  string          `json:"reach"`
	Clicks                 string          `json:"clicks"`
	Frequency              string          `json:"frequency"`
	Objective              string          `json:"objective"`
	Actions                []Action        `json:"actions"`
	VideoPlayActions       []Action        `json:"video_play_actions"`
	VideoThruPlayActions   []Action        `json:"video_thruplay_watched_actions"`
	VideoP25WatchedActions []Action        `json:"video_p25_watched_actions"`
	VideoP50WatchedActions []Action        `json:"video_p50_watched_actions"`
	VideoP75WatchedActions []Action        `json:"video_p75_watched_actions"`
	VideoP100WatchedAction []Action        `json:"video_p100_watched_actions"`
	AdLevelVideo           *VideoTotals    `json:"ad_level_video,omitempty"`
	Daily                  []AdsDaily      `json:"daily"`
	Campaigns              []CampaignSpend `json:"campaigns"`
}

func (a *AdsInsights) IsEmpty() bool {
	return a == nil || (a.Spend == "" && a.Impressions == "" && len(a.Actions) == 0 && len(a.Daily) == 0)
}

type AdminUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	LastLogin string `json:"last_login,omitempty"`
}

type AdminOverview struct {
	TotalUsers        int64       `json:"total_users"`
	ActiveUsers       int64       `json:"active_users"`
	ConnectedAccounts int64       `json:"connected_accounts"`
	Users             []AdminUser `json:"users"`
}

func (a *AdminOverview) IsEmpty() bool {
	return a == nil || (a.TotalUsers == 0 && len(a.Users) == 0)
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DiscoveredPage é a página retornada pela descoberta de contas
type DiscoveredPage struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	InstagramBusinessID string         `json:"instagram_business_account_id,omitempty"`
	AdAccounts          []AdAccountRef `json:"ad_accounts,omitempty"`
}
