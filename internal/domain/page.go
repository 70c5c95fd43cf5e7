package domain

type PageName string

const (
	PageInstagram PageName = "instagram"
	PageFacebook  PageName = "facebook"
	PageAds       PageName = "ads"
	PageReports   PageName = "reports"
	PageAdmin     PageName = "admin"
)

var AllPages = []PageName{PageInstagram, PageFacebook, PageAds, PageReports, PageAdmin}

func ParsePageName(s string) (PageName, bool) {
	for _, p := range AllPages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Chaves da query string compartilhadas entre as páginas
const (
	QueryAccount = "account"
	QuerySince   = "since"
	QueryUntil   = "until"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)
