package querystate

import (
	"strconv"
	"time"

	"github.com/vfg2006/social-dashboard/internal/domain"
)

// Value cria o ponteiro usado por Set para atribuir uma chave
func Value(s string) *string {
	return &s
}

func (s *Store) AccountID() string {
	return s.Get(domain.QueryAccount)
}

// DateRange lê since/until da URL. Quando ausentes ou inválidos, usa os
// últimos 7 dias a partir de now. Intervalos invertidos são trocados.
func (s *Store) DateRange(now time.Time) domain.DateRange {
	return ParseDateRange(s.Get(domain.QuerySince), s.Get(domain.QueryUntil), now)
}

func (s *Store) SetAccount(id string) {
	if id == "" {
		s.Set(map[string]*string{domain.QueryAccount: nil})
		return
	}
	s.Set(map[string]*string{domain.QueryAccount: Value(id)})
}

func (s *Store) SetDateRange(r domain.DateRange) {
	s.Set(map[string]*string{
		domain.QuerySince: Value(strconv.FormatInt(r.Since, 10)),
		domain.QueryUntil: Value(strconv.FormatInt(r.Until, 10)),
	})
}

func ParseDateRange(since, until string, now time.Time) domain.DateRange {
	fallback := domain.LastDays(now, domain.DefaultRangeDays)

	sinceValue, sinceErr := strconv.ParseInt(since, 10, 64)
	untilValue, untilErr := strconv.ParseInt(until, 10, 64)

	switch {
	case sinceErr != nil && untilErr != nil:
		return fallback
	case sinceErr != nil:
		sinceValue = untilValue - (fallback.Until - fallback.Since)
	case untilErr != nil:
		untilValue = now.Unix()
	}

	if sinceValue > untilValue {
		sinceValue, untilValue = untilValue, sinceValue
	}

	return domain.DateRange{Since: sinceValue, Until: untilValue}
}
