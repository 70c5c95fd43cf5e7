package domain

import (
	"errors"
	"time"
)

var ErrInvalidDateRange = errors.New("since must be less than or equal to until")

// DateRange é um intervalo em segundos unix, inclusivo nas duas pontas
type DateRange struct {
	Since int64 `json:"since"`
	Until int64 `json:"until"`
}

const DefaultRangeDays = 7

// LastDays retorna o intervalo dos últimos n dias terminando em now,
// começando à meia-noite no fuso de now
func LastDays(now time.Time, days int) DateRange {
	start := now.AddDate(0, 0, -days)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	return DateRange{Since: start.Unix(), Until: now.Unix()}
}

func (r DateRange) Validate() error {
	if r.Since > r.Until {
		return ErrInvalidDateRange
	}
	return nil
}

func (r DateRange) Duration() time.Duration {
	return time.Duration(r.Until-r.Since) * time.Second
}

func (r DateRange) Days() int {
	return int(r.Duration().Hours()/24) + 1
}

// Previous retorna o período de mesma duração imediatamente anterior
func (r DateRange) Previous() DateRange {
	length := r.Until - r.Since
	return DateRange{Since: r.Since - length - 1, Until: r.Since - 1}
}

func (r DateRange) SinceTime() time.Time {
	return time.Unix(r.Since, 0)
}

func (r DateRange) UntilTime() time.Time {
	return time.Unix(r.Until, 0)
}

// Filters é o conjunto de filtros compartilhado entre as páginas
type Filters struct {
	AccountID string    `json:"account_id"`
	Account   *Account  `json:"account,omitempty"`
	Range     DateRange `json:"range"`
}
