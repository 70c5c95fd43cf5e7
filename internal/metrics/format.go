package metrics

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const NotAvailable = "n/d"

var printer = message.NewPrinter(language.BrazilianPortuguese)

type Format int

const (
	FormatInteger Format = iota
	FormatDecimal
	FormatCurrency
	FormatPercent
)

// FormatValue formata o número no padrão pt-BR
func FormatValue(v float64, f Format) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}

	switch f {
	case FormatCurrency:
		return "R$ " + printer.Sprintf("%.2f", v)
	case FormatPercent:
		return printer.Sprintf("%.2f", v) + "%"
	case FormatDecimal:
		return printer.Sprintf("%.2f", v)
	default:
		return printer.Sprintf("%d", int64(math.Round(v)))
	}
}

// FormatDelta é a variação percentual em relação ao período anterior.
// Sem base de comparação o resultado é "n/d".
func FormatDelta(current, previous float64) string {
	if previous == 0 || math.IsNaN(previous) {
		return NotAvailable
	}

	delta := (current - previous) / math.Abs(previous) * 100
	text := printer.Sprintf("%.1f", delta) + "%"
	if delta > 0 {
		return "+" + text
	}
	if delta == 0 {
		return strings.TrimPrefix(text, "-")
	}
	return text
}
