// Package report exporta as linhas do relatório.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
)

// BOM do UTF-8, para o Excel reconhecer a codificação
const utf8BOM = "\uFEFF"

var Header = []string{"Métrica", "Valor", "Variação", "Chave"}

// WriteCSV escreve o relatório em UTF-8 com BOM, separado por vírgulas
func WriteCSV(w io.Writer, rows []metrics.Row) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, row := range rows {
		if err := cw.Write([]string{row.Metric, row.Value, row.Delta, row.Key}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FileName monta o nome do arquivo a partir da conta e do período
func FileName(account string, r domain.DateRange, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ':
			return '-'
		}
		return -1
	}, account)
	if slug == "" {
		slug = "conta"
	}

	return fmt.Sprintf("relatorio_%s_%s_%s.csv",
		slug,
		r.SinceTime().In(loc).Format(time.DateOnly),
		r.UntilTime().In(loc).Format(time.DateOnly),
	)
}
