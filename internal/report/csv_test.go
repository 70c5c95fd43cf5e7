package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
)

func TestWriteCSV(t *testing.T) {
	rows := []metrics.Row{
		{Metric: "Investimento", Value: "R$ 1.234,50", Delta: "+10,0%", Key: "ads.spend"},
		{Metric: "Alcance", Value: "200", Delta: "n/d", Key: "facebook.reach"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "deve começar com BOM")

	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\n")
	assert.Equal(t, "Métrica,Valor,Variação,Chave", lines[0])
	assert.Equal(t, `Investimento,"R$ 1.234,50","+10,0%",ads.spend`, lines[1])
	assert.Equal(t, "Alcance,200,n/d,facebook.reach", lines[2])
}

func TestFileName(t *testing.T) {
	r := domain.DateRange{
		Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		Until: time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC).Unix(),
	}

	assert.Equal(t, "relatorio_loja-a_2024-01-01_2024-01-07.csv", FileName("Loja A", r, time.UTC))
	assert.Equal(t, "relatorio_conta_2024-01-01_2024-01-07.csv", FileName("", r, nil))
}
