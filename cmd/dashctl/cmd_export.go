package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
	"github.com/vfg2006/social-dashboard/internal/pages"
	"github.com/vfg2006/social-dashboard/internal/querystate"
	"github.com/vfg2006/social-dashboard/internal/report"
)

var (
	exportAccount string
	exportSince   string
	exportUntil   string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exporta o relatório comparativo em CSV",
	Long: `Exporta o relatório da conta comparando o período com o anterior de
mesma duração.

As datas aceitam YYYY-MM-DD ou timestamp unix. Sem --output o arquivo é
salvo no diretório atual com o nome padrão; use --output - para stdout.

Exemplos:
  dashctl export --account loja-a --since 2024-01-01 --until 2024-01-31
  dashctl export --output - > relatorio.csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportAccount, "account", "a", "", "ID da conta (padrão: primeira conta)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Início do período")
	exportCmd.Flags().StringVar(&exportUntil, "until", "", "Fim do período")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Arquivo de saída")
}

func runExport(cmd *cobra.Command, args []string) error {
	d, err := loadDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	loc := d.cfg.Location()

	since, err := parseDate(exportSince, loc, false)
	if err != nil {
		return err
	}
	until, err := parseDate(exportUntil, loc, true)
	if err != nil {
		return err
	}

	acc, err := d.registry.Resolve(cmd.Context(), exportAccount)
	if err != nil {
		return err
	}

	filters := domain.Filters{
		AccountID: acc.ID,
		Account:   acc,
		Range:     querystate.ParseDateRange(since, until, time.Now()),
	}

	fetcher := pages.NewReportsFetcher(d.client, metrics.PolicyFromConfig(d.cfg.Policy))
	result, err := fetcher.Fetch(cmd.Context(), filters)
	if err != nil {
		status, pageErr, action := pages.Classify(nil, err)
		if status != pages.StatusError {
			return errors.New("nenhum dado para o período selecionado")
		}
		return fmt.Errorf("%s (ação: %s)", pageErr.Message, action)
	}

	rep, ok := result.(*pages.ReportResult)
	if !ok || rep.IsEmpty() {
		return errors.New("nenhum dado para o período selecionado")
	}

	for _, warning := range rep.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aviso:", warning)
	}

	if exportOutput == "-" {
		return report.WriteCSV(cmd.OutOrStdout(), rep.Rows)
	}

	path := exportOutput
	if path == "" {
		path = report.FileName(acc.Label, rep.Range, loc)
	}

	if err := writeFile(path, func(w io.Writer) error { return report.WriteCSV(w, rep.Rows) }); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Relatório salvo em %s\n", path)
	return nil
}

// parseDate converte a data para timestamp unix como string; endOfDay usa o
// último segundo do dia
func parseDate(raw string, loc *time.Location, endOfDay bool) (string, error) {
	if raw == "" {
		return "", nil
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return raw, nil
	}

	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return "", fmt.Errorf("data inválida %q: use YYYY-MM-DD ou timestamp unix", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return strconv.FormatInt(t.Unix(), 10), nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
