package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name     string
		raw      string
		endOfDay bool
		want     string
		wantErr  bool
	}{
		{name: "Vazio", raw: "", want: ""},
		{name: "Timestamp unix", raw: "1700000000", want: "1700000000"},
		{name: "Início do dia", raw: "2024-01-01", want: "1704078000"},
		{name: "Fim do dia", raw: "2024-01-01", endOfDay: true, want: "1704164399"},
		{name: "Formato inválido", raw: "01/01/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.raw, loc, tt.endOfDay)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatorios", "saida.csv")

	err := writeFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("ok"))
		return err
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(content))
}
