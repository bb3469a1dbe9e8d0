package api

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
)

const testData = `{
  "escolas": [
    {"nome": "Unidade Integrada Major Fontoura", "localizacao": "Centro"},
    {"nome": "IEMA - Unidade Plena de Axixá", "localizacao": "Rodovia MA-402"},
    {"nome": "UI Professor Manoel Santana Baldez", "localizacao": "Zona Rural"},
    {"nome": "Jardim de Infância Adelino Fontoura", "localizacao": "Centro"},
    {"nome": "UE Axixaense", "localizacao": "Bairro Novo"}
  ],
  "igrejas": [
    {"nome": "Igreja da Luz", "localizacao": "Centro"},
    {"nome": "Igreja Batista", "localizacao": "Rua do Sol"}
  ],
  "lojas": [
    {"nome": "Farmale", "descricao": "Farmácia e drogaria"}
  ],
  "comidas_tipicas": [
    {"nome": "Juçara", "descricao": "Açaí regional servido com farinha"},
    {"nome": "Peixe Assado", "descricao": "Prato típico"},
    {"nome": "Torta de Camarão"},
    {"nome": "Arroz de Cuxá"},
    {"nome": "Caranguejada"}
  ],
  "historia_axixa": {"fundacao": "Povoado às margens do rio Munim", "emancipacao": "1948"}
}`

const testManifest = `id: axixa
version: "2024.1"
source: test
locality: "Axixá, Maranhão"
data_file: data.json
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T) *gazetteer.Registry {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, gazetteer.ManifestFile), []byte(testManifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(testData), 0o644))

	reg := gazetteer.NewRegistry(dir, discardLogger())
	require.NoError(t, reg.Load())
	return reg
}

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	svc, err := NewService(newTestRegistry(t), opts)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}
