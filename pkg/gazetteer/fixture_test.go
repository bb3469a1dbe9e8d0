package gazetteer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const fixtureJSON = `{
  "system_prompt": ["Você é o guia digital da cidade."],
  "historia_axixa": {"fundacao": "Povoado às margens do rio Munim", "emancipacao": "1948"},
  "escolas": [
    {"nome": "Unidade Integrada Major Fontoura", "localizacao": "Centro", "descricao": "Ensino fundamental"},
    {"nome": "IEMA - Unidade Plena de Axixá", "localizacao": "Rodovia MA-402", "descricao": "Ensino médio técnico"},
    {"nome": "UI Professor Manoel Santana Baldez", "localizacao": "Povoado Perijuçara"},
    {"nome": "Jardim de Infância Adelino Fontoura", "localizacao": "Centro", "descricao": "Creche e educação infantil"},
    {"nome": "UE Axixaense", "localizacao": "Bairro Novo"},
    {"descricao": "registro sem nome"}
  ],
  "lojas": [
    {"nome": "Eli Lojas", "endereco": "Rua Grande", "descricao": "Móveis e eletrodomésticos"},
    {"nome": "Josy Boutique", "descricao": "Roupas femininas e moda"},
    {"nome": "Farmale", "descricao": "Farmácia e drogaria"}
  ],
  "pontos_turisticos": [
    {"nome": "Ilha de Perijuçara", "descricao": "Banho de rio e natureza"},
    {"nome": "Ruinas do Quilombo de Munim Mirim", "descricao": "Sítio histórico"}
  ],
  "igrejas": [
    {"nome": "Igreja da Luz", "localizacao": "Centro"},
    {"nome": "Igreja Batista", "localizacao": "Rua do Sol"}
  ],
  "predios_municipais": [
    {"orgao": "Prefeitura Municipal de Axixá", "endereco": "Praça da Matriz"},
    {"orgao": "Secretaria Municipal de Saúde (SEMUS)"}
  ],
  "campos_esportivos": [
    {"nome": "Campo do Riachão", "localizacao": "Povoado Riachão"}
  ],
  "cemiterios": [
    {"nome": "Cemitério São Benedito", "localizacao": "Centro"}
  ],
  "pousadas_dormitorios": [
    {"nome": "Recanto Azeite Doce", "descricao": "Pousada com quartos"}
  ],
  "comidas_tipicas": [
    {"nome": "Juçara", "descricao": "Açaí regional servido com farinha"},
    {"nome": "Peixe Assado", "descricao": "Prato típico"}
  ]
}`

const fixtureManifest = `id: axixa
version: "1.0"
source: unit test
locality: "Axixá, Maranhão"
data_file: data.json
`

func fixtureDataset(t *testing.T) Dataset {
	t.Helper()
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(fixtureJSON), &top); err != nil {
		t.Fatalf("fixture is not valid JSON: %v", err)
	}
	f, err := os.CreateTemp(t.TempDir(), "data-*.json")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(fixtureJSON); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	ds, err := DecodeDataset(f)
	if err != nil {
		t.Fatalf("DecodeDataset: %v", err)
	}
	return ds
}

func fixtureIndex(t *testing.T) *Index {
	t.Helper()
	return BuildIndex(fixtureDataset(t))
}

// writeDatasetDir writes a manifest + data.json into a fresh directory.
func writeDatasetDir(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ManifestFile), []byte(fixtureManifest), 0o644)
	os.WriteFile(filepath.Join(dir, "data.json"), []byte(data), 0o644)
	return dir
}
