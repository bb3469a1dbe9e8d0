// CLAUDE:SUMMARY Closed category enumeration with dataset source keys, intent keywords and generic listing triggers.
package gazetteer

import (
	"encoding/json"
	"fmt"
)

// Category is one of the nine fixed gazetteer groups.
// The declaration order is the iteration order used for tie-breaking.
type Category int

const (
	Schools Category = iota
	Stores
	Landmarks
	Churches
	MunicipalOffices
	SportsFacilities
	Cemeteries
	Lodging
	TypicalFoods

	numCategories
)

type categoryInfo struct {
	name      string
	sourceKey string
	keywords  []string
	triggers  []string
}

var categoryTable = [numCategories]categoryInfo{
	Schools: {
		name:      "schools",
		sourceKey: "escolas",
		keywords:  []string{"escola", "colegio", "creche", "estudar", "ensino", "infancia", "fundamental", "medio", "educacao", "unidade"},
		triggers:  []string{"escola", "escolas", "colegio", "colegios", "estudar"},
	},
	Stores: {
		name:      "stores",
		sourceKey: "lojas",
		keywords: []string{"loja", "comprar", "mercado", "vende", "roupa", "moda", "moveis", "eletro", "calcados", "flor",
			"variedade", "material", "construcao", "floricultura", "mercadinho", "farmacia", "conveniencia", "distribuidora"},
		triggers: []string{"loja", "lojas", "comercio", "compras"},
	},
	Landmarks: {
		name:      "landmarks",
		sourceKey: "pontos_turisticos",
		keywords: []string{"turismo", "passear", "banho", "rio", "praca", "visitar", "ruina", "lazer", "turistico",
			"historico", "balneario", "praia"},
		triggers: []string{"turismo", "passear", "pontos turisticos"},
	},
	Churches: {
		name:      "churches",
		sourceKey: "igrejas",
		keywords:  []string{"igreja", "paroquia", "culto", "missa", "evangelica", "catolica", "assembleia", "batista"},
		triggers:  []string{"igreja", "igrejas"},
	},
	MunicipalOffices: {
		name:      "municipal_offices",
		sourceKey: "predios_municipais",
		keywords:  []string{"prefeitura", "secretaria", "cras", "camara", "orgao", "publico", "saude", "assistencia"},
		triggers:  []string{"orgaos", "predios", "reparticoes"},
	},
	SportsFacilities: {
		name:      "sports_facilities",
		sourceKey: "campos_esportivos",
		keywords:  []string{"campo", "futebol", "ginasio", "jogo", "esporte", "quadra", "bola"},
		triggers:  []string{"esportes", "campos", "ginasio"},
	},
	Cemeteries: {
		name:      "cemeteries",
		sourceKey: "cemiterios",
		keywords:  []string{"cemiterio", "sepultamento", "enterrar"},
		triggers:  []string{"cemiterio", "cemiterios"},
	},
	Lodging: {
		name:      "lodging",
		sourceKey: "pousadas_dormitorios",
		keywords:  []string{"pousada", "dormir", "hotel", "hospedagem", "quarto", "dormitorio"},
		triggers:  []string{"dormir", "pousada", "pousadas"},
	},
	TypicalFoods: {
		name:      "typical_foods",
		sourceKey: "comidas_tipicas",
		keywords: []string{"comida", "tipica", "prato", "fome", "comer", "restaurante", "gastronomia", "culinaria",
			"almoco", "jantar", "peixe", "jucara"},
		triggers: []string{"comida", "comer"},
	},
}

// Categories returns every category in iteration order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryTable[c].name
}

// SourceKey is the top-level dataset key holding this category's records.
func (c Category) SourceKey() string {
	if !c.Valid() {
		return ""
	}
	return categoryTable[c].sourceKey
}

// Keywords returns the intent keywords (normalized form).
func (c Category) Keywords() []string {
	if !c.Valid() {
		return nil
	}
	return categoryTable[c].keywords
}

// Triggers returns the generic listing phrases (normalized form).
func (c Category) Triggers() []string {
	if !c.Valid() {
		return nil
	}
	return categoryTable[c].triggers
}

// ParseCategory accepts either the English name or the dataset source key.
func ParseCategory(s string) (Category, bool) {
	for i, info := range categoryTable {
		if s == info.name || s == info.sourceKey {
			return Category(i), true
		}
	}
	return 0, false
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseCategory(s)
	if !ok {
		return fmt.Errorf("unknown category %q", s)
	}
	*c = parsed
	return nil
}
