package gazetteer

import (
	"fmt"
	"strings"
)

// Entity is one gazetteer record with its source fields resolved once.
type Entity struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	Description string   `json:"description,omitempty"`

	NormalizedName string `json:"-"`
	SearchText     string `json:"-"`
}

// Alternative source fields, in priority order.
var (
	nameFields        = []string{"nome", "orgao"}
	addressFields     = []string{"localizacao", "endereco"}
	descriptionFields = []string{"descricao", "descrição"}
)

// RawRecord is one loosely typed dataset object.
type RawRecord map[string]any

// first returns the first non-blank string among keys.
func (r RawRecord) first(keys []string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case fmt.Stringer:
			s = t.String()
		case float64, int, int64, bool:
			s = fmt.Sprint(t)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// NewEntity resolves the canonical fields of a raw record.
// It returns false when the record has no usable name.
func NewEntity(c Category, rec RawRecord) (*Entity, bool) {
	name := rec.first(nameFields)
	if name == "" {
		return nil, false
	}
	e := &Entity{
		Category:    c,
		Name:        name,
		Address:     rec.first(addressFields),
		Description: rec.first(descriptionFields),
	}
	e.NormalizedName = Normalize(e.Name)
	// The category label stays out of the search text so that a query for
	// "farmacia" cannot match a clothing store through the word "loja".
	e.SearchText = Normalize(e.Name + " " + e.Description + " " + e.Address)
	return e, true
}
