package api

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
)

func TestMapLink(t *testing.T) {
	tests := []struct {
		name     string
		entity   *gazetteer.Entity
		locality string
		want     string
	}{
		{"with address", &gazetteer.Entity{Name: "Igreja da Luz", Address: "Centro"}, "Axixá, Maranhão", "Igreja da Luz, Centro, Axixá, Maranhão"},
		{"short address", &gazetteer.Entity{Name: "IEMA", Address: "MA-40"}, "Axixá, Maranhão", "IEMA, Axixá, Maranhão"},
		{"rural address", &gazetteer.Entity{Name: "UI Baldez", Address: "Zona RURAL"}, "Axixá, Maranhão", "UI Baldez, Axixá, Maranhão"},
		{"no locality", &gazetteer.Entity{Name: "Farmale"}, "", "Farmale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := MapLink(tt.entity, tt.locality)
			require.True(t, strings.HasPrefix(link, mapsSearchURL), link)

			u, err := url.Parse(link)
			require.NoError(t, err)
			assert.Equal(t, "1", u.Query().Get("api"))
			assert.Equal(t, tt.want, u.Query().Get("query"))
		})
	}

	assert.Empty(t, MapLink(nil, "Axixá"))
}
