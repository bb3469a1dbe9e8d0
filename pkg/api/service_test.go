package api

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
	"github.com/hazyhaar/gazetteer/pkg/journal"
	"github.com/hazyhaar/gazetteer/pkg/kit"
)

func TestServiceResolve(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	a, err := svc.Resolve(ctx, "  Onde fica a Igreja da Luz?  ")
	require.NoError(t, err)
	assert.Equal(t, "Onde fica a Igreja da Luz?", a.Query)
	assert.Equal(t, gazetteer.SingleMatch, a.Outcome)
	assert.Equal(t, "Igreja da Luz", a.Label)
	assert.Equal(t, 137.0, a.Score)
	assert.Contains(t, a.MapLink, "Igreja+da+Luz%2C+Centro%2C+Axix")

	a, err = svc.Resolve(ctx, "escolas")
	require.NoError(t, err)
	assert.Equal(t, gazetteer.CategoryListing, a.Outcome)
	assert.Equal(t, "Geral: escolas", a.Label)
	assert.Len(t, a.Entities, 4)
	assert.Empty(t, a.MapLink, "listings carry no map link")

	a, err = svc.Resolve(ctx, "xyz123")
	require.NoError(t, err)
	assert.Equal(t, gazetteer.NoMatch, a.Outcome)
	assert.Empty(t, a.Label)
}

func TestServiceResolve_Validation(t *testing.T) {
	svc := newTestService(t, Options{MaxQueryLength: 10})
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = svc.Resolve(ctx, strings.Repeat("á", 11))
	assert.ErrorIs(t, err, ErrQueryTooLong)

	_, err = svc.Resolve(ctx, strings.Repeat("á", 10))
	assert.NoError(t, err, "limit counts runes, not bytes")
}

func TestServiceResolve_CacheFollowsGeneration(t *testing.T) {
	reg := newTestRegistry(t)
	svc, err := NewService(reg, Options{CacheTTL: time.Minute, Logger: discardLogger()})
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	before, err := svc.Resolve(ctx, "Igreja Nova")
	require.NoError(t, err)
	assert.NotEqual(t, gazetteer.SingleMatch, before.Outcome)

	reg.Swap(gazetteer.BuildIndex(gazetteer.Dataset{
		gazetteer.Churches: {{"nome": "Igreja Nova"}},
	}))

	after, err := svc.Resolve(ctx, "Igreja Nova")
	require.NoError(t, err)
	require.Equal(t, gazetteer.SingleMatch, after.Outcome)
	assert.Equal(t, "Igreja Nova", after.Entity.Name)
}

func TestServiceResolveBatch(t *testing.T) {
	svc := newTestService(t, Options{BatchMax: 5, BatchWorkers: 2})
	ctx := context.Background()

	items, err := svc.ResolveBatch(ctx, []string{"Igreja da Luz", "", "escolas", "Tem farmácia?"})
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "Igreja da Luz", items[0].Entity.Name)
	assert.Nil(t, items[1].Answer)
	assert.Contains(t, items[1].Error, "vazia")
	assert.Equal(t, gazetteer.CategoryListing, items[2].Outcome)
	assert.Equal(t, "Farmale", items[3].Entity.Name)

	_, err = svc.ResolveBatch(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
	_, err = svc.ResolveBatch(ctx, make([]string, 6))
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestServiceResolveBatch_AfterClose(t *testing.T) {
	svc := newTestService(t, Options{})
	svc.Close()

	items, err := svc.ResolveBatch(context.Background(), []string{"Igreja da Luz", "escolas"})
	require.NoError(t, err, "a released pool falls back to inline resolution")
	assert.Equal(t, "Igreja da Luz", items[0].Entity.Name)
	assert.Equal(t, gazetteer.CategoryListing, items[1].Outcome)
}

func TestServiceAsk(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	tests := []struct {
		question string
		kind     string
		label    string
	}{
		{"Olá, bom dia!", KindGreeting, greetingLabel},
		{"oi", KindGreeting, greetingLabel},
		{"Tudo bem com você?", KindGreeting, greetingLabel},
		{"Quem criou esse guia?", KindCredits, creditsLabel},
		{"Fale sobre o projeto", KindCredits, creditsLabel},
		{"Onde fica a Igreja da Luz?", KindAnswer, "Igreja da Luz"},
		{"Quais escolas existem?", KindAnswer, "Geral: escolas"},
	}
	for _, tt := range tests {
		r, err := svc.Ask(ctx, tt.question)
		require.NoError(t, err, tt.question)
		assert.Equal(t, tt.kind, r.Kind, tt.question)
		assert.Equal(t, tt.label, r.Label, tt.question)
	}

	r, err := svc.Ask(ctx, "Onde fica a Igreja da Luz?")
	require.NoError(t, err)
	assert.NotEmpty(t, r.MapLink)
	ent, ok := r.Payload.(*gazetteer.Entity)
	require.True(t, ok, "single match payload is the entity")
	assert.Equal(t, "Centro", ent.Address)

	r, err = svc.Ask(ctx, "escolas")
	require.NoError(t, err)
	list, ok := r.Payload.([]*gazetteer.Entity)
	require.True(t, ok, "listing payload is the entity list")
	assert.Len(t, list, 4)

	r, err = svc.Ask(ctx, "xyz123")
	require.NoError(t, err)
	assert.Nil(t, r.Payload)

	_, err = svc.Ask(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestServiceAsk_History(t *testing.T) {
	svc := newTestService(t, Options{})

	r, err := svc.Ask(context.Background(), "Conte a história de Axixá")
	require.NoError(t, err)
	assert.Equal(t, KindHistory, r.Kind)
	assert.Equal(t, historyLabel, r.Label)
	raw, ok := r.Payload.(json.RawMessage)
	require.True(t, ok, "history payload is the raw dataset entry")
	var h map[string]string
	require.NoError(t, json.Unmarshal(raw, &h))
	assert.Equal(t, "1948", h["emancipacao"])
}

func TestServiceAsk_FoodList(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	r, err := svc.Ask(ctx, "Quais as comidas típicas?")
	require.NoError(t, err)
	assert.Equal(t, KindFoodList, r.Kind)
	assert.Equal(t, foodListLabel, r.Label)
	list, ok := r.Payload.([]*gazetteer.Entity)
	require.True(t, ok)
	assert.Len(t, list, 5, "the whole list, not the listing cap")

	r, err = svc.Ask(ctx, "comida típica")
	require.NoError(t, err)
	assert.Equal(t, KindAnswer, r.Kind, "without quais the question resolves normally")
}

func TestServiceAsk_VillagesHint(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	for _, q := range []string{"escolas", "igrejas", "lojas"} {
		r, err := svc.Ask(ctx, q)
		require.NoError(t, err, q)
		assert.Equal(t, villagesHint, r.Hint, q)
	}

	r, err := svc.Ask(ctx, "Onde fica a Igreja da Luz?")
	require.NoError(t, err)
	assert.Empty(t, r.Hint, "single matches carry no hint")
}

func TestServiceListCategory(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	l, err := svc.ListCategory(ctx, "escolas", 2)
	require.NoError(t, err)
	assert.Equal(t, gazetteer.Schools, l.Category)
	assert.Equal(t, 5, l.Total)
	assert.Len(t, l.Entities, 2)

	l, err = svc.ListCategory(ctx, "Churches", 0)
	require.NoError(t, err)
	assert.Len(t, l.Entities, 2, "default limit is the listing size, capped by the category")

	l, err = svc.ListCategory(ctx, "cemiterios", 0)
	require.NoError(t, err)
	assert.NotNil(t, l.Entities)
	assert.Empty(t, l.Entities)

	_, err = svc.ListCategory(ctx, "bakeries", 0)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestServiceJournal(t *testing.T) {
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	rec := journal.NewRecorder(store, 16, discardLogger())
	t.Cleanup(func() { rec.Close() })

	svc := newTestService(t, Options{Journal: rec})
	ep := NewEndpoints(svc)
	ctx := kit.WithRequestID(kit.WithTransport(context.Background(), "mcp"), "rid-42")

	_, err = ep.Resolve(ctx, &resolveReq{Query: "Igreja da Luz"})
	require.NoError(t, err)
	_, err = ep.Ask(ctx, &askReq{Question: "bom dia"})
	require.NoError(t, err)
	_, err = ep.Resolve(ctx, &resolveReq{Query: ""})
	require.Error(t, err)

	var got []journal.Interaction
	require.Eventually(t, func() bool {
		got, err = svc.Recent(ctx, 10)
		return err == nil && len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "bom dia", got[0].Question)
	assert.Equal(t, KindGreeting, got[0].Outcome)
	assert.Equal(t, greetingLabel, got[0].Label)

	assert.Equal(t, "Igreja da Luz", got[1].Label)
	assert.Equal(t, "single", got[1].Outcome)
	assert.Equal(t, "churches", got[1].Category)
	assert.Equal(t, "rid-42", got[1].RequestID)
	assert.Equal(t, "mcp", got[1].Transport)
}

func TestServiceJournal_Disabled(t *testing.T) {
	svc := newTestService(t, Options{})
	_, err := svc.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, ErrJournalDisabled)
}
