package registry_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_draft_studio/apperr"
	"product_draft_studio/generator"
	"product_draft_studio/registry"
)

func draftFor(p generator.Product) generator.Draft {
	return generator.Draft{
		ID:        "draft-1",
		Product:   p,
		MainImage: "img://main",
		Title:     generator.ComposeTitle(p),
		Slogans:   generator.ComposeSlogans(p, generator.MaxSlogans),
	}
}

func TestTemplates_EmptyQuery(t *testing.T) {
	regs, _ := setupRegistries(t)
	got, err := regs.Templates.Query(context.Background(), "", registry.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTemplates_FromDraft(t *testing.T) {
	regs, _ := setupRegistries(t)
	ctx := context.Background()
	p := generator.MockImport()[0]

	tpl, err := regs.Templates.FromDraft(ctx, draftFor(p))
	require.NoError(t, err)

	assert.Equal(t, "tpl-001", tpl.ID)
	assert.Equal(t, registry.TemplateComplete, tpl.Type)
	assert.Equal(t, "商务大师 男士商务休闲皮鞋 头层牛皮 黑...", tpl.Name)
	assert.Equal(t, []string{"鞋靴", "商务大师"}, tpl.Tags)
	assert.Equal(t, "system", tpl.CreatedBy)
	assert.Equal(t, "img://main", tpl.Content.ImageURL)
	assert.Len(t, tpl.Content.Slogans, 2)

	stored, found, err := regs.Templates.Find(ctx, tpl.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, tpl.Name, stored.Name)
}

func TestTemplateName(t *testing.T) {
	assert.Equal(t, "短标题...", registry.TemplateName("短标题"))
	long := strings.Repeat("长", 25)
	assert.Equal(t, strings.Repeat("长", 20)+"...", registry.TemplateName(long))
}

func TestTemplateTags(t *testing.T) {
	assert.Equal(t, []string{registry.NoBrandTag}, registry.TemplateTags(generator.Product{Name: "n"}))
	assert.Equal(t, []string{"服装", registry.NoBrandTag}, registry.TemplateTags(generator.Product{Name: "n", Category: "服装 > T恤"}))
	assert.Equal(t, []string{"同名"}, registry.TemplateTags(generator.Product{Name: "n", Category: "同名", Brand: "同名"}))
}

func TestTemplates_Query(t *testing.T) {
	regs, _ := setupRegistries(t)
	ctx := context.Background()

	_, err := regs.Templates.FromDraft(ctx, draftFor(generator.Product{Name: "Wireless Earbuds", Brand: "SoundCo", Category: "数码 > 耳机"}))
	require.NoError(t, err)
	_, err = regs.Templates.FromDraft(ctx, draftFor(generator.Product{Name: "纯棉T恤", Category: "服装 > T恤"}))
	require.NoError(t, err)

	tests := []struct {
		search string
		filter string
		want   int
	}{
		{"", registry.FilterAll, 2},
		{"", "", 2},
		{"wireless", registry.FilterAll, 1},
		{"SOUNDCO", registry.FilterAll, 1},
		{"数码", registry.FilterAll, 1},
		{"无品牌", registry.FilterAll, 1},
		{"", string(registry.TemplatePartial), 0},
		{"t恤", string(registry.TemplateComplete), 1},
		{"nothing", registry.FilterAll, 0},
	}
	for _, tt := range tests {
		got, err := regs.Templates.Query(ctx, tt.search, tt.filter)
		require.NoError(t, err)
		assert.Len(t, got, tt.want, "search=%q filter=%q", tt.search, tt.filter)
	}

	_, err = regs.Templates.Query(ctx, "", "bogus")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTemplates_Remove(t *testing.T) {
	regs, _ := setupRegistries(t)
	ctx := context.Background()
	tpl, err := regs.Templates.FromDraft(ctx, draftFor(generator.Product{Name: "a"}))
	require.NoError(t, err)

	removed, err := regs.Templates.Remove(ctx, tpl.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = regs.Templates.Remove(ctx, tpl.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTemplates_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := setupRegistries(t)
	for _, p := range generator.MockImport() {
		_, err := src.Templates.FromDraft(ctx, draftFor(p))
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	n, err := src.Templates.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	dst, _ := setupRegistries(t)
	n, err = dst.Templates.Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want, err := src.Templates.List(ctx)
	require.NoError(t, err)
	got, err := dst.Templates.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Content, got[i].Content)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}

	// Importing again is a union: ids are duplicated.
	_, err = dst.Templates.Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	count, err := dst.Templates.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestTemplates_ImportMalformedLeavesCollection(t *testing.T) {
	ctx := context.Background()
	regs, _ := setupRegistries(t)
	_, err := regs.Templates.FromDraft(ctx, draftFor(generator.Product{Name: "a"}))
	require.NoError(t, err)

	docs := []string{
		`{not json`,
		`{"id":"x"}`,
		`[{"id":"x","type":"weird"}]`,
		`[{"id":"x","type":"complete"},{"type":"partial"}]`,
		`[{"id":"a","type":"complete"}] }}garbage`,
		`[{"id":"a","type":"complete"}][]`,
		`null`,
		``,
	}
	for _, doc := range docs {
		_, err := regs.Templates.Import(ctx, strings.NewReader(doc))
		assert.ErrorIs(t, err, apperr.ErrValidation, doc)
	}

	count, err := regs.Templates.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "templates-2026-10-17.json", registry.ExportFileName(time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)))
}

func TestTemplateType_Label(t *testing.T) {
	assert.Equal(t, "完整组合", registry.TemplateComplete.Label())
	assert.Equal(t, "部分组合", registry.TemplatePartial.Label())
	assert.Equal(t, "", registry.TemplateType("").Label())
	assert.Equal(t, "mixed", registry.TemplateType("mixed").Label())
}

func TestTemplates_ImportTrailingWhitespace(t *testing.T) {
	regs, _ := setupRegistries(t)
	n, err := regs.Templates.Import(context.Background(), strings.NewReader("[{\"id\":\"a\",\"type\":\"complete\"}]\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
