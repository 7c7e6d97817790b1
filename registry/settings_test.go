package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_draft_studio/apperr"
	"product_draft_studio/registry"
)

func TestSettings_DefaultsAndSave(t *testing.T) {
	regs, _ := setupRegistries(t)
	ctx := context.Background()

	got, err := regs.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultSettings(), got)

	got.DefaultSaveToLibrary = false
	got.SloganStyle = registry.SloganEmotional
	got.Language = "en-US"
	require.NoError(t, regs.Settings.Save(ctx, got))

	reloaded, err := regs.Settings.Get(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded.DefaultSaveToLibrary)
	assert.Equal(t, registry.SloganEmotional, reloaded.SloganStyle)

	reset, err := regs.Settings.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultSettings(), reset)
}

func TestSettings_SaveValidates(t *testing.T) {
	regs, _ := setupRegistries(t)
	s := registry.DefaultSettings()
	s.DefaultSloganCount = 5
	s.TitleStyle = "loud"
	err := regs.Settings.Save(context.Background(), s)
	require.ErrorIs(t, err, apperr.ErrValidation)

	got, err := regs.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultSettings(), got)
}

func TestSettings_MissingKeysFallBack(t *testing.T) {
	regs, b := setupRegistries(t)
	ctx := context.Background()
	require.NoError(t, b.Update(ctx, registry.KeySettings, func([]byte, bool) ([]byte, error) {
		return []byte(`{"theme":"dark","defaultSaveToLibrary":false}`), nil
	}))

	got, err := regs.Settings.Get(ctx)
	require.NoError(t, err)
	want := registry.DefaultSettings()
	want.Theme = "dark"
	want.DefaultSaveToLibrary = false
	assert.Equal(t, want, got)
}

func TestSettings_Style(t *testing.T) {
	st := registry.DefaultSettings().Style()
	assert.Equal(t, "concise", st.TitleStyle)
	assert.Equal(t, 2, st.SloganCount)
	assert.Equal(t, 30, st.TitleLength)
}
