package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_draft_studio/generator"
)

func TestLibrary_SaveProductsIndexOnlyImages(t *testing.T) {
	regs, _ := setupRegistries(t)
	ctx := context.Background()

	items, err := regs.Library.SaveProducts(ctx, generator.MockImport(), []string{"m0"}, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.NotNil(t, items[0].MainImage)
	assert.Equal(t, "m0", *items[0].MainImage)
	assert.Nil(t, items[1].MainImage)
	assert.Nil(t, items[0].ReferenceImage)

	_, err = regs.Library.SaveProducts(ctx, generator.MockImport()[:1], nil, nil)
	require.NoError(t, err)

	all, err := regs.Library.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, items[0].ID, all[0].ID)
}
