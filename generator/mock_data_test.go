package generator

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_draft_studio/apperr"
)

func TestImportSpreadsheet(t *testing.T) {
	rows, err := ImportSpreadsheet("商品.XLSX")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = ImportSpreadsheet("products.csv")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRandomSample(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10; i++ {
		s := RandomSample(r)
		assert.NotEmpty(t, s.Product.Name)
		assert.Contains(t, s.MainImage, "via.placeholder.com")
		assert.Equal(t, SampleReferenceLink, s.ReferenceLink)

		b := s.Batch()
		assert.Len(t, b.Products, 1)
	}
}
