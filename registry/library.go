package registry

import (
	"context"
	"time"

	"product_draft_studio/apperr"
	"product_draft_studio/generator"
	"product_draft_studio/id"
	"product_draft_studio/store"
)

// LibraryItem is a saved product with its images.
type LibraryItem struct {
	ID             string            `json:"id"`
	Product        generator.Product `json:"product"`
	MainImage      *string           `json:"mainImage"`
	ReferenceImage *string           `json:"referenceImage"`
	SavedAt        time.Time         `json:"savedAt"`
}

func (l LibraryItem) RecordID() string { return l.ID }

// Library is the append-only material library.
type Library struct {
	c     *store.Collection[LibraryItem]
	now   func() time.Time
	newID func(string) (string, error)
}

// SaveProducts appends one item per product. Images are matched by index
// only; a product without its own image stores null.
func (r *Library) SaveProducts(ctx context.Context, products []generator.Product, mainImages, referenceImages []string) ([]LibraryItem, error) {
	now := r.now()
	items := make([]LibraryItem, 0, len(products))
	for i, p := range products {
		lid, err := r.newID(id.Library)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodeInternal, "generate library id")
		}
		items = append(items, LibraryItem{
			ID:             lid,
			Product:        p.Normalize(),
			MainImage:      generator.ImageAt(mainImages, i),
			ReferenceImage: generator.ImageAt(referenceImages, i),
			SavedAt:        now,
		})
	}
	if err := r.c.Append(ctx, items...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Library) List(ctx context.Context) ([]LibraryItem, error) {
	return r.c.List(ctx)
}

func (r *Library) Count(ctx context.Context) (int, error) {
	return r.c.Count(ctx)
}
