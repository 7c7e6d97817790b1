package generator

import (
	"fmt"
)

// Batch 一次批量生成的输入。
type Batch struct {
	Products        []Product
	MainImages      []string
	ReferenceImages []string
	ReferenceLink   string
}

// SynthesizeBatch produces one draft per product. Every product is
// validated before any draft is built, so a bad row yields no drafts.
func (s *Synthesizer) SynthesizeBatch(b Batch) ([]Draft, error) {
	if len(b.Products) == 0 {
		return nil, ValidateProduct(Product{})
	}
	for i, p := range b.Products {
		if err := ValidateProduct(p.Normalize()); err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
	}

	link := StringPtr(b.ReferenceLink)
	drafts := make([]Draft, 0, len(b.Products))
	for i, p := range b.Products {
		main := pickImage(b.MainImages, i)
		if main == "" {
			main = PlaceholderImage
		}
		ref := StringPtr(pickImage(b.ReferenceImages, i))

		d, err := s.Synthesize(p, main, ref, link)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// pickImage returns images[i], falling back to images[0], else "".
func pickImage(images []string, i int) string {
	if i < len(images) && images[i] != "" {
		return images[i]
	}
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

// ImageAt returns images[i] without fallback, nil when absent.
// Library items are stored this way.
func ImageAt(images []string, i int) *string {
	if i < len(images) {
		return StringPtr(images[i])
	}
	return nil
}
