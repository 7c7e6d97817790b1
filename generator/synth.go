package generator

import (
	"strings"
	"time"

	"product_draft_studio/apperr"
	"product_draft_studio/id"
	"product_draft_studio/validation"
)

// MaxSlogans caps the slogans on any draft.
const MaxSlogans = 2

// FallbackSlogan is appended when fewer than MaxSlogans candidates exist.
const FallbackSlogan = "优质工艺，细节彰显品质"

// PlaceholderImage stands in for a missing main image.
const PlaceholderImage = "https://via.placeholder.com/350x250?prompt=product%20main%20image%20white%20background&image_size=square"

// Synthesizer turns attribute records into drafts. The zero value is not
// usable; construct with NewSynthesizer.
type Synthesizer struct {
	now         func() time.Time
	newID       func(prefix string) (string, error)
	sloganLimit int
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

// WithIDFunc overrides the id generator.
func WithIDFunc(fn func(prefix string) (string, error)) Option {
	return func(s *Synthesizer) { s.newID = fn }
}

// WithSloganLimit sets how many slogans are kept, clamped to [1, MaxSlogans].
func WithSloganLimit(n int) Option {
	return func(s *Synthesizer) { s.sloganLimit = clampSlogans(n) }
}

func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		now:         time.Now,
		newID:       id.Generate,
		sloganLimit: MaxSlogans,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func clampSlogans(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxSlogans {
		return MaxSlogans
	}
	return n
}

// Synthesize builds one draft. referenceImage and referenceLink may be nil.
func (s *Synthesizer) Synthesize(p Product, mainImage string, referenceImage, referenceLink *string) (Draft, error) {
	p = p.Normalize()
	if err := ValidateProduct(p); err != nil {
		return Draft{}, err
	}
	draftID, err := s.newID(id.Draft)
	if err != nil {
		return Draft{}, apperr.Wrap(err, apperr.CodeInternal, "generate draft id")
	}
	return Draft{
		ID:             draftID,
		Product:        p,
		MainImage:      mainImage,
		ReferenceImage: referenceImage,
		ReferenceLink:  referenceLink,
		Title:          ComposeTitle(p),
		Slogans:        ComposeSlogans(p, s.sloganLimit),
		GeneratedAt:    s.now(),
	}, nil
}

// ValidateProduct enforces the single required field.
func ValidateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.ValidationWithDetails("请输入商品名称", map[string]string{"name": "is required"})
	}
	return validation.Default().Validate(p)
}

// ComposeTitle joins brand, name, material, color and the category tail.
func ComposeTitle(p Product) string {
	var sb strings.Builder
	if p.Brand != "" {
		sb.WriteString(p.Brand + " ")
	}
	sb.WriteString(p.Name)
	if p.Material != "" {
		sb.WriteString(" " + p.Material)
	}
	if p.Color != "" {
		sb.WriteString(" " + p.Color)
	}
	if p.Category != "" {
		sb.WriteString(" " + p.CategoryTail())
	}
	return strings.TrimSpace(sb.String())
}

// ComposeSlogans returns at most limit slogans in brand, material, color,
// audience priority, padded with FallbackSlogan when short.
func ComposeSlogans(p Product, limit int) []string {
	limit = clampSlogans(limit)
	slogans := make([]string, 0, 4)
	if p.Brand != "" {
		slogans = append(slogans, p.Brand+"品牌保证，品质值得信赖")
	}
	if p.Material != "" {
		slogans = append(slogans, "精选优质"+p.Material+"，舒适耐用")
	}
	if p.Color != "" {
		slogans = append(slogans, p.Color+"经典配色，时尚百搭")
	}
	if p.Audience != "" {
		slogans = append(slogans, "专为"+p.Audience+"设计，贴合需求")
	}
	if len(slogans) < MaxSlogans {
		slogans = append(slogans, FallbackSlogan)
	}
	if len(slogans) > limit {
		slogans = slogans[:limit]
	}
	return slogans
}
