package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"product_draft_studio/apperr"
	"product_draft_studio/generator"
	"product_draft_studio/id"
	"product_draft_studio/store"
)

// TemplateType is complete or partial.
type TemplateType string

const (
	TemplateComplete TemplateType = "complete"
	TemplatePartial  TemplateType = "partial"
)

// FilterAll matches every template type.
const FilterAll = "all"

// NoBrandTag tags templates whose product has no brand.
const NoBrandTag = "无品牌"

const templateNameRunes = 20

// Label is the display text for the type; unknown values print as-is.
func (t TemplateType) Label() string {
	switch t {
	case TemplateComplete:
		return "完整组合"
	case TemplatePartial:
		return "部分组合"
	}
	return string(t)
}

// ParseTemplateType rejects anything outside the enum.
func ParseTemplateType(s string) (TemplateType, error) {
	switch t := TemplateType(s); t {
	case TemplateComplete, TemplatePartial:
		return t, nil
	}
	return "", apperr.Validationf("unknown template type %q", s)
}

func (t *TemplateType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseTemplateType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TemplateContent is the reusable part of a favorited draft.
type TemplateContent struct {
	Title    string   `json:"title"`
	Slogans  []string `json:"slogans"`
	ImageURL string   `json:"imageUrl"`
}

// Template is a favorited draft snapshot.
type Template struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      TemplateType    `json:"type"`
	Content   TemplateContent `json:"content"`
	Tags      []string        `json:"tags"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (t Template) RecordID() string { return t.ID }

// Templates is the template registry.
type Templates struct {
	c     *store.Collection[Template]
	now   func() time.Time
	newID func(string) (string, error)
}

// TemplateName truncates a title to 20 runes and appends "...".
func TemplateName(title string) string {
	if utf8.RuneCountInString(title) > templateNameRunes {
		title = string([]rune(title)[:templateNameRunes])
	}
	return title + "..."
}

// TemplateTags returns the category head and the brand (or NoBrandTag),
// skipping empties and duplicates.
func TemplateTags(p generator.Product) []string {
	brand := p.Brand
	if brand == "" {
		brand = NoBrandTag
	}
	tags := make([]string, 0, 2)
	for _, tag := range []string{p.CategoryHead(), brand} {
		if tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FromDraft favorites a draft as a complete template.
func (r *Templates) FromDraft(ctx context.Context, d generator.Draft) (Template, error) {
	tid, err := r.newID(id.Template)
	if err != nil {
		return Template{}, apperr.Wrap(err, apperr.CodeInternal, "generate template id")
	}
	t := Template{
		ID:   tid,
		Name: TemplateName(d.Title),
		Type: TemplateComplete,
		Content: TemplateContent{
			Title:    d.Title,
			Slogans:  slices.Clone(d.Slogans),
			ImageURL: d.MainImage,
		},
		Tags:      TemplateTags(d.Product),
		CreatedBy: "system",
		CreatedAt: r.now(),
	}
	if err := r.c.Append(ctx, t); err != nil {
		return Template{}, err
	}
	return t, nil
}

func (r *Templates) List(ctx context.Context) ([]Template, error) {
	return r.c.List(ctx)
}

func (r *Templates) Find(ctx context.Context, id string) (Template, bool, error) {
	return r.c.Find(ctx, id)
}

// Remove deletes by id; the bool is false when nothing matched.
func (r *Templates) Remove(ctx context.Context, id string) (bool, error) {
	return r.c.Remove(ctx, id)
}

func (r *Templates) Count(ctx context.Context) (int, error) {
	return r.c.Count(ctx)
}

// Query filters by a case-insensitive search over name and tags, and by
// type ("all" or a TemplateType). Stored order is kept.
func (r *Templates) Query(ctx context.Context, search, filter string) ([]Template, error) {
	var want TemplateType
	if filter != "" && filter != FilterAll {
		t, err := ParseTemplateType(filter)
		if err != nil {
			return nil, err
		}
		want = t
	}

	all, err := r.c.List(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	term := fold.String(search)
	out := make([]Template, 0, len(all))
	for _, t := range all {
		if want != "" && t.Type != want {
			continue
		}
		if matchesSearch(fold, t, term) {
			out = append(out, t)
		}
	}
	return out, nil
}

func matchesSearch(fold cases.Caser, t Template, term string) bool {
	if strings.Contains(fold.String(t.Name), term) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(fold.String(tag), term) {
			return true
		}
	}
	return false
}

// ExportFileName is the download name for an export made at now.
func ExportFileName(now time.Time) string {
	return "templates-" + now.Format("2006-01-02") + ".json"
}

// Export writes the whole collection as indented JSON.
func (r *Templates) Export(ctx context.Context, w io.Writer) (int, error) {
	all, err := r.c.List(ctx)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return 0, fmt.Errorf("write templates export: %w", err)
	}
	return len(all), nil
}

// Import decodes a whole export document and appends it. Any decode or
// validation failure abandons the import with the collection untouched.
// Ids are not de-duplicated.
func (r *Templates) Import(ctx context.Context, rd io.Reader) (int, error) {
	var incoming []Template
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&incoming); err != nil {
		return 0, apperr.Wrap(err, apperr.CodeValidation, "导入失败，请检查文件格式")
	}
	// 整个文件必须是一个 JSON 数组
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return 0, apperr.Validationf("导入失败，文件末尾有多余内容")
	}
	if incoming == nil {
		return 0, apperr.Validationf("导入失败，请检查文件格式")
	}
	for i, t := range incoming {
		if t.ID == "" || t.Type == "" {
			return 0, apperr.Validationf("导入失败，第 %d 个模板缺少 id 或 type", i+1)
		}
	}
	if err := r.c.Append(ctx, incoming...); err != nil {
		return 0, err
	}
	return len(incoming), nil
}
