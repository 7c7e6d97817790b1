package generator

import (
	"strings"
	"time"
)

// Product 一条商品属性记录（在线录入或表格导入）。
type Product struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Material string `json:"material"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Audience string `json:"audience"`
}

// Normalize trims every field, the way form input is collected.
func (p Product) Normalize() Product {
	return Product{
		Name:     strings.TrimSpace(p.Name),
		Category: strings.TrimSpace(p.Category),
		Brand:    strings.TrimSpace(p.Brand),
		Material: strings.TrimSpace(p.Material),
		Size:     strings.TrimSpace(p.Size),
		Color:    strings.TrimSpace(p.Color),
		Audience: strings.TrimSpace(p.Audience),
	}
}

// CategoryHead returns the first ">"-separated segment of the category.
func (p Product) CategoryHead() string {
	head, _, _ := strings.Cut(p.Category, ">")
	return strings.TrimSpace(head)
}

// CategoryTail returns the last ">"-separated segment of the category.
func (p Product) CategoryTail() string {
	segs := strings.Split(p.Category, ">")
	return strings.TrimSpace(segs[len(segs)-1])
}

// Draft is a synthesized listing candidate for one product.
// It is never mutated after creation; a rewrite yields a new Draft.
type Draft struct {
	ID             string    `json:"id"`
	Product        Product   `json:"product"`
	MainImage      string    `json:"mainImage"`
	ReferenceImage *string   `json:"referenceImage"`
	ReferenceLink  *string   `json:"referenceLink"`
	Title          string    `json:"title"`
	Slogans        []string  `json:"slogans"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// Turn 记录一次评论驱动的改写。
type Turn struct {
	Comment   string    `json:"comment"`
	Draft     Draft     `json:"draft"`
	CreatedAt time.Time `json:"createdAt"`
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
