// Package publisher renders drafts into downloadable sheets.
package publisher

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"product_draft_studio/apperr"
	"product_draft_studio/generator"
)

// Format is the export file format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts md, markdown and html; empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", apperr.Validationf("unsupported export format %q", s)
}

// ContentType is the HTTP content type for f.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// RenderMarkdown 生成草稿的 Markdown 单页：标题、卖点、图片与商品属性。
func RenderMarkdown(d generator.Draft) string {
	var b strings.Builder
	b.WriteString(generator.DraftMarkdown(d))

	b.WriteString("\n## 图片\n\n")
	fmt.Fprintf(&b, "![主图](%s)\n", d.MainImage)
	if d.ReferenceImage != nil {
		fmt.Fprintf(&b, "\n![参考素材](%s)\n", *d.ReferenceImage)
	}
	if d.ReferenceLink != nil {
		fmt.Fprintf(&b, "\n参考链接：<%s>\n", *d.ReferenceLink)
	}

	b.WriteString("\n## 商品属性\n\n")
	for _, f := range generator.ProductFields(d.Product) {
		fmt.Fprintf(&b, "- **%s**：%s\n", f[0], f[1])
	}
	if !d.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "\n生成时间：%s\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

// RenderHTML converts the Markdown sheet into a standalone HTML page.
func RenderHTML(d generator.Draft) (string, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(RenderMarkdown(d)), &body); err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "render html")
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"zh-CN\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(d.Title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// Render dispatches on f.
func Render(d generator.Draft, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(RenderMarkdown(d)), nil
	case FormatHTML:
		out, err := RenderHTML(d)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
	return nil, apperr.Validationf("unsupported export format %q", string(f))
}

// FileName is <draft-id>.<format>.
func FileName(d generator.Draft, f Format) string {
	return d.ID + "." + string(f)
}

// WriteDraft renders d into dir and returns the written path.
func WriteDraft(dir string, d generator.Draft, f Format) (string, error) {
	data, err := Render(d, f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "create export dir")
	}
	path := filepath.Join(dir, FileName(d, f))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "write draft")
	}
	return path, nil
}
