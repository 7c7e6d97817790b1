package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message 用于少量历史（可选）。
type Message struct {
	Role    string
	Content string
}

// Style 改写时参考的风格偏好，来自用户设置。
type Style struct {
	TitleStyle  string
	SloganStyle string
	TitleLength int
	SloganCount int
	Language    string
}

var titleStyleHints = map[string]string{
	"concise":  "标题简洁有力，突出核心卖点",
	"detailed": "标题信息完整，覆盖品牌、材质、颜色等属性",
	"seo":      "标题包含买家常用搜索关键词",
}

var sloganStyleHints = map[string]string{
	"feature":     "卖点突出产品功能与品质",
	"emotional":   "卖点注重情感共鸣与使用场景",
	"promotional": "卖点偏促销口吻，强调性价比",
}

// BuildRewritePrompt 生成改写提示词。当前标题写在“当前标题：”行，便于解析。
func BuildRewritePrompt(d Draft, comment string, style Style, history []Turn) Prompt {
	var sb strings.Builder
	sb.WriteString("你是一名资深电商文案，请改写商品标题与卖点，直接输出 Markdown，不要额外解释。\n")
	sb.WriteString("格式：第一行为一级标题（标题），随后每条卖点一行，以 \"- \" 开头。\n")
	if hint, ok := titleStyleHints[style.TitleStyle]; ok {
		sb.WriteString(fmt.Sprintf("- %s。\n", hint))
	}
	if hint, ok := sloganStyleHints[style.SloganStyle]; ok {
		sb.WriteString(fmt.Sprintf("- %s。\n", hint))
	}
	if style.TitleLength > 0 {
		sb.WriteString(fmt.Sprintf("- 标题不超过 %d 字。\n", style.TitleLength))
	}
	sb.WriteString(fmt.Sprintf("- 卖点不超过 %d 条。\n", clampSlogans(style.SloganCount)))
	if style.Language != "" {
		sb.WriteString(fmt.Sprintf("- 输出语言：%s。\n", style.Language))
	}

	var user strings.Builder
	user.WriteString("商品信息：\n")
	for _, f := range productFields(d.Product) {
		user.WriteString(fmt.Sprintf("- %s：%s\n", f.label, f.value))
	}
	user.WriteString(fmt.Sprintf("当前标题：%s\n", d.Title))
	user.WriteString("当前卖点：\n")
	for _, s := range d.Slogans {
		user.WriteString("- " + s + "\n")
	}
	if comment != "" {
		user.WriteString(fmt.Sprintf("用户反馈：%s\n", comment))
	}
	user.WriteString("请输出改写后的 Markdown。")

	var msgs []Message
	for _, t := range history {
		if t.Comment == "" {
			continue
		}
		msgs = append(msgs, Message{Role: "user", Content: t.Comment})
		msgs = append(msgs, Message{Role: "assistant", Content: DraftMarkdown(t.Draft)})
	}

	return Prompt{
		System:  sb.String(),
		User:    user.String(),
		History: msgs,
	}
}

// DraftMarkdown renders the title and slogans the way the model is asked to answer.
func DraftMarkdown(d Draft) string {
	var sb strings.Builder
	sb.WriteString("# " + d.Title + "\n\n")
	for _, s := range d.Slogans {
		sb.WriteString("- " + s + "\n")
	}
	return sb.String()
}

type productField struct {
	label string
	value string
}

// productFields lists the non-empty attributes in display order.
func productFields(p Product) []productField {
	all := []productField{
		{"名称", p.Name},
		{"类目", p.Category},
		{"品牌", p.Brand},
		{"材质", p.Material},
		{"尺寸", p.Size},
		{"颜色", p.Color},
		{"适用人群", p.Audience},
	}
	out := all[:0]
	for _, f := range all {
		if f.value != "" {
			out = append(out, f)
		}
	}
	return out
}

// ProductFields exposes productFields as label/value pairs for renderers.
func ProductFields(p Product) [][2]string {
	fields := productFields(p)
	out := make([][2]string, len(fields))
	for i, f := range fields {
		out[i] = [2]string{f.label, f.value}
	}
	return out
}
