package generator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	titleRe  = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	bulletRe = regexp.MustCompile(`(?m)^[ \t]*(?:[-*•]|\d+[.、])[ \t]+(.+)$`)
)

// Rewritten 模型输出解析结果。
type Rewritten struct {
	Title   string
	Slogans []string
}

// PostProcess 解析模型返回的 Markdown，卖点数量截断到 limit。
func PostProcess(raw string, limit int) (Rewritten, error) {
	md := strings.TrimSpace(raw)
	if md == "" {
		return Rewritten{}, errors.New("model returned empty markdown")
	}

	title := extractTitle(md)
	if title == "" {
		return Rewritten{}, errors.New("model output has no title heading")
	}

	var slogans []string
	for _, m := range bulletRe.FindAllStringSubmatch(md, -1) {
		s := strings.TrimSpace(m[1])
		if s != "" {
			slogans = append(slogans, s)
		}
	}
	if len(slogans) == 0 {
		slogans = []string{FallbackSlogan}
	}
	if limit = clampSlogans(limit); len(slogans) > limit {
		slogans = slogans[:limit]
	}
	return Rewritten{Title: title, Slogans: slogans}, nil
}

func extractTitle(md string) string {
	m := titleRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
