package generator

import (
	"context"
	"regexp"
	"strings"
)

var currentTitleRe = regexp.MustCompile(`(?m)^当前标题：(.*)$`)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	title := "自动改写示例标题"
	if m := currentTitleRe.FindStringSubmatch(prompt.User); len(m) == 2 && strings.TrimSpace(m[1]) != "" {
		title = strings.TrimSpace(m[1])
	}
	var sb strings.Builder
	sb.WriteString("# " + title + "（精选）\n\n")
	sb.WriteString("- 甄选好物，品质看得见\n")
	sb.WriteString("- 匠心细节，日常更出彩\n")
	sb.WriteString("- 限时好价，入手正当时\n")
	return sb.String(), nil
}
