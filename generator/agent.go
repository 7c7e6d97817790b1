package generator

import (
	"context"
	"errors"
	"fmt"
)

// Agent 借助大模型改写草稿的标题与卖点。
type Agent struct {
	llm   LLMClient
	synth *Synthesizer
}

func NewAgent(llm LLMClient, synth *Synthesizer) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if synth == nil {
		synth = NewSynthesizer()
	}
	return &Agent{llm: llm, synth: synth}, nil
}

// Rewrite 基于原稿与反馈生成一份新草稿（新 id，商品与图片不变）。
func (a *Agent) Rewrite(ctx context.Context, prev Draft, comment string, style Style, history []Turn) (Draft, error) {
	prompt := BuildRewritePrompt(prev, comment, style, history)

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return Draft{}, fmt.Errorf("llm complete: %w", err)
	}
	out, err := PostProcess(raw, style.SloganCount)
	if err != nil {
		return Draft{}, err
	}

	next, err := a.synth.Synthesize(prev.Product, prev.MainImage, prev.ReferenceImage, prev.ReferenceLink)
	if err != nil {
		return Draft{}, err
	}
	next.Title = out.Title
	next.Slogans = out.Slogans
	return next, nil
}
