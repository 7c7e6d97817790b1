package generator

import (
	"context"
	"slices"
	"sync"
	"time"

	"product_draft_studio/apperr"
)

// Session 持有一份草稿及其改写历史，最新稿件在 Draft 中。
type Session struct {
	mu      sync.Mutex
	Origin  Draft
	Draft   Draft
	History []Turn
	agent   *Agent
}

// NewSession 以首稿开启会话。agent 为 nil 时只能查看，不能改写。
func NewSession(draft Draft, agent *Agent) *Session {
	return &Session{
		Origin: draft,
		Draft:  draft,
		agent:  agent,
	}
}

// Revise 基于用户评论改写当前稿件。
func (s *Session) Revise(ctx context.Context, comment string, style Style) (Draft, error) {
	if s.agent == nil {
		return Draft{}, apperr.Conflictf("rewrite is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.agent.Rewrite(ctx, s.Draft, comment, style, s.History)
	if err != nil {
		return Draft{}, err
	}
	s.Draft = draft
	s.History = append(s.History, Turn{
		Comment:   comment,
		Draft:     draft,
		CreatedAt: time.Now(),
	})
	return draft, nil
}

// Snapshot returns the origin, the latest draft and a copy of the history.
func (s *Session) Snapshot() (origin, latest Draft, history []Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Origin, s.Draft, slices.Clone(s.History)
}

// Lookup finds a draft of this session by id.
func (s *Session) Lookup(id string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Origin.ID == id {
		return s.Origin, true
	}
	for _, t := range s.History {
		if t.Draft.ID == id {
			return t.Draft, true
		}
	}
	return Draft{}, false
}
