package registry

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"product_draft_studio/apperr"
	"product_draft_studio/id"
	"product_draft_studio/store"
)

// TaskStatus is the task lifecycle state.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Label is the display text for the status; unknown values print as-is.
func (s TaskStatus) Label() string {
	switch s {
	case StatusPending:
		return "待处理"
	case StatusProcessing:
		return "处理中"
	case StatusCompleted:
		return "已完成"
	case StatusFailed:
		return "失败"
	}
	return string(s)
}

// Active reports whether the task counts toward the dashboard's active tasks.
func (s TaskStatus) Active() bool {
	return s == StatusPending || s == StatusProcessing
}

// ParseTaskStatus rejects anything outside the enum.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return st, nil
	}
	return "", apperr.Validationf("unknown task status %q", s)
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseTaskStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

const (
	defaultTaskNamePrefix  = "新任务-"
	defaultTaskDescription = "请填写任务描述"
)

// Task is a tracked unit of work.
type Task struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	ProductCount int        `json:"productCount"`
	Status       TaskStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (t Task) RecordID() string { return t.ID }

// Touch moves UpdatedAt to now, or 1ns past the previous value if the
// clock has not advanced.
func (t *Task) Touch(now time.Time) {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

// Tasks is the task registry. New tasks go to the front.
type Tasks struct {
	c     *store.Collection[Task]
	now   func() time.Time
	newID func(string) (string, error)
}

// NewTask 新建任务的可选字段，空值使用默认名称与描述。
type NewTask struct {
	Name         string
	Description  string
	ProductCount int
}

func (r *Tasks) Create(ctx context.Context, in NewTask) (Task, error) {
	if in.ProductCount < 0 {
		return Task{}, apperr.ValidationWithDetails("validation failed", map[string]string{"productCount": "must be at least 0"})
	}
	tid, err := r.newID(id.Task)
	if err != nil {
		return Task{}, apperr.Wrap(err, apperr.CodeInternal, "generate task id")
	}
	now := r.now()
	t := Task{
		ID:           tid,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		ProductCount: in.ProductCount,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t.Name == "" {
		t.Name = defaultTaskNamePrefix + now.Format("2006/1/2")
	}
	if t.Description == "" {
		t.Description = defaultTaskDescription
	}
	if err := r.c.Prepend(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// List returns tasks newest first by CreatedAt.
func (r *Tasks) List(ctx context.Context) ([]Task, error) {
	return r.Query(ctx, "", FilterAll)
}

// Query filters by a case-insensitive search over name and description and
// by status ("all" or a TaskStatus), newest first.
func (r *Tasks) Query(ctx context.Context, search, status string) ([]Task, error) {
	var want TaskStatus
	if status != "" && status != FilterAll {
		st, err := ParseTaskStatus(status)
		if err != nil {
			return nil, err
		}
		want = st
	}
	all, err := r.c.List(ctx)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	term := fold.String(search)
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if want != "" && t.Status != want {
			continue
		}
		if term != "" && !strings.Contains(fold.String(t.Name), term) && !strings.Contains(fold.String(t.Description), term) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *Tasks) Find(ctx context.Context, id string) (Task, bool, error) {
	return r.c.Find(ctx, id)
}

func (r *Tasks) Remove(ctx context.Context, id string) (bool, error) {
	return r.c.Remove(ctx, id)
}

// Start moves a pending task to processing.
func (r *Tasks) Start(ctx context.Context, id string) (Task, bool, error) {
	return r.transition(ctx, id, StatusProcessing, StatusPending)
}

// Pause moves a processing task back to pending.
func (r *Tasks) Pause(ctx context.Context, id string) (Task, bool, error) {
	return r.transition(ctx, id, StatusPending, StatusProcessing)
}

// Complete marks a task completed from any state.
func (r *Tasks) Complete(ctx context.Context, id string) (Task, bool, error) {
	return r.transition(ctx, id, StatusCompleted)
}

// Fail marks a task failed from any state.
func (r *Tasks) Fail(ctx context.Context, id string) (Task, bool, error) {
	return r.transition(ctx, id, StatusFailed)
}

// transition sets the status; from, when given, lists the allowed sources.
func (r *Tasks) transition(ctx context.Context, id string, to TaskStatus, from ...TaskStatus) (Task, bool, error) {
	return r.c.Update(ctx, id, func(t *Task) error {
		if len(from) > 0 && !slices.Contains(from, t.Status) {
			return apperr.Conflictf("task %s is %s, cannot move to %s", t.ID, t.Status, to)
		}
		t.Status = to
		return nil
	})
}

// TaskEdit 编辑任务，nil 字段保持不变。
type TaskEdit struct {
	Name         *string
	Description  *string
	ProductCount *int
}

func (r *Tasks) Edit(ctx context.Context, id string, e TaskEdit) (Task, bool, error) {
	if e.ProductCount != nil && *e.ProductCount < 0 {
		return Task{}, false, apperr.ValidationWithDetails("validation failed", map[string]string{"productCount": "must be at least 0"})
	}
	if e.Name != nil && strings.TrimSpace(*e.Name) == "" {
		return Task{}, false, apperr.ValidationWithDetails("validation failed", map[string]string{"name": "is required"})
	}
	return r.c.Update(ctx, id, func(t *Task) error {
		if e.Name != nil {
			t.Name = strings.TrimSpace(*e.Name)
		}
		if e.Description != nil {
			t.Description = strings.TrimSpace(*e.Description)
		}
		if e.ProductCount != nil {
			t.ProductCount = *e.ProductCount
		}
		return nil
	})
}

// CountActive counts pending and processing tasks.
func (r *Tasks) CountActive(ctx context.Context) (int, error) {
	all, err := r.c.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range all {
		if t.Status.Active() {
			n++
		}
	}
	return n, nil
}
