// Package registry holds the typed collections the draft studio persists:
// templates, library items, tasks and the settings singleton, plus the
// dashboard rollup computed from them.
package registry

import (
	"context"
	"time"

	"product_draft_studio/id"
	"product_draft_studio/store"
)

// Storage keys.
const (
	KeyTemplates = "templates"
	KeyLibrary   = "library"
	KeyTasks     = "tasks"
	KeySettings  = "settings"
)

// Registries bundles every registry over one backend.
type Registries struct {
	Templates *Templates
	Library   *Library
	Tasks     *Tasks
	Settings  *SettingsStore
	Dashboard *Dashboard
}

type options struct {
	now   func() time.Time
	newID func(prefix string) (string, error)
}

// Option configures New.
type Option func(*options)

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDFunc overrides the id generator.
func WithIDFunc(fn func(prefix string) (string, error)) Option {
	return func(o *options) { o.newID = fn }
}

// New builds the registries on b.
func New(b store.Backend, opts ...Option) *Registries {
	o := options{now: time.Now, newID: id.Generate}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registries{
		Templates: &Templates{c: store.NewCollection[Template](b, KeyTemplates, o.now), now: o.now, newID: o.newID},
		Library:   &Library{c: store.NewCollection[LibraryItem](b, KeyLibrary, o.now), now: o.now, newID: o.newID},
		Tasks:     &Tasks{c: store.NewCollection[Task](b, KeyTasks, o.now), now: o.now, newID: o.newID},
		Settings:  &SettingsStore{doc: store.NewDocument(b, KeySettings, DefaultSettings)},
	}
	r.Dashboard = &Dashboard{templates: r.Templates, library: r.Library, tasks: r.Tasks}
	return r
}

// Init lazily creates all four keys with their defaults.
func (r *Registries) Init(ctx context.Context) error {
	if _, err := r.Templates.List(ctx); err != nil {
		return err
	}
	if _, err := r.Library.List(ctx); err != nil {
		return err
	}
	if _, err := r.Tasks.c.List(ctx); err != nil {
		return err
	}
	_, err := r.Settings.Get(ctx)
	return err
}
