package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"product_draft_studio/apperr"
	"product_draft_studio/registry"
)

// removal answers deletes; unknown ids report Removed=false.
type removal struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.svc.Registries().Templates.Query(r.Context(), q.Get("q"), q.Get("type"))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, items, s.logger)
}

func (s *Server) handleExportTemplates(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := s.svc.Registries().Templates.Export(r.Context(), &buf); err != nil {
		fail(w, r, err, s.logger)
		return
	}
	attachment(w, "application/json", registry.ExportFileName(s.now()), buf.Bytes())
}

func (s *Server) handleImportTemplates(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Registries().Templates.Import(r.Context(), io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, map[string]int{"imported": n}, s.logger)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	tid := chi.URLParam(r, "id")
	removed, err := s.svc.Registries().Templates.Remove(r.Context(), tid)
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, removal{ID: tid, Removed: removed}, s.logger)
}

func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Registries().Library.List(r.Context())
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, items, s.logger)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.svc.Registries().Tasks.Query(r.Context(), q.Get("q"), q.Get("status"))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, tasks, s.logger)
}

type createTaskRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ProductCount int    `json:"productCount"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeOptional(r, &req); err != nil {
		fail(w, r, err, s.logger)
		return
	}
	task, err := s.svc.Registries().Tasks.Create(r.Context(), registry.NewTask(req))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	created(w, task, s.logger)
}

type editTaskRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ProductCount *int    `json:"productCount"`
}

// taskResult is null when the id is unknown.
func (s *Server) taskResult(w http.ResponseWriter, r *http.Request, task registry.Task, found bool, err error) {
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	if !found {
		success(w, nil, s.logger)
		return
	}
	success(w, task, s.logger)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	var req editTaskRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, err, s.logger)
		return
	}
	task, found, err := s.svc.Registries().Tasks.Edit(r.Context(), chi.URLParam(r, "id"), registry.TaskEdit(req))
	s.taskResult(w, r, task, found, err)
}

type transition int

const (
	transitionStart transition = iota
	transitionPause
	transitionComplete
	transitionFail
)

func (s *Server) handleTaskTransition(t transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks := s.svc.Registries().Tasks
		tid := chi.URLParam(r, "id")
		var (
			task  registry.Task
			found bool
			err   error
		)
		switch t {
		case transitionStart:
			task, found, err = tasks.Start(r.Context(), tid)
		case transitionPause:
			task, found, err = tasks.Pause(r.Context(), tid)
		case transitionComplete:
			task, found, err = tasks.Complete(r.Context(), tid)
		case transitionFail:
			task, found, err = tasks.Fail(r.Context(), tid)
		default:
			err = apperr.Validationf("unknown transition %d", t)
		}
		s.taskResult(w, r, task, found, err)
	}
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	tid := chi.URLParam(r, "id")
	removed, err := s.svc.Registries().Tasks.Remove(r.Context(), tid)
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, removal{ID: tid, Removed: removed}, s.logger)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, stats, s.logger)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Registries().Settings.Get(r.Context())
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, settings, s.logger)
}

// handlePutSettings merges the body onto the current settings, so omitted
// keys keep their values.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	store := s.svc.Registries().Settings
	settings, err := store.Get(r.Context())
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	if err := decode(r, &settings); err != nil {
		fail(w, r, err, s.logger)
		return
	}
	if err := store.Save(r.Context(), settings); err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, settings, s.logger)
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Registries().Settings.Reset(r.Context())
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, settings, s.logger)
}
